package main

import (
	"fmt"
	"net/url"

	adminserver "github.com/ipni/pin-provider/server/admin/http"
	"github.com/urfave/cli/v2"
)

var IndexCmd = &cli.Command{
	Name:  "index",
	Usage: "Manages the provider index of the daemon",
	Subcommands: []*cli.Command{
		indexAddSubCmd,
		indexGetSubCmd,
		indexRemoveSubCmd,
	},
}

var indexAddSubCmd = &cli.Command{
	Name:   "add",
	Usage:  "Registers a peer as provider of content",
	Flags:  []cli.Flag{adminAPIFlag, cidFlag, peerIDFlag, providerAddrFlag},
	Action: doIndexAdd,
}

var indexGetSubCmd = &cli.Command{
	Name:   "get",
	Usage:  "Lists the providers of content",
	Flags:  []cli.Flag{adminAPIFlag, cidFlag},
	Action: doIndexGet,
}

var indexRemoveSubCmd = &cli.Command{
	Name:    "remove",
	Aliases: []string{"rm"},
	Usage:   "Deregisters a peer as provider of content",
	Flags:   []cli.Flag{adminAPIFlag, cidFlag, peerIDFlag, providerAddrFlag},
	Action:  doIndexRemove,
}

func doIndexAdd(cctx *cli.Context) error {
	changed, err := postIndexReq(cctx, "/admin/index/add")
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(cctx.App.Writer, "Provider record already present")
		return nil
	}
	fmt.Fprintln(cctx.App.Writer, "Added provider record")
	return nil
}

func doIndexRemove(cctx *cli.Context) error {
	changed, err := postIndexReq(cctx, "/admin/index/remove")
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(cctx.App.Writer, "No matching provider record")
		return nil
	}
	fmt.Fprintln(cctx.App.Writer, "Removed provider record")
	return nil
}

func postIndexReq(cctx *cli.Context, path string) (bool, error) {
	req := &adminserver.IndexReq{
		Cid:       cidFlagValue,
		PeerID:    peerIDFlagValue,
		Multiaddr: providerAddrFlagValue,
	}
	resp, err := doHttpPostReq(cctx.Context, path, req)
	if err != nil {
		return false, err
	}
	var res adminserver.IndexRes
	if err = decodeResp(resp, &res); err != nil {
		return false, err
	}
	return res.Changed, nil
}

func doIndexGet(cctx *cli.Context) error {
	resp, err := doHttpGetReq(cctx.Context, "/admin/index/"+url.PathEscape(cidFlagValue))
	if err != nil {
		return err
	}
	var res adminserver.ProvidersRes
	if err = decodeResp(resp, &res); err != nil {
		return err
	}
	if len(res.Providers) == 0 {
		fmt.Fprintf(cctx.App.Writer, "No known providers of %s\n", cidFlagValue)
		return nil
	}
	for _, p := range res.Providers {
		fmt.Fprintf(cctx.App.Writer, "%s\t%s\n", p.PeerID, p.Multiaddr)
	}
	return nil
}
