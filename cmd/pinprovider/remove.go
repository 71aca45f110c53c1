package main

import (
	"fmt"

	"github.com/ipfs/go-cid"
	adminserver "github.com/ipni/pin-provider/server/admin/http"
	"github.com/urfave/cli/v2"
)

var RemoveCmd = &cli.Command{
	Name:    "remove",
	Aliases: []string{"rm"},
	Usage:   "Unpins content and deletes its blocks on a storage node",
	Description: `Unpins the content and forcibly removes its blocks. Failure to unpin does not stop
the block removal, and blocks that fail to be removed are listed in the output.

With the unprovide option, the storage node is deregistered from the provider index of the
daemon once it no longer reports the content as pinned.`,
	Flags: []cli.Flag{
		adminAPIFlag,
		nodeAddrFlag,
		cidFlag,
		unprovideFlag,
	},
	Action: doRemove,
}

func doRemove(cctx *cli.Context) error {
	c, err := cid.Decode(cidFlagValue)
	if err != nil {
		return fmt.Errorf("invalid cid: %w", err)
	}
	req := &adminserver.RemoveReq{
		Addr:      nodeAddrFlagValue,
		Cid:       c,
		Unprovide: unprovideFlagValue,
	}
	resp, err := doHttpPostReq(cctx.Context, "/admin/remove", req)
	if err != nil {
		return err
	}
	var res adminserver.RemoveRes
	if err = decodeResp(resp, &res); err != nil {
		return err
	}

	w := cctx.App.Writer
	fmt.Fprintf(w, "Removed %d block(s)\n", len(res.Removed))
	for _, r := range res.Removed {
		fmt.Fprintf(w, "\t%s\n", r)
	}
	if res.UnpinError != "" {
		fmt.Fprintf(w, "Failed to unpin: %s\n", res.UnpinError)
	}
	if len(res.BlockErrors) != 0 {
		fmt.Fprintf(w, "Failed to remove %d block(s)\n", len(res.BlockErrors))
		for _, be := range res.BlockErrors {
			fmt.Fprintf(w, "\t%s: %s\n", be.Hash, be.Error)
		}
	}
	if res.Warning != "" {
		fmt.Fprintf(w, "Warning: %s\n", res.Warning)
	}
	return nil
}
