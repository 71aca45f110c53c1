package main

import (
	"fmt"

	"github.com/ipfs/go-cid"
	pinprovider "github.com/ipni/pin-provider"
	adminserver "github.com/ipni/pin-provider/server/admin/http"
	"github.com/urfave/cli/v2"
)

var ExistsCmd = &cli.Command{
	Name:  "exists",
	Usage: "Checks whether content is pinned on a storage node",
	Flags: []cli.Flag{
		adminAPIFlag,
		nodeAddrFlag,
		cidFlag,
	},
	Action: doExists,
}

func doExists(cctx *cli.Context) error {
	c, err := cid.Decode(cidFlagValue)
	if err != nil {
		return fmt.Errorf("invalid cid: %w", err)
	}
	resp, err := doHttpPostReq(cctx.Context, "/admin/exists", &adminserver.ExistsReq{Addr: nodeAddrFlagValue, Cid: c})
	if err != nil {
		return err
	}
	var res adminserver.ExistsRes
	if err = decodeResp(resp, &res); err != nil {
		return err
	}
	state, err := pinprovider.ParsePinState(res.State)
	if err != nil {
		return fmt.Errorf("daemon reported %w", err)
	}
	fmt.Fprintf(cctx.App.Writer, "%s: %s\n", c, state)
	if res.Error != "" {
		fmt.Fprintf(cctx.App.Writer, "\tError: %s\n", res.Error)
	}
	return nil
}
