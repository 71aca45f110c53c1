package main

import (
	"fmt"

	adminserver "github.com/ipni/pin-provider/server/admin/http"
	"github.com/urfave/cli/v2"
)

var IDCmd = &cli.Command{
	Name:  "id",
	Usage: "Shows the identity of a storage node",
	Flags: []cli.Flag{
		adminAPIFlag,
		nodeAddrFlag,
	},
	Action: doID,
}

func doID(cctx *cli.Context) error {
	resp, err := doHttpPostReq(cctx.Context, "/admin/id", &adminserver.IDReq{Addr: nodeAddrFlagValue})
	if err != nil {
		return err
	}
	var res adminserver.IDRes
	if err = decodeResp(resp, &res); err != nil {
		return err
	}
	w := cctx.App.Writer
	fmt.Fprintf(w, "ID: %s\n", res.ID)
	fmt.Fprintf(w, "Agent: %s\n", res.AgentVersion)
	fmt.Fprintf(w, "Protocol: %s\n", res.ProtocolVersion)
	fmt.Fprintln(w, "Addresses:")
	for _, a := range res.Addrs {
		fmt.Fprintf(w, "\t%s\n", a)
	}
	return nil
}
