package main

import (
	"fmt"
	"time"

	adminserver "github.com/ipni/pin-provider/server/admin/http"
	"github.com/urfave/cli/v2"
)

var AuditCmd = &cli.Command{
	Name:   "audit",
	Usage:  "Lists the pin state transitions recorded around removals",
	Flags:  []cli.Flag{adminAPIFlag},
	Action: doAudit,
}

func doAudit(cctx *cli.Context) error {
	resp, err := doHttpGetReq(cctx.Context, "/admin/audit")
	if err != nil {
		return err
	}
	var res adminserver.AuditRes
	if err = decodeResp(resp, &res); err != nil {
		return err
	}
	for _, e := range res.Entries {
		fmt.Fprintf(cctx.App.Writer, "%s\t%s\t%s\t%s\n", e.Time.Format(time.RFC3339), e.Cid, e.Peer, e.Transition)
		if e.Err != "" {
			fmt.Fprintf(cctx.App.Writer, "\t%s\n", e.Err)
		}
	}
	return nil
}
