package main

import (
	"fmt"
	"path/filepath"

	adminserver "github.com/ipni/pin-provider/server/admin/http"
	"github.com/urfave/cli/v2"
)

var UploadCmd = &cli.Command{
	Name:  "upload",
	Usage: "Uploads and pins content on a storage node",
	Description: `Uploads either a local file or literal data through the daemon to the storage node
at the given address, and pins it recursively.

With the provide option, the storage node is also registered in the provider index of the
daemon as a provider of the uploaded content.`,
	Flags: []cli.Flag{
		adminAPIFlag,
		nodeAddrFlag,
		filePathFlag,
		dataFlag,
		provideFlag,
	},
	Before: beforeUpload,
	Action: doUpload,
}

func beforeUpload(cctx *cli.Context) error {
	if cctx.IsSet(filePathFlag.Name) == cctx.IsSet(dataFlag.Name) {
		return fmt.Errorf("exactly one of %s or %s must be set", filePathFlag.Name, dataFlag.Name)
	}
	return nil
}

func doUpload(cctx *cli.Context) error {
	req := &adminserver.UploadReq{
		Addr:    nodeAddrFlagValue,
		Provide: provideFlagValue,
	}
	if filePathFlagValue != "" {
		// The daemon resolves paths relative to its own working directory.
		abs, err := filepath.Abs(filePathFlagValue)
		if err != nil {
			return err
		}
		req.Path = abs
	} else {
		req.Data = []byte(dataFlagValue)
	}

	resp, err := doHttpPostReq(cctx.Context, "/admin/upload", req)
	if err != nil {
		return err
	}
	var res adminserver.UploadRes
	if err = decodeResp(resp, &res); err != nil {
		return err
	}
	printUpload(cctx, "", &res)
	return nil
}

func printUpload(cctx *cli.Context, label string, res *adminserver.UploadRes) {
	if label != "" {
		fmt.Fprintf(cctx.App.Writer, "%s: %s\n", label, res.Cid)
	} else {
		fmt.Fprintf(cctx.App.Writer, "Uploaded content\n\tCID: %s\n", res.Cid)
	}
	if res.Warning != "" {
		fmt.Fprintf(cctx.App.Writer, "\tWarning: %s\n", res.Warning)
	}
}
