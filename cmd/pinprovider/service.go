package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ipni/pin-provider/deploy"
	adminserver "github.com/ipni/pin-provider/server/admin/http"
	"github.com/urfave/cli/v2"
)

var ServiceCmd = &cli.Command{
	Name:        "service",
	Usage:       "Works with local service descriptors",
	Subcommands: []*cli.Command{serviceUploadSubCmd},
}

var serviceUploadSubCmd = &cli.Command{
	Name:      "upload",
	Usage:     "Uploads every module of a local service",
	ArgsUsage: "<service-name>",
	Description: `Reads <root>/<service-name>/deploy.json and uploads each module it lists to the
storage node at the given address. Module paths are relative to the descriptor.`,
	Flags: []cli.Flag{
		adminAPIFlag,
		nodeAddrFlag,
		serviceRootFlag,
		provideFlag,
	},
	Action: doServiceUpload,
}

func doServiceUpload(cctx *cli.Context) error {
	name := cctx.Args().First()
	if name == "" {
		return errors.New("service name must be specified")
	}
	svc, err := deploy.Load(serviceRootFlagValue, name)
	if err != nil {
		return err
	}
	log.Infow("Uploading service modules", "service", svc.Name, "modules", len(svc.Modules))

	fmt.Fprintf(cctx.App.Writer, "Service %s\n", svc.Name)
	for _, m := range svc.Modules {
		path, err := filepath.Abs(svc.ModulePath(m))
		if err != nil {
			return err
		}
		req := &adminserver.UploadReq{
			Addr:    nodeAddrFlagValue,
			Path:    path,
			Provide: provideFlagValue,
		}
		resp, err := doHttpPostReq(cctx.Context, "/admin/upload", req)
		if err != nil {
			return err
		}
		var res adminserver.UploadRes
		if err = decodeResp(resp, &res); err != nil {
			return fmt.Errorf("cannot upload module %s: %w", m.Name, err)
		}
		printUpload(cctx, m.Name, &res)
	}
	return nil
}
