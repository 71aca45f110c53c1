// Command bumpversion checks that the package.json manifests of the internal packages
// reference each other at their current versions, and bumps those versions with a postfix.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	logging "github.com/ipfs/go-log/v2"
	pinprovider "github.com/ipni/pin-provider"
	"github.com/ipni/pin-provider/manifest"
	"github.com/urfave/cli/v2"
)

var log = logging.Logger("pin-provider/bumpversion")

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	app := &cli.App{
		Name:    "bumpversion",
		Usage:   "Check and bump internal package versions",
		Version: pinprovider.Version,
		Flags:   []cli.Flag{rootFlag},
		Commands: []*cli.Command{
			bumpCmd,
			checkCmd,
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(app.ErrWriter, err)
		return 1
	}
	return 0
}

var (
	rootFlagValue string
	rootFlag      = &cli.StringFlag{
		Name:        "root",
		Usage:       "Directory searched for package.json manifests",
		Value:       manifest.DefaultRoot,
		Destination: &rootFlagValue,
	}
)

var bumpCmd = &cli.Command{
	Name:      "bump-version",
	Usage:     "Append a postfix to every internal package version and reference",
	ArgsUsage: "<postfix>",
	Action: func(cctx *cli.Context) error {
		postfix := cctx.Args().First()
		if postfix == "" || cctx.Args().Len() != 1 {
			return errors.New(`usage: bumpversion bump-version <postfix>`)
		}
		if err := manifest.BumpVersions(cctx.Context, rootFlagValue, postfix); err != nil {
			return err
		}
		log.Info("Done")
		fmt.Fprintf(cctx.App.Writer, "Bumped versions with postfix %q\n", postfix)
		return nil
	},
}

var checkCmd = &cli.Command{
	Name:  "check",
	Usage: "Check that internal package references are consistent",
	Action: func(cctx *cli.Context) error {
		manifests, _, err := manifest.CheckTree(cctx.Context, rootFlagValue)
		if err != nil {
			return err
		}
		fmt.Fprintf(cctx.App.Writer, "%d manifests are consistent\n", len(manifests))
		return nil
	},
}
