package main

import (
	"fmt"

	"github.com/ipni/pin-provider/config"
	"github.com/urfave/cli/v2"
)

var InitCmd = &cli.Command{
	Name:   "init",
	Usage:  "Initialize pin provider config file",
	Action: initCommand,
}

func initCommand(cctx *cli.Context) error {
	log.Info("Initializing pin provider config file")

	// Check that the config root exists and it writable.
	configRoot, err := config.PathRoot()
	if err != nil {
		return err
	}

	if err = dirWritable(configRoot); err != nil {
		return err
	}

	configFile, err := config.Filename(configRoot)
	if err != nil {
		return err
	}

	if fileExists(configFile) {
		return config.ErrInitialized
	}

	if err = config.Init().Save(configFile); err != nil {
		return err
	}
	fmt.Fprintf(cctx.App.Writer, "Initialized config file at %s\n", configFile)
	return nil
}
