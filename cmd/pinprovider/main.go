package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	logging "github.com/ipfs/go-log/v2"
	pinprovider "github.com/ipni/pin-provider"
	"github.com/urfave/cli/v2"
)

var log = logging.Logger("pin-provider/cli")

func main() {
	os.Exit(run())
}

func run() int {
	// Set up a context that is canceled when the command is interrupted
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up a signal handler to cancel the context
	go func() {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, syscall.SIGTERM, syscall.SIGINT)
		select {
		case <-interrupt:
			cancel()
			fmt.Println("Received interrupt signal, shutting down...")
			fmt.Println("(Hit CTRL-C again to force-shutdown the daemon.)")
		case <-ctx.Done():
		}
		// Allow any further SIGTERM or SIGINT to kill the process
		signal.Stop(interrupt)
	}()

	app := newApp()
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(app.ErrWriter, err)
		return 1
	}
	return 0
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "pinprovider",
		Usage:   "Pin content on storage nodes and track who provides it",
		Version: pinprovider.Version,
		Commands: []*cli.Command{
			AuditCmd,
			DaemonCmd,
			ExistsCmd,
			IDCmd,
			IndexCmd,
			InitCmd,
			RemoveCmd,
			ServiceCmd,
			UploadCmd,
		},
	}
}
