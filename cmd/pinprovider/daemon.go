package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	leveldb "github.com/ipfs/go-ds-leveldb"
	logging "github.com/ipfs/go-log/v2"
	"github.com/ipni/pin-provider/audit"
	"github.com/ipni/pin-provider/config"
	"github.com/ipni/pin-provider/index"
	"github.com/ipni/pin-provider/metrics"
	"github.com/ipni/pin-provider/orchestrator"
	adminserver "github.com/ipni/pin-provider/server/admin/http"
	"github.com/ipni/pin-provider/storage"
	"github.com/urfave/cli/v2"
)

var (
	ErrDaemonStart = errors.New("daemon did not start correctly")
	ErrDaemonStop  = errors.New("daemon did not stop gracefully")
)

const (
	// shutdownTimeout is the duration that a graceful shutdown has to complete
	shutdownTimeout = 5 * time.Second
)

var DaemonCmd = &cli.Command{
	Name:   "daemon",
	Usage:  "Starts the pin provider daemon",
	Flags:  daemonFlags,
	Action: daemonCommand,
}

func daemonCommand(cctx *cli.Context) error {
	err := logging.SetLogLevel("*", cctx.String("log-level"))
	if err != nil {
		return err
	}

	cfg, err := config.Load("")
	if err != nil {
		if errors.Is(err, config.ErrNotInitialized) {
			return errors.New("pin provider is not initialized\nTo initialize, run using the \"init\" command")
		}
		return fmt.Errorf("cannot load config file: %w", err)
	}

	ds, err := newDatastore(cfg.Datastore)
	if err != nil {
		return err
	}
	closers := []closer{{"audit datastore", func(context.Context) error { return ds.Close() }}}
	// abort releases whatever was acquired before a startup failure.
	abort := func(err error) error {
		_ = shutdown(context.Background(), closers)
		return err
	}

	o, err := orchestrator.New(index.NewInMemory(),
		orchestrator.WithJournal(audit.New(ds)),
		orchestrator.WithStorageOptions(storageOptions(cfg.Storage)...))
	if err != nil {
		return abort(err)
	}

	if cfg.Metrics.Enabled {
		metricsAddr, err := cfg.Metrics.ListenNetAddr()
		if err != nil {
			return abort(err)
		}
		metricsSvr, err := metrics.NewServer(metricsAddr)
		if err != nil {
			return abort(err)
		}
		closers = append(closers, closer{"metrics server", metricsSvr.Shutdown})
		if err = metricsSvr.Start(); err != nil {
			return abort(err)
		}
	}

	addr, err := cfg.AdminServer.ListenNetAddr()
	if err != nil {
		return abort(err)
	}
	adminSvr, err := adminserver.New(
		o,
		adminserver.WithListenAddr(addr),
		adminserver.WithReadTimeout(time.Duration(cfg.AdminServer.ReadTimeout)),
		adminserver.WithWriteTimeout(time.Duration(cfg.AdminServer.WriteTimeout)),
	)
	if err != nil {
		return abort(err)
	}
	closers = append(closers, closer{"admin server", adminSvr.Shutdown})
	log.Infow("admin server initialized", "address", cfg.AdminServer.ListenMultiaddr)

	adminErrChan := make(chan error, 1)
	fmt.Fprintf(cctx.App.ErrWriter, "Starting admin server on %s ...\n", cfg.AdminServer.ListenMultiaddr)
	go func() {
		adminErrChan <- adminSvr.Start()
	}()

	var finalErr error
	// Keep process running.
	select {
	case <-cctx.Done():
	case err = <-adminErrChan:
		log.Errorw("Failed to start admin server", "err", err)
		finalErr = ErrDaemonStart
	}

	log.Infow("Shutting down daemon")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	go func() {
		// Wait for context to be canceled. If timeout, then exit with error.
		<-shutdownCtx.Done()
		if shutdownCtx.Err() == context.DeadlineExceeded {
			fmt.Println("Timed out on shutdown, terminating...")
			os.Exit(-1)
		}
	}()

	if err = shutdown(shutdownCtx, closers); err != nil {
		finalErr = err
	}
	log.Infow("node stopped")
	return finalErr
}

// closer releases a resource held by the daemon.
type closer struct {
	name  string
	close func(context.Context) error
}

// shutdown runs closers in reverse order of acquisition.  It returns ErrDaemonStop if
// any of them failed.
func shutdown(ctx context.Context, closers []closer) error {
	var err error
	for i := len(closers) - 1; i >= 0; i-- {
		if cerr := closers[i].close(ctx); cerr != nil {
			log.Errorw("Error shutting down "+closers[i].name, "err", cerr)
			err = ErrDaemonStop
		}
	}
	return err
}

// storageOptions maps the storage config onto storage client options.
func storageOptions(cfg config.Storage) []storage.Option {
	return []storage.Option{
		storage.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.RPCTimeout)}),
		storage.WithCidVersion(cfg.CidVersion),
	}
}

// newDatastore opens the datastore backing the audit journal.
func newDatastore(cfg config.Datastore) (datastore.Batching, error) {
	switch cfg.Type {
	case config.DatastoreTypeMemory:
		return dssync.MutexWrap(datastore.NewMapDatastore()), nil
	case config.DatastoreTypeLevelDS:
		dataStorePath, err := config.Path("", cfg.Dir)
		if err != nil {
			return nil, err
		}
		if err = dirWritable(dataStorePath); err != nil {
			return nil, err
		}
		return leveldb.NewDatastore(dataStorePath, nil)
	default:
		return nil, fmt.Errorf("datastore type %q not supported", cfg.Type)
	}
}
