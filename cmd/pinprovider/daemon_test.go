package main

import (
	"context"
	"fmt"
	"net"
	"path/filepath"
	"testing"

	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	leveldb "github.com/ipfs/go-ds-leveldb"
	"github.com/ipni/pin-provider/config"
	"github.com/ipni/pin-provider/index"
	"github.com/ipni/pin-provider/orchestrator"
	"github.com/ipni/pin-provider/testutil"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestDaemon_StartupFailureReleasesResources(t *testing.T) {
	root := t.TempDir()
	t.Setenv(config.EnvDir, root)

	// Hold the admin port so the daemon cannot listen on it.
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = taken.Close() })
	metricsPort := freePort(t)

	dsDir := filepath.Join(root, "journal")
	cfg := config.Init()
	cfg.Datastore = config.Datastore{Type: config.DatastoreTypeLevelDS, Dir: dsDir}
	cfg.Metrics.ListenMultiaddr = fmt.Sprintf("/ip4/127.0.0.1/tcp/%d", metricsPort)
	cfg.AdminServer.ListenMultiaddr = fmt.Sprintf("/ip4/127.0.0.1/tcp/%d", taken.Addr().(*net.TCPAddr).Port)
	configFile, err := config.Filename(root)
	require.NoError(t, err)
	require.NoError(t, cfg.Save(configFile))

	_, err = runCmd(t, "daemon")
	require.Error(t, err)

	ds, err := leveldb.NewDatastore(dsDir, nil)
	require.NoError(t, err, "journal datastore still locked")
	require.NoError(t, ds.Close())

	l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", metricsPort))
	require.NoError(t, err, "metrics listener still open")
	require.NoError(t, l.Close())
}

func TestStorageOptions(t *testing.T) {
	node := testutil.NewFakeKubo(t)
	ctx := context.Background()
	data := []byte("fish")

	cfg := config.NewStorage()
	cfg.CidVersion = 1
	o, err := orchestrator.New(index.NewInMemory(), orchestrator.WithStorageOptions(storageOptions(cfg)...))
	require.NoError(t, err)
	res, err := o.Upload(ctx, node.Multiaddr(), data)
	require.NoError(t, err)
	require.Equal(t, testutil.CidOf(t, data, 1), res.Cid)

	cfg.CidVersion = 2
	_, err = orchestrator.New(index.NewInMemory(), orchestrator.WithStorageOptions(storageOptions(cfg)...))
	require.Error(t, err)
}

func TestNewDatastore_UnknownType(t *testing.T) {
	_, err := newDatastore(config.Datastore{Type: "badger"})
	require.ErrorContains(t, err, `datastore type "badger" not supported`)

	ds, err := newDatastore(config.Datastore{Type: config.DatastoreTypeMemory})
	require.NoError(t, err)
	require.IsType(t, dssync.MutexWrap(datastore.NewMapDatastore()), ds)
}
