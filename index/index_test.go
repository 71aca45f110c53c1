package index_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	logging "github.com/ipfs/go-log/v2"
	pinprovider "github.com/ipni/pin-provider"
	"github.com/ipni/pin-provider/index"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func mustAdd(t *testing.T, subject *index.Index, contentID, peerID, maddr string) {
	_, err := subject.Add(context.Background(), contentID, peerID, maddr)
	require.NoError(t, err)
}

func TestAddGet_SingleRecord(t *testing.T) {
	ctx := context.Background()
	subject := index.NewInMemory()

	mustAdd(t, subject, "bafy123", "peerA", "/ip4/1.2.3.4/tcp/4001/p2p/peerA")

	got, err := subject.Get(ctx, "bafy123")
	require.NoError(t, err)
	require.Equal(t, []pinprovider.ProviderRecord{
		{PeerID: "peerA", Multiaddr: "/ip4/1.2.3.4/tcp/4001/p2p/peerA"},
	}, got)
}

func TestAdd_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	subject := index.NewInMemory()

	added, err := subject.Add(ctx, "bafyXYZ", "peerA", "/addrA")
	require.NoError(t, err)
	require.True(t, added)
	added, err = subject.Add(ctx, "bafyXYZ", "peerA", "/addrA")
	require.NoError(t, err)
	require.False(t, added)

	got, err := subject.Get(ctx, "bafyXYZ")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestAdd_DistinctRecords(t *testing.T) {
	ctx := context.Background()
	subject := index.NewInMemory()
	r1 := pinprovider.ProviderRecord{PeerID: "peerA", Multiaddr: "/addrA"}
	r2 := pinprovider.ProviderRecord{PeerID: "peerA", Multiaddr: "/addrB"}

	mustAdd(t, subject, "bafyXYZ", r1.PeerID, r1.Multiaddr)
	mustAdd(t, subject, "bafyXYZ", r2.PeerID, r2.Multiaddr)

	got, err := subject.Get(ctx, "bafyXYZ")
	require.NoError(t, err)
	require.ElementsMatch(t, []pinprovider.ProviderRecord{r1, r2}, got)
}

func TestGet_UnknownCidIsEmpty(t *testing.T) {
	subject := index.NewInMemory()
	got, err := subject.Get(context.Background(), "never-seen")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestGet_DoesNotMixContentIDs(t *testing.T) {
	ctx := context.Background()
	subject := index.NewInMemory()
	mustAdd(t, subject, "bafy", "peerA", "/addrA")
	mustAdd(t, subject, "bafy1", "peerB", "/addrB")
	mustAdd(t, subject, "with/slash", "peerC", "/addrC")

	got, err := subject.Get(ctx, "bafy")
	require.NoError(t, err)
	require.Equal(t, []pinprovider.ProviderRecord{{PeerID: "peerA", Multiaddr: "/addrA"}}, got)

	got, err = subject.Get(ctx, "with/slash")
	require.NoError(t, err)
	require.Equal(t, []pinprovider.ProviderRecord{{PeerID: "peerC", Multiaddr: "/addrC"}}, got)
}

func TestRemove_NoMatchLeavesIndexUnchanged(t *testing.T) {
	ctx := context.Background()
	subject := index.NewInMemory()
	mustAdd(t, subject, "bafyXYZ", "peerB", "/addrB")

	removed, err := subject.Remove(ctx, "bafyXYZ", "peerA", "/addrA")
	require.NoError(t, err)
	require.False(t, removed)

	// Partial matches are not removed either.
	removed, err = subject.Remove(ctx, "bafyXYZ", "peerB", "/addrA")
	require.NoError(t, err)
	require.False(t, removed)

	removed, err = subject.Remove(ctx, "unknown", "peerB", "/addrB")
	require.NoError(t, err)
	require.False(t, removed)

	got, err := subject.Get(ctx, "bafyXYZ")
	require.NoError(t, err)
	require.Equal(t, []pinprovider.ProviderRecord{{PeerID: "peerB", Multiaddr: "/addrB"}}, got)
}

func TestRemove_LeavesOtherRecords(t *testing.T) {
	ctx := context.Background()
	subject := index.NewInMemory()
	mustAdd(t, subject, "bafyXYZ", "peerA", "/addrA")
	mustAdd(t, subject, "bafyXYZ", "peerB", "/addrB")

	removed, err := subject.Remove(ctx, "bafyXYZ", "peerA", "/addrA")
	require.NoError(t, err)
	require.True(t, removed)

	got, err := subject.Get(ctx, "bafyXYZ")
	require.NoError(t, err)
	require.Equal(t, []pinprovider.ProviderRecord{{PeerID: "peerB", Multiaddr: "/addrB"}}, got)
}

func TestGet_ReturnsSnapshot(t *testing.T) {
	ctx := context.Background()
	ds := dssync.MutexWrap(datastore.NewMapDatastore())
	subject := index.New(ds)
	mustAdd(t, subject, "bafy", "peerA", "/addrA")

	got, err := subject.Get(ctx, "bafy")
	require.NoError(t, err)
	got[0].PeerID = "mutated"
	mustAdd(t, subject, "bafy", "peerB", "/addrB")

	again, err := subject.Get(ctx, "bafy")
	require.NoError(t, err)
	require.ElementsMatch(t, []pinprovider.ProviderRecord{
		{PeerID: "peerA", Multiaddr: "/addrA"},
		{PeerID: "peerB", Multiaddr: "/addrB"},
	}, again)
}

func TestConcurrentAdds_AreAllReflected(t *testing.T) {
	ctx := context.Background()
	subject := index.NewInMemory()

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			peer := fmt.Sprintf("peer-%d", i)
			mustAdd(t, subject, "bafyShared", peer, "/ip4/10.0.0.1/tcp/4001/p2p/"+peer)
			// Duplicate adds race with distinct ones.
			mustAdd(t, subject, "bafyShared", peer, "/ip4/10.0.0.1/tcp/4001/p2p/"+peer)
		}(i)
	}
	wg.Wait()

	got, err := subject.Get(ctx, "bafyShared")
	require.NoError(t, err)
	require.Len(t, got, n)
}

func TestConcurrentAdds_OnlyOneReportsAdded(t *testing.T) {
	ctx := context.Background()
	subject := index.NewInMemory()

	const n = 16
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		added int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := subject.Add(ctx, "bafyXYZ", "peerA", "/addrA")
			require.NoError(t, err)
			if ok {
				mu.Lock()
				added++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, added)
}

func TestConcurrentAddRemove_SameRecord(t *testing.T) {
	ctx := context.Background()
	subject := index.NewInMemory()
	mustAdd(t, subject, "bafyXYZ", "peerB", "/addrB")

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := subject.Add(ctx, "bafyXYZ", "peerA", "/addrA")
			require.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := subject.Remove(ctx, "bafyXYZ", "peerA", "/addrA")
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := subject.Get(ctx, "bafyXYZ")
	require.NoError(t, err)
	// Whichever mutation ran last wins; the unrelated record survives either way.
	require.Contains(t, got, pinprovider.ProviderRecord{PeerID: "peerB", Multiaddr: "/addrB"})
	require.LessOrEqual(t, len(got), 2)

	// The survivor of the race can still be removed exactly once.
	removed, err := subject.Remove(ctx, "bafyXYZ", "peerA", "/addrA")
	require.NoError(t, err)
	require.Equal(t, len(got) == 2, removed)
}

func TestRemove_NoMatchEmitsNoLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logging.SetPrimaryCore(core)
	t.Cleanup(func() { logging.SetPrimaryCore(zapcore.NewNopCore()) })
	require.NoError(t, logging.SetLogLevel("pin-provider/index", "debug"))

	ctx := context.Background()
	subject := index.NewInMemory()
	mustAdd(t, subject, "bafyXYZ", "peerB", "/addrB")
	logs.TakeAll()

	removed, err := subject.Remove(ctx, "bafyXYZ", "peerA", "/addrA")
	require.NoError(t, err)
	require.False(t, removed)
	require.Zero(t, logs.Filter(func(e observer.LoggedEntry) bool {
		return e.LoggerName == "pin-provider/index"
	}).Len())

	removed, err = subject.Remove(ctx, "bafyXYZ", "peerB", "/addrB")
	require.NoError(t, err)
	require.True(t, removed)
	require.Equal(t, 1, logs.FilterMessage("Removed from index").Len())
}
