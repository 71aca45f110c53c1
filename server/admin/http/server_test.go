package adminserver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/failstore"
	dssync "github.com/ipfs/go-datastore/sync"
	pinprovider "github.com/ipni/pin-provider"
	"github.com/ipni/pin-provider/audit"
	"github.com/ipni/pin-provider/index"
	"github.com/ipni/pin-provider/orchestrator"
	"github.com/ipni/pin-provider/testutil"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	o, err := orchestrator.New(index.NewInMemory(),
		orchestrator.WithJournal(audit.New(dssync.MutexWrap(datastore.NewMapDatastore()))))
	require.NoError(t, err)
	s, err := New(o, WithListenAddr("127.0.0.1:0"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.l.Close() })
	return s
}

func do(t *testing.T, s *Server, method, path string, req io.WriterTo) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if req != nil {
		_, err := req.WriteTo(&body)
		require.NoError(t, err)
	}
	r, err := http.NewRequest(method, path, &body)
	require.NoError(t, err)
	if req != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rr, r)
	return rr
}

func TestUploadExistsRemove(t *testing.T) {
	node := testutil.NewFakeKubo(t)
	s := newTestServer(t)

	rr := do(t, s, http.MethodPost, "/admin/upload", &UploadReq{Addr: node.Multiaddr(), Data: []byte("lobster"), Provide: true})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var upRes UploadRes
	_, err := upRes.ReadFrom(rr.Body)
	require.NoError(t, err)
	require.True(t, upRes.Cid.Defined())
	require.Empty(t, upRes.Warning)

	rr = do(t, s, http.MethodGet, "/admin/index/"+upRes.Cid.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var provRes ProvidersRes
	_, err = provRes.ReadFrom(rr.Body)
	require.NoError(t, err)
	require.Equal(t, []pinprovider.ProviderRecord{{PeerID: node.PeerID.String(), Multiaddr: node.Multiaddr()}}, provRes.Providers)

	rr = do(t, s, http.MethodPost, "/admin/exists", &ExistsReq{Addr: node.Multiaddr(), Cid: upRes.Cid})
	require.Equal(t, http.StatusOK, rr.Code)
	var exRes ExistsRes
	_, err = exRes.ReadFrom(rr.Body)
	require.NoError(t, err)
	require.Equal(t, "pinned", exRes.State)

	rr = do(t, s, http.MethodPost, "/admin/remove", &RemoveReq{Addr: node.Multiaddr(), Cid: upRes.Cid, Unprovide: true})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var rmRes RemoveRes
	_, err = rmRes.ReadFrom(rr.Body)
	require.NoError(t, err)
	require.Equal(t, []cid.Cid{upRes.Cid}, rmRes.Removed)
	require.Empty(t, rmRes.BlockErrors)

	rr = do(t, s, http.MethodGet, "/admin/index/"+upRes.Cid.String(), nil)
	provRes = ProvidersRes{}
	_, err = provRes.ReadFrom(rr.Body)
	require.NoError(t, err)
	require.Empty(t, provRes.Providers)

	rr = do(t, s, http.MethodGet, "/admin/audit", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var auditRes AuditRes
	_, err = auditRes.ReadFrom(rr.Body)
	require.NoError(t, err)
	require.Len(t, auditRes.Entries, 1)
	require.Equal(t, "was pinned isn't pinned anymore", auditRes.Entries[0].Transition)
}

func TestUploadFile(t *testing.T) {
	node := testutil.NewFakeKubo(t)
	s := newTestServer(t)

	path := filepath.Join(t.TempDir(), "module.wasm")
	require.NoError(t, os.WriteFile(path, []byte("module"), 0o644))
	rr := do(t, s, http.MethodPost, "/admin/upload", &UploadReq{Addr: node.Multiaddr(), Path: path})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(t, s, http.MethodPost, "/admin/upload", &UploadReq{Addr: node.Multiaddr(), Path: path + ".missing"})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, s, http.MethodPost, "/admin/upload", &UploadReq{Addr: node.Multiaddr(), Path: path, Data: []byte("both")})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, s, http.MethodPost, "/admin/upload", &UploadReq{Addr: node.Multiaddr(), Provide: true})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "exactly one of path and data must be set")
	require.Equal(t, 1, node.Calls("add"))
}

func TestUploadFailures(t *testing.T) {
	node := testutil.NewFakeKubo(t)
	s := newTestServer(t)

	rr := do(t, s, http.MethodPost, "/admin/upload", &UploadReq{Addr: "/ip4/127.0.0.1/udp/5001", Data: []byte("x")})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	node.FailAdd()
	rr = do(t, s, http.MethodPost, "/admin/upload", &UploadReq{Addr: node.Multiaddr(), Data: []byte("x")})
	require.Equal(t, http.StatusBadGateway, rr.Code)
	require.Contains(t, rr.Body.String(), "failed to upload")
}

func TestUploadWarning(t *testing.T) {
	node := testutil.NewFakeKubo(t)
	s := newTestServer(t)
	node.FailPinLs("context deadline exceeded")

	rr := do(t, s, http.MethodPost, "/admin/upload", &UploadReq{Addr: node.Multiaddr(), Data: []byte("x")})
	require.Equal(t, http.StatusOK, rr.Code)
	var res UploadRes
	_, err := res.ReadFrom(rr.Body)
	require.NoError(t, err)
	require.Contains(t, res.Warning, "context deadline exceeded")
}

func TestExistsUnknown(t *testing.T) {
	node := testutil.NewFakeKubo(t)
	s := newTestServer(t)
	node.FailPinLs("context deadline exceeded")

	rr := do(t, s, http.MethodPost, "/admin/exists", &ExistsReq{Addr: node.Multiaddr(), Cid: testutil.RandomCids(t, 1)[0]})
	require.Equal(t, http.StatusOK, rr.Code)
	var res ExistsRes
	_, err := res.ReadFrom(rr.Body)
	require.NoError(t, err)
	require.Equal(t, "unknown", res.State)
	require.NotEmpty(t, res.Error)
}

func TestRemoveFailure(t *testing.T) {
	node := testutil.NewFakeKubo(t)
	s := newTestServer(t)
	node.FailBlockRm()

	rr := do(t, s, http.MethodPost, "/admin/remove", &RemoveReq{Addr: node.Multiaddr(), Cid: testutil.RandomCids(t, 1)[0]})
	require.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestRemove_DeregistrationFailureWarns(t *testing.T) {
	node := testutil.NewFakeKubo(t)
	var failing atomic.Bool
	fs := failstore.NewFailstore(dssync.MutexWrap(datastore.NewMapDatastore()), func(op string) error {
		if failing.Load() && op == "delete" {
			return errors.New("disk full")
		}
		return nil
	})
	o, err := orchestrator.New(index.New(fs))
	require.NoError(t, err)
	s, err := New(o, WithListenAddr("127.0.0.1:0"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.l.Close() })

	rr := do(t, s, http.MethodPost, "/admin/upload", &UploadReq{Addr: node.Multiaddr(), Data: []byte("sticky"), Provide: true})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var upRes UploadRes
	_, err = upRes.ReadFrom(rr.Body)
	require.NoError(t, err)

	failing.Store(true)
	rr = do(t, s, http.MethodPost, "/admin/remove", &RemoveReq{Addr: node.Multiaddr(), Cid: upRes.Cid, Unprovide: true})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var rmRes RemoveRes
	_, err = rmRes.ReadFrom(rr.Body)
	require.NoError(t, err)
	require.Equal(t, []cid.Cid{upRes.Cid}, rmRes.Removed)
	require.Contains(t, rmRes.Warning, "disk full")
}

func TestIndexAdd_ConcurrentSameRecord(t *testing.T) {
	s := newTestServer(t)

	const n = 16
	var added atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rr := do(t, s, http.MethodPost, "/admin/index/add", &IndexReq{Cid: "bafy123", PeerID: "peerA", Multiaddr: "/addrA"})
			var res IndexRes
			if _, err := res.ReadFrom(rr.Body); err == nil && res.Changed {
				added.Add(1)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), added.Load())
}

func TestID(t *testing.T) {
	node := testutil.NewFakeKubo(t)
	s := newTestServer(t)

	rr := do(t, s, http.MethodPost, "/admin/id", &IDReq{Addr: node.TransportMultiaddr().String()})
	require.Equal(t, http.StatusOK, rr.Code)
	var res IDRes
	_, err := res.ReadFrom(rr.Body)
	require.NoError(t, err)
	require.Equal(t, node.PeerID.String(), res.ID)
	require.Equal(t, []string{node.Multiaddr()}, res.Addrs)

	node.Close()
	rr = do(t, s, http.MethodPost, "/admin/id", &IDReq{Addr: node.Multiaddr()})
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestIndex(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodPost, "/admin/index/add", &IndexReq{Cid: "bafy123", PeerID: "peerA", Multiaddr: "/addrA"})
	require.Equal(t, http.StatusOK, rr.Code)
	var res IndexRes
	_, err := res.ReadFrom(rr.Body)
	require.NoError(t, err)
	require.True(t, res.Changed)

	rr = do(t, s, http.MethodPost, "/admin/index/add", &IndexReq{Cid: "bafy123", PeerID: "peerA", Multiaddr: "/addrA"})
	_, err = res.ReadFrom(rr.Body)
	require.NoError(t, err)
	require.False(t, res.Changed)

	rr = do(t, s, http.MethodPost, "/admin/index/remove", &IndexReq{Cid: "bafy123", PeerID: "peerA", Multiaddr: "/addrB"})
	_, err = res.ReadFrom(rr.Body)
	require.NoError(t, err)
	require.False(t, res.Changed)

	rr = do(t, s, http.MethodPost, "/admin/index/remove", &IndexReq{Cid: "bafy123", PeerID: "peerA", Multiaddr: "/addrA"})
	_, err = res.ReadFrom(rr.Body)
	require.NoError(t, err)
	require.True(t, res.Changed)

	rr = do(t, s, http.MethodPost, "/admin/index/add", &IndexReq{Cid: "bafy123"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodGet, "/admin/upload", &UploadReq{})
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = do(t, s, http.MethodPost, "/admin/index/add", nil)
	require.NotEqual(t, http.StatusOK, rr.Code)
}

func TestStartShutdown(t *testing.T) {
	s := newTestServer(t)
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	resp, err := http.Get("http://" + s.Addr().String() + "/admin/audit")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Shutdown(context.Background()))
	require.ErrorIs(t, <-errCh, http.ErrServerClosed)
}

func TestUploadTooLarge(t *testing.T) {
	o, err := orchestrator.New(index.NewInMemory())
	require.NoError(t, err)
	s, err := New(o, WithListenAddr("127.0.0.1:0"), WithMaxUploadBytes(16))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.l.Close() })

	rr := do(t, s, http.MethodPost, "/admin/upload", &UploadReq{Addr: "/ip4/127.0.0.1/tcp/5001", Data: []byte("far more than sixteen bytes")})
	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	_, err = New(o, WithMaxUploadBytes(0))
	require.Error(t, err)
}
