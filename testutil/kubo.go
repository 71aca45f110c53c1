package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/test"
	"github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"
	"github.com/stretchr/testify/require"
)

// FakeKubo serves the subset of the Kubo RPC API used by the storage client, keeping
// blocks and pins in memory.
type FakeKubo struct {
	t      testing.TB
	srv    *httptest.Server
	PeerID peer.ID

	mu     sync.Mutex
	blocks map[string][]byte
	pins   map[string]string
	calls  map[string]int

	// Failure injection, guarded by mu.
	failAdd      bool
	failPinLs    string
	blockRmError string
	failBlockRm  bool
}

// NewFakeKubo starts a fake node that is closed when the test ends.
func NewFakeKubo(t testing.TB) *FakeKubo {
	f := &FakeKubo{
		t:      t,
		PeerID: test.RandPeerIDFatal(t),
		blocks: make(map[string][]byte),
		pins:   make(map[string]string),
		calls:  make(map[string]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v0/add", f.handleAdd)
	mux.HandleFunc("/api/v0/pin/add", f.handlePinAdd)
	mux.HandleFunc("/api/v0/pin/ls", f.handlePinLs)
	mux.HandleFunc("/api/v0/pin/rm", f.handlePinRm)
	mux.HandleFunc("/api/v0/block/rm", f.handleBlockRm)
	mux.HandleFunc("/api/v0/id", f.handleID)
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

// Multiaddr returns the node address including its /p2p suffix.
func (f *FakeKubo) Multiaddr() string {
	return f.TransportMultiaddr().String() + "/p2p/" + f.PeerID.String()
}

// TransportMultiaddr returns the node address without peer identity.
func (f *FakeKubo) TransportMultiaddr() multiaddr.Multiaddr {
	maddr, err := manet.FromNetAddr(f.srv.Listener.Addr())
	require.NoError(f.t, err)
	return maddr
}

// Close stops the node so that subsequent calls fail at transport level.
func (f *FakeKubo) Close() {
	f.srv.Close()
}

// Calls returns the number of calls made to the given RPC command, e.g. "pin/ls".
func (f *FakeKubo) Calls(cmd string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[cmd]
}

// IsPinned reports whether c is pinned on the node.
func (f *FakeKubo) IsPinned(c string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.pins[c]
	return ok
}

// HasBlock reports whether the node holds the block of c.
func (f *FakeKubo) HasBlock(c string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blocks[c]
	return ok
}

// Pin pins c with the given pin type without adding content.
func (f *FakeKubo) Pin(c, pinType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pins[c] = pinType
}

// FailAdd makes every add call fail.
func (f *FakeKubo) FailAdd() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAdd = true
}

// FailPinLs makes every pin listing fail with msg.
func (f *FakeKubo) FailPinLs(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPinLs = msg
}

// FailBlockRm makes every block removal call fail outright.
func (f *FakeKubo) FailBlockRm() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failBlockRm = true
}

// BlockRmError makes block removal report msg as a per-block error.
func (f *FakeKubo) BlockRmError(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blockRmError = msg
}

func (f *FakeKubo) count(cmd string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[cmd]++
}

func (f *FakeKubo) handleAdd(w http.ResponseWriter, r *http.Request) {
	f.count("add")
	f.mu.Lock()
	fail := f.failAdd
	f.mu.Unlock()
	if fail {
		respondErr(w, "add failed: repo is read-only")
		return
	}

	mr, err := r.MultipartReader()
	if err != nil {
		respondErr(w, err.Error())
		return
	}
	part, err := mr.NextPart()
	if err != nil {
		respondErr(w, err.Error())
		return
	}
	if part.FormName() != "file" || part.Header.Get("Content-Type") != "application/octet-stream" {
		respondErr(w, "file argument 'data' is required")
		return
	}
	data, err := io.ReadAll(part)
	if err != nil {
		respondErr(w, err.Error())
		return
	}
	version, _ := strconv.Atoi(r.URL.Query().Get("cid-version"))
	c := CidOf(f.t, data, version).String()

	f.mu.Lock()
	f.blocks[c] = data
	if r.URL.Query().Get("pin") == "true" {
		f.pins[c] = "recursive"
	}
	f.mu.Unlock()

	respond(w, map[string]string{"Name": c, "Hash": c, "Size": strconv.Itoa(len(data))})
}

func (f *FakeKubo) handlePinAdd(w http.ResponseWriter, r *http.Request) {
	f.count("pin/add")
	c := r.URL.Query().Get("arg")
	f.mu.Lock()
	_, ok := f.blocks[c]
	if ok {
		f.pins[c] = "recursive"
	}
	f.mu.Unlock()
	if !ok {
		respondErr(w, "pin: block was not found locally (offline): ipld: could not find "+c)
		return
	}
	respond(w, map[string][]string{"Pins": {c}})
}

func (f *FakeKubo) handlePinLs(w http.ResponseWriter, r *http.Request) {
	f.count("pin/ls")
	c := r.URL.Query().Get("arg")
	f.mu.Lock()
	fail := f.failPinLs
	pinType, ok := f.pins[c]
	f.mu.Unlock()
	switch {
	case fail != "":
		respondErr(w, fail)
	case !ok:
		respondErr(w, fmt.Sprintf("path '%s' is not pinned", c))
	default:
		respond(w, map[string]map[string]map[string]string{"Keys": {c: {"Type": pinType}}})
	}
}

func (f *FakeKubo) handlePinRm(w http.ResponseWriter, r *http.Request) {
	f.count("pin/rm")
	c := r.URL.Query().Get("arg")
	f.mu.Lock()
	_, ok := f.pins[c]
	delete(f.pins, c)
	f.mu.Unlock()
	if !ok {
		respondErr(w, "not pinned or pinned indirectly")
		return
	}
	respond(w, map[string][]string{"Pins": {c}})
}

func (f *FakeKubo) handleBlockRm(w http.ResponseWriter, r *http.Request) {
	f.count("block/rm")
	c := r.URL.Query().Get("arg")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failBlockRm {
		respondErr(w, "block rm: repo is locked")
		return
	}
	res := map[string]string{"Hash": c}
	switch {
	case f.blockRmError != "":
		res["Error"] = f.blockRmError
	case f.blocks[c] == nil:
		res["Error"] = "ipld: could not find " + c
	default:
		delete(f.blocks, c)
	}
	respond(w, res)
}

func (f *FakeKubo) handleID(w http.ResponseWriter, _ *http.Request) {
	f.count("id")
	respond(w, map[string]interface{}{
		"ID":              f.PeerID.String(),
		"Addresses":       []string{f.Multiaddr()},
		"AgentVersion":    "kubo/0.20.0/",
		"ProtocolVersion": "ipfs/0.1.0",
	})
}

func respond(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

func respondErr(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"Message": msg, "Code": 0, "Type": "error"})
}
