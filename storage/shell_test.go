package storage_test

import (
	"bytes"
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	pinprovider "github.com/ipni/pin-provider"
	"github.com/ipni/pin-provider/storage"
	"github.com/ipni/pin-provider/testutil"
	"github.com/stretchr/testify/require"
)

func TestConnect_InvalidAddress(t *testing.T) {
	for _, addr := range []string{
		"",
		"localhost:5001",
		"/p2p/12D3KooWD3eckifWpRn9wQpMG9R9hX3sD158z7EqHWmweQAJU5SA",
		"/ip4/127.0.0.1/udp/5001",
	} {
		_, err := storage.Connect(addr)
		require.ErrorIs(t, err, pinprovider.ErrInvalidAddress, addr)
	}
}

func TestConnect_StripsPeerID(t *testing.T) {
	node := testutil.NewFakeKubo(t)
	c, err := storage.Connect(node.Multiaddr())
	require.NoError(t, err)
	require.Equal(t, node.PeerID, c.PeerID())

	c, err = storage.Connect(node.TransportMultiaddr().String())
	require.NoError(t, err)
	require.Empty(t, c.PeerID())
}

func TestUploadThenExists(t *testing.T) {
	ctx := context.Background()
	node := testutil.NewFakeKubo(t)
	subject, err := storage.Connect(node.Multiaddr(), storage.WithCidVersion(1))
	require.NoError(t, err)

	data := []byte("hello pinned world")
	res, err := subject.Upload(ctx, data)
	require.NoError(t, err)
	require.NoError(t, res.Warning)
	require.Equal(t, testutil.CidOf(t, data, 1), res.Cid)
	require.True(t, node.IsPinned(res.Cid.String()))

	state, err := subject.Exists(ctx, res.Cid)
	require.NoError(t, err)
	require.Equal(t, pinprovider.Pinned, state)
}

func TestUpload_DefaultCidVersion(t *testing.T) {
	node := testutil.NewFakeKubo(t)
	subject, err := storage.Connect(node.Multiaddr())
	require.NoError(t, err)

	data := []byte("v0")
	res, err := subject.Upload(context.Background(), data)
	require.NoError(t, err)
	require.Equal(t, uint64(0), res.Cid.Version())
	require.Equal(t, testutil.CidOf(t, data, 0), res.Cid)
}

func TestUpload_LargeContent(t *testing.T) {
	node := testutil.NewFakeKubo(t)
	subject, err := storage.Connect(node.Multiaddr(), storage.WithCidVersion(1))
	require.NoError(t, err)

	data := bytes.Repeat([]byte("0123456789abcdef"), 1<<16)
	res, err := subject.Upload(context.Background(), data)
	require.NoError(t, err)
	require.Equal(t, testutil.CidOf(t, data, 1), res.Cid)
	require.True(t, node.HasBlock(res.Cid.String()))
}

type countingTransport struct {
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return http.DefaultTransport.RoundTrip(r)
}

func TestConnect_WithHTTPClient(t *testing.T) {
	node := testutil.NewFakeKubo(t)
	transport := &countingTransport{}
	subject, err := storage.Connect(node.Multiaddr(), storage.WithHTTPClient(&http.Client{Transport: transport}))
	require.NoError(t, err)

	_, err = subject.Exists(context.Background(), testutil.RandomCids(t, 1)[0])
	require.NoError(t, err)
	require.Equal(t, int32(1), transport.calls.Load())
}

func TestValidateOptions(t *testing.T) {
	require.NoError(t, storage.ValidateOptions(storage.WithCidVersion(1), storage.WithHTTPClient(http.DefaultClient)))
	require.Error(t, storage.ValidateOptions(storage.WithCidVersion(2)))
	require.Error(t, storage.ValidateOptions(storage.WithHTTPClient(nil)))

	_, err := storage.Connect("/ip4/127.0.0.1/tcp/5001", storage.WithCidVersion(3))
	require.Error(t, err)
}

func TestUpload_NodeRejectsAdd(t *testing.T) {
	node := testutil.NewFakeKubo(t)
	node.FailAdd()
	subject, err := storage.Connect(node.Multiaddr())
	require.NoError(t, err)

	res, err := subject.Upload(context.Background(), []byte("fish"))
	require.ErrorIs(t, err, pinprovider.ErrUploadFailed)
	require.Nil(t, res)
	require.Zero(t, node.Calls("pin/add"))
}

func TestExists_NotPinnedAndUnknown(t *testing.T) {
	ctx := context.Background()
	node := testutil.NewFakeKubo(t)
	subject, err := storage.Connect(node.Multiaddr())
	require.NoError(t, err)
	c := testutil.RandomCids(t, 1)[0]

	state, err := subject.Exists(ctx, c)
	require.NoError(t, err)
	require.Equal(t, pinprovider.NotPinned, state)

	node.FailPinLs("context deadline exceeded")
	state, err = subject.Exists(ctx, c)
	require.ErrorIs(t, err, pinprovider.ErrUnknownExistence)
	require.Equal(t, pinprovider.Unknown, state)

	node.Close()
	state, err = subject.Exists(ctx, c)
	require.ErrorIs(t, err, pinprovider.ErrUnknownExistence)
	require.Equal(t, pinprovider.Unknown, state)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	node := testutil.NewFakeKubo(t)
	subject, err := storage.Connect(node.Multiaddr())
	require.NoError(t, err)

	res, err := subject.Upload(ctx, []byte("to be removed"))
	require.NoError(t, err)

	out, err := subject.Remove(ctx, res.Cid)
	require.NoError(t, err)
	require.False(t, out.Partial())
	require.Equal(t, []string{res.Cid.String()}, cidStrings(out))
	require.False(t, node.IsPinned(res.Cid.String()))
	require.False(t, node.HasBlock(res.Cid.String()))

	state, err := subject.Exists(ctx, res.Cid)
	require.NoError(t, err)
	require.Equal(t, pinprovider.NotPinned, state)

	// Removing again fails to unpin and to delete the block, but still yields an outcome.
	out, err = subject.Remove(ctx, res.Cid)
	require.NoError(t, err)
	require.True(t, out.Partial())
	require.Error(t, out.UnpinErr)
	require.Len(t, out.BlockErrors, 1)
}

func TestRemove_CallFailure(t *testing.T) {
	node := testutil.NewFakeKubo(t)
	node.FailBlockRm()
	subject, err := storage.Connect(node.Multiaddr())
	require.NoError(t, err)

	out, err := subject.Remove(context.Background(), testutil.RandomCids(t, 1)[0])
	require.ErrorIs(t, err, pinprovider.ErrRemovalFailed)
	require.Nil(t, out)
}

func TestPeerInfo_FromNode(t *testing.T) {
	node := testutil.NewFakeKubo(t)
	subject, err := storage.Connect(node.Multiaddr())
	require.NoError(t, err)

	ident, err := subject.PeerInfo(context.Background())
	require.NoError(t, err)
	require.Equal(t, node.PeerID, ident.ID)
	require.Len(t, ident.Addrs, 1)

	node.Close()
	_, err = subject.PeerInfo(context.Background())
	require.Error(t, err)
}

func cidStrings(out *pinprovider.RemovalOutcome) []string {
	s := make([]string, 0, len(out.Removed))
	for _, c := range out.Removed {
		s = append(s, c.String())
	}
	return s
}
