// Package storage talks to a single remote content-addressable storage node: it uploads
// and pins content, checks whether content is pinned and removes it again.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"
	"github.com/multiformats/go-multicodec"

	pinprovider "github.com/ipni/pin-provider"
	"github.com/ipni/pin-provider/metrics"
)

var log = logging.Logger("pin-provider/storage")

// notPinnedMsg is the substring of the node error reported for content that is not pinned.
const notPinnedMsg = "is not pinned"

// Client performs operations against one storage node.
type Client struct {
	node   Node
	addr   multiaddr.Multiaddr
	peerID peer.ID
}

// Connect parses addr, strips its trailing /p2p/<peer-id> segment and returns a client
// for the RPC endpoint of the node listening on the remaining address.  Only TCP based
// addresses are connectable.  The returned error wraps pinprovider.ErrInvalidAddress if
// addr cannot be used.
//
// No network call is made; connection failures surface on the first operation.
func Connect(addr string, o ...Option) (*Client, error) {
	opts, err := newOptions(o...)
	if err != nil {
		return nil, err
	}
	maddr, err := multiaddr.NewMultiaddr(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pinprovider.ErrInvalidAddress, err)
	}
	host, err := RPCHost(maddr)
	if err != nil {
		return nil, err
	}
	return NewClient(newShellNode(host, opts), maddr), nil
}

// RPCHost derives the host:port of the node RPC endpoint from a storage node multiaddr.
func RPCHost(maddr multiaddr.Multiaddr) (string, error) {
	transport, _ := peer.SplitAddr(maddr)
	if transport == nil {
		return "", fmt.Errorf("%w: %s has no connectable base", pinprovider.ErrInvalidAddress, maddr)
	}
	network, host, err := manet.DialArgs(transport)
	if err != nil {
		return "", fmt.Errorf("%w: %w", pinprovider.ErrInvalidAddress, err)
	}
	if !strings.HasPrefix(network, "tcp") {
		return "", fmt.Errorf("%w: unsupported network %s in %s", pinprovider.ErrInvalidAddress, network, maddr)
	}
	return host, nil
}

// NewClient instantiates a client that uses node to reach the storage node at addr.
func NewClient(node Node, addr multiaddr.Multiaddr) *Client {
	_, id := peer.SplitAddr(addr)
	return &Client{
		node:   node,
		addr:   addr,
		peerID: id,
	}
}

// Addr returns the full address of the node, including its peer identity if given.
func (c *Client) Addr() multiaddr.Multiaddr {
	return c.addr
}

// PeerID returns the peer identity contained in the node address, or an empty ID if the
// address has none.
func (c *Client) PeerID() peer.ID {
	return c.peerID
}

// Upload submits data to the node and pins it.  Upload succeeds as soon as the pin
// succeeds.  A failure of the subsequent pin confirmation is logged and returned as the
// result warning.
//
// On failure to add or pin, the result is nil and the error wraps
// pinprovider.ErrUploadFailed.
func (c *Client) Upload(ctx context.Context, data []byte) (*pinprovider.UploadResult, error) {
	path, err := c.node.Add(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, c.uploadFailed(ctx, len(data), err)
	}
	id, err := cid.Decode(path)
	if err != nil {
		return nil, c.uploadFailed(ctx, len(data), fmt.Errorf("node returned invalid CID %q: %w", path, err))
	}
	if err = c.node.PinAdd(ctx, id.String()); err != nil {
		return nil, c.uploadFailed(ctx, len(data), err)
	}
	log.Infow("Pinned content", "cid", id, "codec", multicodec.Code(id.Type()), "addr", c.addr)
	metrics.RecordUpload(ctx, true)

	res := &pinprovider.UploadResult{Cid: id}
	res.Warning = c.confirmPin(ctx, id)
	return res, nil
}

func (c *Client) uploadFailed(ctx context.Context, size int, err error) error {
	log.Errorw("Failed to upload", "addr", c.addr, "size", size, "err", err)
	metrics.RecordUpload(ctx, false)
	return fmt.Errorf("%w: %w", pinprovider.ErrUploadFailed, err)
}

// confirmPin checks that at least one recursive pin exists for id.
func (c *Client) confirmPin(ctx context.Context, id cid.Cid) error {
	pins, err := c.node.PinLs(ctx, id.String())
	if err != nil {
		log.Warnw("Failed to list pins of uploaded content", "cid", id, "addr", c.addr, "err", err)
		metrics.RecordConfirmation(ctx, false)
		return fmt.Errorf("%w: %w", pinprovider.ErrConfirmationFailed, err)
	}
	var recursive bool
	for _, p := range pins {
		if p.Type == pinTypeRecursive {
			recursive = true
			continue
		}
		log.Warnw("Unexpected pin type", "cid", p.Cid, "type", p.Type, "addr", c.addr)
	}
	if !recursive {
		metrics.RecordConfirmation(ctx, false)
		return fmt.Errorf("%w: no recursive pin for %s", pinprovider.ErrConfirmationFailed, id)
	}
	log.Infow("Confirmed recursive pin", "cid", id, "addr", c.addr)
	metrics.RecordConfirmation(ctx, true)
	return nil
}

// UploadFile uploads the content of the file at path.  The returned error wraps
// pinprovider.ErrFileNotFound, and the node is not contacted, if path is not an existing
// regular file.
func (c *Client) UploadFile(ctx context.Context, path string) (*pinprovider.UploadResult, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", pinprovider.ErrFileNotFound, path)
		}
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", pinprovider.ErrFileNotFound, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.Upload(ctx, data)
}

// Exists reports the pin state of id on the node.  A successful pin listing counts as
// pinned, even if it enumerated no entries.  Errors other than the node reporting the
// content as not pinned yield pinprovider.Unknown along with an error wrapping
// pinprovider.ErrUnknownExistence.
func (c *Client) Exists(ctx context.Context, id cid.Cid) (pinprovider.PinState, error) {
	_, err := c.node.PinLs(ctx, id.String())
	switch {
	case err == nil:
		metrics.RecordExists(ctx, pinprovider.Pinned)
		return pinprovider.Pinned, nil
	case strings.Contains(err.Error(), notPinnedMsg):
		metrics.RecordExists(ctx, pinprovider.NotPinned)
		return pinprovider.NotPinned, nil
	default:
		log.Debugw("Cannot determine pin state", "cid", id, "addr", c.addr, "err", err)
		metrics.RecordExists(ctx, pinprovider.Unknown)
		return pinprovider.Unknown, fmt.Errorf("%w: %w", pinprovider.ErrUnknownExistence, err)
	}
}

// Remove unpins id and then forcibly deletes its block.  Failure to unpin is ignored,
// and individual block deletion failures are collected into the outcome, which may
// therefore be partial.  If the block removal call itself fails, the outcome is nil and
// the error wraps pinprovider.ErrRemovalFailed.
func (c *Client) Remove(ctx context.Context, id cid.Cid) (*pinprovider.RemovalOutcome, error) {
	out := &pinprovider.RemovalOutcome{Cid: id}
	if err := c.node.PinRm(ctx, id.String()); err != nil {
		log.Infow("Failed to unpin; removing blocks anyway", "cid", id, "addr", c.addr, "err", err)
		out.UnpinErr = err
	}

	results, err := c.node.BlockRm(ctx, id.String())
	if err != nil {
		log.Errorw("Remove failed", "cid", id, "addr", c.addr, "err", err)
		metrics.RecordRemoval(ctx, false, 0, 0)
		return nil, fmt.Errorf("%w: %w", pinprovider.ErrRemovalFailed, err)
	}
	for _, r := range results {
		if r.Error != "" {
			log.Errorw("Block removal failed", "hash", r.Hash, "addr", c.addr, "err", r.Error)
			out.BlockErrors = append(out.BlockErrors, pinprovider.BlockError{Hash: r.Hash, Error: r.Error})
			continue
		}
		removed, err := cid.Decode(r.Hash)
		if err != nil {
			log.Warnw("Node reported removal of invalid CID", "hash", r.Hash, "err", err)
			continue
		}
		out.Removed = append(out.Removed, removed)
	}
	metrics.RecordRemoval(ctx, true, len(out.Removed), len(out.BlockErrors))
	if out.Partial() {
		log.Warnw("Removal partially failed", "cid", id, "addr", c.addr, "err", out.Err())
	} else {
		log.Infow("Removed content", "cid", id, "addr", c.addr, "blocks", len(out.Removed))
	}
	return out, nil
}

// PeerInfo returns the identity of the node.
func (c *Client) PeerInfo(ctx context.Context) (*pinprovider.Identity, error) {
	nid, err := c.node.ID(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot get identity of %s: %w", c.addr, err)
	}
	pid, err := peer.Decode(nid.ID)
	if err != nil {
		return nil, fmt.Errorf("node %s reported invalid peer ID: %w", c.addr, err)
	}
	ident := &pinprovider.Identity{
		ID:              pid,
		AgentVersion:    nid.AgentVersion,
		ProtocolVersion: nid.ProtocolVersion,
	}
	for _, a := range nid.Addresses {
		maddr, err := multiaddr.NewMultiaddr(a)
		if err != nil {
			log.Warnw("Ignoring invalid node address", "addr", a, "err", err)
			continue
		}
		ident.Addrs = append(ident.Addrs, maddr)
	}
	return ident, nil
}
