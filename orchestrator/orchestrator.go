// Package orchestrator composes storage node operations with the provider index and
// traces pin state transitions around removals.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log/v2"
	pinprovider "github.com/ipni/pin-provider"
	"github.com/ipni/pin-provider/audit"
	"github.com/ipni/pin-provider/index"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"
)

var log = logging.Logger("pin-provider/orchestrator")

var _ pinprovider.Interface = (*Orchestrator)(nil)

// Orchestrator opens a fresh storage node connection for every operation and maintains
// the provider index only when asked to.  The index is a best-effort record of claims,
// not a mirror of what is actually pinned.
type Orchestrator struct {
	*options
	index *index.Index
}

// New instantiates an orchestrator over the given provider index.
func New(idx *index.Index, o ...Option) (*Orchestrator, error) {
	opts, err := newOptions(o...)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		options: opts,
		index:   idx,
	}, nil
}

func (o *Orchestrator) Upload(ctx context.Context, addr string, data []byte) (*pinprovider.UploadResult, error) {
	ep, err := o.connect(addr)
	if err != nil {
		return nil, err
	}
	return ep.Upload(ctx, data)
}

func (o *Orchestrator) UploadFile(ctx context.Context, addr, path string) (*pinprovider.UploadResult, error) {
	ep, err := o.connect(addr)
	if err != nil {
		return nil, err
	}
	return ep.UploadFile(ctx, path)
}

// UploadAndProvide uploads data and registers the node as a provider of the result.  If
// the upload succeeds but the node identity cannot be resolved, the result is returned
// along with the registration error.
func (o *Orchestrator) UploadAndProvide(ctx context.Context, addr string, data []byte) (*pinprovider.UploadResult, error) {
	ep, err := o.connect(addr)
	if err != nil {
		return nil, err
	}
	res, err := ep.Upload(ctx, data)
	if err != nil {
		return nil, err
	}
	return res, o.register(ctx, ep, addr, res)
}

// UploadFileAndProvide is the file variant of UploadAndProvide.
func (o *Orchestrator) UploadFileAndProvide(ctx context.Context, addr, path string) (*pinprovider.UploadResult, error) {
	ep, err := o.connect(addr)
	if err != nil {
		return nil, err
	}
	res, err := ep.UploadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return res, o.register(ctx, ep, addr, res)
}

func (o *Orchestrator) register(ctx context.Context, ep Endpoint, addr string, res *pinprovider.UploadResult) error {
	pid, err := o.resolvePeer(ctx, ep)
	if err != nil {
		return fmt.Errorf("content %s pinned but provider not registered: %w", res.Cid, err)
	}
	provAddr, err := providerAddr(addr, pid)
	if err != nil {
		return err
	}
	if _, err = o.index.Add(ctx, res.Cid.String(), pid.String(), provAddr); err != nil {
		return fmt.Errorf("content %s pinned but provider not registered: %w", res.Cid, err)
	}
	return nil
}

func (o *Orchestrator) Exists(ctx context.Context, addr string, c cid.Cid) (pinprovider.PinState, error) {
	ep, err := o.connect(addr)
	if err != nil {
		return pinprovider.Unknown, err
	}
	return ep.Exists(ctx, c)
}

func (o *Orchestrator) Remove(ctx context.Context, addr string, c cid.Cid) (*pinprovider.RemovalOutcome, error) {
	ep, err := o.connect(addr)
	if err != nil {
		return nil, err
	}
	return ep.Remove(ctx, c)
}

// RemoveAndUnprovide removes c from the node at addr and logs the pin state observed
// before and after.  The node is deregistered as a provider of c only once it reports
// c as not pinned.  A failure to deregister is returned alongside the removal outcome.
func (o *Orchestrator) RemoveAndUnprovide(ctx context.Context, addr string, c cid.Cid) (*pinprovider.RemovalOutcome, error) {
	ep, err := o.connect(addr)
	if err != nil {
		return nil, err
	}

	before, err := ep.Exists(ctx, c)
	if err != nil {
		log.Warnw("Pin state before removal unknown", "cid", c, "addr", addr, "err", err)
	}
	out, removeErr := ep.Remove(ctx, c)
	after, err := ep.Exists(ctx, c)
	if err != nil {
		log.Warnw("Pin state after removal unknown", "cid", c, "addr", addr, "err", err)
	}

	pid, err := o.resolvePeer(ctx, ep)
	if err != nil {
		log.Warnw("Cannot resolve storage node identity", "addr", addr, "err", err)
	}
	peerLabel := addr
	if pid != "" {
		peerLabel = pid.String()
	}
	o.logRemoval(ctx, c, before, after, peerLabel, out)

	if after == pinprovider.NotPinned && pid != "" {
		if err = o.deregister(ctx, addr, pid, c); err != nil {
			return out, errors.Join(removeErr, err)
		}
	}
	return out, removeErr
}

func (o *Orchestrator) deregister(ctx context.Context, addr string, pid peer.ID, c cid.Cid) error {
	provAddr, err := providerAddr(addr, pid)
	if err != nil {
		return err
	}
	if _, err = o.index.Remove(ctx, c.String(), pid.String(), provAddr); err != nil {
		return fmt.Errorf("content %s removed but provider not deregistered: %w", c, err)
	}
	return nil
}

func (o *Orchestrator) PeerInfo(ctx context.Context, addr string) (*pinprovider.Identity, error) {
	ep, err := o.connect(addr)
	if err != nil {
		return nil, err
	}
	return ep.PeerInfo(ctx)
}

func (o *Orchestrator) Provide(ctx context.Context, contentID, peerID, maddr string) (bool, error) {
	return o.index.Add(ctx, contentID, peerID, maddr)
}

func (o *Orchestrator) Providers(ctx context.Context, contentID string) ([]pinprovider.ProviderRecord, error) {
	return o.index.Get(ctx, contentID)
}

func (o *Orchestrator) Unprovide(ctx context.Context, contentID, peerID, maddr string) (bool, error) {
	return o.index.Remove(ctx, contentID, peerID, maddr)
}

// Journal returns the audit journal, or nil if none is configured.
func (o *Orchestrator) Journal() *audit.Journal {
	return o.journal
}

// resolvePeer returns the peer ID from the node address, asking the node for its identity
// if the address carries none.
func (o *Orchestrator) resolvePeer(ctx context.Context, ep Endpoint) (peer.ID, error) {
	if pid := ep.PeerID(); pid != "" {
		return pid, nil
	}
	ident, err := ep.PeerInfo(ctx)
	if err != nil {
		return "", err
	}
	return ident.ID, nil
}

// providerAddr returns addr with a trailing /p2p/<pid> segment, appending it if absent.
func providerAddr(addr string, pid peer.ID) (string, error) {
	maddr, err := multiaddr.NewMultiaddr(addr)
	if err != nil {
		return "", fmt.Errorf("%w: %w", pinprovider.ErrInvalidAddress, err)
	}
	if _, id := peer.SplitAddr(maddr); id != "" {
		return addr, nil
	}
	p2p, err := multiaddr.NewComponent("p2p", pid.String())
	if err != nil {
		return "", err
	}
	return maddr.Encapsulate(p2p).String(), nil
}
