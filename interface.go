// Package pinprovider tracks which peers claim to provide content-addressed objects and
// pins, verifies and removes that content on remote storage nodes.
package pinprovider

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/ipfs/go-cid"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"
)

// Interface represents the orchestration of storage node operations and the provider
// index.  Every storage operation opens its own connection to the node at addr.  The
// provider index is not kept in sync implicitly, except by the *AndProvide and
// *AndUnprovide variants.
type Interface interface {
	// Upload pins data on the storage node at addr.  A nil result means the upload
	// failed; the returned error then wraps ErrUploadFailed.
	Upload(ctx context.Context, addr string, data []byte) (*UploadResult, error)

	// UploadFile reads the file at path and uploads its content.  ErrFileNotFound is
	// returned without contacting the node if the path does not exist.
	UploadFile(ctx context.Context, addr, path string) (*UploadResult, error)

	// UploadAndProvide uploads data and registers the node as a provider of the resulting
	// CID in the provider index.
	UploadAndProvide(ctx context.Context, addr string, data []byte) (*UploadResult, error)

	// UploadFileAndProvide is the file variant of UploadAndProvide.
	UploadFileAndProvide(ctx context.Context, addr, path string) (*UploadResult, error)

	// Exists checks the live pin state of c on the storage node at addr.
	Exists(ctx context.Context, addr string, c cid.Cid) (PinState, error)

	// Remove unpins and deletes the blocks of c on the storage node at addr.
	Remove(ctx context.Context, addr string, c cid.Cid) (*RemovalOutcome, error)

	// RemoveAndUnprovide removes c from the node, records the pin state transition and
	// deregisters the node from the provider index once c is no longer pinned.
	RemoveAndUnprovide(ctx context.Context, addr string, c cid.Cid) (*RemovalOutcome, error)

	// PeerInfo returns the identity of the storage node at addr.
	PeerInfo(ctx context.Context, addr string) (*Identity, error)

	// Provide registers peerID at maddr as a provider of contentID.  It reports whether
	// the record was not already present.
	Provide(ctx context.Context, contentID, peerID, maddr string) (bool, error)

	// Providers lists the known providers of contentID in no particular order.
	Providers(ctx context.Context, contentID string) ([]ProviderRecord, error)

	// Unprovide deregisters peerID at maddr as a provider of contentID.  It reports
	// whether a matching record was found.
	Unprovide(ctx context.Context, contentID, peerID, maddr string) (bool, error)
}

// ProviderRecord denotes one peer claiming to provide a CID.  Two records are equal only
// if both fields match.
type ProviderRecord struct {
	PeerID    string `json:"peer_id"`
	Multiaddr string `json:"multiaddr"`
}

// PinState is the pin state of a CID as observed by querying a storage node.
type PinState int

const (
	// Unknown means the node could not tell whether the content is pinned.
	Unknown PinState = iota
	// NotPinned means the node explicitly reported the content as not pinned.
	NotPinned
	// Pinned means the pin listing for the content succeeded.
	Pinned
)

func (s PinState) String() string {
	switch s {
	case Pinned:
		return "pinned"
	case NotPinned:
		return "not pinned"
	default:
		return "unknown"
	}
}

// ParsePinState is the inverse of PinState.String.
func ParsePinState(s string) (PinState, error) {
	switch s {
	case "pinned":
		return Pinned, nil
	case "not pinned":
		return NotPinned, nil
	case "unknown":
		return Unknown, nil
	default:
		return Unknown, fmt.Errorf("unrecognized pin state: %q", s)
	}
}

// UploadResult is the outcome of a successful upload.
type UploadResult struct {
	// Cid is the identifier of the pinned content.
	Cid cid.Cid
	// Warning is set when the pin could not be confirmed after upload.  It wraps
	// ErrConfirmationFailed and does not invalidate Cid.
	Warning error
}

// BlockError captures the failure to remove a single block.
type BlockError struct {
	Hash  string
	Error string
}

// RemovalOutcome is the possibly partial result of removing content from a storage node.
type RemovalOutcome struct {
	Cid cid.Cid
	// Removed lists the blocks the node reported as deleted.
	Removed []cid.Cid
	// BlockErrors lists the blocks that failed to be deleted.
	BlockErrors []BlockError
	// UnpinErr is the error returned by the unpin step, if any.  Unpinning is best effort.
	UnpinErr error
}

// Partial reports whether any part of the removal failed.
func (o *RemovalOutcome) Partial() bool {
	return o.UnpinErr != nil || len(o.BlockErrors) != 0
}

// Err combines every sub-failure of the removal into a single error, or nil if there
// were none.
func (o *RemovalOutcome) Err() error {
	var merr *multierror.Error
	if o.UnpinErr != nil {
		merr = multierror.Append(merr, fmt.Errorf("unpin: %w", o.UnpinErr))
	}
	for _, be := range o.BlockErrors {
		merr = multierror.Append(merr, fmt.Errorf("block %s: %s", be.Hash, be.Error))
	}
	return merr.ErrorOrNil()
}

// Identity describes a storage node.
type Identity struct {
	ID              peer.ID
	Addrs           []multiaddr.Multiaddr
	AgentVersion    string
	ProtocolVersion string
}
