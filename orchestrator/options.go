package orchestrator

import (
	"context"

	"github.com/ipfs/go-cid"
	pinprovider "github.com/ipni/pin-provider"
	"github.com/ipni/pin-provider/audit"
	"github.com/ipni/pin-provider/storage"
	"github.com/libp2p/go-libp2p/core/peer"
)

// Endpoint is a connection to one storage node.
type Endpoint interface {
	PeerID() peer.ID
	Upload(ctx context.Context, data []byte) (*pinprovider.UploadResult, error)
	UploadFile(ctx context.Context, path string) (*pinprovider.UploadResult, error)
	Exists(ctx context.Context, c cid.Cid) (pinprovider.PinState, error)
	Remove(ctx context.Context, c cid.Cid) (*pinprovider.RemovalOutcome, error)
	PeerInfo(ctx context.Context) (*pinprovider.Identity, error)
}

// Connector opens an Endpoint to the storage node at addr.
type Connector func(addr string) (Endpoint, error)

type (
	// Option captures a configurable parameter of the Orchestrator.
	Option func(*options) error

	options struct {
		connect Connector
		journal *audit.Journal
	}
)

func newOptions(o ...Option) (*options, error) {
	opts := &options{
		connect: storageConnector(),
	}

	for _, apply := range o {
		if err := apply(opts); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

// WithConnector sets the function used to open a storage node connection per operation.
// If unset, storage.Connect with default options is used.
func WithConnector(c Connector) Option {
	return func(o *options) error {
		o.connect = c
		return nil
	}
}

// WithStorageOptions sets the options passed to storage.Connect.
func WithStorageOptions(so ...storage.Option) Option {
	return func(o *options) error {
		if err := storage.ValidateOptions(so...); err != nil {
			return err
		}
		o.connect = storageConnector(so...)
		return nil
	}
}

// WithJournal sets the journal that removal transitions are appended to.
// If unset, transitions are only logged.
func WithJournal(j *audit.Journal) Option {
	return func(o *options) error {
		o.journal = j
		return nil
	}
}

func storageConnector(so ...storage.Option) Connector {
	return func(addr string) (Endpoint, error) {
		c, err := storage.Connect(addr, so...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}
