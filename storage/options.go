package storage

import (
	"fmt"
	"net/http"
)

type (
	// Option captures a configurable parameter of a storage Client.
	Option func(*options) error

	options struct {
		httpClient *http.Client
		cidVersion int
	}
)

func newOptions(o ...Option) (*options, error) {
	opts := &options{
		httpClient: &http.Client{},
	}

	for _, apply := range o {
		if err := apply(opts); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

// ValidateOptions reports the first invalid option, without connecting anywhere.
func ValidateOptions(o ...Option) error {
	_, err := newOptions(o...)
	return err
}

// WithHTTPClient sets the HTTP client used to talk to the node RPC API.
// If unset, a client with no timeout is used; callers bound latency with contexts.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) error {
		if c == nil {
			return fmt.Errorf("http client must not be nil")
		}
		o.httpClient = c
		return nil
	}
}

// WithCidVersion sets the CID version the node uses for added content.
// If unset, version 0 is used, consistent with the node defaults.
func WithCidVersion(v int) Option {
	return func(o *options) error {
		if v != 0 && v != 1 {
			return fmt.Errorf("unsupported CID version: %d", v)
		}
		o.cidVersion = v
		return nil
	}
}
