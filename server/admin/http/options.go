package adminserver

import (
	"fmt"
	"time"
)

type (
	// Option captures a configurable parameter in admin HTTP server.
	Option func(*options) error

	options struct {
		listenAddr     string
		readTimeout    time.Duration
		writeTimeout   time.Duration
		maxUploadBytes int64
	}
)

func newOptions(o ...Option) (*options, error) {
	opts := &options{
		listenAddr:   "127.0.0.1:3102",
		readTimeout:  30 * time.Second,
		writeTimeout: 30 * time.Second,
		// Uploads carry content inline as base64.
		maxUploadBytes: 64 << 20,
	}

	for _, apply := range o {
		if err := apply(opts); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

// WithListenAddr sets the net address on which the admin HTTP server is exposed.
// If unset, the default address of '127.0.0.1:3102' is used.
func WithListenAddr(addr string) Option {
	return func(o *options) error {
		o.listenAddr = addr
		return nil
	}
}

// WithReadTimeout sets the HTTP read timeout.
// If unset, the default of 30 seconds is used.
func WithReadTimeout(t time.Duration) Option {
	return func(o *options) error {
		o.readTimeout = t
		return nil
	}
}

// WithWriteTimeout sets the HTTP write timeout.
// Uploads of large files must complete within it.
// If unset, the default of 30 seconds is used.
func WithWriteTimeout(t time.Duration) Option {
	return func(o *options) error {
		o.writeTimeout = t
		return nil
	}
}

// WithMaxUploadBytes sets the maximum size of an upload request body.
// If unset, the default of 64 MiB is used.
func WithMaxUploadBytes(n int64) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("max upload bytes must be positive, got %d", n)
		}
		o.maxUploadBytes = n
		return nil
	}
}
