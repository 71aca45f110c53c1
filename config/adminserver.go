package config

import "time"

const (
	defaultAdminServerAddr = "/ip4/127.0.0.1/tcp/3102"
	defaultReadTimeout     = Duration(30 * time.Second)
	defaultWriteTimeout    = Duration(30 * time.Second)
)

type AdminServer struct {
	// ListenMultiaddr is the admin API listen address
	ListenMultiaddr string
	ReadTimeout     Duration
	WriteTimeout    Duration
}

// NewAdminServer instantiates a new AdminServer config with default values.
func NewAdminServer() AdminServer {
	return AdminServer{
		ListenMultiaddr: defaultAdminServerAddr,
		ReadTimeout:     defaultReadTimeout,
		WriteTimeout:    defaultWriteTimeout,
	}
}

// ListenNetAddr returns the host:port the admin server listens on.
func (as *AdminServer) ListenNetAddr() (string, error) {
	return listenNetAddr(as.ListenMultiaddr)
}

// PopulateDefaults replaces zero-values in the config with default values.
func (as *AdminServer) PopulateDefaults() {
	if as.ListenMultiaddr == "" {
		as.ListenMultiaddr = defaultAdminServerAddr
	}
	if as.ReadTimeout == 0 {
		as.ReadTimeout = defaultReadTimeout
	}
	if as.WriteTimeout == 0 {
		as.WriteTimeout = defaultWriteTimeout
	}
}
