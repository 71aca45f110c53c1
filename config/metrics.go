package config

import (
	"github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"
)

const defaultMetricsAddr = "/ip4/0.0.0.0/tcp/3105/http"

// Metrics configures the Prometheus metrics endpoint.
type Metrics struct {
	Enabled         bool
	ListenMultiaddr string
}

// NewMetrics instantiates a new config with default values.
func NewMetrics() Metrics {
	return Metrics{
		Enabled:         true,
		ListenMultiaddr: defaultMetricsAddr,
	}
}

func (m *Metrics) ListenNetAddr() (string, error) {
	return listenNetAddr(m.ListenMultiaddr)
}

// PopulateDefaults replaces zero-values in the config with default values.
func (m *Metrics) PopulateDefaults() {
	if m.ListenMultiaddr == "" {
		m.ListenMultiaddr = defaultMetricsAddr
	}
}

func listenNetAddr(addr string) (string, error) {
	maddr, err := multiaddr.NewMultiaddr(addr)
	if err != nil {
		return "", err
	}
	httpMultiaddr, _ := multiaddr.NewMultiaddr("/http")
	maddr = maddr.Decapsulate(httpMultiaddr)

	netAddr, err := manet.ToNetAddr(maddr)
	if err != nil {
		return "", err
	}
	return netAddr.String(), nil
}
