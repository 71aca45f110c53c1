package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"

	logging "github.com/ipfs/go-log/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

var log = logging.Logger("pin-provider/metrics")

// Server exposes the storage and index instruments in Prometheus format at /metrics.
type Server struct {
	provider *metric.MeterProvider
	server   *http.Server
	l        net.Listener
}

// NewServer registers a Prometheus backed meter provider as the global provider and
// listens on listenAddr.  Instruments created before the call report through it too.
func NewServer(listenAddr string) (*Server, error) {
	exporter, err := otelprom.New()
	if err != nil {
		return nil, err
	}
	l, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, err
	}
	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	return &Server{
		provider: provider,
		server:   &http.Server{Handler: mux},
		l:        l,
	}, nil
}

// Addr returns the address the server listens on.
func (s *Server) Addr() net.Addr {
	return s.l.Addr()
}

// Start serves metrics in the background.
func (s *Server) Start() error {
	log.Infow("metrics server listening", "addr", s.l.Addr())
	go func() {
		if err := s.server.Serve(s.l); !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("Metrics server stopped", "err", err)
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return errors.Join(s.server.Shutdown(ctx), s.provider.Shutdown(ctx))
}
