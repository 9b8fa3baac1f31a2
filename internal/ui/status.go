package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/nozo-moto/netspeed/internal/format"
	"github.com/nozo-moto/netspeed/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RateResponse is the JSON body of GET /api/v1/rate.
type RateResponse struct {
	Down      float64   `json:"down"`
	Up        float64   `json:"up"`
	Label     string    `json:"label"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusServer exposes the latest rate over HTTP as JSON and as Prometheus
// gauges.
type StatusServer struct {
	addr   string
	log    *slog.Logger
	router *mux.Router
	server *http.Server

	down prometheus.Gauge
	up   prometheus.Gauge

	mu      sync.RWMutex
	last    types.RateSample
	updated time.Time
}

func NewStatusServer(addr string, log *slog.Logger) *StatusServer {
	if log == nil {
		log = slog.Default()
	}

	s := &StatusServer{
		addr: addr,
		log:  log,
		down: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "netspeed",
			Name:      "down_bytes_per_second",
			Help:      "Aggregate receive rate over physical interfaces.",
		}),
		up: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "netspeed",
			Name:      "up_bytes_per_second",
			Help:      "Aggregate transmit rate over physical interfaces.",
		}),
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(s.down, s.up)

	s.router = mux.NewRouter()
	s.router.HandleFunc("/api/v1/rate", s.rateHandler).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *StatusServer) Handler() http.Handler {
	return s.router
}

func (s *StatusServer) Update(r types.RateSample) {
	s.mu.Lock()
	s.last = r
	s.updated = time.Now()
	s.mu.Unlock()

	s.down.Set(r.Down)
	s.up.Set(r.Up)
}

// Start binds the listen address and serves in the background.
func (s *StatusServer) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	go func() {
		s.log.Info("status server starting", "addr", ln.Addr().String())
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("status server stopped", "error", err)
		}
	}()

	return nil
}

func (s *StatusServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *StatusServer) rateHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := RateResponse{
		Down:      s.last.Down,
		Up:        s.last.Up,
		Label:     format.Label(s.last),
		UpdatedAt: s.updated,
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error("failed to encode rate response", "error", err)
	}
}
