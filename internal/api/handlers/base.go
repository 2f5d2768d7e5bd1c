// Package handlers implements the REST API endpoint handlers for osdnsd.
//
// Endpoints:
//   - GET /api/v1/health  - Health check status
//   - GET /api/v1/resolve - Perform a lookup (?name=...&type=A)
//   - GET /api/v1/stats   - Runtime and host statistics
//   - GET /api/v1/history - Recent lookup journal entries
//
// All endpoints except /health support optional API key authentication via
// the X-API-Key header.
//
// @title osdns management API
// @version 1.0
// @description REST surface over the osdns lookup library.
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:8053
// @BasePath /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package handlers

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jroosing/osdns/internal/dns"
	"github.com/jroosing/osdns/internal/history"
)

// ResolveFunc performs one lookup. The daemon wires this to the runner's
// Resolve; tests substitute a stub.
type ResolveFunc func(ctx context.Context, name string, qtype dns.QueryType) ([]string, error)

// LookupStats counts lookups served through the API. Safe for concurrent
// use.
type LookupStats struct {
	total          atomic.Uint64
	failed         atomic.Uint64
	latencyTotalNs atomic.Uint64
}

// Record tallies one lookup and its latency.
func (s *LookupStats) Record(failed bool, latency time.Duration) {
	s.total.Add(1)
	if failed {
		s.failed.Add(1)
	}
	if latency > 0 {
		s.latencyTotalNs.Add(uint64(latency.Nanoseconds()))
	}
}

// Snapshot returns the counters and average latency in milliseconds.
func (s *LookupStats) Snapshot() (total, failed uint64, avgLatencyMS float64) {
	total = s.total.Load()
	failed = s.failed.Load()
	if total > 0 {
		avgLatencyMS = float64(s.latencyTotalNs.Load()) / float64(total) / 1e6
	}
	return total, failed, avgLatencyMS
}

// Handler carries the dependencies shared by all endpoints.
type Handler struct {
	resolve   ResolveFunc
	timeout   time.Duration
	journal   *history.Store // nil when history is disabled
	logger    *slog.Logger
	stats     LookupStats
	startTime time.Time
}

// New creates a Handler. journal may be nil.
func New(resolve ResolveFunc, timeout time.Duration, journal *history.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{
		resolve:   resolve,
		timeout:   timeout,
		journal:   journal,
		logger:    logger,
		startTime: time.Now(),
	}
}
