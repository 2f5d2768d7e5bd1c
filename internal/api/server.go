// Package api provides the REST surface of osdnsd: a lookup endpoint over
// the core library, plus health, statistics, and lookup history, served by
// a Gin-based HTTP server.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/osdns/internal/api/handlers"
	"github.com/jroosing/osdns/internal/api/middleware"
	"github.com/jroosing/osdns/internal/config"
	"github.com/jroosing/osdns/internal/history"
)

// Server is the osdnsd HTTP server.
//
// Security note: do not expose the API to untrusted networks without an
// API key; the resolve endpoint performs lookups on behalf of its callers.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	engine     *gin.Engine
	httpServer *http.Server
}

// New builds the server. journal may be nil when history is disabled.
func New(cfg *config.Config, resolve handlers.ResolveFunc, journal *history.Store, logger *slog.Logger) *Server {
	if cfg == nil {
		panic("api.New: cfg is nil")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.SlogRequestLogger(logger))

	h := handlers.New(resolve, cfg.Lookup.Timeout, journal, logger)
	RegisterRoutes(engine, h, cfg)
	if cfg.API.EnableUI {
		MountStatusPage(engine, logger)
	}

	addr := net.JoinHostPort(cfg.API.Host, strconv.Itoa(cfg.API.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{cfg: cfg, logger: logger, engine: engine, httpServer: httpServer}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Engine exposes the underlying gin engine, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// ListenAndServe blocks serving requests until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
