// Command osdnsd serves DNS lookups over HTTP: a thin REST surface on top
// of the osdns library, with optional lookup history and a status page.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jroosing/osdns"
	"github.com/jroosing/osdns/internal/api"
	"github.com/jroosing/osdns/internal/config"
	"github.com/jroosing/osdns/internal/dns"
	"github.com/jroosing/osdns/internal/history"
	"github.com/jroosing/osdns/internal/logging"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to JSON configuration file (or set OSDNS_CONFIG)")
		host       = flag.String("host", "", "Override API bind host")
		port       = flag.Int("port", 0, "Override API bind port")
		jsonLogs   = flag.Bool("json-logs", false, "Enable JSON structured logging")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(config.ResolveConfigPath(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *host != "" {
		cfg.API.Host = *host
	}
	if *port != 0 {
		cfg.API.Port = *port
	}
	if *jsonLogs {
		cfg.Logging.JSON = true
	}
	if *debug {
		cfg.Logging.Level = "DEBUG"
	}

	logger := logging.Configure(logging.Config{
		Level:      cfg.Logging.Level,
		JSON:       cfg.Logging.JSON,
		IncludePID: cfg.Logging.IncludePID,
	})

	var journal *history.Store
	if cfg.History.Enabled {
		journal, err = history.Open(cfg.History.Path, cfg.History.MaxEntries)
		if err != nil {
			logger.Error("failed to open lookup history", "path", cfg.History.Path, "error", err)
			os.Exit(1)
		}
		defer journal.Close()
		logger.Info("lookup history enabled", "path", cfg.History.Path, "max_entries", cfg.History.MaxEntries)
	}

	runner := osdns.NewRunner(cfg.Lookup.Workers, logger)
	defer runner.Shutdown()

	resolve := func(ctx context.Context, name string, qtype dns.QueryType) ([]string, error) {
		return runner.Resolve(ctx, name, qtype)
	}
	server := api.New(cfg, resolve, journal, logger)

	logger.Info("osdnsd starting", "addr", server.Addr(), "workers", cfg.Lookup.Workers)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}
}
