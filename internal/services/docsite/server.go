// Package docsite serves a built documentation directory and injects the
// cookie consent banner into its pages.
package docsite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/louisbranch/docsconsent/internal/consent"
	"github.com/louisbranch/docsconsent/internal/platform/timeouts"
	"github.com/louisbranch/docsconsent/internal/services/consentweb"
	"github.com/louisbranch/docsconsent/internal/services/shared/httpx"
	"github.com/louisbranch/docsconsent/internal/services/shared/observability"
	"github.com/louisbranch/docsconsent/internal/services/shared/requestmeta"
)

// Config defines startup inputs for the docs server.
type Config struct {
	HTTPAddr   string
	SiteDir    string
	Consent    consent.Options
	Production bool
	// TrustForwardedProto honours X-Forwarded-Proto from a TLS-terminating
	// proxy when marking cookies Secure and checking decision origins.
	TrustForwardedProto bool
	Logger              *slog.Logger
	// Registry receives consent and runtime metrics. Nil builds a private one.
	Registry *prometheus.Registry
	// Callbacks run after a decision cookie is written.
	Callbacks consent.Callbacks
}

// Server hosts the docs HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	logger     *slog.Logger
}

// NewHandler builds the root handler: consent endpoints, metrics and the
// site files, with the banner middleware when the gate is open.
func NewHandler(cfg Config) (http.Handler, error) {
	siteDir := strings.TrimSpace(cfg.SiteDir)
	if siteDir == "" {
		return nil, errors.New("site directory is required")
	}
	info, err := os.Stat(siteDir)
	if err != nil {
		return nil, fmt.Errorf("stat site directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("site directory %s is not a directory", siteDir)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	rootMux := http.NewServeMux()
	rootMux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	rootMux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	var site http.Handler = http.FileServer(http.Dir(siteDir))
	if consentweb.Gate(logger, cfg.Consent, cfg.Production) {
		metrics, err := consentweb.NewMetrics(registry)
		if err != nil {
			return nil, fmt.Errorf("register consent metrics: %w", err)
		}
		resolver := consent.NewResolver(cfg.Consent.Config, consent.MultiCallbacks{metrics.Callbacks(), cfg.Callbacks})
		consentHandler := consentweb.NewHandler(consentweb.Config{
			Resolver: resolver,
			Logger:   logger,
			Metrics:  metrics,
			Scheme:   requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto},
		})
		consentHandler.Register(rootMux)
		site = consentHandler.Middleware()(site)
	}
	rootMux.Handle("/", httpx.RequireMethod(http.MethodGet, http.MethodHead)(site))

	return httpx.Chain(rootMux,
		httpx.RecoverPanic(logger),
		httpx.RequestID(),
		observability.RequestLogger(logger),
	), nil
}

// NewServer validates config and constructs a docs server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose docs handler: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		httpAddr: httpAddr,
		logger:   logger,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
			IdleTimeout:       timeouts.Idle,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
		},
	}, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("docs server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()
	s.logger.InfoContext(ctx, "docs server listening", "addr", s.httpAddr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown docs http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve docs http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
