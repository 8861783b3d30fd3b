// Package docsite parses docs server flags and launches the server.
package docsite

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/louisbranch/docsconsent/internal/consent"
	entrypoint "github.com/louisbranch/docsconsent/internal/platform/cmd"
	"github.com/louisbranch/docsconsent/internal/platform/config"
	"github.com/louisbranch/docsconsent/internal/platform/logging"
	server "github.com/louisbranch/docsconsent/internal/services/docsite"
)

// Config holds docs server command configuration.
type Config struct {
	HTTPAddr            string `env:"DOCSCONSENT_HTTP_ADDR" envDefault:"localhost:8080"`
	SiteDir             string `env:"DOCSCONSENT_SITE_DIR" envDefault:"site"`
	ConfigPath          string `env:"DOCSCONSENT_CONFIG" envDefault:"cookie-consent.yaml"`
	Environment         string `env:"DOCSCONSENT_ENV" envDefault:"development"`
	TrustForwardedProto bool   `env:"DOCSCONSENT_TRUST_FORWARDED_PROTO" envDefault:"false"`
	LogLevel            string `env:"DOCSCONSENT_LOG_LEVEL" envDefault:"info"`
	LogFormat           string `env:"DOCSCONSENT_LOG_FORMAT" envDefault:"text"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.SiteDir, "site-dir", cfg.SiteDir, "Directory holding the built docs site")
	fs.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "Cookie consent configuration file (YAML or JSON)")
	fs.StringVar(&cfg.Environment, "env", cfg.Environment, "Build environment; the banner is active in production")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto from a TLS-terminating proxy")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the docs server.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(os.Stderr, logging.Options{Level: cfg.LogLevel, Format: logging.Format(cfg.LogFormat)})
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	opts, err := consent.Load(cfg.ConfigPath)
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceDocsite, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		srv, err := server.NewServer(ctx, server.Config{
			HTTPAddr:            cfg.HTTPAddr,
			SiteDir:             cfg.SiteDir,
			Consent:             opts,
			Production:          config.IsProduction(cfg.Environment),
			TrustForwardedProto: cfg.TrustForwardedProto,
			Logger:              logger,
		})
		if err != nil {
			return err
		}
		defer srv.Close()
		return srv.ListenAndServe(ctx)
	})
}
