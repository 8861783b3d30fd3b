// Package inject parses build-pass flags and rewrites a built docs site.
package inject

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/louisbranch/docsconsent/internal/consent"
	entrypoint "github.com/louisbranch/docsconsent/internal/platform/cmd"
	"github.com/louisbranch/docsconsent/internal/platform/config"
	"github.com/louisbranch/docsconsent/internal/platform/logging"
	injector "github.com/louisbranch/docsconsent/internal/services/inject"
)

// Config holds build-pass command configuration.
type Config struct {
	SiteDir     string `env:"DOCSCONSENT_SITE_DIR" envDefault:"site"`
	ConfigPath  string `env:"DOCSCONSENT_CONFIG" envDefault:"cookie-consent.yaml"`
	Environment string `env:"DOCSCONSENT_ENV" envDefault:"development"`
	AssetPrefix string `env:"DOCSCONSENT_ASSET_PREFIX" envDefault:"_consent"`
	LogLevel    string `env:"DOCSCONSENT_LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"DOCSCONSENT_LOG_FORMAT" envDefault:"text"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.SiteDir, "site-dir", cfg.SiteDir, "Directory holding the built docs site")
	fs.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "Cookie consent configuration file (YAML or JSON)")
	fs.StringVar(&cfg.Environment, "env", cfg.Environment, "Build environment; pages are rewritten in production")
	fs.StringVar(&cfg.AssetPrefix, "asset-prefix", cfg.AssetPrefix, "Site-relative directory for the banner assets")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run injects the consent banner into every page of the built site.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(os.Stderr, logging.Options{Level: cfg.LogLevel, Format: logging.Format(cfg.LogFormat)})
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	opts, err := consent.Load(cfg.ConfigPath)
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceInject, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		_, err := injector.Run(ctx, injector.Options{
			SiteDir:     cfg.SiteDir,
			AssetPrefix: cfg.AssetPrefix,
			Consent:     opts,
			Production:  config.IsProduction(cfg.Environment),
			Logger:      logger,
		})
		return err
	})
}
