package consentweb

import (
	"log/slog"

	"github.com/louisbranch/docsconsent/internal/consent"
)

// Gate decides whether the banner is wired into pages and logs why when it
// is not. A missing content mapping is a configuration error: the feature
// stays off instead of rendering nothing silently.
func Gate(logger *slog.Logger, opts consent.Options, production bool) bool {
	if logger == nil {
		logger = slog.Default()
	}
	switch {
	case opts.Content == nil:
		logger.Warn("cookie consent: content configuration is required")
		return false
	case !opts.Enabled:
		logger.Info("cookie consent: disabled by configuration")
		return false
	case !production && !opts.Debug:
		logger.Info("cookie consent: inactive outside production; set debug to preview")
		return false
	}
	if opts.Content.Len() == 0 {
		logger.Warn("cookie consent: content has no locales; banner will be suppressed")
	}
	return opts.Active(production)
}
