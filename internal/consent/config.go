// Package consent decides whether the cookie-consent banner is shown,
// persists the visitor's decision in cookies and selects the localized
// banner copy.
package consent

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	apperrors "github.com/louisbranch/docsconsent/internal/platform/errors"
)

const (
	// DefaultCookieExpirationDays is how long a decision cookie lives.
	DefaultCookieExpirationDays = 365
	// DefaultAcceptCookieName records an accepted decision.
	DefaultAcceptCookieName = "cookie_consent_accepted"
	// DefaultDenyCookieName records a denied decision.
	DefaultDenyCookieName = "cookie_consent_denied"
	// MaxCookieExpirationDays bounds cookieExpiration to a century.
	MaxCookieExpirationDays = 36500
	// DefaultLocale is used when no language is declared and as the second
	// step of the content fallback chain.
	DefaultLocale = "en"
)

// LocalizedText is the banner copy for one locale.
type LocalizedText struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	AllowText   string `json:"allowText" yaml:"allowText"`
	DenyText    string `json:"denyText" yaml:"denyText"`
	LinkText    string `json:"linkText,omitempty" yaml:"linkText,omitempty"`
	LinkURL     string `json:"linkUrl,omitempty" yaml:"linkUrl,omitempty"`
}

// HasLink reports whether the copy carries a policy link.
func (t LocalizedText) HasLink() bool {
	return strings.TrimSpace(t.LinkText) != "" && strings.TrimSpace(t.LinkURL) != ""
}

// Validate enforces that link text and URL come as a pair.
func (t LocalizedText) Validate() error {
	hasText := strings.TrimSpace(t.LinkText) != ""
	hasURL := strings.TrimSpace(t.LinkURL) != ""
	if hasText != hasURL {
		return apperrors.New(apperrors.CodeConfigInvalid, "linkText and linkUrl must be set together")
	}
	return nil
}

// Config is the banner configuration shared with the rendering layer. It is
// built once and treated as immutable afterwards.
type Config struct {
	Position             Position `json:"position" yaml:"position"`
	CookieExpirationDays int      `json:"cookieExpiration" yaml:"cookieExpiration"`
	AcceptCookieName     string   `json:"consentCookieName" yaml:"consentCookieName"`
	DenyCookieName       string   `json:"deniedCookieName" yaml:"deniedCookieName"`
	AutoHide             bool     `json:"autoHide" yaml:"autoHide"`
	Content              *Content `json:"content" yaml:"content"`
}

// Defaults returns a config with every optional field set and no content.
func Defaults() Config {
	return Config{
		Position:             PositionBottomLeft,
		CookieExpirationDays: DefaultCookieExpirationDays,
		AcceptCookieName:     DefaultAcceptCookieName,
		DenyCookieName:       DefaultDenyCookieName,
		AutoHide:             true,
	}
}

// Normalize fills zero-valued optional fields with defaults. Positions are kept
// verbatim; anything other than the six exact values renders bottom-left.
// Content is left as-is.
func (c Config) Normalize() Config {
	defaults := Defaults()
	if c.Position == "" {
		c.Position = defaults.Position
	}
	if c.CookieExpirationDays == 0 {
		c.CookieExpirationDays = defaults.CookieExpirationDays
	}
	c.AcceptCookieName = strings.TrimSpace(c.AcceptCookieName)
	if c.AcceptCookieName == "" {
		c.AcceptCookieName = defaults.AcceptCookieName
	}
	c.DenyCookieName = strings.TrimSpace(c.DenyCookieName)
	if c.DenyCookieName == "" {
		c.DenyCookieName = defaults.DenyCookieName
	}
	return c
}

// Validate checks a normalized config. A missing content mapping reports
// CONSENT_CONTENT_MISSING; every other problem reports CONSENT_CONFIG_INVALID.
func (c Config) Validate() error {
	if c.Content == nil {
		return apperrors.New(apperrors.CodeContentMissing, "content configuration is required")
	}
	if err := validateExpiration(c.CookieExpirationDays); err != nil {
		return err
	}
	if c.AcceptCookieName == c.DenyCookieName {
		return apperrors.New(apperrors.CodeConfigInvalid, "accept and deny cookie names must differ")
	}
	for _, name := range []string{c.AcceptCookieName, c.DenyCookieName} {
		if !validCookieName(name) {
			return apperrors.WithMetadata(apperrors.CodeConfigInvalid,
				fmt.Sprintf("invalid cookie name %q", name),
				map[string]string{"cookie": name})
		}
	}
	for _, entry := range c.Content.Entries() {
		if _, err := language.Parse(entry.Locale); err != nil {
			return apperrors.WithMetadata(apperrors.CodeConfigInvalid,
				fmt.Sprintf("content locale %q is not a language tag", entry.Locale),
				map[string]string{"locale": entry.Locale})
		}
		if err := entry.Text.Validate(); err != nil {
			return fmt.Errorf("content %s: %w", entry.Locale, err)
		}
	}
	return nil
}

// Options are the build-level settings: the banner config plus the switches
// that decide whether the feature is active at all.
type Options struct {
	Config  `yaml:",inline"`
	Enabled bool `json:"enabled" yaml:"enabled"`
	Debug   bool `json:"debug" yaml:"debug"`
}

// DefaultOptions returns enabled, non-debug options with default config.
func DefaultOptions() Options {
	return Options{Config: Defaults(), Enabled: true}
}

// Active reports whether the banner should be wired into pages: production
// builds or debug mode, and enabled, and content present.
func (o Options) Active(production bool) bool {
	return (production || o.Debug) && o.Enabled && o.Content != nil
}

func validateExpiration(days int) error {
	if days < 1 || days > MaxCookieExpirationDays {
		return apperrors.WithMetadata(apperrors.CodeConfigInvalid,
			fmt.Sprintf("cookieExpiration must be between 1 and %d days", MaxCookieExpirationDays),
			map[string]string{"cookieExpiration": fmt.Sprint(days)})
	}
	return nil
}

func validCookieName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r <= ' ' || r >= 0x7f || strings.ContainsRune(`()<>@,;:\"/[]?={}`, r) {
			return false
		}
	}
	return true
}
