package consentweb

import (
	"bytes"
	"log/slog"
	"time"

	"github.com/louisbranch/docsconsent/internal/consent"
)

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func testContent() *consent.Content {
	return consent.NewContent(
		consent.LocaleEntry{Locale: "en", Text: consent.LocalizedText{
			Title:       "Cookies",
			Description: "We use cookies for analytics.",
			AllowText:   "Allow",
			DenyText:    "Deny",
			LinkText:    "Privacy policy",
			LinkURL:     "/privacy",
		}},
		consent.LocaleEntry{Locale: "fr", Text: consent.LocalizedText{
			Title:       "Témoins",
			Description: "Nous utilisons des témoins.",
			AllowText:   "Accepter",
			DenyText:    "Refuser",
		}},
	)
}

func testResolver(callbacks consent.Callbacks) *consent.Resolver {
	cfg := consent.Defaults()
	cfg.Content = testContent()
	return consent.NewResolver(cfg, callbacks, consent.WithClock(func() time.Time { return fixedNow }))
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
