package consent

import (
	"context"

	apperrors "github.com/louisbranch/docsconsent/internal/platform/errors"
)

// State is the banner visibility.
type State int

const (
	StateHidden State = iota
	StateVisible
)

// String returns the state name.
func (s State) String() string {
	if s == StateVisible {
		return "visible"
	}
	return "hidden"
}

// Banner is the per-page visibility state machine. It starts hidden, becomes
// visible on Mount when no decision is recorded, and returns to hidden for
// the rest of the page lifetime after Accept or Deny.
type Banner struct {
	resolver *Resolver
	state    State
	mounted  bool
	locale   string
	text     LocalizedText
}

// NewBanner returns a hidden banner driven by resolver.
func NewBanner(resolver *Resolver) *Banner {
	return &Banner{resolver: resolver}
}

// Mount evaluates the cookies once and reads the declared page language.
// Mounting twice is a no-op. When the banner should show but no copy can be
// selected, it stays hidden and a CONSENT_LOCALE_UNRESOLVED error is returned.
func (b *Banner) Mount(store CookieStore, declaredLang string) error {
	if b.mounted {
		return nil
	}
	b.mounted = true
	b.locale = RequestedLocale(declaredLang)
	if !b.resolver.ShouldShowBanner(store) {
		return nil
	}
	text, ok := SelectContent(b.resolver.Config().Content, b.locale)
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeLocaleUnresolved,
			"no content found for locale "+b.locale,
			map[string]string{"locale": b.locale})
	}
	b.text = text
	b.state = StateVisible
	return nil
}

// State returns the current visibility.
func (b *Banner) State() State {
	return b.state
}

// Visible reports whether the banner should be rendered.
func (b *Banner) Visible() bool {
	return b.state == StateVisible
}

// Locale returns the locale read at mount.
func (b *Banner) Locale() string {
	return b.locale
}

// Text returns the selected copy; empty until a visible mount.
func (b *Banner) Text() LocalizedText {
	return b.text
}

// Placement returns the presentation descriptor for the configured position.
func (b *Banner) Placement() Placement {
	return PlacementFor(string(b.resolver.Config().Position))
}

// Accept records acceptance and hides the banner.
func (b *Banner) Accept(ctx context.Context, store CookieStore) {
	b.resolver.Accept(ctx, store)
	b.state = StateHidden
}

// Deny records denial and hides the banner.
func (b *Banner) Deny(ctx context.Context, store CookieStore) {
	b.resolver.Deny(ctx, store)
	b.state = StateHidden
}
