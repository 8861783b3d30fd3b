package consent

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/louisbranch/docsconsent/internal/platform/otel"
)

// Decision is the visitor's consent state derived from cookies.
type Decision int

const (
	DecisionUnset Decision = iota
	DecisionAccepted
	DecisionDenied
)

// String returns the decision name used in logs, metrics and JSON.
func (d Decision) String() string {
	switch d {
	case DecisionAccepted:
		return "accepted"
	case DecisionDenied:
		return "denied"
	default:
		return "unset"
	}
}

// Callbacks are notified after a decision cookie is written. Implementations
// own their failures: a panic propagates to the caller of Accept or Deny.
type Callbacks interface {
	OnAccept(ctx context.Context)
	OnDeny(ctx context.Context)
}

// CallbackFuncs adapts plain functions to Callbacks. Nil funcs are skipped.
type CallbackFuncs struct {
	Accept func(ctx context.Context)
	Deny   func(ctx context.Context)
}

// OnAccept implements Callbacks.
func (f CallbackFuncs) OnAccept(ctx context.Context) {
	if f.Accept != nil {
		f.Accept(ctx)
	}
}

// OnDeny implements Callbacks.
func (f CallbackFuncs) OnDeny(ctx context.Context) {
	if f.Deny != nil {
		f.Deny(ctx)
	}
}

// MultiCallbacks fans a decision out to every non-nil callback in order.
type MultiCallbacks []Callbacks

// OnAccept implements Callbacks.
func (m MultiCallbacks) OnAccept(ctx context.Context) {
	for _, cb := range m {
		if cb != nil {
			cb.OnAccept(ctx)
		}
	}
}

// OnDeny implements Callbacks.
func (m MultiCallbacks) OnDeny(ctx context.Context) {
	for _, cb := range m {
		if cb != nil {
			cb.OnDeny(ctx)
		}
	}
}

// Resolver reads and records consent decisions for one configuration.
type Resolver struct {
	config    Config
	callbacks Callbacks
	now       func() time.Time
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithClock overrides the time source used for cookie expiry.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResolver returns a resolver for cfg. Optional fields of cfg are
// normalized; callbacks may be nil.
func NewResolver(cfg Config, callbacks Callbacks, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		config:    cfg.Normalize(),
		callbacks: callbacks,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the normalized configuration.
func (r *Resolver) Config() Config {
	return r.config
}

// Decision derives the current decision from store. Accept wins when both
// cookies are present.
func (r *Resolver) Decision(store CookieStore) Decision {
	if _, ok := store.Lookup(r.config.AcceptCookieName); ok {
		return DecisionAccepted
	}
	if _, ok := store.Lookup(r.config.DenyCookieName); ok {
		return DecisionDenied
	}
	return DecisionUnset
}

// ShouldShowBanner reports true iff neither decision cookie is present.
func (r *Resolver) ShouldShowBanner(store CookieStore) bool {
	return r.Decision(store) == DecisionUnset
}

// Accept writes the accept cookie and notifies OnAccept.
func (r *Resolver) Accept(ctx context.Context, store CookieStore) {
	r.record(ctx, store, DecisionAccepted)
}

// Deny writes the deny cookie and notifies OnDeny.
func (r *Resolver) Deny(ctx context.Context, store CookieStore) {
	r.record(ctx, store, DecisionDenied)
}

func (r *Resolver) record(ctx context.Context, store CookieStore, decision Decision) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := otel.Tracer("consent").Start(ctx, "consent."+decision.String())
	defer span.End()

	name := r.config.AcceptCookieName
	if decision == DecisionDenied {
		name = r.config.DenyCookieName
	}
	expires := ExpiresAt(r.now(), r.config.CookieExpirationDays)
	store.Write(name, CookieValue, expires)
	span.SetAttributes(
		otel.Decision(decision.String()),
		attribute.String("consent.cookie", name),
		attribute.Int("consent.expiration_days", r.config.CookieExpirationDays),
	)

	if r.callbacks == nil {
		return
	}
	if decision == DecisionAccepted {
		r.callbacks.OnAccept(ctx)
		return
	}
	r.callbacks.OnDeny(ctx)
}
