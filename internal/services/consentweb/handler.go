package consentweb

import (
	"log/slog"
	"net/http"

	"github.com/louisbranch/docsconsent/internal/consent"
	"github.com/louisbranch/docsconsent/internal/services/consentweb/static"
	"github.com/louisbranch/docsconsent/internal/services/shared/httpx"
	"github.com/louisbranch/docsconsent/internal/services/shared/requestmeta"
)

// Config wires a Handler.
type Config struct {
	Resolver *consent.Resolver
	Routes   Routes
	Logger   *slog.Logger
	Metrics  *Metrics
	// Scheme decides whether X-Forwarded-Proto is trusted when marking
	// cookies Secure and checking the origin of decision posts.
	Scheme requestmeta.SchemePolicy
}

// Handler serves the consent endpoints and injects the banner into pages.
type Handler struct {
	resolver *consent.Resolver
	routes   Routes
	logger   *slog.Logger
	metrics  *Metrics
	scheme   requestmeta.SchemePolicy
}

type decisionResponse struct {
	Decision   string `json:"decision"`
	ShowBanner bool   `json:"showBanner"`
}

// NewHandler builds a handler. Resolver is required.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	routes := cfg.Routes
	if routes.Prefix == "" {
		routes = NewRoutes(DefaultPrefix)
	}
	return &Handler{
		resolver: cfg.Resolver,
		routes:   routes,
		logger:   logger,
		metrics:  cfg.Metrics,
		scheme:   cfg.Scheme,
	}
}

// Routes returns the endpoint paths.
func (h *Handler) Routes() Routes {
	return h.routes
}

// Register mounts the consent endpoints and embedded assets on mux. Decision
// posts must come from a page on the same origin.
func (h *Handler) Register(mux *http.ServeMux) {
	sameOrigin := requestmeta.RequireSameOrigin(h.scheme, h.logger)
	mux.Handle("POST "+h.routes.Accept(), sameOrigin(http.HandlerFunc(h.handleAccept)))
	mux.Handle("POST "+h.routes.Deny(), sameOrigin(http.HandlerFunc(h.handleDeny)))
	mux.HandleFunc("GET "+h.routes.Status(), h.handleStatus)
	mux.Handle("GET "+h.routes.Static(), http.StripPrefix(h.routes.Static(), http.FileServer(http.FS(static.FS))))
}

func (h *Handler) handleAccept(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, consent.DecisionAccepted)
}

func (h *Handler) handleDeny(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, consent.DecisionDenied)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, decision consent.Decision) {
	ctx := httpx.RequestContext(r)
	store := NewRequestCookies(w, r, h.scheme)
	if decision == consent.DecisionAccepted {
		h.resolver.Accept(ctx, store)
	} else {
		h.resolver.Deny(ctx, store)
	}
	h.logger.InfoContext(ctx, "cookie consent decision recorded",
		"decision", decision.String(),
		"request_id", r.Header.Get(httpx.RequestIDHeader),
	)

	if httpx.WantsJSON(r) {
		_ = httpx.WriteJSON(w, http.StatusOK, decisionResponse{Decision: decision.String()})
		return
	}
	target := httpx.LocalRedirectPath(r.PostFormValue("return"), "/")
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	store := NewRequestCookies(nil, r, h.scheme)
	decision := h.resolver.Decision(store)
	_ = httpx.WriteJSON(w, http.StatusOK, decisionResponse{
		Decision:   decision.String(),
		ShowBanner: decision == consent.DecisionUnset,
	})
}
