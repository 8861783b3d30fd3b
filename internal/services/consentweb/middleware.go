package consentweb

import (
	"bytes"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/louisbranch/docsconsent/internal/consent"
	apperrors "github.com/louisbranch/docsconsent/internal/platform/errors"
	"github.com/louisbranch/docsconsent/internal/services/shared/httpx"
)

// pageWriter holds back a response until its status and content type are
// known. Only full HTML pages are buffered for injection; everything else is
// written straight through to the client.
type pageWriter struct {
	w         http.ResponseWriter
	decided   bool
	buffering bool
	body      bytes.Buffer
}

func (p *pageWriter) Header() http.Header {
	return p.w.Header()
}

func (p *pageWriter) WriteHeader(status int) {
	if p.decided {
		return
	}
	p.decide(status, nil)
}

func (p *pageWriter) Write(b []byte) (int, error) {
	if !p.decided {
		p.decide(http.StatusOK, b)
	}
	if p.buffering {
		return p.body.Write(b)
	}
	return p.w.Write(b)
}

// Flush forwards to the client once the response is known not to be a page.
func (p *pageWriter) Flush() {
	if !p.decided || p.buffering {
		return
	}
	if f, ok := p.w.(http.Flusher); ok {
		f.Flush()
	}
}

func (p *pageWriter) Unwrap() http.ResponseWriter {
	return p.w
}

func (p *pageWriter) decide(status int, firstChunk []byte) {
	p.decided = true
	header := p.w.Header()
	contentType := header.Get("Content-Type")
	if contentType == "" && firstChunk != nil {
		contentType = http.DetectContentType(firstChunk)
		header.Set("Content-Type", contentType)
	}
	if status == http.StatusOK && isHTML(contentType) {
		p.buffering = true
		return
	}
	p.w.WriteHeader(status)
}

func writePage(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// pageExtensions are the file extensions that can hold a documentation page.
// Extensionless paths resolve to directory indexes or pretty URLs.
var pageExtensions = map[string]bool{"": true, ".html": true, ".htm": true}

func isPagePath(p string) bool {
	return pageExtensions[strings.ToLower(path.Ext(p))]
}

// Middleware mounts a banner for every HTML page served by next and, when it
// is visible, appends the banner markup to the page body. Assets and non-HTML
// responses stream through untouched.
func (h *Handler) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || h.routes.Owns(r.URL.Path) || httpx.IsPartialRequest(r) || !isPagePath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Cookie")
			store := NewRequestCookies(nil, r, h.scheme)
			if !h.resolver.ShouldShowBanner(store) {
				next.ServeHTTP(w, r)
				return
			}

			// A cached copy would miss the banner. Range is kept: a 206 is
			// never buffered.
			inner := r.Clone(r.Context())
			inner.Header.Del("If-Modified-Since")
			inner.Header.Del("If-None-Match")

			pw := &pageWriter{w: w}
			next.ServeHTTP(pw, inner)
			if !pw.buffering {
				return
			}
			page := pw.body.Bytes()
			body, ok := h.inject(r, store, page)
			if !ok {
				writePage(w, page)
				return
			}
			w.Header().Set("Cache-Control", "no-store")
			w.Header().Del("ETag")
			w.Header().Del("Last-Modified")
			writePage(w, body)
		})
	}
}

func (h *Handler) inject(r *http.Request, store consent.CookieStore, page []byte) ([]byte, bool) {
	ctx := httpx.RequestContext(r)
	doc, err := ParseDocument(bytes.NewReader(page))
	if err != nil {
		h.logger.WarnContext(ctx, "cookie consent: page not parsed", "path", r.URL.Path, "error", err)
		return nil, false
	}
	if doc.HasMarker("banner") {
		return nil, false
	}

	banner := consent.NewBanner(h.resolver)
	if err := banner.Mount(store, doc.DeclaredLanguage()); err != nil {
		if apperrors.HasCode(err, apperrors.CodeLocaleUnresolved) {
			h.logger.WarnContext(ctx, "cookie consent: no content found for locale", "locale", banner.Locale(), "path", r.URL.Path)
			h.metrics.ObserveSuppressed()
			return nil, false
		}
		h.logger.ErrorContext(ctx, "cookie consent: mount banner", "error", err)
		return nil, false
	}
	if !banner.Visible() {
		return nil, false
	}

	markup, err := RenderString(ctx, Banner(BannerView{
		Text:       banner.Text(),
		Placement:  banner.Placement(),
		Locale:     banner.Locale(),
		Routes:     h.routes,
		ReturnPath: r.URL.RequestURI(),
	}))
	if err != nil {
		h.logger.ErrorContext(ctx, "cookie consent: render banner", "error", err)
		return nil, false
	}
	if !doc.HasMarker("style") {
		style, err := RenderString(ctx, Stylesheet(strings.TrimSuffix(h.routes.Static(), "/")))
		if err == nil {
			err = doc.AppendToHead(style)
		}
		if err != nil {
			h.logger.WarnContext(ctx, "cookie consent: inject stylesheet", "error", err)
		}
	}
	if err := doc.AppendToBody(markup); err != nil {
		h.logger.ErrorContext(ctx, "cookie consent: inject banner", "error", err)
		return nil, false
	}
	out, err := doc.Bytes()
	if err != nil {
		h.logger.ErrorContext(ctx, "cookie consent: render page", "error", err)
		return nil, false
	}
	h.metrics.ObserveImpression(banner.Locale())
	return out, true
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html"
}
