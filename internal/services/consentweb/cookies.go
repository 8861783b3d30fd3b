package consentweb

import (
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/docsconsent/internal/consent"
	"github.com/louisbranch/docsconsent/internal/services/shared/requestmeta"
)

// RequestCookies is a consent.CookieStore over one HTTP exchange. Lookups
// see cookies sent with the request plus any written during it.
type RequestCookies struct {
	w      http.ResponseWriter
	r      *http.Request
	policy requestmeta.SchemePolicy
	jar    *consent.MemoryStore
}

// NewRequestCookies binds a store to w and r. A nil w makes the store
// read-only. policy decides whether written cookies are marked Secure.
func NewRequestCookies(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) *RequestCookies {
	header := ""
	if r != nil {
		header = strings.Join(r.Header.Values("Cookie"), "; ")
	}
	return &RequestCookies{w: w, r: r, policy: policy, jar: consent.ParseCookieString(header)}
}

// Lookup implements consent.CookieStore.
func (c *RequestCookies) Lookup(name string) (string, bool) {
	return c.jar.Lookup(name)
}

// Write implements consent.CookieStore. The cookie stays readable from
// script so analytics tags can check it.
func (c *RequestCookies) Write(name, value string, expires time.Time) {
	c.jar.Write(name, value, expires)
	if c.w == nil {
		return
	}
	http.SetCookie(c.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     consent.CookiePath,
		Expires:  expires.UTC(),
		Secure:   requestmeta.IsHTTPS(c.r, c.policy),
		SameSite: http.SameSiteLaxMode,
	})
}
