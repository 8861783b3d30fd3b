package consent

import (
	"strings"
	"sync"
	"time"
)

// CookieValue is written to whichever decision cookie is set.
const CookieValue = "true"

// CookiePath scopes decision cookies to the whole site.
const CookiePath = "/"

// CookieStore is the cookie boundary the resolver reads and writes.
type CookieStore interface {
	// Lookup returns the value of name when present.
	Lookup(name string) (string, bool)
	// Write sets name=value on path "/" expiring at expires.
	Write(name, value string, expires time.Time)
}

// ExpiresAt returns the expiry for a cookie written at now that lives for
// days whole days of 86400 seconds. Days are clamped to
// [0, MaxCookieExpirationDays] so the duration cannot overflow.
func ExpiresAt(now time.Time, days int) time.Time {
	days = min(max(days, 0), MaxCookieExpirationDays)
	return now.Add(time.Duration(days) * 24 * time.Hour)
}

// MemoryStore is an in-process CookieStore. Writes are visible to later
// lookups; expiry is recorded but not enforced.
type MemoryStore struct {
	mu      sync.Mutex
	values  map[string]string
	expires map[string]time.Time
}

// NewMemoryStore returns a store seeded with values.
func NewMemoryStore(values map[string]string) *MemoryStore {
	s := &MemoryStore{values: map[string]string{}, expires: map[string]time.Time{}}
	for name, value := range values {
		s.values[name] = value
	}
	return s
}

// ParseCookieString builds a store from a Cookie header or document.cookie
// style string ("a=1; b=2").
func ParseCookieString(raw string) *MemoryStore {
	s := NewMemoryStore(nil)
	for _, part := range strings.Split(raw, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, exists := s.values[name]; exists {
			continue
		}
		s.values[name] = value
	}
	return s
}

// Lookup implements CookieStore.
func (s *MemoryStore) Lookup(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[name]
	return value, ok
}

// Write implements CookieStore.
func (s *MemoryStore) Write(name, value string, expires time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = map[string]string{}
		s.expires = map[string]time.Time{}
	}
	s.values[name] = value
	s.expires[name] = expires
}

// Expiry returns the expiry recorded by the last write of name.
func (s *MemoryStore) Expiry(name string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expires, ok := s.expires[name]
	return expires, ok
}
