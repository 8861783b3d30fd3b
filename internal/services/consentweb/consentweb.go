// Package consentweb exposes the consent resolver over HTTP: decision
// endpoints, server-rendered banner markup and HTML injection.
package consentweb

import "strings"

// DefaultPrefix is the path under which consent endpoints are mounted.
const DefaultPrefix = "/_consent"

// Routes names the consent endpoint paths for a prefix.
type Routes struct {
	Prefix string
}

// NewRoutes normalizes prefix, defaulting to DefaultPrefix.
func NewRoutes(prefix string) Routes {
	prefix = "/" + strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "/" {
		prefix = DefaultPrefix
	}
	return Routes{Prefix: prefix}
}

// Accept is the accept endpoint.
func (r Routes) Accept() string { return r.Prefix + "/accept" }

// Deny is the deny endpoint.
func (r Routes) Deny() string { return r.Prefix + "/deny" }

// Status is the decision status endpoint.
func (r Routes) Status() string { return r.Prefix + "/status" }

// Static is the embedded asset path, with a trailing slash.
func (r Routes) Static() string { return r.Prefix + "/static/" }

// Owns reports whether path is served by the consent endpoints.
func (r Routes) Owns(path string) bool {
	return path == r.Prefix || strings.HasPrefix(path, r.Prefix+"/")
}
