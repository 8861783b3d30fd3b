// Package timeouts defines the HTTP server timeouts used by the docs server.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// Idle bounds keep-alive connections between static asset requests.
const Idle = 60 * time.Second
