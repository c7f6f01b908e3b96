// Package timeouts defines shared timeout constants for the contacts service.
package timeouts

import "time"

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second

// StorePing caps the health check round trip to SQLite.
const StorePing = 2 * time.Second

// NoticeTTL bounds how long an unread flash notice stays in a session mailbox.
const NoticeTTL = 10 * time.Minute
