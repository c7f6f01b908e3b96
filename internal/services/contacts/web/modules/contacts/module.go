// Package contacts serves the contact list, add, edit and delete pages.
package contacts

import (
	"net/http"
	"time"

	"github.com/louisbranch/contacts/internal/services/contacts/storage"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/flash"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/pagerender"
)

// NoticeStore holds one-time notices per session.
type NoticeStore interface {
	Put(sessionID string, notice flash.Notice)
}

// Option configures a contacts module.
type Option func(*Module)

// WithStore sets the contact store.
func WithStore(s storage.ContactStore) Option {
	return func(m *Module) { m.store = s }
}

// WithRenderer sets the page renderer.
func WithRenderer(r *pagerender.Renderer) Option {
	return func(m *Module) { m.renderer = r }
}

// WithNotices sets the notice mailbox written before redirects.
func WithNotices(n NoticeStore) Option {
	return func(m *Module) { m.notices = n }
}

// WithClock overrides the clock used for created_at.
func WithClock(now func() time.Time) Option {
	return func(m *Module) { m.now = now }
}

// Module provides the contact routes.
type Module struct {
	store    storage.ContactStore
	renderer *pagerender.Renderer
	notices  NoticeStore
	now      func() time.Time
}

// New returns a contacts module configured by the given options.
// Without a store the module answers every data route as unavailable.
func New(opts ...Option) Module {
	var m Module
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// ID returns a stable module identifier.
func (Module) ID() string { return "contacts" }

// Healthy reports whether the module has an operational store.
func (m Module) Healthy() bool {
	return m.store != nil
}

// Mount registers the contact routes on mux.
func (m Module) Mount(mux *http.ServeMux) {
	if mux == nil {
		return
	}
	svc := newService(m.store, m.now)
	h := newHandlers(svc, m.renderer, m.notices, m.store)
	registerRoutes(mux, h)
}
