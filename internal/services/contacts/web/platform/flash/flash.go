// Package flash provides one-time web notices persisted across redirects.
package flash

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL bounds how long an unread notice is kept.
const DefaultTTL = 10 * time.Minute

// Kind classifies flash notice presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notice stores one flash message reference.
type Notice struct {
	Kind Kind
	Key  string
}

// NoticeSuccess creates a success notice for the provided localization key.
func NoticeSuccess(key string) Notice {
	return Notice{Kind: KindSuccess, Key: key}
}

// NoticeError creates an error notice for the provided localization key.
func NoticeError(key string) Notice {
	return Notice{Kind: KindError, Key: key}
}

type entry struct {
	notice  Notice
	expires time.Time
}

// Mailbox holds at most one pending notice per session.
type Mailbox struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// NewMailbox builds an empty mailbox. A non-positive ttl uses DefaultTTL.
func NewMailbox(ttl time.Duration) *Mailbox {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Mailbox{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Put replaces the pending notice for sessionID.
func (m *Mailbox) Put(sessionID string, notice Notice) {
	if m == nil {
		return
	}
	sessionID = strings.TrimSpace(sessionID)
	normalized, ok := normalizeNotice(notice)
	if sessionID == "" || !ok {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.pruneLocked(now)
	m.entries[sessionID] = entry{notice: normalized, expires: now.Add(m.ttl)}
}

// Take returns and clears the pending notice for sessionID.
func (m *Mailbox) Take(sessionID string) (Notice, bool) {
	if m == nil {
		return Notice{}, false
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Notice{}, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pending, ok := m.entries[sessionID]
	if !ok {
		return Notice{}, false
	}
	delete(m.entries, sessionID)
	if !m.now().Before(pending.expires) {
		return Notice{}, false
	}
	return pending.notice, true
}

func (m *Mailbox) pruneLocked(now time.Time) {
	for id, pending := range m.entries {
		if !now.Before(pending.expires) {
			delete(m.entries, id)
		}
	}
}

func normalizeNotice(notice Notice) (Notice, bool) {
	notice.Key = strings.TrimSpace(notice.Key)
	if notice.Key == "" {
		return Notice{}, false
	}
	notice.Kind = Kind(strings.ToLower(strings.TrimSpace(string(notice.Kind))))
	switch notice.Kind {
	case KindSuccess, KindInfo, KindWarning, KindError:
		return notice, true
	default:
		return Notice{}, false
	}
}
