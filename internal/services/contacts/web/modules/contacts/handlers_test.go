package contacts

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/contacts/internal/platform/i18n/catalog"
	"github.com/louisbranch/contacts/internal/services/contacts/storage"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/flash"
	webi18n "github.com/louisbranch/contacts/internal/services/contacts/web/platform/i18n"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/pagerender"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/sessioncookie"
)

const testSession = "session-1"

type harness struct {
	mux     *http.ServeMux
	store   *fakeStore
	mailbox *flash.Mailbox
}

func newHarness(t *testing.T, store *fakeStore) harness {
	t.Helper()

	bundle, err := catalog.LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded() error = %v", err)
	}
	mailbox := flash.NewMailbox(0)
	mux := http.NewServeMux()
	var opts []Option
	if store != nil {
		opts = append(opts, WithStore(store))
	}
	opts = append(opts,
		WithRenderer(pagerender.New(webi18n.NewResolver(bundle), mailbox)),
		WithNotices(mailbox),
		WithClock(func() time.Time { return time.Date(2024, time.May, 1, 9, 30, 15, 0, time.Local) }),
	)
	New(opts...).Mount(mux)
	return harness{mux: mux, store: store, mailbox: mailbox}
}

func (h harness) do(method string, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req = req.WithContext(sessioncookie.WithSessionID(req.Context(), testSession))
	rr := httptest.NewRecorder()
	h.mux.ServeHTTP(rr, req)
	return rr
}

func (h harness) takeNotice(t *testing.T) flash.Notice {
	t.Helper()

	notice, ok := h.mailbox.Take(testSession)
	if !ok {
		t.Fatal("expected pending notice")
	}
	return notice
}

func assertRedirect(t *testing.T, rr *httptest.ResponseRecorder, location string) {
	t.Helper()

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if got := rr.Header().Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}

func TestListRendersContactsNewestFirst(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeStore(
		storage.Contact{ID: 1, Name: "Older", Phone: "111", CreatedAt: "2024-01-01 10:00:00"},
		storage.Contact{ID: 2, Name: "Newer", Phone: "222", CreatedAt: "2024-02-01 10:00:00"},
	))
	rr := h.do(http.MethodGet, "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	if strings.Index(body, "Newer") > strings.Index(body, "Older") {
		t.Fatalf("expected newest contact first: %q", body)
	}
	if strings.Contains(body, "flash-notice") {
		t.Fatal("unexpected notice without pending flash")
	}
}

func TestListWithStorageFailureRendersServerError(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.listErr = errors.New("database is locked")
	h := newHarness(t, store)
	rr := h.do(http.MethodGet, "/", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if strings.Contains(rr.Body.String(), "database is locked") {
		t.Fatal("expected storage detail to stay hidden")
	}
	if _, ok := h.mailbox.Take(testSession); ok {
		t.Fatal("expected no notice on storage failure")
	}
}

func TestListWithoutStoreIsUnavailable(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	if rr := h.do(http.MethodGet, "/", nil); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	if rr := h.do(http.MethodGet, "/up", nil); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("health status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestAddCreatesTrimmedContactWithClockTimestamp(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeStore())
	rr := h.do(http.MethodPost, "/add", url.Values{"name": {"  Alice "}, "phone": {" 123 "}})
	assertRedirect(t, rr, "/")

	got, ok := h.store.snapshot(1)
	if !ok {
		t.Fatal("expected contact to be stored")
	}
	if got.Name != "Alice" || got.Phone != "123" {
		t.Fatalf("stored = %+v, want trimmed values", got)
	}
	if got.CreatedAt != "2024-05-01 09:30:15" {
		t.Fatalf("created_at = %q", got.CreatedAt)
	}
	if notice := h.takeNotice(t); notice != flash.NoticeSuccess(noticeCreated) {
		t.Fatalf("notice = %+v", notice)
	}
}

func TestAddRejectsBlankFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		form url.Values
	}{
		{name: "blank name", form: url.Values{"name": {"   "}, "phone": {"123"}}},
		{name: "blank phone", form: url.Values{"name": {"Alice"}, "phone": {""}}},
		{name: "missing fields", form: url.Values{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, newFakeStore())
			rr := h.do(http.MethodPost, "/add", tc.form)
			assertRedirect(t, rr, "/")
			if h.store.count() != 0 {
				t.Fatal("expected no contact to be stored")
			}
			if notice := h.takeNotice(t); notice != flash.NoticeError(noticeRequiredFields) {
				t.Fatalf("notice = %+v", notice)
			}
		})
	}
}

func TestAddStorageFailureRendersServerError(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.createErr = errors.New("disk full")
	h := newHarness(t, store)
	rr := h.do(http.MethodPost, "/add", url.Values{"name": {"A"}, "phone": {"1"}})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestEditGetRendersPrefilledForm(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeStore(storage.Contact{ID: 4, Name: "Dana", Phone: "444", CreatedAt: "2024-01-01 00:00:00"}))
	rr := h.do(http.MethodGet, "/edit/4", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	for _, marker := range []string{`action="/edit/4"`, `value="Dana"`, `value="444"`} {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing %q: %q", marker, body)
		}
	}
}

func TestEditGetMissingContactRedirectsWithNotice(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeStore())
	rr := h.do(http.MethodGet, "/edit/99", nil)
	assertRedirect(t, rr, "/")
	if notice := h.takeNotice(t); notice != flash.NoticeError(noticeNotFound) {
		t.Fatalf("notice = %+v", notice)
	}
}

func TestNonIntegerIDsAreNotFound(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeStore())
	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/edit/abc"},
		{http.MethodPost, "/edit/-1"},
		{http.MethodPost, "/delete/1.5"},
		{http.MethodGet, "/edit/0"},
	} {
		rr := h.do(tc.method, tc.target, url.Values{})
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s %s status = %d, want %d", tc.method, tc.target, rr.Code, http.StatusNotFound)
		}
	}
	if h.store.deleteCalls != 0 {
		t.Fatal("expected no delete for invalid id")
	}
}

func TestEditPostUpdatesContactAndKeepsCreatedAt(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeStore(storage.Contact{ID: 5, Name: "Eve", Phone: "555", CreatedAt: "2023-12-31 23:59:59"}))
	rr := h.do(http.MethodPost, "/edit/5", url.Values{"name": {" Evelyn "}, "phone": {"556"}})
	assertRedirect(t, rr, "/")

	got, _ := h.store.snapshot(5)
	if got.Name != "Evelyn" || got.Phone != "556" || got.CreatedAt != "2023-12-31 23:59:59" {
		t.Fatalf("stored = %+v", got)
	}
	if notice := h.takeNotice(t); notice != flash.NoticeSuccess(noticeUpdated) {
		t.Fatalf("notice = %+v", notice)
	}
}

func TestEditPostBlankFieldsRedirectBackToForm(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeStore(storage.Contact{ID: 6, Name: "Finn", Phone: "666", CreatedAt: "2024-01-01 00:00:00"}))
	rr := h.do(http.MethodPost, "/edit/6", url.Values{"name": {""}, "phone": {"1"}})
	assertRedirect(t, rr, "/edit/6")

	got, _ := h.store.snapshot(6)
	if got.Name != "Finn" {
		t.Fatalf("stored name = %q, want unchanged", got.Name)
	}
	if notice := h.takeNotice(t); notice != flash.NoticeError(noticeRequiredFields) {
		t.Fatalf("notice = %+v", notice)
	}
}

func TestEditPostMissingContactRedirectsWithNotFound(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeStore())
	rr := h.do(http.MethodPost, "/edit/77", url.Values{"name": {"A"}, "phone": {"1"}})
	assertRedirect(t, rr, "/")
	if notice := h.takeNotice(t); notice != flash.NoticeError(noticeNotFound) {
		t.Fatalf("notice = %+v", notice)
	}
	if h.store.count() != 0 {
		t.Fatal("expected update of missing id to create nothing")
	}
}

func TestDeleteRemovesContact(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeStore(storage.Contact{ID: 8, Name: "Gus", Phone: "888", CreatedAt: "2024-01-01 00:00:00"}))
	rr := h.do(http.MethodPost, "/delete/8", url.Values{})
	assertRedirect(t, rr, "/")
	if _, ok := h.store.snapshot(8); ok {
		t.Fatal("expected contact to be deleted")
	}
	if notice := h.takeNotice(t); notice != flash.NoticeSuccess(noticeDeleted) {
		t.Fatalf("notice = %+v", notice)
	}
}

func TestDeleteMissingContactRedirectsWithNotFound(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeStore())
	rr := h.do(http.MethodPost, "/delete/8", url.Values{})
	assertRedirect(t, rr, "/")
	if notice := h.takeNotice(t); notice != flash.NoticeError(noticeNotFound) {
		t.Fatalf("notice = %+v", notice)
	}
	if h.store.deleteCalls != 0 {
		t.Fatal("expected no delete statement for missing contact")
	}
}

func TestUnsupportedMethodsAreRejected(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeStore())
	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/add"},
		{http.MethodGet, "/delete/1"},
		{http.MethodPost, "/"},
	} {
		rr := h.do(tc.method, tc.target, nil)
		if rr.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s status = %d, want %d", tc.method, tc.target, rr.Code, http.StatusMethodNotAllowed)
		}
	}
}

func TestHealthReportsStorePing(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	h := newHarness(t, store)
	rr := h.do(http.MethodGet, "/up", nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("health = %d %q", rr.Code, rr.Body.String())
	}

	failing := newFakeStore()
	failing.pingErr = errors.New("closed")
	h = newHarness(t, failing)
	if rr := h.do(http.MethodGet, "/up", nil); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("failing health status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestModuleIdentity(t *testing.T) {
	t.Parallel()

	if got := New().ID(); got != "contacts" {
		t.Fatalf("ID() = %q", got)
	}
	if New().Healthy() {
		t.Fatal("expected module without store to be unhealthy")
	}
	if !New(WithStore(newFakeStore())).Healthy() {
		t.Fatal("expected module with store to be healthy")
	}
}
