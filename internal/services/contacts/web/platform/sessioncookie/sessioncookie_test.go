package sessioncookie

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/requestmeta"
)

func TestNewManagerRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewManager("  ", requestmeta.SchemePolicy{}); err == nil {
		t.Fatal("expected blank secret error")
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, "secret")
	token, err := m.Issue("6f1c1c1e-4c9b-4c55-9f3b-1d1d5b3c8a10")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	got, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got != "6f1c1c1e-4c9b-4c55-9f3b-1d1d5b3c8a10" {
		t.Fatalf("Verify() = %q", got)
	}
}

func TestVerifyRejectsForeignSignatureAndGarbage(t *testing.T) {
	t.Parallel()

	issuer := newTestManager(t, "one")
	verifier := newTestManager(t, "two")
	token, err := issuer.Issue("6f1c1c1e-4c9b-4c55-9f3b-1d1d5b3c8a10")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("expected signature mismatch error")
	}
	if _, err := verifier.Verify("not-a-token"); err == nil {
		t.Fatal("expected malformed token error")
	}
	if _, err := verifier.Verify(""); err == nil {
		t.Fatal("expected empty token error")
	}
}

func TestVerifyRejectsNonUUIDSubject(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, "secret")
	token, err := m.Issue("../../etc")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := m.Verify(token); err == nil {
		t.Fatal("expected subject validation error")
	}
}

func TestMiddlewareIssuesCookieForNewVisitor(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, "secret")
	var seen string
	h := m.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected session id in context")
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != Name {
		t.Fatalf("cookies = %+v, want one %s cookie", cookies, Name)
	}
	if !cookies[0].HttpOnly || cookies[0].SameSite != http.SameSiteLaxMode || cookies[0].Secure {
		t.Fatalf("cookie attributes = %+v", cookies[0])
	}
	got, err := m.Verify(cookies[0].Value)
	if err != nil {
		t.Fatalf("Verify(cookie) error = %v", err)
	}
	if got != seen {
		t.Fatalf("cookie session = %q, context session = %q", got, seen)
	}
}

func TestMiddlewareReusesValidCookie(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, "secret")
	token, err := m.Issue("6f1c1c1e-4c9b-4c55-9f3b-1d1d5b3c8a10")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	var seen string
	h := m.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: Name, Value: token})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if seen != "6f1c1c1e-4c9b-4c55-9f3b-1d1d5b3c8a10" {
		t.Fatalf("session = %q", seen)
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Fatal("expected no new cookie for valid session")
	}
}

func TestMiddlewareReplacesTamperedCookie(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, "secret")
	token, err := m.Issue("6f1c1c1e-4c9b-4c55-9f3b-1d1d5b3c8a10")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	var seen string
	h := m.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: Name, Value: token + "x"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if seen == "" || seen == "6f1c1c1e-4c9b-4c55-9f3b-1d1d5b3c8a10" {
		t.Fatalf("session = %q, want fresh id", seen)
	}
	if len(rr.Result().Cookies()) != 1 {
		t.Fatal("expected replacement cookie")
	}
}

func TestMiddlewareMarksCookieSecureOverHTTPS(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, "secret")
	h := m.Middleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || !cookies[0].Secure {
		t.Fatalf("cookies = %+v, want secure cookie", cookies)
	}
}

func TestFromContextWithoutSession(t *testing.T) {
	t.Parallel()

	if _, ok := FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()); ok {
		t.Fatal("expected no session id")
	}
}

func newTestManager(t *testing.T, secret string) *Manager {
	t.Helper()

	m, err := NewManager(secret, requestmeta.SchemePolicy{})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m
}
