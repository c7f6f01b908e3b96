// Package pagerender centralizes page rendering behavior.
package pagerender

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/flash"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/httpx"
	webi18n "github.com/louisbranch/contacts/internal/services/contacts/web/platform/i18n"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/sessioncookie"
	webtemplates "github.com/louisbranch/contacts/internal/services/contacts/web/templates"
)

// LocaleResolver resolves the localizer and language tag for a request.
type LocaleResolver interface {
	Resolve(r *http.Request) (webi18n.Localizer, string)
}

// NoticeTaker consumes the pending notice for a session.
type NoticeTaker interface {
	Take(sessionID string) (flash.Notice, bool)
}

// Page describes one full-page response.
type Page struct {
	Title      string
	StatusCode int
	// Fragment builds the page body once the request localizer is known.
	Fragment func(loc webtemplates.Localizer) templ.Component
}

// Renderer writes pages inside the shared layout.
type Renderer struct {
	locales LocaleResolver
	notices NoticeTaker
}

// New builds a Renderer. Either dependency may be nil.
func New(locales LocaleResolver, notices NoticeTaker) *Renderer {
	return &Renderer{locales: locales, notices: notices}
}

// Localizer resolves the request localizer.
func (rd *Renderer) Localizer(r *http.Request) (webi18n.Localizer, string) {
	if rd == nil || rd.locales == nil {
		return nil, ""
	}
	return rd.locales.Resolve(r)
}

// WritePage renders page, consuming any pending notice for the session.
func (rd *Renderer) WritePage(w http.ResponseWriter, r *http.Request, page Page) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	loc, lang := rd.Localizer(r)
	var fragment templ.Component = templ.NopComponent
	if page.Fragment != nil {
		fragment = page.Fragment(loc)
	}
	title := page.Title
	if title != "" {
		title = webi18n.Text(loc, title)
	}

	ctx := httpx.RequestContext(r)
	layout := webtemplates.Layout(webtemplates.LayoutOptions{
		Lang:  lang,
		Title: title,
		Toast: rd.takeToast(r, loc),
		Loc:   loc,
	})
	var buf bytes.Buffer
	if err := layout.Render(templ.WithChildren(ctx, fragment), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}

func (rd *Renderer) takeToast(r *http.Request, loc webi18n.Localizer) *webtemplates.Toast {
	if rd == nil || rd.notices == nil || r == nil {
		return nil
	}
	sessionID, ok := sessioncookie.FromContext(r.Context())
	if !ok {
		return nil
	}
	notice, ok := rd.notices.Take(sessionID)
	if !ok {
		return nil
	}
	return &webtemplates.Toast{
		Kind:    string(notice.Kind),
		Message: webi18n.Text(loc, notice.Key),
	}
}
