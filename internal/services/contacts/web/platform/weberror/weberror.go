// Package weberror renders shared error responses for web modules.
package weberror

import (
	"log"
	"net/http"

	"github.com/a-h/templ"
	apperrors "github.com/louisbranch/contacts/internal/services/contacts/web/platform/errors"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/pagerender"
	webtemplates "github.com/louisbranch/contacts/internal/services/contacts/web/templates"
)

// Write renders the error page with the status mapped from err.
func Write(w http.ResponseWriter, r *http.Request, renderer *pagerender.Renderer, err error) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	if statusCode >= http.StatusInternalServerError {
		method, path := "-", "-"
		if r != nil {
			method, path = r.Method, r.URL.Path
		}
		log.Printf("web request failed method=%s path=%s status=%d err=%v", method, path, statusCode, err)
	}
	writePage(w, r, renderer, statusCode, apperrors.LocalizationKey(err))
}

// WriteStatus renders the error page for statusCode.
func WriteStatus(w http.ResponseWriter, r *http.Request, renderer *pagerender.Renderer, statusCode int) {
	if w == nil {
		return
	}
	writePage(w, r, renderer, statusCode, "")
}

// NotFound renders the not-found page.
func NotFound(w http.ResponseWriter, r *http.Request, renderer *pagerender.Renderer) {
	WriteStatus(w, r, renderer, http.StatusNotFound)
}

func writePage(w http.ResponseWriter, r *http.Request, renderer *pagerender.Renderer, statusCode int, messageKey string) {
	page := pagerender.Page{
		Title:      webtemplates.ErrorTitleKey,
		StatusCode: statusCode,
		Fragment: func(loc webtemplates.Localizer) templ.Component {
			return webtemplates.ErrorState(statusCode, messageKey, loc)
		},
	}
	if err := renderer.WritePage(w, r, page); err != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}
