package templates

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/contacts/internal/services/contacts/web/routepath"
)

// ErrorTitleKey localizes the heading and browser title of error pages.
const ErrorTitleKey = "core.error.title"

const (
	errorNotFoundKey    = "core.error.not_found"
	errorInternalKey    = "core.error.internal"
	errorUnavailableKey = "core.error.unavailable"
	errorBackKey        = "core.error.back"
)

// ErrorState renders the error body for statusCode. A non-empty messageKey
// replaces the status message.
func ErrorState(statusCode int, messageKey string, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<section id="app-error-state"><h2>`)
		hw.text(T(loc, ErrorTitleKey))
		hw.raw(`</h2><p>`)
		hw.text(errorMessage(statusCode, messageKey, loc))
		hw.raw(`</p><a`)
		hw.attr("href", routepath.Root)
		hw.raw(`>`)
		hw.text(T(loc, errorBackKey))
		hw.raw(`</a></section>`)
		return hw.err
	})
}

func errorMessage(statusCode int, messageKey string, loc Localizer) string {
	if messageKey = strings.TrimSpace(messageKey); messageKey != "" {
		return T(loc, messageKey)
	}
	switch statusCode {
	case http.StatusNotFound:
		return T(loc, errorNotFoundKey)
	case http.StatusServiceUnavailable:
		return T(loc, errorUnavailableKey)
	default:
		return T(loc, errorInternalKey)
	}
}
