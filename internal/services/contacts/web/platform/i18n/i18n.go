// Package i18n resolves request locales and message printers for web pages.
package i18n

import (
	"net/http"
	"strings"

	"github.com/louisbranch/contacts/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Localizer formats localized messages by key.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// Resolver picks a locale per request from Accept-Language.
type Resolver struct {
	bundle  *catalog.Bundle
	matcher language.Matcher
	tags    []language.Tag
}

// NewResolver builds a Resolver over the bundle's locales.
func NewResolver(bundle *catalog.Bundle) *Resolver {
	tags := bundle.Tags()
	if len(tags) == 0 {
		tags = []language.Tag{language.MustParse(catalog.BaseLocale)}
	}
	return &Resolver{
		bundle:  bundle,
		matcher: language.NewMatcher(tags),
		tags:    tags,
	}
}

// Resolve returns the localizer and BCP 47 tag string for r.
func (res *Resolver) Resolve(r *http.Request) (Localizer, string) {
	tag := res.Match(r)
	return res.Printer(tag), tag.String()
}

// Match returns the best supported tag for r, defaulting to the base locale.
func (res *Resolver) Match(r *http.Request) language.Tag {
	fallback := language.MustParse(catalog.BaseLocale)
	if res == nil {
		return fallback
	}
	if r == nil {
		return res.tags[0]
	}
	header := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if header == "" {
		return res.tags[0]
	}
	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return res.tags[0]
	}
	_, index, confidence := res.matcher.Match(desired...)
	if confidence == language.No {
		return res.tags[0]
	}
	return res.tags[index]
}

// Printer returns a message printer for tag backed by the bundle catalog.
func (res *Resolver) Printer(tag language.Tag) *message.Printer {
	if res == nil {
		return message.NewPrinter(tag)
	}
	return message.NewPrinter(tag, message.Catalog(res.bundle.Catalog()))
}

// Text localizes key, falling back to the key itself when loc is nil.
func Text(loc Localizer, key string) string {
	if loc == nil {
		return key
	}
	return loc.Sprintf(key)
}
