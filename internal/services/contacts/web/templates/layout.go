// Package templates holds the server-rendered HTML components of the contacts UI.
package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Toast is a localized notice rendered once above page content.
type Toast struct {
	Kind    string
	Message string
}

// LayoutOptions configures the page shell.
type LayoutOptions struct {
	Lang  string
	Title string
	Toast *Toast
	Loc   Localizer
}

// Layout renders the HTML document shell around its children.
func Layout(opts LayoutOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := strings.TrimSpace(opts.Lang)
		if lang == "" {
			lang = "en-US"
		}
		appTitle := T(opts.Loc, "core.app.title")
		title := strings.TrimSpace(opts.Title)
		if title == "" {
			title = appTitle
		} else {
			title = title + " | " + appTitle
		}

		hw := &htmlWriter{w: w}
		hw.raw(`<!DOCTYPE html><html`)
		hw.attr("lang", lang)
		hw.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		hw.text(title)
		hw.raw(`</title>`)
		hw.raw(layoutStyle)
		hw.raw(`</head><body><main class="container">`)
		if hw.err != nil {
			return hw.err
		}
		if err := ToastBanner(opts.Toast).Render(ctx, w); err != nil {
			return err
		}
		if err := templ.GetChildren(ctx).Render(ctx, w); err != nil {
			return err
		}
		hw.raw(`</main></body></html>`)
		return hw.err
	})
}

// ToastBanner renders a notice banner, or nothing when toast is nil.
func ToastBanner(toast *Toast) templ.Component {
	if toast == nil || strings.TrimSpace(toast.Message) == "" {
		return templ.NopComponent
	}
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		kind := strings.TrimSpace(toast.Kind)
		if kind == "" {
			kind = "info"
		}
		hw := &htmlWriter{w: w}
		hw.raw(`<div id="flash-notice" role="alert"`)
		hw.attr("class", "notice notice-"+kind)
		hw.raw(`>`)
		hw.text(toast.Message)
		hw.raw(`</div>`)
		return hw.err
	})
}

const layoutStyle = `<style>
body{font-family:system-ui,sans-serif;margin:0;background:#f6f7f9;color:#1f2328}
.container{max-width:760px;margin:2rem auto;padding:0 1rem}
.notice{padding:.75rem 1rem;border-radius:6px;margin-bottom:1rem}
.notice-success{background:#dafbe1;color:#116329}
.notice-error{background:#ffebe9;color:#82071e}
.notice-info,.notice-warning{background:#fff8c5;color:#4d2d00}
table{width:100%;border-collapse:collapse;background:#fff}
th,td{padding:.5rem;border-bottom:1px solid #d0d7de;text-align:left}
form.inline{display:inline}
input[type=text]{padding:.4rem;margin-right:.5rem}
</style>`
