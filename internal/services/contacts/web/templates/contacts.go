package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/contacts/internal/services/contacts/web/routepath"
)

// ContactRow is one contact as shown in the list table.
type ContactRow struct {
	ID        int64
	Name      string
	Phone     string
	CreatedAt string
}

// ContactsPage renders the add form followed by the contact table.
func ContactsPage(contacts []ContactRow, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<section id="contact-add"><h2>`)
		hw.text(T(loc, "contacts.add.heading"))
		hw.raw(`</h2><form method="post"`)
		hw.attr("action", routepath.Add)
		hw.raw(`>`)
		writeField(hw, loc, "name", "contacts.field.name", "")
		writeField(hw, loc, "phone", "contacts.field.phone", "")
		hw.raw(`<button type="submit">`)
		hw.text(T(loc, "contacts.action.add"))
		hw.raw(`</button></form></section>`)

		hw.raw(`<section id="contact-list"><h2>`)
		hw.text(T(loc, "contacts.list.heading"))
		hw.raw(`</h2>`)
		if len(contacts) == 0 {
			hw.raw(`<p id="contact-list-empty">`)
			hw.text(T(loc, "contacts.list.empty"))
			hw.raw(`</p></section>`)
			return hw.err
		}
		hw.raw(`<table><thead><tr><th>`)
		hw.text(T(loc, "contacts.field.name"))
		hw.raw(`</th><th>`)
		hw.text(T(loc, "contacts.field.phone"))
		hw.raw(`</th><th>`)
		hw.text(T(loc, "contacts.field.created_at"))
		hw.raw(`</th><th>`)
		hw.text(T(loc, "contacts.field.actions"))
		hw.raw(`</th></tr></thead><tbody>`)
		for _, contact := range contacts {
			hw.raw(`<tr class="contact-row"><td>`)
			hw.text(contact.Name)
			hw.raw(`</td><td>`)
			hw.text(contact.Phone)
			hw.raw(`</td><td>`)
			hw.text(contact.CreatedAt)
			hw.raw(`</td><td><a`)
			hw.attr("href", routepath.Edit(contact.ID))
			hw.raw(`>`)
			hw.text(T(loc, "contacts.action.edit"))
			hw.raw(`</a> <form class="inline" method="post"`)
			hw.attr("action", routepath.Delete(contact.ID))
			hw.attr("onsubmit", "return confirm("+jsString(T(loc, "contacts.action.delete_confirm"))+")")
			hw.raw(`><button type="submit">`)
			hw.text(T(loc, "contacts.action.delete"))
			hw.raw(`</button></form></td></tr>`)
		}
		hw.raw(`</tbody></table></section>`)
		return hw.err
	})
}

// EditPage renders the edit form pre-filled with the contact's current values.
func EditPage(contact ContactRow, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<section id="contact-edit"><h2>`)
		hw.text(T(loc, "contacts.edit.heading"))
		hw.raw(`</h2><form method="post"`)
		hw.attr("action", routepath.Edit(contact.ID))
		hw.raw(`>`)
		writeField(hw, loc, "name", "contacts.field.name", contact.Name)
		writeField(hw, loc, "phone", "contacts.field.phone", contact.Phone)
		hw.raw(`<button type="submit">`)
		hw.text(T(loc, "contacts.action.save"))
		hw.raw(`</button> <a`)
		hw.attr("href", routepath.Root)
		hw.raw(`>`)
		hw.text(T(loc, "contacts.action.cancel"))
		hw.raw(`</a></form></section>`)
		return hw.err
	})
}

func writeField(hw *htmlWriter, loc Localizer, name string, labelKey string, value string) {
	hw.raw(`<label>`)
	hw.text(T(loc, labelKey))
	hw.raw(` <input type="text"`)
	hw.attr("name", name)
	hw.attr("value", value)
	hw.raw(`></label>`)
}

// jsString quotes s as a single-quoted JavaScript literal.
func jsString(s string) string {
	out := make([]rune, 0, len(s)+2)
	out = append(out, '\'')
	for _, r := range s {
		switch r {
		case '\\', '\'':
			out = append(out, '\\', r)
		case '\n':
			out = append(out, '\\', 'n')
		default:
			out = append(out, r)
		}
	}
	out = append(out, '\'')
	return string(out)
}
