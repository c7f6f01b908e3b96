package contacts

import (
	"context"
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/contacts/internal/platform/timeouts"
	"github.com/louisbranch/contacts/internal/services/contacts/storage"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/flash"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/httpx"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/pagerender"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/sessioncookie"
	"github.com/louisbranch/contacts/internal/services/contacts/web/platform/weberror"
	"github.com/louisbranch/contacts/internal/services/contacts/web/routepath"
	webtemplates "github.com/louisbranch/contacts/internal/services/contacts/web/templates"
)

// contactsService defines the service operations used by contact handlers.
type contactsService interface {
	listContacts(ctx context.Context) ([]storage.Contact, error)
	getContact(ctx context.Context, id int64) (storage.Contact, error)
	createContact(ctx context.Context, name string, phone string) (int64, error)
	updateContact(ctx context.Context, id int64, name string, phone string) error
	deleteContact(ctx context.Context, id int64) error
}

type handlers struct {
	service  contactsService
	renderer *pagerender.Renderer
	notices  NoticeStore
	health   storage.HealthChecker
}

func newHandlers(s contactsService, renderer *pagerender.Renderer, notices NoticeStore, store storage.ContactStore) handlers {
	h := handlers{service: s, renderer: renderer, notices: notices}
	if checker, ok := store.(storage.HealthChecker); ok {
		h.health = checker
	}
	return h
}

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.service.listContacts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rows := make([]webtemplates.ContactRow, 0, len(contacts))
	for _, contact := range contacts {
		rows = append(rows, contactRow(contact))
	}
	h.writePage(w, r, pagerender.Page{
		Fragment: func(loc webtemplates.Localizer) templ.Component {
			return webtemplates.ContactsPage(rows, loc)
		},
	})
}

func (h handlers) handleAdd(w http.ResponseWriter, r *http.Request) {
	_, err := h.service.createContact(r.Context(), r.PostFormValue("name"), r.PostFormValue("phone"))
	switch {
	case err == nil:
		h.notify(r, flash.NoticeSuccess(noticeCreated))
	case errors.Is(err, errRequiredFields):
		h.notify(r, flash.NoticeError(noticeRequiredFields))
	default:
		h.writeError(w, r, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.Root)
}

func (h handlers) handleEditGet(w http.ResponseWriter, r *http.Request) {
	id, ok := routepath.ParseID(r.PathValue("id"))
	if !ok {
		weberror.NotFound(w, r, h.renderer)
		return
	}
	contact, err := h.service.getContact(r.Context(), id)
	if err != nil {
		if errors.Is(err, errContactMissing) {
			h.notify(r, flash.NoticeError(noticeNotFound))
			httpx.WriteRedirect(w, r, routepath.Root)
			return
		}
		h.writeError(w, r, err)
		return
	}
	row := contactRow(contact)
	h.writePage(w, r, pagerender.Page{
		Title: "contacts.edit.heading",
		Fragment: func(loc webtemplates.Localizer) templ.Component {
			return webtemplates.EditPage(row, loc)
		},
	})
}

func (h handlers) handleEditPost(w http.ResponseWriter, r *http.Request) {
	id, ok := routepath.ParseID(r.PathValue("id"))
	if !ok {
		weberror.NotFound(w, r, h.renderer)
		return
	}
	err := h.service.updateContact(r.Context(), id, r.PostFormValue("name"), r.PostFormValue("phone"))
	switch {
	case err == nil:
		h.notify(r, flash.NoticeSuccess(noticeUpdated))
		httpx.WriteRedirect(w, r, routepath.Root)
	case errors.Is(err, errRequiredFields):
		h.notify(r, flash.NoticeError(noticeRequiredFields))
		httpx.WriteRedirect(w, r, routepath.Edit(id))
	case errors.Is(err, errContactMissing):
		h.notify(r, flash.NoticeError(noticeNotFound))
		httpx.WriteRedirect(w, r, routepath.Root)
	default:
		h.writeError(w, r, err)
	}
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := routepath.ParseID(r.PathValue("id"))
	if !ok {
		weberror.NotFound(w, r, h.renderer)
		return
	}
	err := h.service.deleteContact(r.Context(), id)
	switch {
	case err == nil:
		h.notify(r, flash.NoticeSuccess(noticeDeleted))
	case errors.Is(err, errContactMissing):
		h.notify(r, flash.NoticeError(noticeNotFound))
	default:
		h.writeError(w, r, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.Root)
}

func (h handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health == nil {
		_ = httpx.WriteText(w, http.StatusServiceUnavailable, "unavailable")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.StorePing)
	defer cancel()
	if err := h.health.Ping(ctx); err != nil {
		_ = httpx.WriteText(w, http.StatusServiceUnavailable, "unavailable")
		return
	}
	_ = httpx.WriteText(w, http.StatusOK, "ok")
}

func (h handlers) notify(r *http.Request, notice flash.Notice) {
	if h.notices == nil {
		return
	}
	sessionID, ok := sessioncookie.FromContext(r.Context())
	if !ok {
		return
	}
	h.notices.Put(sessionID, notice)
}

func (h handlers) writePage(w http.ResponseWriter, r *http.Request, page pagerender.Page) {
	if err := h.renderer.WritePage(w, r, page); err != nil {
		h.writeError(w, r, err)
	}
}

func (h handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.Write(w, r, h.renderer, err)
}

func contactRow(contact storage.Contact) webtemplates.ContactRow {
	return webtemplates.ContactRow{
		ID:        contact.ID,
		Name:      contact.Name,
		Phone:     contact.Phone,
		CreatedAt: contact.CreatedAt,
	}
}
