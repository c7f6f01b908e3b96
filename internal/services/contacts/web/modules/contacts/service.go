package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/contacts/internal/services/contacts/storage"
	apperrors "github.com/louisbranch/contacts/internal/services/contacts/web/platform/errors"
)

const (
	noticeRequiredFields = "contacts.notice.required_fields"
	noticeCreated        = "contacts.notice.created"
	noticeUpdated        = "contacts.notice.updated"
	noticeDeleted        = "contacts.notice.deleted"
	noticeNotFound       = "contacts.notice.not_found"
)

var (
	errRequiredFields = apperrors.EK(apperrors.KindInvalidInput, noticeRequiredFields, "name and phone are required")
	errContactMissing = apperrors.EK(apperrors.KindNotFound, noticeNotFound, "contact not found")
)

type service struct {
	store storage.ContactStore
	now   func() time.Time
}

type unavailableStore struct{}

var errStoreUnavailable = apperrors.Wrap(apperrors.KindUnavailable, "core.error.unavailable", errors.New("contact store is not configured"))

func (unavailableStore) ListContacts(context.Context) ([]storage.Contact, error) {
	return nil, errStoreUnavailable
}

func (unavailableStore) GetContact(context.Context, int64) (storage.Contact, error) {
	return storage.Contact{}, errStoreUnavailable
}

func (unavailableStore) CreateContact(context.Context, storage.NewContact) (int64, error) {
	return 0, errStoreUnavailable
}

func (unavailableStore) UpdateContact(context.Context, int64, string, string) (int64, error) {
	return 0, errStoreUnavailable
}

func (unavailableStore) DeleteContact(context.Context, int64) (int64, error) {
	return 0, errStoreUnavailable
}

func newService(store storage.ContactStore, now func() time.Time) service {
	if store == nil {
		store = unavailableStore{}
	}
	if now == nil {
		now = time.Now
	}
	return service{store: store, now: now}
}

func (s service) listContacts(ctx context.Context) ([]storage.Contact, error) {
	contacts, err := s.store.ListContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (s service) getContact(ctx context.Context, id int64) (storage.Contact, error) {
	contact, err := s.store.GetContact(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Contact{}, errContactMissing
		}
		return storage.Contact{}, fmt.Errorf("get contact: %w", err)
	}
	return contact, nil
}

func (s service) createContact(ctx context.Context, name string, phone string) (int64, error) {
	name, phone, err := requireFields(name, phone)
	if err != nil {
		return 0, err
	}
	id, err := s.store.CreateContact(ctx, storage.NewContact{
		Name:      name,
		Phone:     phone,
		CreatedAt: s.now().Local().Format(storage.CreatedAtLayout),
	})
	if err != nil {
		return 0, fmt.Errorf("create contact: %w", err)
	}
	return id, nil
}

func (s service) updateContact(ctx context.Context, id int64, name string, phone string) error {
	name, phone, err := requireFields(name, phone)
	if err != nil {
		return err
	}
	affected, err := s.store.UpdateContact(ctx, id, name, phone)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if affected == 0 {
		return errContactMissing
	}
	return nil
}

func (s service) deleteContact(ctx context.Context, id int64) error {
	if _, err := s.getContact(ctx, id); err != nil {
		return err
	}
	if _, err := s.store.DeleteContact(ctx, id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

func requireFields(name string, phone string) (string, string, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return "", "", errRequiredFields
	}
	return name, phone, nil
}
