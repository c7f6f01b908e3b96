package contacts

import (
	"context"
	"sort"
	"sync"

	"github.com/louisbranch/contacts/internal/services/contacts/storage"
)

// fakeStore implements storage.ContactStore in memory with error injection
// and call recording.
type fakeStore struct {
	mu       sync.Mutex
	nextID   int64
	contacts map[int64]storage.Contact

	listErr   error
	getErr    error
	createErr error
	updateErr error
	deleteErr error
	pingErr   error

	deleteCalls int
}

func newFakeStore(seed ...storage.Contact) *fakeStore {
	f := &fakeStore{contacts: map[int64]storage.Contact{}}
	for _, c := range seed {
		f.contacts[c.ID] = c
		if c.ID > f.nextID {
			f.nextID = c.ID
		}
	}
	return f
}

func (f *fakeStore) ListContacts(context.Context) ([]storage.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]storage.Contact, 0, len(f.contacts))
	for _, c := range f.contacts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeStore) GetContact(_ context.Context, id int64) (storage.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return storage.Contact{}, f.getErr
	}
	c, ok := f.contacts[id]
	if !ok {
		return storage.Contact{}, storage.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) CreateContact(_ context.Context, c storage.NewContact) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	f.contacts[f.nextID] = storage.Contact{ID: f.nextID, Name: c.Name, Phone: c.Phone, CreatedAt: c.CreatedAt}
	return f.nextID, nil
}

func (f *fakeStore) UpdateContact(_ context.Context, id int64, name string, phone string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	c, ok := f.contacts[id]
	if !ok {
		return 0, nil
	}
	c.Name = name
	c.Phone = phone
	f.contacts[id] = c
	return 1, nil
}

func (f *fakeStore) DeleteContact(_ context.Context, id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	if _, ok := f.contacts[id]; !ok {
		return 0, nil
	}
	delete(f.contacts, id)
	return 1, nil
}

func (f *fakeStore) Ping(context.Context) error {
	return f.pingErr
}

func (f *fakeStore) snapshot(id int64) (storage.Contact, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contacts[id]
	return c, ok
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.contacts)
}
