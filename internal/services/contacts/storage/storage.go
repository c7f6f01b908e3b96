// Package storage defines persistence contracts for contact records.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound indicates a requested contact record is missing.
var ErrNotFound = errors.New("record not found")

// CreatedAtLayout is the persisted created_at text format, in local time.
const CreatedAtLayout = "2006-01-02 15:04:05"

// Contact stores one persisted contact record.
type Contact struct {
	ID        int64
	Name      string
	Phone     string
	CreatedAt string
}

// NewContact carries the fields of a contact before an id is assigned.
type NewContact struct {
	Name      string
	Phone     string
	CreatedAt string
}

// ContactStore persists contact records.
//
// UpdateContact and DeleteContact report rows affected; zero means the id
// did not exist. UpdateContact never changes created_at.
type ContactStore interface {
	ListContacts(ctx context.Context) ([]Contact, error)
	GetContact(ctx context.Context, id int64) (Contact, error)
	CreateContact(ctx context.Context, contact NewContact) (int64, error)
	UpdateContact(ctx context.Context, id int64, name string, phone string) (int64, error)
	DeleteContact(ctx context.Context, id int64) (int64, error)
}

// HealthChecker reports whether the backing database answers.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
