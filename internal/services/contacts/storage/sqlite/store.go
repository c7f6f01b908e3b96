// Package sqlite provides a SQLite-backed contact storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sqlitemigrate "github.com/louisbranch/contacts/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/contacts/internal/services/contacts/storage"
	"github.com/louisbranch/contacts/internal/services/contacts/storage/sqlite/migrations"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite"
)

const tracerName = "github.com/louisbranch/contacts/internal/services/contacts/storage/sqlite"

// Store persists contacts in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.ContactStore = (*Store)(nil)

// Open opens a SQLite contact store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ping verifies the database still answers.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := s.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite db: %w", err)
	}
	return nil
}

// ListContacts returns every contact, newest first.
func (s *Store) ListContacts(ctx context.Context) (contacts []storage.Contact, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	ctx, span := startSpan(ctx, "list")
	defer func() { endSpan(span, err) }()

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, phone, COALESCE(created_at, '')
		 FROM contacts
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts = make([]storage.Contact, 0)
	for rows.Next() {
		var contact storage.Contact
		if err := rows.Scan(&contact.ID, &contact.Name, &contact.Phone, &contact.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	span.SetAttributes(attribute.Int("contacts.count", len(contacts)))
	return contacts, nil
}

// GetContact returns one contact by id.
func (s *Store) GetContact(ctx context.Context, id int64) (contact storage.Contact, err error) {
	if err := ctx.Err(); err != nil {
		return storage.Contact{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Contact{}, fmt.Errorf("storage is not configured")
	}
	ctx, span := startSpan(ctx, "get", attribute.Int64("contacts.id", id))
	defer func() {
		if errors.Is(err, storage.ErrNotFound) {
			endSpan(span, nil)
			return
		}
		endSpan(span, err)
	}()

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, phone, COALESCE(created_at, '') FROM contacts WHERE id = ?`,
		id,
	)
	if err := row.Scan(&contact.ID, &contact.Name, &contact.Phone, &contact.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Contact{}, storage.ErrNotFound
		}
		return storage.Contact{}, fmt.Errorf("get contact: %w", err)
	}
	return contact, nil
}

// CreateContact inserts one contact and returns its assigned id.
func (s *Store) CreateContact(ctx context.Context, contact storage.NewContact) (id int64, err error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	ctx, span := startSpan(ctx, "create")
	defer func() { endSpan(span, err) }()

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO contacts (name, phone, created_at) VALUES (?, ?, ?)`,
		contact.Name,
		contact.Phone,
		contact.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("create contact: %w", err)
	}
	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create contact id: %w", err)
	}
	span.SetAttributes(attribute.Int64("contacts.id", id))
	return id, nil
}

// UpdateContact replaces name and phone for one contact and returns rows affected.
func (s *Store) UpdateContact(ctx context.Context, id int64, name string, phone string) (affected int64, err error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	ctx, span := startSpan(ctx, "update", attribute.Int64("contacts.id", id))
	defer func() { endSpan(span, err) }()

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE contacts SET name = ?, phone = ? WHERE id = ?`,
		name,
		phone,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("update contact: %w", err)
	}
	affected, err = result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update contact rows affected: %w", err)
	}
	return affected, nil
}

// DeleteContact removes one contact and returns rows affected.
func (s *Store) DeleteContact(ctx context.Context, id int64) (affected int64, err error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	ctx, span := startSpan(ctx, "delete", attribute.Int64("contacts.id", id))
	defer func() { endSpan(span, err) }()

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete contact: %w", err)
	}
	affected, err = result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete contact rows affected: %w", err)
	}
	return affected, nil
}

func startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(
		ctx,
		"contacts.storage."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(attrs, attribute.String("db.system", "sqlite"))...),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
