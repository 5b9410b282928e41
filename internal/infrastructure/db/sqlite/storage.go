// Package sqlite implements the storage facade on SQLite, one table per
// resource kind.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
	"github.com/hbnb-clone/hbnb-api/internal/core/ports"
	"github.com/hbnb-clone/hbnb-api/internal/infrastructure/db/unitofwork"
)

// ErrSessionClosed is returned by operations on a closed session.
var ErrSessionClosed = errors.New("sqlite storage: session closed")

// Config selects the database file. ":memory:" gives a private in-memory
// database.
type Config struct {
	Path string
}

type Storage struct {
	db *sql.DB
}

// Open connects to the database and creates the schema if needed.
func Open(ctx context.Context, cfg Config) (*Storage, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// A single connection keeps pragmas and in-memory databases consistent
	// and serializes writers.
	db.SetMaxOpenConns(1)

	for _, stmt := range append([]string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"}, schemaStatements...) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite schema: %w", err)
		}
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Session(_ context.Context) (ports.Session, error) {
	return &session{db: s.db, work: unitofwork.New()}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Close(_ context.Context) error {
	return s.db.Close()
}

type session struct {
	db     *sql.DB
	work   *unitofwork.WorkingSet
	closed bool
}

func selectSQL(schema *domain.Schema) string {
	cols := append([]string{"id", "created_at", "updated_at"}, schema.Columns...)
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), schema.Resource)
}

func upsertSQL(schema *domain.Schema) string {
	cols := append([]string{"id", "created_at", "updated_at"}, schema.Columns...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	updates := []string{"updated_at = excluded.updated_at"}
	for _, c := range schema.Columns {
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		schema.Resource, strings.Join(cols, ", "), placeholders, strings.Join(updates, ", "))
}

func scanModel(kind domain.Kind, schema *domain.Schema, rows interface{ Scan(...any) error }) (domain.Model, error) {
	names := append([]string{"id", "created_at", "updated_at"}, schema.Columns...)
	values := make([]sql.NullString, len(names))
	dest := make([]any, len(names))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}
	rec := make(map[string]any, len(names))
	for i, name := range names {
		if values[i].Valid {
			rec[name] = values[i].String
		}
	}
	return domain.Load(kind, rec)
}

func (s *session) All(ctx context.Context, kind domain.Kind) (map[string]domain.Model, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	schema, err := domain.SchemaFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, selectSQL(schema))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", schema.Resource, err)
	}
	defer rows.Close()

	out := make(map[string]domain.Model)
	for rows.Next() {
		m, err := scanModel(kind, schema, rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", schema.Resource, err)
		}
		out[m.Meta().ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", schema.Resource, err)
	}
	return s.work.Overlay(kind, out), nil
}

func (s *session) Get(ctx context.Context, kind domain.Kind, id string) (domain.Model, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if c, ok := s.work.Lookup(kind, id); ok {
		if c.Op == unitofwork.Remove {
			return nil, nil
		}
		return c.Model, nil
	}
	schema, err := domain.SchemaFor(kind)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, selectSQL(schema)+" WHERE id = ?", id)
	m, err := scanModel(kind, schema, row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", kind, id, err)
	}
	return m, nil
}

func (s *session) New(obj domain.Model) { s.work.Register(obj) }

func (s *session) Delete(obj domain.Model) { s.work.Unregister(obj) }

func (s *session) Save(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.work.Len() == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, c := range s.work.Changes() {
		if err := apply(ctx, tx, c); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlite save %s %s: %w", c.Op, c.Model.Kind(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.work.Reset()
	return nil
}

func apply(ctx context.Context, tx *sql.Tx, c unitofwork.Change) error {
	schema, err := domain.SchemaFor(c.Model.Kind())
	if err != nil {
		return err
	}
	id := c.Model.Meta().ID
	if c.Op == unitofwork.Remove {
		_, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", schema.Resource), id)
		return err
	}

	rec := domain.Record(c.Model)
	args := []any{id, rec["created_at"], rec["updated_at"]}
	for _, col := range schema.Columns {
		args = append(args, rec[col])
	}
	_, err = tx.ExecContext(ctx, upsertSQL(schema), args...)
	return err
}

func (s *session) Close() error {
	s.work.Reset()
	s.closed = true
	return nil
}
