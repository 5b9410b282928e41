// Package file implements the storage facade on a single JSON document
// holding every object, keyed "<Kind>.<id>".
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
	"github.com/hbnb-clone/hbnb-api/internal/core/ports"
	"github.com/hbnb-clone/hbnb-api/internal/infrastructure/db/unitofwork"
)

// ErrSessionClosed is returned by operations on a closed session.
var ErrSessionClosed = errors.New("file storage: session closed")

// Config selects the backing file. An empty Path keeps objects in memory only.
type Config struct {
	Path string
}

// Storage holds the committed objects in memory and mirrors them to disk on
// every save.
type Storage struct {
	mu      sync.RWMutex
	path    string
	objects map[string]domain.Model
}

// Open loads path if it exists. A missing file starts an empty store.
func Open(cfg Config) (*Storage, error) {
	s := &Storage{path: cfg.Path, objects: make(map[string]domain.Model)}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) reload() error {
	if s.path == "" {
		return nil
	}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}

	var records map[string]map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("decode %s: %w", s.path, err)
	}

	objects := make(map[string]domain.Model, len(records))
	for key, rec := range records {
		kindName, _, ok := strings.Cut(key, ".")
		if !ok {
			return fmt.Errorf("decode %s: malformed key %q", s.path, key)
		}
		m, err := domain.Load(domain.Kind(kindName), rec)
		if err != nil {
			return fmt.Errorf("decode %s: %w", s.path, err)
		}
		objects[key] = m
	}

	s.mu.Lock()
	s.objects = objects
	s.mu.Unlock()
	return nil
}

func (s *Storage) Session(_ context.Context) (ports.Session, error) {
	return &session{store: s, work: unitofwork.New()}, nil
}

func (s *Storage) Ping(_ context.Context) error {
	if s.path == "" {
		return nil
	}
	_, err := os.Stat(filepath.Dir(s.path))
	return err
}

func (s *Storage) Close(_ context.Context) error { return nil }

// commit applies changes to a copy of the committed objects, writes the copy
// to disk and only then publishes it.
func (s *Storage) commit(changes []unitofwork.Change) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]domain.Model, len(s.objects)+len(changes))
	for k, v := range s.objects {
		next[k] = v
	}
	for _, c := range changes {
		key := domain.Key(c.Model.Kind(), c.Model.Meta().ID)
		switch c.Op {
		case unitofwork.Upsert:
			next[key] = c.Model.Clone()
		case unitofwork.Remove:
			delete(next, key)
		}
	}

	if s.path != "" {
		if err := writeFile(s.path, next); err != nil {
			return err
		}
	}
	s.objects = next
	return nil
}

func (s *Storage) committed(kind domain.Kind) map[string]domain.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := string(kind) + "."
	out := make(map[string]domain.Model)
	for key, m := range s.objects {
		if strings.HasPrefix(key, prefix) {
			out[m.Meta().ID] = m.Clone()
		}
	}
	return out
}

func (s *Storage) lookup(kind domain.Kind, id string) domain.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.objects[domain.Key(kind, id)]
	if !ok {
		return nil
	}
	return m.Clone()
}

// writeFile persists objects using the temp-file, fsync, rename pattern.
func writeFile(path string, objects map[string]domain.Model) error {
	records := make(map[string]map[string]any, len(objects))
	for key, m := range objects {
		records[key] = domain.Record(m)
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode objects: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".hbnb-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing objects: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

type session struct {
	store  *Storage
	work   *unitofwork.WorkingSet
	closed bool
}

func (s *session) All(_ context.Context, kind domain.Kind) (map[string]domain.Model, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.work.Overlay(kind, s.store.committed(kind)), nil
}

func (s *session) Get(_ context.Context, kind domain.Kind, id string) (domain.Model, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if c, ok := s.work.Lookup(kind, id); ok {
		if c.Op == unitofwork.Remove {
			return nil, nil
		}
		return c.Model, nil
	}
	return s.store.lookup(kind, id), nil
}

func (s *session) New(obj domain.Model) { s.work.Register(obj) }

func (s *session) Delete(obj domain.Model) { s.work.Unregister(obj) }

func (s *session) Save(_ context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.work.Len() == 0 {
		return nil
	}
	if err := s.store.commit(s.work.Changes()); err != nil {
		return fmt.Errorf("file storage save: %w", err)
	}
	s.work.Reset()
	return nil
}

func (s *session) Close() error {
	s.work.Reset()
	s.closed = true
	return nil
}
