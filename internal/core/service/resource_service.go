package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hbnb-clone/hbnb-api/internal/pkg/metrics"
	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
	"github.com/hbnb-clone/hbnb-api/internal/core/ports"
)

// ResourceService implements the CRUD use cases over the storage facade.
// Every operation runs in its own session, closed on every exit path.
type ResourceService struct {
	store  ports.Storage
	idem   ports.IdempotencyStore
	logger zerolog.Logger
	now    func() time.Time
}

type Option func(*ResourceService)

// WithIdempotency enables replay of creates carrying an idempotency key.
func WithIdempotency(store ports.IdempotencyStore) Option {
	return func(s *ResourceService) { s.idem = store }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *ResourceService) { s.now = now }
}

func NewResourceService(store ports.Storage, logger zerolog.Logger, opts ...Option) *ResourceService {
	s := &ResourceService{store: store, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ResourceService) withSession(ctx context.Context, fn func(ports.Session) error) error {
	sess, err := s.store.Session(ctx)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			s.logger.Warn().Err(cerr).Msg("session close failed")
		}
	}()
	return fn(sess)
}

func (s *ResourceService) save(ctx context.Context, sess ports.Session, op string) error {
	timer := time.Now()
	err := sess.Save(ctx)
	metrics.StorageSaveDuration.WithLabelValues(op).Observe(time.Since(timer).Seconds())
	return err
}

func (s *ResourceService) List(ctx context.Context, kind domain.Kind) ([]domain.Model, error) {
	if _, err := domain.SchemaFor(kind); err != nil {
		return nil, err
	}
	var out []domain.Model
	err := s.withSession(ctx, func(sess ports.Session) error {
		all, err := sess.All(ctx, kind)
		if err != nil {
			return err
		}
		out = sortByCreation(all)
		return nil
	})
	return out, err
}

func (s *ResourceService) Get(ctx context.Context, kind domain.Kind, id string) (domain.Model, error) {
	if _, err := domain.SchemaFor(kind); err != nil {
		return nil, err
	}
	var out domain.Model
	err := s.withSession(ctx, func(sess ports.Session) error {
		m, err := mustGet(ctx, sess, kind, id)
		out = m
		return err
	})
	return out, err
}

// Create builds a new object from the payload. Required fields are checked in
// schema order and references must resolve to existing objects.
func (s *ResourceService) Create(ctx context.Context, in ports.CreateInput) (*ports.CreateResult, error) {
	schema, err := domain.SchemaFor(in.Kind)
	if err != nil {
		return nil, err
	}
	var result *ports.CreateResult
	err = s.withSession(ctx, func(sess ports.Session) error {
		if prior := s.replay(ctx, sess, in); prior != nil {
			result = &ports.CreateResult{Object: prior, AlreadyExisted: true}
			return nil
		}

		for _, field := range schema.Required {
			if _, ok := in.Payload[field]; !ok {
				return &domain.MissingFieldError{Field: field}
			}
		}

		obj := schema.New()
		*obj.Meta() = domain.NewBase(s.now())
		if err := domain.Assign(obj, in.Payload); err != nil {
			return err
		}
		if err := checkReferences(ctx, sess, schema, obj); err != nil {
			return err
		}

		sess.New(obj)
		if err := s.save(ctx, sess, "create"); err != nil {
			s.logger.Error().Err(err).Str("kind", string(in.Kind)).Msg("failed to create object")
			return err
		}
		s.remember(ctx, in, obj.Meta().ID)

		metrics.ObjectsWrittenTotal.WithLabelValues(string(in.Kind), "create").Inc()
		s.logger.Info().Str("kind", string(in.Kind)).Str("id", obj.Meta().ID).Msg("object created")
		result = &ports.CreateResult{Object: obj}
		return nil
	})
	return result, err
}

// replay returns the object an earlier create with the same key produced.
// Lookup failures are logged and treated as a miss.
func (s *ResourceService) replay(ctx context.Context, sess ports.Session, in ports.CreateInput) domain.Model {
	if s.idem == nil || in.IdempotencyKey == "" {
		return nil
	}
	id, err := s.idem.Lookup(ctx, in.Kind, in.IdempotencyKey)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotency lookup failed")
	}
	if id != "" {
		if prior, err := sess.Get(ctx, in.Kind, id); err == nil && prior != nil {
			metrics.IdempotencyTotal.WithLabelValues("hit").Inc()
			s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("id", id).Msg("idempotent replay")
			return prior
		}
	}
	metrics.IdempotencyTotal.WithLabelValues("miss").Inc()
	return nil
}

func (s *ResourceService) remember(ctx context.Context, in ports.CreateInput, id string) {
	if s.idem == nil || in.IdempotencyKey == "" {
		return
	}
	if err := s.idem.Remember(ctx, in.Kind, in.IdempotencyKey, id); err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to record idempotency key")
	}
}

// Update merges the payload into the stored object. Protected and unknown
// keys are ignored; updated_at is refreshed even when nothing changed.
func (s *ResourceService) Update(ctx context.Context, kind domain.Kind, id string, payload map[string]any) (domain.Model, error) {
	if _, err := domain.SchemaFor(kind); err != nil {
		return nil, err
	}
	var out domain.Model
	err := s.withSession(ctx, func(sess ports.Session) error {
		obj, err := mustGet(ctx, sess, kind, id)
		if err != nil {
			return err
		}
		if err := domain.Merge(obj, payload); err != nil {
			return err
		}
		obj.Meta().Touch(s.now())

		sess.New(obj)
		if err := s.save(ctx, sess, "update"); err != nil {
			s.logger.Error().Err(err).Str("kind", string(kind)).Str("id", id).Msg("failed to update object")
			return err
		}
		metrics.ObjectsWrittenTotal.WithLabelValues(string(kind), "update").Inc()
		s.logger.Info().Str("kind", string(kind)).Str("id", id).Msg("object updated")
		out = obj
		return nil
	})
	return out, err
}

// Delete removes the object together with every object referencing it.
func (s *ResourceService) Delete(ctx context.Context, kind domain.Kind, id string) error {
	if _, err := domain.SchemaFor(kind); err != nil {
		return err
	}
	return s.withSession(ctx, func(sess ports.Session) error {
		obj, err := mustGet(ctx, sess, kind, id)
		if err != nil {
			return err
		}
		removed := make(map[domain.Kind]int)
		if err := deleteTree(ctx, sess, obj, removed); err != nil {
			return err
		}
		if err := s.save(ctx, sess, "delete"); err != nil {
			s.logger.Error().Err(err).Str("kind", string(kind)).Str("id", id).Msg("failed to delete object")
			return err
		}
		for k, n := range removed {
			metrics.ObjectsWrittenTotal.WithLabelValues(string(k), "delete").Add(float64(n))
		}
		s.logger.Info().Str("kind", string(kind)).Str("id", id).Int("cascaded", total(removed)-1).Msg("object deleted")
		return nil
	})
}

func deleteTree(ctx context.Context, sess ports.Session, obj domain.Model, removed map[domain.Kind]int) error {
	id := obj.Meta().ID
	for depKind, field := range domain.MustSchema(obj.Kind()).Dependents() {
		deps, err := sess.All(ctx, depKind)
		if err != nil {
			return err
		}
		for _, dep := range deps {
			if dep.Attributes()[field] == id {
				if err := deleteTree(ctx, sess, dep, removed); err != nil {
					return err
				}
			}
		}
	}
	sess.Delete(obj)
	removed[obj.Kind()]++
	return nil
}

// ListRelated lists the objects of kind that reference the parent object.
func (s *ResourceService) ListRelated(ctx context.Context, parent domain.Kind, parentID string, kind domain.Kind) ([]domain.Model, error) {
	if _, err := domain.SchemaFor(parent); err != nil {
		return nil, err
	}
	field, ok := domain.MustSchema(parent).Dependents()[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s does not reference %s", domain.ErrUnknownKind, kind, parent)
	}
	var out []domain.Model
	err := s.withSession(ctx, func(sess ports.Session) error {
		if _, err := mustGet(ctx, sess, parent, parentID); err != nil {
			return err
		}
		all, err := sess.All(ctx, kind)
		if err != nil {
			return err
		}
		related := make(map[string]domain.Model)
		for id, m := range all {
			if m.Attributes()[field] == parentID {
				related[id] = m
			}
		}
		out = sortByCreation(related)
		return nil
	})
	return out, err
}

func (s *ResourceService) Count(ctx context.Context) (map[domain.Kind]int, error) {
	counts := make(map[domain.Kind]int)
	err := s.withSession(ctx, func(sess ports.Session) error {
		for _, kind := range domain.Kinds() {
			all, err := sess.All(ctx, kind)
			if err != nil {
				return err
			}
			counts[kind] = len(all)
		}
		return nil
	})
	return counts, err
}

func mustGet(ctx context.Context, sess ports.Session, kind domain.Kind, id string) (domain.Model, error) {
	m, err := sess.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func checkReferences(ctx context.Context, sess ports.Session, schema *domain.Schema, obj domain.Model) error {
	attrs := obj.Attributes()
	for field, target := range schema.References {
		ref, _ := attrs[field].(string)
		m, err := sess.Get(ctx, target, ref)
		if err != nil {
			return err
		}
		if m == nil {
			return &domain.ReferenceError{Field: field}
		}
	}
	return nil
}

// sortByCreation orders objects oldest first, ties broken by id.
func sortByCreation(objs map[string]domain.Model) []domain.Model {
	out := make([]domain.Model, 0, len(objs))
	for _, m := range objs {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b domain.Model) int {
		if c := a.Meta().CreatedAt.Compare(b.Meta().CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Meta().ID, b.Meta().ID)
	})
	return out
}

func total(counts map[domain.Kind]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}
