package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
	"github.com/hbnb-clone/hbnb-api/internal/core/ports"
	"github.com/hbnb-clone/hbnb-api/internal/infrastructure/db/unitofwork"
)

// ErrSessionClosed is returned by operations on a closed session.
var ErrSessionClosed = errors.New("mongo storage: session closed")

// Storage keeps one collection per resource kind, named after the resource
// path ("amenities", "users", ...).
type Storage struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStorage wraps an already connected database.
func NewStorage(client *mongo.Client, db *mongo.Database) *Storage {
	return &Storage{client: client, db: db}
}

func (s *Storage) Session(_ context.Context) (ports.Session, error) {
	return &session{db: s.db, work: unitofwork.New()}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the lookup indexes used by listings and login.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := map[domain.Kind][]mongo.IndexModel{
		domain.KindUser: {{Keys: bson.D{{Key: "email", Value: 1}}}},
		domain.KindCity: {{Keys: bson.D{{Key: "state_id", Value: 1}}}},
	}
	for kind, models := range indexes {
		col := s.db.Collection(domain.MustSchema(kind).Resource)
		if _, err := col.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("indexes %s: %w", kind, err)
		}
	}
	return nil
}

// toDocument stores the id as _id; every other field keeps its record name.
func toDocument(m domain.Model) bson.M {
	doc := bson.M{}
	for k, v := range domain.Record(m) {
		if k == "id" {
			continue
		}
		doc[k] = v
	}
	doc["_id"] = m.Meta().ID
	return doc
}

func fromDocument(kind domain.Kind, doc bson.M) (domain.Model, error) {
	rec := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == "_id" {
			rec["id"] = v
			continue
		}
		rec[k] = v
	}
	return domain.Load(kind, rec)
}

type session struct {
	db     *mongo.Database
	work   *unitofwork.WorkingSet
	closed bool
}

func (s *session) collection(kind domain.Kind) (*mongo.Collection, error) {
	schema, err := domain.SchemaFor(kind)
	if err != nil {
		return nil, err
	}
	return s.db.Collection(schema.Resource), nil
}

func (s *session) All(ctx context.Context, kind domain.Kind) (map[string]domain.Model, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	col, err := s.collection(kind)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", kind, err)
	}
	defer cur.Close(ctx)

	out := make(map[string]domain.Model)
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		m, err := fromDocument(kind, doc)
		if err != nil {
			return nil, err
		}
		out[m.Meta().ID] = m
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("cursor %s: %w", kind, err)
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
	col, err := s.collection(kind)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc bson.M
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find %s %s: %w", kind, id, err)
	}
	return fromDocument(kind, doc)
}

func (s *session) New(obj domain.Model) { s.work.Register(obj) }

func (s *session) Delete(obj domain.Model) { s.work.Unregister(obj) }

// Save applies pending changes with one ordered bulk write per collection.
func (s *session) Save(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.work.Len() == 0 {
		return nil
	}

	var order []domain.Kind
	writes := make(map[domain.Kind][]mongo.WriteModel)
	for _, c := range s.work.Changes() {
		kind := c.Model.Kind()
		if _, seen := writes[kind]; !seen {
			order = append(order, kind)
		}
		filter := bson.M{"_id": c.Model.Meta().ID}
		switch c.Op {
		case unitofwork.Upsert:
			writes[kind] = append(writes[kind], mongo.NewReplaceOneModel().
				SetFilter(filter).
				SetReplacement(toDocument(c.Model)).
				SetUpsert(true))
		case unitofwork.Remove:
			writes[kind] = append(writes[kind], mongo.NewDeleteOneModel().SetFilter(filter))
		}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, kind := range order {
		col, err := s.collection(kind)
		if err != nil {
			return err
		}
		if _, err := col.BulkWrite(ctx, writes[kind], options.BulkWrite().SetOrdered(true)); err != nil {
			return fmt.Errorf("mongo save %s: %w", kind, err)
		}
	}
	s.work.Reset()
	return nil
}

func (s *session) Close() error {
	s.work.Reset()
	s.closed = true
	return nil
}
