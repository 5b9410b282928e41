package ports

import (
	"context"

	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
)

// Storage is a persistence backend. It hands out one Session per unit of
// work; sessions must be closed by whoever opened them.
type Storage interface {
	Session(ctx context.Context) (Session, error)
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases the backend itself (connections, file handles).
	Close(ctx context.Context) error
}

// Session is the storage facade used by services.
//
// All and Get reflect committed state overlaid with the session's working
// set. Returned models are copies: changes take effect only once the model
// is registered with New and the session is saved.
type Session interface {
	// All returns every object of kind keyed by id.
	All(ctx context.Context, kind domain.Kind) (map[string]domain.Model, error)
	// Get returns the object, or nil with a nil error when it does not exist.
	Get(ctx context.Context, kind domain.Kind, id string) (domain.Model, error)
	// New registers obj (insert or replace) in the working set.
	New(obj domain.Model)
	// Delete removes obj from the working set and schedules its deletion.
	Delete(obj domain.Model)
	// Save commits the working set.
	Save(ctx context.Context) error
	// Close discards anything not saved and releases per-session resources.
	Close() error
}
