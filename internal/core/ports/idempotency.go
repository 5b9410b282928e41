package ports

import (
	"context"

	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
)

// IdempotencyStore remembers which object a create request key produced.
type IdempotencyStore interface {
	// Lookup returns the id recorded for key, or "" when none is recorded.
	Lookup(ctx context.Context, kind domain.Kind, key string) (string, error)
	Remember(ctx context.Context, kind domain.Kind, key, id string) error
}
