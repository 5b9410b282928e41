package ports

import (
	"context"

	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
)

// CreateInput carries a decoded create request.
type CreateInput struct {
	Kind    domain.Kind
	Payload map[string]any
	// IdempotencyKey is optional; a repeated key returns the first result.
	IdempotencyKey string
}

// CreateResult is returned after a create.
type CreateResult struct {
	Object domain.Model
	// AlreadyExisted is true when the idempotency key matched an earlier create.
	AlreadyExisted bool
}

// ResourceService defines the CRUD use cases shared by every resource kind.
type ResourceService interface {
	List(ctx context.Context, kind domain.Kind) ([]domain.Model, error)
	Get(ctx context.Context, kind domain.Kind, id string) (domain.Model, error)
	Create(ctx context.Context, in CreateInput) (*CreateResult, error)
	Update(ctx context.Context, kind domain.Kind, id string, payload map[string]any) (domain.Model, error)
	Delete(ctx context.Context, kind domain.Kind, id string) error
	// ListRelated returns the objects of kind whose field equals parentID,
	// failing with ErrNotFound when the parent object does not exist.
	ListRelated(ctx context.Context, parent domain.Kind, parentID string, kind domain.Kind) ([]domain.Model, error)
	// Count returns the number of objects per kind.
	Count(ctx context.Context) (map[domain.Kind]int, error)
}
