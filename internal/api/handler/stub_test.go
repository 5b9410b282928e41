package handler

import (
	"context"
	"time"

	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
	"github.com/hbnb-clone/hbnb-api/internal/core/ports"
)

type stubResourceService struct {
	listFn        func(ctx context.Context, kind domain.Kind) ([]domain.Model, error)
	getFn         func(ctx context.Context, kind domain.Kind, id string) (domain.Model, error)
	createFn      func(ctx context.Context, in ports.CreateInput) (*ports.CreateResult, error)
	updateFn      func(ctx context.Context, kind domain.Kind, id string, payload map[string]any) (domain.Model, error)
	deleteFn      func(ctx context.Context, kind domain.Kind, id string) error
	listRelatedFn func(ctx context.Context, parent domain.Kind, parentID string, kind domain.Kind) ([]domain.Model, error)
	countFn       func(ctx context.Context) (map[domain.Kind]int, error)
}

func (s *stubResourceService) List(ctx context.Context, kind domain.Kind) ([]domain.Model, error) {
	return s.listFn(ctx, kind)
}

func (s *stubResourceService) Get(ctx context.Context, kind domain.Kind, id string) (domain.Model, error) {
	return s.getFn(ctx, kind, id)
}

func (s *stubResourceService) Create(ctx context.Context, in ports.CreateInput) (*ports.CreateResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubResourceService) Update(ctx context.Context, kind domain.Kind, id string, payload map[string]any) (domain.Model, error) {
	return s.updateFn(ctx, kind, id, payload)
}

func (s *stubResourceService) Delete(ctx context.Context, kind domain.Kind, id string) error {
	return s.deleteFn(ctx, kind, id)
}

func (s *stubResourceService) ListRelated(ctx context.Context, parent domain.Kind, parentID string, kind domain.Kind) ([]domain.Model, error) {
	return s.listRelatedFn(ctx, parent, parentID, kind)
}

func (s *stubResourceService) Count(ctx context.Context) (map[domain.Kind]int, error) {
	return s.countFn(ctx)
}

func amenity(id, name string) *domain.Amenity {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Amenity{Base: domain.Base{ID: id, CreatedAt: now, UpdatedAt: now}, Name: name}
}
