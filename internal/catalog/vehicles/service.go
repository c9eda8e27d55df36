package vehicles

import (
	"context"
	"errors"

	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
)

// Service wraps vehicle rules on top of the repository.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns vehicles matching filters.
func (s *Service) List(ctx context.Context, filters Filters) ([]Vehicle, error) {
	return s.repo.List(ctx, filters)
}

// Get returns one vehicle.
func (s *Service) Get(ctx context.Context, id string) (Vehicle, error) {
	if id == "" {
		return Vehicle{}, errors.New("invalid vehicle ID")
	}
	return s.repo.Get(ctx, id)
}

// Save validates draft and creates or updates the vehicle.
func (s *Service) Save(ctx context.Context, editingID string, draft Draft) (Vehicle, error) {
	if err := internalShared.ValidateDraft(draft); err != nil {
		return Vehicle{}, err
	}
	if editingID == "" {
		return s.repo.Create(ctx, draft.Input())
	}
	return s.repo.Update(ctx, editingID, draft.Patch())
}

// Delete removes a vehicle.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("invalid vehicle ID")
	}
	return s.repo.Delete(ctx, id)
}
