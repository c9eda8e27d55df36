package categories

import (
	"context"
	"errors"

	"github.com/logiparts/logiparts-admin/internal/apiclient"
)

// Service wraps category rules on top of the repository.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every category.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

// Get returns one category.
func (s *Service) Get(ctx context.Context, id string) (Category, error) {
	if id == "" {
		return Category{}, errors.New("invalid category ID")
	}
	return s.repo.Get(ctx, id)
}

// Save validates draft and writes it as multipart: a create when editingID
// is empty, an update otherwise. image may be nil, in which case the API
// keeps whatever image the category already has.
func (s *Service) Save(ctx context.Context, editingID string, draft Draft, image *apiclient.File) (Category, error) {
	if err := s.validate(ctx, editingID, draft); err != nil {
		return Category{}, err
	}
	form := draft.Multipart()
	if image != nil {
		form.AddFile(*image)
	}
	if editingID == "" {
		return s.repo.CreateWithImage(ctx, form)
	}
	return s.repo.UpdateWithImage(ctx, editingID, form)
}

// Delete removes a category.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("invalid category ID")
	}
	return s.repo.Delete(ctx, id)
}
