package categories

import (
	"context"

	"github.com/logiparts/logiparts-admin/internal/apiclient"
	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
)

const msgSlugTaken = "Ya existe una categoría con ese slug"

func (s *Service) validate(ctx context.Context, editingID string, d Draft) error {
	if err := internalShared.ValidateDraft(d); err != nil {
		return err
	}
	existing, err := s.repo.GetBySlug(ctx, d.Slug)
	switch {
	case apiclient.IsNotFound(err):
		return nil
	case err != nil:
		return err
	case existing.ID != editingID:
		return &internalShared.ValidationError{Fields: map[string]string{"slug": msgSlugTaken}}
	}
	return nil
}
