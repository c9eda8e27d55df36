package products

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/logiparts/logiparts-admin/internal/apiclient"
	"github.com/logiparts/logiparts-admin/internal/catalog/categories"
	"github.com/logiparts/logiparts-admin/internal/catalog/vehicles"
	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
)

// Service wraps product rules on top of the repository.
type Service struct {
	repo       Repository
	categories categories.Repository
	vehicles   vehicles.Repository
}

// NewService constructs a Service. The category and vehicle repositories
// feed the form's pickers.
func NewService(repo Repository, categoryRepo categories.Repository, vehicleRepo vehicles.Repository) *Service {
	return &Service{repo: repo, categories: categoryRepo, vehicles: vehicleRepo}
}

// Catalog is everything the product pages show side by side.
type Catalog struct {
	Products   []Product
	Categories []categories.Category
	Vehicles   []vehicles.Vehicle
}

// Load fetches products matching filters together with every category and
// vehicle. The three calls run concurrently; the first failure wins.
func (s *Service) Load(ctx context.Context, filters Filters) (Catalog, error) {
	var out Catalog
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.repo.List(gctx, filters)
		out.Products = items
		return err
	})
	g.Go(func() error {
		items, err := s.categories.List(gctx)
		out.Categories = items
		return err
	})
	g.Go(func() error {
		items, err := s.vehicles.List(gctx, vehicles.Filters{})
		out.Vehicles = items
		return err
	})
	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}
	return out, nil
}

// Pickers loads the categories and vehicles a product form offers.
func (s *Service) Pickers(ctx context.Context) ([]categories.Category, []vehicles.Vehicle, error) {
	var (
		cats []categories.Category
		vehs []vehicles.Vehicle
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cats, err = s.categories.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		vehs, err = s.vehicles.List(gctx, vehicles.Filters{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return cats, vehs, nil
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	if id == "" {
		return Product{}, errors.New("invalid product ID")
	}
	return s.repo.Get(ctx, id)
}

// Save validates draft and writes it as multipart: a create when editingID
// is empty, an update otherwise. A nil image keeps the stored one.
func (s *Service) Save(ctx context.Context, editingID string, draft Draft, image *apiclient.File) (Product, error) {
	if err := internalShared.ValidateDraft(draft); err != nil {
		return Product{}, err
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

// SetFeatured marks or unmarks a product as featured. Repeating the same
// value is harmless.
func (s *Service) SetFeatured(ctx context.Context, id string, featured bool) (Product, error) {
	if id == "" {
		return Product{}, errors.New("invalid product ID")
	}
	return s.repo.Update(ctx, id, Patch{IsFeatured: &featured})
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("invalid product ID")
	}
	return s.repo.Delete(ctx, id)
}
