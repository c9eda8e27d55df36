package products

import (
	"context"
	"net/url"

	"github.com/logiparts/logiparts-admin/internal/apiclient"
)

// Repository is the product operation set of the catalog API.
type Repository interface {
	List(ctx context.Context, filters Filters) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Create(ctx context.Context, body Input) (Product, error)
	CreateWithImage(ctx context.Context, form *apiclient.Multipart) (Product, error)
	Update(ctx context.Context, id string, body Patch) (Product, error)
	UpdateWithImage(ctx context.Context, id string, form *apiclient.Multipart) (Product, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	client *apiclient.Client
}

// NewRepository builds the API-backed repository.
func NewRepository(client *apiclient.Client) Repository {
	return &repository{client: client}
}

func itemPath(id string) string {
	return "/products/" + url.PathEscape(id)
}

// Query renders filters as list parameters, omitting unset ones.
func (f Filters) Query() url.Values {
	query := url.Values{}
	if f.CategoryID != "" {
		query.Set("categoryId", f.CategoryID)
	}
	if f.Featured {
		query.Set("featured", "true")
	}
	if f.VehicleID != "" {
		query.Set("vehicleId", f.VehicleID)
	}
	return query
}

func (r *repository) List(ctx context.Context, filters Filters) ([]Product, error) {
	var out []Product
	if err := r.client.Get(ctx, "/products", filters.Query(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) Get(ctx context.Context, id string) (Product, error) {
	var out Product
	err := r.client.Get(ctx, itemPath(id), nil, &out)
	return out, err
}

func (r *repository) Create(ctx context.Context, body Input) (Product, error) {
	var out Product
	err := r.client.PostJSON(ctx, "/products", body, &out)
	return out, err
}

func (r *repository) CreateWithImage(ctx context.Context, form *apiclient.Multipart) (Product, error) {
	var out Product
	err := r.client.PostForm(ctx, "/products", form, &out)
	return out, err
}

func (r *repository) Update(ctx context.Context, id string, body Patch) (Product, error) {
	var out Product
	err := r.client.PatchJSON(ctx, itemPath(id), body, &out)
	return out, err
}

func (r *repository) UpdateWithImage(ctx context.Context, id string, form *apiclient.Multipart) (Product, error) {
	var out Product
	err := r.client.PatchForm(ctx, itemPath(id), form, &out)
	return out, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, itemPath(id))
}
