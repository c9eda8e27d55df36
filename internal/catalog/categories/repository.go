package categories

import (
	"context"
	"net/url"

	"github.com/logiparts/logiparts-admin/internal/apiclient"
)

// Repository is the category operation set of the catalog API.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id string) (Category, error)
	GetBySlug(ctx context.Context, slug string) (Category, error)
	Create(ctx context.Context, body CreateInput) (Category, error)
	CreateWithImage(ctx context.Context, form *apiclient.Multipart) (Category, error)
	Update(ctx context.Context, id string, body UpdateInput) (Category, error)
	UpdateWithImage(ctx context.Context, id string, form *apiclient.Multipart) (Category, error)
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
	return "/categories/" + url.PathEscape(id)
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := r.client.Get(ctx, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) Get(ctx context.Context, id string) (Category, error) {
	var out Category
	err := r.client.Get(ctx, itemPath(id), nil, &out)
	return out, err
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (Category, error) {
	var out Category
	err := r.client.Get(ctx, "/categories/slug/"+url.PathEscape(slug), nil, &out)
	return out, err
}

func (r *repository) Create(ctx context.Context, body CreateInput) (Category, error) {
	var out Category
	err := r.client.PostJSON(ctx, "/categories", body, &out)
	return out, err
}

func (r *repository) CreateWithImage(ctx context.Context, form *apiclient.Multipart) (Category, error) {
	var out Category
	err := r.client.PostForm(ctx, "/categories", form, &out)
	return out, err
}

func (r *repository) Update(ctx context.Context, id string, body UpdateInput) (Category, error) {
	var out Category
	err := r.client.PatchJSON(ctx, itemPath(id), body, &out)
	return out, err
}

func (r *repository) UpdateWithImage(ctx context.Context, id string, form *apiclient.Multipart) (Category, error) {
	var out Category
	err := r.client.PatchForm(ctx, itemPath(id), form, &out)
	return out, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, itemPath(id))
}
