package vehicles

import (
	"context"
	"net/url"

	"github.com/logiparts/logiparts-admin/internal/apiclient"
)

// Repository is the vehicle operation set of the catalog API. Vehicles carry
// no image, so every write is JSON.
type Repository interface {
	List(ctx context.Context, filters Filters) ([]Vehicle, error)
	Get(ctx context.Context, id string) (Vehicle, error)
	Create(ctx context.Context, body Input) (Vehicle, error)
	Update(ctx context.Context, id string, body Patch) (Vehicle, error)
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
	return "/vehicles/" + url.PathEscape(id)
}

func (r *repository) List(ctx context.Context, filters Filters) ([]Vehicle, error) {
	query := url.Values{}
	if filters.Brand != "" {
		query.Set("marca", filters.Brand)
	}
	if filters.Type != "" {
		query.Set("tipo", filters.Type)
	}
	var out []Vehicle
	if err := r.client.Get(ctx, "/vehicles", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) Get(ctx context.Context, id string) (Vehicle, error) {
	var out Vehicle
	err := r.client.Get(ctx, itemPath(id), nil, &out)
	return out, err
}

func (r *repository) Create(ctx context.Context, body Input) (Vehicle, error) {
	var out Vehicle
	err := r.client.PostJSON(ctx, "/vehicles", body, &out)
	return out, err
}

func (r *repository) Update(ctx context.Context, id string, body Patch) (Vehicle, error) {
	var out Vehicle
	err := r.client.PatchJSON(ctx, itemPath(id), body, &out)
	return out, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, itemPath(id))
}
