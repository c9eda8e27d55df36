// Package dashboard serves the admin landing page.
package dashboard

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/logiparts/logiparts-admin/internal/catalog/categories"
	"github.com/logiparts/logiparts-admin/internal/catalog/products"
	catalogShared "github.com/logiparts/logiparts-admin/internal/catalog/shared"
	"github.com/logiparts/logiparts-admin/internal/catalog/vehicles"
	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
)

// Counts is the catalog size shown on the dashboard.
type Counts struct {
	Categories int
	Products   int
	Vehicles   int
}

// Handler renders the dashboard.
type Handler struct {
	deps       catalogShared.Deps
	categories categories.Repository
	products   products.Repository
	vehicles   vehicles.Repository
}

// NewHandler builds Handler instance.
func NewHandler(deps catalogShared.Deps, c categories.Repository, p products.Repository, v vehicles.Repository) *Handler {
	return &Handler{deps: deps, categories: c, products: p, vehicles: v}
}

// MountRoutes registers the dashboard route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Show)
}

// Load counts every entity concurrently.
func (h *Handler) Load(ctx context.Context) (Counts, error) {
	var counts Counts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := h.categories.List(gctx)
		counts.Categories = len(items)
		return err
	})
	g.Go(func() error {
		items, err := h.products.List(gctx, products.Filters{})
		counts.Products = len(items)
		return err
	})
	g.Go(func() error {
		items, err := h.vehicles.List(gctx, vehicles.Filters{})
		counts.Vehicles = len(items)
		return err
	})
	err := g.Wait()
	return counts, err
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	counts, err := h.Load(ctx)
	if internalShared.Discarded(ctx) {
		return
	}
	data := map[string]any{"Counts": counts}
	if err != nil {
		h.deps.Logger.Error("load dashboard failed", "error", err)
		data["Error"] = internalShared.UserMessage(err)
	}
	h.deps.Render(w, r, "pages/dashboard.html", "Inicio", data, http.StatusOK)
}
