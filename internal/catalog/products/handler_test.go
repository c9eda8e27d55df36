package products_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logiparts/logiparts-admin/internal/catalog/catalogtest"
	"github.com/logiparts/logiparts-admin/internal/catalog/categories"
	"github.com/logiparts/logiparts-admin/internal/catalog/products"
	"github.com/logiparts/logiparts-admin/internal/catalog/vehicles"
	_ "github.com/logiparts/logiparts-admin/testing"
)

// fakeAPI serves /products in the legacy alias shape next to /categories
// and /vehicles.
type fakeAPI struct {
	mu          sync.Mutex
	products    []map[string]any
	vehicles    []vehicles.Vehicle
	failSave    string
	lastQuery   url.Values
	lastForm    map[string][]string
	lastFile    []byte
	lastPatch   map[string]any
	deleted     []string
	vehicleHits int
}

func (f *fakeAPI) find(id string) map[string]any {
	for _, p := range f.products {
		if p["id"] == id {
			return p
		}
	}
	return nil
}

func (f *fakeAPI) save(w http.ResponseWriter, r *http.Request, id string) {
	_ = r.ParseMultipartForm(1 << 20)
	f.lastForm = r.MultipartForm.Value
	if file, _, err := r.FormFile("image"); err == nil {
		f.lastFile, _ = io.ReadAll(file)
		_ = file.Close()
	}
	if f.failSave != "" {
		http.Error(w, f.failSave, http.StatusBadRequest)
		return
	}
	p := f.find(id)
	if p == nil {
		p = map[string]any{"id": "new"}
		f.products = append(f.products, p)
	}
	p["descripcion"] = r.FormValue("descripcion")
	_ = json.NewEncoder(w).Encode(p)
}

func (f *fakeAPI) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/products", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.lastQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(f.products)
	})
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if p := f.find(chi.URLParam(r, "id")); p != nil {
			_ = json.NewEncoder(w).Encode(p)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	r.Post("/products", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.save(w, r, "")
	})
	r.Patch("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		id := chi.URLParam(r, "id")
		if r.Header.Get("Content-Type") == "application/json" {
			f.lastPatch = map[string]any{}
			_ = json.NewDecoder(r.Body).Decode(&f.lastPatch)
			p := f.find(id)
			p["isFeatured"] = f.lastPatch["isFeatured"]
			_ = json.NewEncoder(w).Encode(p)
			return
		}
		f.save(w, r, id)
	})
	r.Delete("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		id := chi.URLParam(r, "id")
		f.deleted = append(f.deleted, id)
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/categories", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]categories.Category{{ID: "c1", Name: "Frenos", Slug: "frenos"}})
	})
	r.Get("/vehicles", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.vehicleHits++
		_ = json.NewEncoder(w).Encode(f.vehicles)
	})
	return r
}

func setup(t *testing.T, api *fakeAPI) *catalogtest.Harness {
	t.Helper()
	h := catalogtest.New(t, api.routes())
	service := products.NewService(
		products.NewRepository(h.API),
		categories.NewRepository(h.API),
		vehicles.NewRepository(h.API),
	)
	h.Router.Route("/admin/products", products.NewHandler(h.Deps, service).MountRoutes)
	return h
}

func sampleVehicles() []vehicles.Vehicle {
	return []vehicles.Vehicle{
		{ID: "v1", Anio: 2015, NombreMarca: "Toyota", NombreModelo: "Hilux", NombreTipo: "Camioneta"},
		{ID: "v2", Anio: 2010, NombreMarca: "Volkswagen", NombreModelo: "Gol", NombreTipo: "Auto"},
	}
}

func TestListSearchesAliasedFields(t *testing.T) {
	api := &fakeAPI{products: []map[string]any{
		{"id": "p1", "name": "Pastilla de freno", "price": 150000, "codigoBarra": "7790001"},
		{"id": "p2", "title": "Filtro de aceite", "codigoImportacion": "IMP-22"},
	}}
	h := setup(t, api)

	res := h.Get("/admin/products?q=imp-22")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "Filtro de aceite")
	assert.NotContains(t, res.Body.String(), "Pastilla de freno")

	res = h.Get("/admin/products?q=7790001")
	assert.Contains(t, res.Body.String(), "Pastilla de freno")
	assert.Contains(t, res.Body.String(), "150.000 Gs")
}

func TestListPassesServerFilters(t *testing.T) {
	api := &fakeAPI{}
	h := setup(t, api)

	h.Get("/admin/products")
	assert.Empty(t, api.lastQuery)

	h.Get("/admin/products?categoryId=c1&featured=true&vehicleId=v2")
	assert.Equal(t, "c1", api.lastQuery.Get("categoryId"))
	assert.Equal(t, "true", api.lastQuery.Get("featured"))
	assert.Equal(t, "v2", api.lastQuery.Get("vehicleId"))
}

func TestEmptyListDistinguishesNoResultsFromNoRecords(t *testing.T) {
	h := setup(t, &fakeAPI{})

	res := h.Get("/admin/products?q=brake")
	assert.Contains(t, res.Body.String(), `No hay resultados para "brake"`)
	assert.NotContains(t, res.Body.String(), "No hay productos. Creá uno para empezar.")

	res = h.Get("/admin/products")
	assert.Contains(t, res.Body.String(), "No hay productos. Creá uno para empezar.")
}

func TestCreateSendsSelectionAsRepeatedField(t *testing.T) {
	api := &fakeAPI{vehicles: sampleVehicles()}
	h := setup(t, api)

	res := h.PostMultipart("/admin/products", url.Values{
		"descripcion": {"Amortiguador"},
		"costoFinal":  {"250000"},
		"vehicleIds":  {"v2", "v1", "v2"},
	}, catalogtest.Upload{Field: "image", Filename: "a.png", Data: catalogtest.PNG})
	require.Equal(t, http.StatusSeeOther, res.Code, res.Body.String())
	assert.Equal(t, []string{"v1", "v2"}, api.lastForm["vehicleIds"])
	assert.Equal(t, catalogtest.PNG, api.lastFile)

	res = h.PostMultipart("/admin/products", url.Values{"descripcion": {"Sin vehículos"}})
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.NotContains(t, api.lastForm, "vehicleIds")
}

func TestFailedCreateKeepsDraftAndSelection(t *testing.T) {
	api := &fakeAPI{vehicles: sampleVehicles(), failSave: "Código de importación duplicado"}
	h := setup(t, api)

	res := h.PostMultipart("/admin/products", url.Values{
		"descripcion":       {"Bujía"},
		"codigoImportacion": {"IMP-1"},
		"vehicleIds":        {"v2"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "Código de importación duplicado")
	assert.Contains(t, body, `value="Bujía"`)
	assert.Contains(t, body, `value="IMP-1"`)
	assert.Contains(t, body, `value="v2" checked`)
	assert.NotContains(t, body, `value="v1" checked`)
}

func TestInvalidDraftIsNotSubmitted(t *testing.T) {
	api := &fakeAPI{}
	h := setup(t, api)

	res := h.PostMultipart("/admin/products", url.Values{"descripcion": {""}, "costoFinal": {"abc"}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Contains(t, res.Body.String(), "Debe ser un número")
	assert.Nil(t, api.lastForm)
}

func TestSelectorFilterKeepsHiddenSelection(t *testing.T) {
	api := &fakeAPI{vehicles: sampleVehicles()}
	h := setup(t, api)

	res := h.PostMultipart("/admin/products", url.Values{
		"descripcion": {"Faro"},
		"vehicleIds":  {"v1"},
		"vehicle_q":   {"gol"},
		"refresh":     {"1"},
	})
	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "Volkswagen Gol")
	assert.NotContains(t, body, "Toyota Hilux")
	assert.Contains(t, body, `type="hidden" name="vehicleIds" value="v1"`)
	assert.Nil(t, api.lastForm, "filtering never saves")

	res = h.PostMultipart("/admin/products", url.Values{
		"descripcion":    {"Faro"},
		"vehicleIds":     {"v1"},
		"toggle_vehicle": {"v2"},
	})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `value="v2" checked`)
	assert.Contains(t, res.Body.String(), `value="v1" checked`)
}

func TestEditSeedsSelectionFromProduct(t *testing.T) {
	api := &fakeAPI{
		vehicles: sampleVehicles(),
		products: []map[string]any{{"id": "p1", "descripcion": "Radiador", "vehicles": []map[string]any{{"id": "v2"}}}},
	}
	h := setup(t, api)

	res := h.Get("/admin/products/p1/edit")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `value="Radiador"`)
	assert.Contains(t, res.Body.String(), `value="v2" checked`)
	assert.NotContains(t, res.Body.String(), `value="v1" checked`)
}

func TestFeaturedToggleIsIdempotent(t *testing.T) {
	api := &fakeAPI{products: []map[string]any{{"id": "p1", "descripcion": "Radiador"}}}
	h := setup(t, api)

	for range 2 {
		res := h.PostForm("/admin/products/p1/featured", url.Values{"value": {"true"}})
		require.Equal(t, http.StatusSeeOther, res.Code)
		assert.Equal(t, true, api.lastPatch["isFeatured"])
	}
	assert.Len(t, api.lastPatch, 1)
	assert.Equal(t, true, api.products[0]["isFeatured"])
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	api := &fakeAPI{products: []map[string]any{{"id": "p1", "descripcion": "Radiador"}}}
	h := setup(t, api)

	res := h.PostForm("/admin/products/p1/delete", url.Values{"q": {"rad"}})
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/admin/products?confirm=p1&q=rad", res.Header().Get("Location"))
	assert.Empty(t, api.deleted)

	res = h.PostForm("/admin/products/p1/delete", url.Values{"q": {"rad"}})
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/admin/products?q=rad", res.Header().Get("Location"))
	assert.Equal(t, []string{"p1"}, api.deleted)
}

func pagedProducts(n int) []map[string]any {
	out := make([]map[string]any, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, map[string]any{"id": fmt.Sprintf("p%02d", i), "descripcion": fmt.Sprintf("Pieza %02d", i)})
	}
	return out
}

func TestDeleteFromLaterPageKeepsListPosition(t *testing.T) {
	api := &fakeAPI{products: pagedProducts(30)}
	h := setup(t, api)

	res := h.Get("/admin/products?categoryId=c1&page=2")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "Pieza 28")
	assert.Contains(t, res.Body.String(), `name="page" value="2"`)
	assert.Contains(t, res.Body.String(), `href="?categoryId=c1&amp;page=1"`)

	state := url.Values{"categoryId": {"c1"}, "page": {"2"}}
	res = h.PostForm("/admin/products/p28/delete", state)
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/admin/products?categoryId=c1&confirm=p28&page=2", res.Header().Get("Location"))

	res = h.Get(res.Header().Get("Location"))
	assert.Contains(t, res.Body.String(), "¿Eliminar?")
	assert.Contains(t, res.Body.String(), `href="/admin/products?cancel=1&amp;categoryId=c1&amp;page=2"`)

	// Paging away and back keeps the row armed.
	h.Get("/admin/products?categoryId=c1&page=1")
	res = h.Get("/admin/products?categoryId=c1&page=2")
	assert.Contains(t, res.Body.String(), "¿Eliminar?")

	res = h.PostForm("/admin/products/p28/delete", state)
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/admin/products?categoryId=c1&page=2", res.Header().Get("Location"))
	assert.Equal(t, []string{"p28"}, api.deleted)
}

func TestCancelDisarmsDelete(t *testing.T) {
	api := &fakeAPI{products: pagedProducts(3)}
	h := setup(t, api)

	h.PostForm("/admin/products/p02/delete", url.Values{})
	res := h.Get("/admin/products?cancel=1")
	assert.NotContains(t, res.Body.String(), "¿Eliminar?")

	h.PostForm("/admin/products/p02/delete", url.Values{})
	assert.Empty(t, api.deleted)
}

func TestFeaturedToggleKeepsFilters(t *testing.T) {
	api := &fakeAPI{products: []map[string]any{{"id": "p1", "descripcion": "Radiador", "isFeatured": true}}}
	h := setup(t, api)

	res := h.PostForm("/admin/products/p1/featured", url.Values{
		"value":     {"false"},
		"featured":  {"true"},
		"vehicleId": {"v1"},
		"page":      {"2"},
		"q":         {"rad"},
	})
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/admin/products?featured=true&page=2&q=rad&vehicleId=v1", res.Header().Get("Location"))
	assert.Equal(t, false, api.lastPatch["isFeatured"])
}
