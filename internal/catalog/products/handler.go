package products

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/logiparts/logiparts-admin/internal/catalog/categories"
	catalogShared "github.com/logiparts/logiparts-admin/internal/catalog/shared"
	"github.com/logiparts/logiparts-admin/internal/catalog/vehicles"
	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
)

const (
	entity   = "products"
	basePath = "/admin/products"
	title    = "Productos"

	// vehicleTermField filters the vehicle selector inside the form.
	vehicleTermField = "vehicle_q"
	// toggleField carries one vehicle id to add or drop without saving.
	toggleField = "toggle_vehicle"
	// refreshField re-renders the form with the current draft without saving.
	refreshField = "refresh"
	// featuredValueField carries the flag a featured toggle sets, apart from
	// the featured list filter.
	featuredValueField = "value"
)

// listFilters are the query keys besides q and page that position the list.
var listFilters = []string{"categoryId", "vehicleId", "featured"}

// Handler serves the product admin pages.
type Handler struct {
	deps    catalogShared.Deps
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(deps catalogShared.Deps, service *Service) *Handler {
	return &Handler{deps: deps, service: service}
}

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/new", h.Form)
	r.Post("/", h.Create)
	r.Get("/{id}/edit", h.EditForm)
	r.Post("/{id}/edit", h.Update)
	r.Post("/{id}/featured", h.Featured)
	r.Post("/{id}/delete", h.Delete)
}

func filtersFrom(query url.Values) Filters {
	return Filters{
		CategoryID: query.Get("categoryId"),
		Featured:   query.Get("featured") == "true",
		VehicleID:  query.Get("vehicleId"),
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	armed := catalogShared.SyncConfirm(r, entity)
	query := r.URL.Query()
	filters := filtersFrom(query)
	term := query.Get("q")
	page, _ := strconv.Atoi(query.Get("page"))

	data := map[string]any{"Filters": filters}
	catalog, err := h.service.Load(ctx, filters)
	if internalShared.Discarded(ctx) {
		return
	}
	if err != nil {
		h.deps.Logger.Error("list products failed", "error", err)
		data["Error"] = internalShared.UserMessage(err)
	}

	list := internalShared.NewListView(catalog.Products, term, page, SearchFields)
	list.Armed = armed
	list.State = catalogShared.ListState(query, listFilters...)
	data["List"] = list
	data["Categories"] = catalog.Categories
	data["Vehicles"] = catalog.Vehicles
	h.deps.Render(w, r, "pages/products_list.html", title, data, http.StatusOK)
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, NewCreateForm(), "", "", http.StatusOK)
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.service.Get(r.Context(), id)
	if internalShared.Discarded(r.Context()) {
		return
	}
	if err != nil {
		h.deps.Logger.Error("get product failed", "error", err, "id", id)
		h.deps.RedirectWithFlash(w, r, basePath, "error", internalShared.UserMessage(err))
		return
	}
	form := NewEditForm(product)
	form.PreviewURL = h.deps.PreviewURL("", product.Image)
	h.renderForm(w, r, form, product.Image, "", http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	if err := h.deps.ParseForm(r); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	values := internalShared.FormValues(r.PostForm)
	form := Form{internalShared.FormState[Draft]{EditingID: id, Values: values}}
	stored := values["stored_image"]
	vehicleTerm := values[vehicleTermField]

	draft, parseErr := ParseDraft(values, r.PostForm["vehicleIds"])
	slot, imageErr := h.deps.ResolveImage(ctx, r)
	form.PendingImage = slot.Token
	form.PreviewURL = h.deps.PreviewURL(slot.Token, stored)

	// Selector actions only reshape the draft.
	if toggle := values[toggleField]; toggle != "" || values[refreshField] != "" {
		draft.Vehicles.Toggle(toggle)
		form.Draft = draft
		h.renderForm(w, r, form, stored, vehicleTerm, http.StatusOK)
		return
	}
	form.Draft = draft

	if imageErr != nil {
		h.fail(w, r, form, stored, vehicleTerm, imageErr)
		return
	}
	if parseErr != nil {
		h.fail(w, r, form, stored, vehicleTerm, parseErr)
		return
	}

	release, err := h.deps.Guard.Acquire(ctx, catalogShared.SessionID(r), entity+":"+id)
	if err != nil {
		h.fail(w, r, form, stored, vehicleTerm, err)
		return
	}
	defer release()

	if _, err := h.service.Save(ctx, id, draft, slot.File()); err != nil {
		h.deps.Logger.Error("save product failed", "error", err, "id", id)
		h.fail(w, r, form, stored, vehicleTerm, err)
		return
	}
	h.deps.Release(ctx, slot)
	h.deps.RedirectWithFlash(w, r, basePath, "success", "Producto guardado")
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, form Form, stored, vehicleTerm string, err error) {
	form.Fail(err)
	h.renderForm(w, r, form, stored, vehicleTerm, catalogShared.FailureStatus(err))
}

// selectorView is the vehicle picker of the product form.
type selectorView struct {
	Term    string
	Visible []vehicles.Vehicle
	// Hidden holds selected ids the current filter hides, so they still post.
	Hidden []string
	Count  int
}

func newSelectorView(all []vehicles.Vehicle, selection Selection, term string) selectorView {
	visible := internalShared.Filter(all, term, vehicles.SearchFields)
	shown := make(map[string]struct{}, len(visible))
	for _, v := range visible {
		shown[v.ID] = struct{}{}
	}
	view := selectorView{Term: term, Visible: visible, Count: selection.Len()}
	for _, id := range selection.IDs() {
		if _, ok := shown[id]; !ok {
			view.Hidden = append(view.Hidden, id)
		}
	}
	return view
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, form Form, stored, vehicleTerm string, status int) {
	ctx := r.Context()
	action := basePath
	if form.Editing() {
		action = basePath + "/" + url.PathEscape(form.EditingID) + "/edit"
	}
	if form.Draft.Vehicles.ids == nil {
		form.Draft.Vehicles = NewSelection()
	}

	data := map[string]any{
		"Form":        form,
		"Action":      action,
		"StoredImage": stored,
	}
	cats, vehs, err := h.service.Pickers(ctx)
	if internalShared.Discarded(ctx) {
		return
	}
	if err != nil {
		h.deps.Logger.Error("load product pickers failed", "error", err)
		data["PickerError"] = internalShared.UserMessage(err)
		cats, vehs = []categories.Category{}, []vehicles.Vehicle{}
	}
	data["Categories"] = cats
	data["Selector"] = newSelectorView(vehs, form.Draft.Vehicles, vehicleTerm)
	h.deps.Render(w, r, "pages/product_form.html", title, data, status)
}

// Featured sets the featured flag to the posted value.
func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	featured := r.PostFormValue(featuredValueField) == "true"
	location := catalogShared.ListURL(basePath, catalogShared.ListState(r.PostForm, listFilters...), nil)
	if _, err := h.service.SetFeatured(r.Context(), id, featured); err != nil {
		h.deps.Logger.Error("set featured failed", "error", err, "id", id)
		h.deps.RedirectWithFlash(w, r, location, "error", internalShared.UserMessage(err))
		return
	}
	message := "Producto quitado de destacados"
	if featured {
		message = "Producto destacado"
	}
	h.deps.RedirectWithFlash(w, r, location, "success", message)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	state := catalogShared.ListState(r.PostForm, listFilters...)
	if !catalogShared.Confirm(r, entity).Confirm(id) {
		http.Redirect(w, r, catalogShared.ListURL(basePath, state, url.Values{"confirm": {id}}), http.StatusSeeOther)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.deps.Logger.Error("delete product failed", "error", err, "id", id)
		h.deps.RedirectWithFlash(w, r, catalogShared.ListURL(basePath, state, nil), "error", internalShared.UserMessage(err))
		return
	}
	h.deps.RedirectWithFlash(w, r, catalogShared.ListURL(basePath, state, nil), "success", "Producto eliminado")
}
