package vehicles

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	catalogShared "github.com/logiparts/logiparts-admin/internal/catalog/shared"
	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
)

const (
	entity   = "vehicles"
	basePath = "/admin/vehicles"
	title    = "Vehículos"
)

// listFilters are the query keys besides q and page that position the list.
var listFilters = []string{"marca", "tipo"}

// Handler serves the vehicle admin pages.
type Handler struct {
	deps    catalogShared.Deps
	service *Service
	now     func() time.Time
}

// NewHandler builds Handler instance.
func NewHandler(deps catalogShared.Deps, service *Service) *Handler {
	return &Handler{deps: deps, service: service, now: time.Now}
}

// MountRoutes registers vehicle routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/new", h.Form)
	r.Post("/", h.Create)
	r.Get("/{id}/edit", h.EditForm)
	r.Post("/{id}/edit", h.Update)
	r.Post("/{id}/delete", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	armed := catalogShared.SyncConfirm(r, entity)
	query := r.URL.Query()
	filters := Filters{Brand: query.Get("marca"), Type: query.Get("tipo")}
	term := query.Get("q")
	page, _ := strconv.Atoi(query.Get("page"))

	data := map[string]any{"Filters": filters}
	items, err := h.service.List(ctx, filters)
	if internalShared.Discarded(ctx) {
		return
	}
	if err != nil {
		h.deps.Logger.Error("list vehicles failed", "error", err)
		data["Error"] = internalShared.UserMessage(err)
	}

	list := internalShared.NewListView(items, term, page, SearchFields)
	list.Armed = armed
	list.State = catalogShared.ListState(query, listFilters...)
	data["List"] = list
	h.deps.Render(w, r, "pages/vehicles_list.html", title, data, http.StatusOK)
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, NewCreateForm(h.now()), http.StatusOK)
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	vehicle, err := h.service.Get(r.Context(), id)
	if internalShared.Discarded(r.Context()) {
		return
	}
	if err != nil {
		h.deps.Logger.Error("get vehicle failed", "error", err, "id", id)
		h.deps.RedirectWithFlash(w, r, basePath, "error", internalShared.UserMessage(err))
		return
	}
	h.renderForm(w, r, NewEditForm(vehicle), http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	form := Form{internalShared.FormState[Draft]{EditingID: id, Values: internalShared.FormValues(r.PostForm)}}
	draft, err := ParseDraft(form.Values)
	form.Draft = draft
	if err != nil {
		h.fail(w, r, form, err)
		return
	}

	release, err := h.deps.Guard.Acquire(ctx, catalogShared.SessionID(r), entity+":"+id)
	if err != nil {
		h.fail(w, r, form, err)
		return
	}
	defer release()

	if _, err := h.service.Save(ctx, id, draft); err != nil {
		h.deps.Logger.Error("save vehicle failed", "error", err, "id", id)
		h.fail(w, r, form, err)
		return
	}
	h.deps.RedirectWithFlash(w, r, basePath, "success", "Vehículo guardado")
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, form Form, err error) {
	form.Fail(err)
	h.renderForm(w, r, form, catalogShared.FailureStatus(err))
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, form Form, status int) {
	action := basePath
	if form.Editing() {
		action = basePath + "/" + url.PathEscape(form.EditingID) + "/edit"
	}
	h.deps.Render(w, r, "pages/vehicle_form.html", title, map[string]any{
		"Form":   form,
		"Action": action,
	}, status)
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
		h.deps.Logger.Error("delete vehicle failed", "error", err, "id", id)
		h.deps.RedirectWithFlash(w, r, catalogShared.ListURL(basePath, state, nil), "error", internalShared.UserMessage(err))
		return
	}
	h.deps.RedirectWithFlash(w, r, catalogShared.ListURL(basePath, state, nil), "success", "Vehículo eliminado")
}
