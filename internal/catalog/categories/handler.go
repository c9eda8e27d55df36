package categories

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	catalogShared "github.com/logiparts/logiparts-admin/internal/catalog/shared"
	"github.com/logiparts/logiparts-admin/internal/platform/httpx"
	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
)

const (
	entity   = "categories"
	basePath = "/admin/categories"
	title    = "Categorías"
)

// Handler serves the category admin pages.
type Handler struct {
	deps    catalogShared.Deps
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(deps catalogShared.Deps, service *Service) *Handler {
	return &Handler{deps: deps, service: service}
}

// MountRoutes registers category routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/new", h.Form)
	r.Post("/", h.Create)
	r.Get("/slug", h.SlugPreview)
	r.Get("/{id}/edit", h.EditForm)
	r.Post("/{id}/edit", h.Update)
	r.Post("/{id}/delete", h.Delete)
}

func searchFields(c Category) []string {
	fields := []string{c.Name, c.Slug}
	if c.Description != nil {
		fields = append(fields, *c.Description)
	}
	return fields
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	armed := catalogShared.SyncConfirm(r, entity)
	term := r.URL.Query().Get("q")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	data := map[string]any{}
	items, err := h.service.List(ctx)
	if internalShared.Discarded(ctx) {
		return
	}
	if err != nil {
		h.deps.Logger.Error("list categories failed", "error", err)
		data["Error"] = internalShared.UserMessage(err)
	}

	list := internalShared.NewListView(items, term, page, searchFields)
	list.Armed = armed
	list.State = catalogShared.ListState(r.URL.Query())
	data["List"] = list
	h.deps.Render(w, r, "pages/categories_list.html", title, data, http.StatusOK)
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, NewCreateForm(), "", http.StatusOK)
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	category, err := h.service.Get(r.Context(), id)
	if internalShared.Discarded(r.Context()) {
		return
	}
	if err != nil {
		h.deps.Logger.Error("get category failed", "error", err, "id", id)
		h.deps.RedirectWithFlash(w, r, basePath, "error", internalShared.UserMessage(err))
		return
	}
	form := NewEditForm(category)
	form.PreviewURL = h.deps.PreviewURL("", category.Image())
	h.renderForm(w, r, form, category.Image(), http.StatusOK)
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
	if !form.Editing() && strings.TrimSpace(values["slug"]) == "" {
		values["slug"] = Slugify(values["name"])
	}
	stored := values["stored_image"]

	slot, err := h.deps.ResolveImage(ctx, r)
	form.PendingImage = slot.Token
	form.PreviewURL = h.deps.PreviewURL(slot.Token, stored)
	if err != nil {
		h.fail(w, r, form, stored, err)
		return
	}
	draft, err := ParseDraft(values)
	form.Draft = draft
	if err != nil {
		h.fail(w, r, form, stored, err)
		return
	}

	release, err := h.deps.Guard.Acquire(ctx, catalogShared.SessionID(r), entity+":"+id)
	if err != nil {
		h.fail(w, r, form, stored, err)
		return
	}
	defer release()

	if _, err := h.service.Save(ctx, id, draft, slot.File()); err != nil {
		h.deps.Logger.Error("save category failed", "error", err, "id", id)
		h.fail(w, r, form, stored, err)
		return
	}
	h.deps.Release(ctx, slot)
	h.deps.RedirectWithFlash(w, r, basePath, "success", "Categoría guardada")
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, form Form, stored string, err error) {
	form.Fail(err)
	h.renderForm(w, r, form, stored, catalogShared.FailureStatus(err))
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, form Form, stored string, status int) {
	action := basePath
	if form.Editing() {
		action = basePath + "/" + url.PathEscape(form.EditingID) + "/edit"
	}
	h.deps.Render(w, r, "pages/category_form.html", title, map[string]any{
		"Form":        form,
		"Action":      action,
		"StoredImage": stored,
	}, status)
}

// SlugPreview returns the slug a new category named ?name= would get.
func (h *Handler) SlugPreview(w http.ResponseWriter, r *http.Request) {
	form := NewCreateForm()
	form.ChangeName(r.URL.Query().Get("name"))
	httpx.JSON(w, http.StatusOK, map[string]string{"slug": form.Draft.Slug})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	state := catalogShared.ListState(r.PostForm)
	if !catalogShared.Confirm(r, entity).Confirm(id) {
		http.Redirect(w, r, catalogShared.ListURL(basePath, state, url.Values{"confirm": {id}}), http.StatusSeeOther)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.deps.Logger.Error("delete category failed", "error", err, "id", id)
		h.deps.RedirectWithFlash(w, r, catalogShared.ListURL(basePath, state, nil), "error", internalShared.UserMessage(err))
		return
	}
	h.deps.RedirectWithFlash(w, r, catalogShared.ListURL(basePath, state, nil), "success", "Categoría eliminada")
}
