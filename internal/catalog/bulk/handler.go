package bulk

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	catalogShared "github.com/logiparts/logiparts-admin/internal/catalog/shared"
	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
)

const (
	basePath = "/admin/bulk"
	title    = "Carga masiva"
)

// Enqueuer hands a stored job to the background worker.
type Enqueuer interface {
	EnqueueBulkUpload(ctx context.Context, jobID string) error
}

// Handler serves the bulk upload pages.
type Handler struct {
	deps     catalogShared.Deps
	store    *Store
	enqueuer Enqueuer
	now      func() time.Time
}

// NewHandler builds Handler instance.
func NewHandler(deps catalogShared.Deps, store *Store, enqueuer Enqueuer) *Handler {
	return &Handler{deps: deps, store: store, enqueuer: enqueuer, now: time.Now}
}

// MountRoutes registers bulk routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Form)
	r.Post("/", h.Upload)
	r.Get("/{id}", h.Show)
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "", http.StatusOK)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, message string, status int) {
	h.deps.Render(w, r, "pages/bulk_upload.html", title, map[string]any{
		"Columns": RequiredColumns,
		"Error":   message,
	}, status)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.deps.ParseForm(r); err != nil {
		h.renderForm(w, r, "El archivo supera el tamaño permitido", http.StatusRequestEntityTooLarge)
		return
	}
	file, header, err := r.FormFile(FileField)
	if errors.Is(err, http.ErrMissingFile) {
		h.renderForm(w, r, "Elegí un archivo para subir", http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	report, err := Inspect(header.Filename, data)
	if err != nil {
		var verr *internalShared.ValidationError
		if errors.As(err, &verr) {
			h.renderForm(w, r, verr.Fields[FileField], http.StatusUnprocessableEntity)
			return
		}
		h.renderForm(w, r, internalShared.UserMessage(err), http.StatusUnprocessableEntity)
		return
	}

	sessionID := catalogShared.SessionID(r)
	release, err := h.deps.Guard.Acquire(ctx, sessionID, "bulk")
	if err != nil {
		h.renderForm(w, r, internalShared.UserMessage(err), catalogShared.FailureStatus(err))
		return
	}
	defer release()

	job, err := h.store.Create(ctx, Job{
		Owner:     sessionID,
		Filename:  header.Filename,
		Rows:      report.Rows,
		Verified:  report.Verified,
		CreatedAt: h.now().UTC(),
	}, data)
	if err != nil {
		h.deps.Logger.Error("store bulk job failed", "error", err)
		h.renderForm(w, r, internalShared.UserMessage(err), http.StatusInternalServerError)
		return
	}
	if err := h.enqueuer.EnqueueBulkUpload(ctx, job.ID); err != nil {
		h.deps.Logger.Error("enqueue bulk job failed", "error", err, "job", job.ID)
		if err := h.store.Fail(ctx, job.ID, "No se pudo encolar la carga"); err != nil {
			h.deps.Logger.Error("mark bulk job failed", "error", err, "job", job.ID)
		}
	}
	http.Redirect(w, r, basePath+"/"+url.PathEscape(job.ID), http.StatusSeeOther)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	job, err := h.store.Get(r.Context(), catalogShared.SessionID(r), chi.URLParam(r, "id"))
	if errors.Is(err, ErrJobNotFound) {
		h.deps.RedirectWithFlash(w, r, basePath, "error", "La carga no existe o ya expiró")
		return
	}
	if err != nil {
		h.deps.Logger.Error("load bulk job failed", "error", err)
		h.renderForm(w, r, internalShared.UserMessage(err), http.StatusInternalServerError)
		return
	}
	h.deps.Render(w, r, "pages/bulk_result.html", title, map[string]any{"Job": job}, http.StatusOK)
}
