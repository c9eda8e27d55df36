package shared

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
)

// ServePreview streams a pending image to the session that uploaded it.
func (d Deps) ServePreview(w http.ResponseWriter, r *http.Request) {
	img, err := d.Previews.Load(r.Context(), SessionID(r), chi.URLParam(r, "token"))
	if err != nil {
		if !errors.Is(err, internalShared.ErrPreviewNotFound) {
			d.Logger.Error("load preview failed", "error", err)
		}
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Cache-Control", "private, no-store")
	_, _ = w.Write(img.Data)
}
