package shared

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/logiparts/logiparts-admin/internal/apiclient"
	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
	"github.com/logiparts/logiparts-admin/internal/view"
)

// Deps groups what every catalog handler needs to render pages and guard forms.
type Deps struct {
	Logger    *slog.Logger
	Templates *view.Engine
	CSRF      *internalShared.CSRFManager
	Previews  *internalShared.PreviewStore
	Guard     *internalShared.SubmitGuard
	// UploadsBase resolves stored image references.
	UploadsBase string
	// MaxUploadBytes bounds multipart parsing held in memory.
	MaxUploadBytes int64
}

// ImageURL resolves a stored image reference for display.
func (d Deps) ImageURL(path string) string {
	return apiclient.UploadsURL(d.UploadsBase, path)
}

// Render writes template with the common layout data.
func (d Deps) Render(w http.ResponseWriter, r *http.Request, template, title string, data map[string]any, status int) {
	sess := internalShared.SessionFromContext(r.Context())
	csrfToken, _ := d.CSRF.EnsureToken(sess)
	var flash *internalShared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:         title,
		CSRFToken:     csrfToken,
		Flash:         flash,
		CurrentPath:   r.URL.Path,
		Authenticated: true,
		Data:          data,
	}
	if err := d.Templates.RenderStatus(w, status, template, viewData); err != nil {
		d.Logger.Error("render template", "error", err, "template", template)
	}
}

// RedirectWithFlash queues a flash and sends the browser to location.
func (d Deps) RedirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := internalShared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(internalShared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// SessionID returns the request's session id, or "" outside a session.
func SessionID(r *http.Request) string {
	if sess := internalShared.SessionFromContext(r.Context()); sess != nil {
		return sess.ID
	}
	return ""
}

// Confirm returns the delete confirmation state of entity for this request.
func Confirm(r *http.Request, entity string) internalShared.DeleteConfirm {
	var store internalShared.ConfirmStore
	if sess := internalShared.SessionFromContext(r.Context()); sess != nil {
		store = sess
	}
	return internalShared.NewDeleteConfirm(store, entity)
}

// SyncConfirm applies the confirmation query of a list request: ?confirm=id
// arms that row and ?cancel disarms. Any other list request, such as paging
// or filtering, leaves the armed row as it is. It returns the armed id.
func SyncConfirm(r *http.Request, entity string) string {
	confirm := Confirm(r, entity)
	query := r.URL.Query()
	if id := query.Get("confirm"); id != "" {
		confirm.Arm(id)
		return id
	}
	if query.Has("cancel") {
		confirm.Disarm()
		return ""
	}
	return confirm.Armed()
}

// ListState picks the list position out of values: the search term, the
// page and the named filters. Blank entries are dropped.
func ListState(values url.Values, filters ...string) url.Values {
	state := url.Values{}
	for _, key := range append([]string{"q", "page"}, filters...) {
		if v := values.Get(key); v != "" {
			state.Set(key, v)
		}
	}
	return state
}

// ListURL rebuilds a list location from state plus extra.
func ListURL(base string, state, extra url.Values) string {
	q := url.Values{}
	for k, v := range state {
		q[k] = v
	}
	for k, v := range extra {
		q[k] = v
	}
	if encoded := q.Encode(); encoded != "" {
		return base + "?" + encoded
	}
	return base
}
