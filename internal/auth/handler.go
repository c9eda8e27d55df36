package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/logiparts/logiparts-admin/internal/shared"
	"github.com/logiparts/logiparts-admin/internal/view"
)

const msgWrongPassword = "Contraseña incorrecta"

// Handler wires HTTP endpoints for the login flow.
type Handler struct {
	logger         *slog.Logger
	gate           *Gate
	templates      *view.Engine
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, gate *Gate, templates *view.Engine, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		gate:           gate,
		templates:      templates,
		sessionManager: sessions,
		csrfManager:    csrf,
	}
}

// MountRoutes registers auth routes on provided router. loginLimit wraps the
// POST so repeated guesses are throttled.
func (h *Handler) MountRoutes(r chi.Router, loginLimit func(http.Handler) http.Handler) {
	r.Get("/login", h.showLogin)
	if loginLimit != nil {
		r.With(loginLimit).Post("/login", h.handleLogin)
	} else {
		r.Post("/login", h.handleLogin)
	}
	r.Post("/logout", h.handleLogout)
}

type loginPageData struct {
	FailOpen bool
	Error    string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if h.gate.IsAuthenticated(sess) {
		http.Redirect(w, r, HomePath, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, loginPageData{FailOpen: h.gate.FailOpen()}, http.StatusOK)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if !h.gate.Login(sess, r.PostFormValue("password")) {
		h.logger.Warn("admin login rejected", slog.String("ip", r.RemoteAddr))
		h.renderLogin(w, r, loginPageData{Error: msgWrongPassword}, http.StatusUnauthorized)
		return
	}
	h.logger.Info("admin login", slog.String("ip", r.RemoteAddr), slog.Bool("fail_open", h.gate.FailOpen()))
	http.Redirect(w, r, HomePath, http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		h.gate.Logout(sess)
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, data loginPageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Ingresar",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.RenderStatus(w, status, "pages/login.html", viewData); err != nil {
		h.logger.Error("render login", slog.Any("error", err))
	}
}

// ShowLoginForTest exposes the GET handler for tests.
func (h *Handler) ShowLoginForTest(w http.ResponseWriter, r *http.Request) {
	h.showLogin(w, r)
}

// HandleLoginForTest exposes the POST handler for tests.
func (h *Handler) HandleLoginForTest(w http.ResponseWriter, r *http.Request) {
	h.handleLogin(w, r)
}

// HandleLogoutForTest exposes the logout handler for tests.
func (h *Handler) HandleLogoutForTest(w http.ResponseWriter, r *http.Request) {
	h.handleLogout(w, r)
}
