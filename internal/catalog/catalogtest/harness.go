// Package catalogtest wires catalog handlers against miniredis and a fake
// catalog API for handler tests.
package catalogtest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/logiparts/logiparts-admin/internal/apiclient"
	catalogShared "github.com/logiparts/logiparts-admin/internal/catalog/shared"
	"github.com/logiparts/logiparts-admin/internal/shared"
	"github.com/logiparts/logiparts-admin/internal/view"
)

const cookieName = "test_session"

// Harness is a logged-in browser talking to a router whose handlers reach a
// fake API.
type Harness struct {
	t        *testing.T
	Redis    *miniredis.Miniredis
	Client   *redis.Client
	Sessions *shared.SessionManager
	Deps     catalogShared.Deps
	API      *apiclient.Client
	Router   chi.Router
	cookie   string
}

// New starts miniredis and points an API client at api.
func New(t *testing.T, api http.Handler) *Harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	templates, err := view.NewEngine(srv.URL + "/uploads")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &Harness{
		t:        t,
		Redis:    mr,
		Client:   client,
		Sessions: shared.NewSessionManager(client, cookieName, time.Hour, false),
		API:      apiclient.NewClient(srv.URL, 0, apiclient.WithLogger(logger)),
		Router:   chi.NewRouter(),
	}
	h.Deps = catalogShared.Deps{
		Logger:      logger,
		Templates:   templates,
		CSRF:        shared.NewCSRFManager("csrfsecret"),
		Previews:    shared.NewPreviewStore(client, time.Minute),
		Guard:       shared.NewSubmitGuard(client, time.Minute),
		UploadsBase: srv.URL + "/uploads",
	}
	h.Router.Use(h.sessionMiddleware)
	return h
}

func (h *Harness) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.Sessions.Load(r.Context(), r)
		require.NoError(h.t, err)
		ctx := shared.ContextWithSession(r.Context(), sess)
		rec := httptest.NewRecorder()
		next.ServeHTTP(rec, r.WithContext(ctx))
		require.NoError(h.t, h.Sessions.Commit(ctx, w, r, sess))
		for k, v := range rec.Header() {
			w.Header()[k] = v
		}
		w.WriteHeader(rec.Code)
		_, _ = w.Write(rec.Body.Bytes())
	})
}

// Do sends req with the harness cookie and keeps any new cookie.
func (h *Harness) Do(req *http.Request) *httptest.ResponseRecorder {
	h.t.Helper()
	if h.cookie != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: h.cookie})
	}
	res := httptest.NewRecorder()
	h.Router.ServeHTTP(res, req)
	for _, c := range res.Result().Cookies() {
		if c.Name == cookieName {
			h.cookie = c.Value
		}
	}
	return res
}

// Get issues a GET.
func (h *Harness) Get(path string) *httptest.ResponseRecorder {
	return h.Do(httptest.NewRequest(http.MethodGet, path, nil))
}

// PostForm issues an urlencoded POST.
func (h *Harness) PostForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.Do(req)
}

// Upload is a file part for PostMultipart.
type Upload struct {
	Field    string
	Filename string
	Data     []byte
}

// PostMultipart issues a multipart POST.
func (h *Harness) PostMultipart(path string, values url.Values, files ...Upload) *httptest.ResponseRecorder {
	h.t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, vals := range values {
		for _, v := range vals {
			require.NoError(h.t, writer.WriteField(key, v))
		}
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.Field, f.Filename)
		require.NoError(h.t, err)
		_, err = part.Write(f.Data)
		require.NoError(h.t, err)
	}
	require.NoError(h.t, writer.Close())
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return h.Do(req)
}

// Session loads the harness browser's current session.
func (h *Harness) Session() *shared.Session {
	h.t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if h.cookie != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: h.cookie})
	}
	sess, err := h.Sessions.Load(context.Background(), req)
	require.NoError(h.t, err)
	return sess
}

// PNG is the smallest payload sniffed as image/png.
var PNG = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
