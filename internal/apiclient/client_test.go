package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type recordingObserver struct {
	mu       sync.Mutex
	statuses []int
}

func (o *recordingObserver) ObserveAPICall(method string, status int, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statuses = append(o.statuses, status)
}

func TestGetDecodesJSONAndEncodesQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `[{"id":"1","name":"Frenos"}]`)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewClient(srv.URL, 0, WithObserver(obs))
	var out []item
	err := client.Get(context.Background(), "/categories", url.Values{"featured": {"true"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "1", Name: "Frenos"}}, out)
	assert.Equal(t, "featured=true", gotQuery)
	assert.Equal(t, []int{200}, obs.statuses)
}

func TestGetWithoutQueryLeavesPathBare(t *testing.T) {
	var gotURI string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.RequestURI
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	var out []item
	require.NoError(t, NewClient(srv.URL, 0).Get(context.Background(), "/vehicles", nil, &out))
	assert.Equal(t, "/vehicles", gotURI)
}

func TestNoContentIsEmptySuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	var out item
	err := NewClient(srv.URL, 0).PatchJSON(context.Background(), "/vehicles/1", map[string]int{"anio": 2001}, &out)
	require.NoError(t, err)
	assert.Equal(t, item{}, out)
}

func TestStatusErrorCarriesBodyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, "El slug ya existe")
	}))
	defer srv.Close()

	err := NewClient(srv.URL, 0).PostJSON(context.Background(), "/categories", map[string]string{"slug": "x"}, nil)
	require.Error(t, err)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusConflict, statusErr.Status)
	assert.Equal(t, "El slug ya existe", err.Error())
}

func TestStatusErrorWithEmptyBodyUsesGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, 0).Delete(context.Background(), "/products/9")
	require.Error(t, err)
	assert.Equal(t, "Error 404", err.Error())
	assert.True(t, IsNotFound(err))
}

func TestStatusErrorKeepsWhitespaceBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, " \n")
	}))
	defer srv.Close()

	err := NewClient(srv.URL, 0).Delete(context.Background(), "/vehicles/3")
	require.Error(t, err)
	assert.Equal(t, " \n", err.Error())
}

func TestMalformedSuccessBodyIsInvalidResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>proxy page</html>")
	}))
	defer srv.Close()

	var out item
	err := NewClient(srv.URL, 0).Get(context.Background(), "/products/1", nil, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.NotErrorIs(t, err, ErrTransport)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	obs := &recordingObserver{}
	err := NewClient(base, time.Second, WithObserver(obs)).Get(context.Background(), "/categories", nil, &[]item{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, []int{0}, obs.statuses)
}

func TestCancelledContextSurfacesAsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewClient(srv.URL, 0).Get(ctx, "/categories", nil, &[]item{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPostFormSendsBoundaryAndRepeatedFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary="))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, []string{"v1", "v2"}, r.MultipartForm.Value["vehicleIds"])
		assert.Equal(t, "Filtro de aceite", r.FormValue("descripcion"))
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "foto.png", header.Filename)
		assert.Equal(t, []byte("png-bytes"), data)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"p1","name":"Filtro de aceite"}`)
	}))
	defer srv.Close()

	form := NewMultipart().
		Add("descripcion", "Filtro de aceite").
		Add("vehicleIds", "v1").
		Add("vehicleIds", "v2").
		AddIf("codigoBarra", "").
		AddFile(File{Field: "image", Filename: "foto.png", ContentType: "image/png", Data: []byte("png-bytes")})

	var out item
	require.NoError(t, NewClient(srv.URL, 0).PostForm(context.Background(), "/products", form, &out))
	assert.Equal(t, "p1", out.ID)
	assert.Empty(t, form.Values("codigoBarra"))
}

func TestUploadsURL(t *testing.T) {
	base := "http://api.local/uploads"
	assert.Equal(t, "", UploadsURL(base, ""))
	assert.Equal(t, "http://api.local/uploads/cat/1.png", UploadsURL(base, "cat/1.png"))
	assert.Equal(t, "http://api.local/uploads/cat/1.png", UploadsURL(base+"/", "/cat/1.png"))
	assert.Equal(t, "https://cdn.example.com/x.png", UploadsURL(base, "https://cdn.example.com/x.png"))
}
