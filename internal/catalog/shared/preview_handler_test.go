package shared_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logiparts/logiparts-admin/internal/catalog/catalogtest"
	catalogShared "github.com/logiparts/logiparts-admin/internal/catalog/shared"
	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
)

func TestServePreviewOnlyToOwner(t *testing.T) {
	h := catalogtest.New(t, http.NotFoundHandler())
	h.Router.Get("/admin/previews/{token}", h.Deps.ServePreview)

	// Touch the router once so the harness browser owns a session.
	h.Get("/admin/previews/none")
	owner := h.Session()
	token, err := h.Deps.Previews.Save(context.Background(), owner.ID, internalShared.PendingImage{
		Filename: "faro.png", ContentType: "image/png", Data: catalogtest.PNG,
	})
	require.NoError(t, err)

	res := h.Get("/admin/previews/" + token)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "image/png", res.Header().Get("Content-Type"))
	assert.Equal(t, catalogtest.PNG, res.Body.Bytes())

	stranger := httptest.NewRecorder()
	h.Router.ServeHTTP(stranger, httptest.NewRequest(http.MethodGet, "/admin/previews/"+token, nil))
	assert.Equal(t, http.StatusNotFound, stranger.Code)
}

func TestFailureStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, catalogShared.FailureStatus(&internalShared.ValidationError{}))
	assert.Equal(t, http.StatusConflict, catalogShared.FailureStatus(internalShared.ErrSubmitInProgress))
}
