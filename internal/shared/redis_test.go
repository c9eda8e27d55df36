package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSessionRoundTripKeepsFlashes(t *testing.T) {
	_, client := newRedis(t)
	manager := NewSessionManager(client, "logiparts_session", time.Hour, false)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	sess, err := manager.Load(ctx, req)
	require.NoError(t, err)
	sess.Set("logiparts_admin", "1")
	sess.AddFlash(FlashMessage{Kind: "success", Message: "Guardado"})

	res := httptest.NewRecorder()
	require.NoError(t, manager.Commit(ctx, res, req, sess))
	cookies := res.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Expires.IsZero(), "browser-session cookie")

	next := httptest.NewRequest(http.MethodGet, "/admin", nil)
	next.AddCookie(cookies[0])
	loaded, err := manager.Load(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, "1", loaded.Get("logiparts_admin"))
	flash := loaded.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "Guardado", flash.Message)
	assert.Nil(t, loaded.PopFlash())
}

func TestSessionUnknownCookieStartsFresh(t *testing.T) {
	_, client := newRedis(t)
	manager := NewSessionManager(client, "logiparts_session", time.Hour, false)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "logiparts_session", Value: "not-a-uuid"})
	sess, err := manager.Load(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", sess.ID)
	assert.Empty(t, sess.Get("logiparts_admin"))
}

func TestSessionDestroyClearsCookie(t *testing.T) {
	mr, client := newRedis(t)
	manager := NewSessionManager(client, "logiparts_session", time.Hour, false)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := manager.Load(ctx, req)
	require.NoError(t, err)
	require.NoError(t, manager.Commit(ctx, httptest.NewRecorder(), req, sess))
	assert.True(t, mr.Exists("session:"+sess.ID))

	manager.Destroy(sess)
	res := httptest.NewRecorder()
	require.NoError(t, manager.Commit(ctx, res, req, sess))
	assert.False(t, mr.Exists("session:"+sess.ID))
	require.Len(t, res.Result().Cookies(), 1)
	assert.Equal(t, -1, res.Result().Cookies()[0].MaxAge)
}

func TestCSRFTokenBoundToSession(t *testing.T) {
	manager := NewCSRFManager("secret")
	sess := newSession()
	token, err := manager.EnsureToken(sess)
	require.NoError(t, err)
	again, err := manager.EnsureToken(sess)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	assert.NoError(t, manager.VerifyToken(sess, token))
	assert.ErrorIs(t, manager.VerifyToken(sess, ""), ErrCSRFTokenMissing)
	assert.ErrorIs(t, manager.VerifyToken(sess, token+"x"), ErrCSRFTokenMismatch)
	assert.ErrorIs(t, manager.VerifyToken(newSession(), token), ErrCSRFTokenMissing)
}

func TestSubmitGuardRejectsReentrantSubmit(t *testing.T) {
	mr, client := newRedis(t)
	guard := NewSubmitGuard(client, time.Minute)
	ctx := context.Background()

	release, err := guard.Acquire(ctx, "sess-1", "products")
	require.NoError(t, err)

	_, err = guard.Acquire(ctx, "sess-1", "products")
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	other, err := guard.Acquire(ctx, "sess-2", "products")
	require.NoError(t, err)
	other()

	release()
	assert.False(t, mr.Exists("submit:sess-1:products"))
	again, err := guard.Acquire(ctx, "sess-1", "products")
	require.NoError(t, err)
	again()
}

func TestSubmitGuardSlotExpires(t *testing.T) {
	mr, client := newRedis(t)
	guard := NewSubmitGuard(client, 30*time.Second)
	ctx := context.Background()

	_, err := guard.Acquire(ctx, "sess-1", "categories")
	require.NoError(t, err)
	mr.FastForward(31 * time.Second)
	release, err := guard.Acquire(ctx, "sess-1", "categories")
	require.NoError(t, err)
	release()
}

func TestValidateImage(t *testing.T) {
	contentType, err := ValidateImage(pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	_, err = ValidateImage([]byte("%PDF-1.4 not an image"))
	assert.ErrorIs(t, err, ErrImageType)

	_, err = ValidateImage(make([]byte, MaxImageBytes+1))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestPreviewStoreOwnershipAndReplace(t *testing.T) {
	mr, client := newRedis(t)
	store := NewPreviewStore(client, time.Minute)
	ctx := context.Background()
	img := PendingImage{Filename: "faro.png", ContentType: "image/png", Data: pngHeader}

	token, err := store.Save(ctx, "sess-1", img)
	require.NoError(t, err)

	loaded, err := store.Load(ctx, "sess-1", token)
	require.NoError(t, err)
	assert.Equal(t, img, *loaded)

	_, err = store.Load(ctx, "sess-2", token)
	assert.ErrorIs(t, err, ErrPreviewNotFound)

	replaced, err := store.Replace(ctx, "sess-1", token, img)
	require.NoError(t, err)
	assert.NotEqual(t, token, replaced)
	assert.False(t, mr.Exists("preview:"+token), "superseded preview is discarded")

	require.NoError(t, store.Discard(ctx, replaced))
	_, err = store.Load(ctx, "sess-1", replaced)
	assert.ErrorIs(t, err, ErrPreviewNotFound)
	assert.Equal(t, "/admin/previews/abc", PreviewPath("abc"))
}
