package feed

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCookieStore(t *testing.T) {
	t.Run("secure cookies allow cross-site hosts", func(t *testing.T) {
		store, err := NewCookieStore([]byte("0123456789abcdef0123456789abcdef"), true)
		require.NoError(t, err)
		assert.True(t, store.Options.Secure)
		assert.True(t, store.Options.HttpOnly)
		assert.Equal(t, http.SameSiteNoneMode, store.Options.SameSite)
	})

	t.Run("insecure cookies stay lax", func(t *testing.T) {
		store, err := NewCookieStore(nil, false)
		require.NoError(t, err)
		assert.False(t, store.Options.Secure)
		assert.Equal(t, http.SameSiteLaxMode, store.Options.SameSite)
	})
}

func TestSessionBinder(t *testing.T) {
	store, err := NewCookieStore(nil, false)
	require.NoError(t, err)
	b := sessionBinder{store: store}

	req := httptest.NewRequest(http.MethodGet, "/NewsApp", nil)
	assert.Empty(t, b.mountID(req))

	rec := httptest.NewRecorder()
	require.NoError(t, b.bind(rec, req, "mount-1"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionName, cookies[0].Name)

	next := httptest.NewRequest(http.MethodGet, "/NewsApp", nil)
	next.AddCookie(cookies[0])
	assert.Equal(t, "mount-1", b.mountID(next))

	// 別キーのストアでは署名検証に失敗する。セッションはリクエスト単位でキャッシュされるので新しいリクエストで確認する
	other, err := NewCookieStore(nil, false)
	require.NoError(t, err)
	foreign := httptest.NewRequest(http.MethodGet, "/NewsApp", nil)
	foreign.AddCookie(cookies[0])
	assert.Empty(t, sessionBinder{store: other}.mountID(foreign))

	rec = httptest.NewRecorder()
	require.NoError(t, b.unbind(rec, next))
	expired := rec.Result().Cookies()
	require.Len(t, expired, 1)
	assert.Negative(t, expired[0].MaxAge)
}
