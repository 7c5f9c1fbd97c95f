package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jairamjavv/quizda-v2-sub000/internal/domain/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestAttachSessionCookies_RoundTrip(t *testing.T) {
	c, rec := newTestContext(t)

	pair := models.TokenPair{
		AccessToken:  "header.payload.signature",
		RefreshToken: "refresh.payload.signature",
	}

	attachSessionCookies(c, pair, false)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	// rebuild a request carrying the Set-Cookie values back
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	c2 := e.NewContext(req, httptest.NewRecorder())

	access, ok := readCookie(c2, AccessCookieName)
	require.True(t, ok)
	assert.Equal(t, pair.AccessToken, access)

	refresh, ok := readCookie(c2, RefreshCookieName)
	require.True(t, ok)
	assert.Equal(t, pair.RefreshToken, refresh)
}

func TestAttachSessionCookies_Attributes(t *testing.T) {
	t.Run("local", func(t *testing.T) {
		c, rec := newTestContext(t)

		attachSessionCookies(c, models.TokenPair{AccessToken: "a", RefreshToken: "r"}, false)

		for _, cookie := range rec.Result().Cookies() {
			assert.True(t, cookie.HttpOnly)
			assert.False(t, cookie.Secure)
			assert.Equal(t, "/", cookie.Path)
			assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		}
	})

	t.Run("prod", func(t *testing.T) {
		c, rec := newTestContext(t)

		attachSessionCookies(c, models.TokenPair{AccessToken: "a", RefreshToken: "r"}, true)

		for _, cookie := range rec.Result().Cookies() {
			assert.True(t, cookie.HttpOnly)
			assert.True(t, cookie.Secure)
			assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
		}
	})
}

func TestAttachSessionCookies_MaxAges(t *testing.T) {
	c, rec := newTestContext(t)

	attachSessionCookies(c, models.TokenPair{AccessToken: "a", RefreshToken: "r"}, false)

	byName := map[string]*http.Cookie{}
	for _, cookie := range rec.Result().Cookies() {
		byName[cookie.Name] = cookie
	}

	require.Contains(t, byName, AccessCookieName)
	require.Contains(t, byName, RefreshCookieName)
	assert.Equal(t, 900, byName[AccessCookieName].MaxAge)
	assert.Equal(t, 604800, byName[RefreshCookieName].MaxAge)
}

func TestClearSessionCookies_MaxAgeZero(t *testing.T) {
	c, rec := newTestContext(t)

	clearSessionCookies(c, false)

	headers := rec.Header().Values(echo.HeaderSetCookie)
	require.Len(t, headers, 2)

	for _, h := range headers {
		assert.Contains(t, h, "Max-Age=0")
	}

	names := map[string]bool{}
	for _, cookie := range rec.Result().Cookies() {
		names[cookie.Name] = true
	}
	assert.True(t, names[AccessCookieName])
	assert.True(t, names[RefreshCookieName])
}

func TestReadCookie_Missing(t *testing.T) {
	c, _ := newTestContext(t)

	_, ok := readCookie(c, AccessCookieName)
	assert.False(t, ok)
}
