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

// stubVerifier resolves tokens from a fixed map, standing in for the codec.
type stubVerifier struct {
	sessions map[string]models.SessionPayload
}

func (s *stubVerifier) VerifyAccessToken(raw string) (models.SessionPayload, bool) {
	payload, ok := s.sessions[raw]
	return payload, ok
}

func newStubVerifier() *stubVerifier {
	return &stubVerifier{
		sessions: map[string]models.SessionPayload{
			"admin-token": {
				UserID: 1,
				Email:  "admin@example.com",
				Role:   models.RoleAdmin,
			},
			"attempter-token": {
				UserID: 2,
				Email:  "student@example.com",
				Role:   models.RoleAttempter,
			},
		},
	}
}

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, mutate func(*http.Request)) (*httptest.ResponseRecorder, *int) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	calls := 0
	handler := mw(func(c echo.Context) error {
		calls++
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))

	return rec, &calls
}

func TestResolveSession_BearerPrecedence(t *testing.T) {
	verifier := newStubVerifier()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer admin-token")
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "attempter-token"})
	c := e.NewContext(req, httptest.NewRecorder())

	payload, ok := resolveSession(c, verifier)
	require.True(t, ok)
	assert.Equal(t, int64(1), payload.UserID, "bearer header must win over the cookie")
}

func TestResolveSession_CookieFallback(t *testing.T) {
	verifier := newStubVerifier()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "attempter-token"})
	c := e.NewContext(req, httptest.NewRecorder())

	payload, ok := resolveSession(c, verifier)
	require.True(t, ok)
	assert.Equal(t, int64(2), payload.UserID)
}

func TestResolveSession_InvalidBearerFallsBackToCookie(t *testing.T) {
	verifier := newStubVerifier()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer bogus")
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "attempter-token"})
	c := e.NewContext(req, httptest.NewRecorder())

	payload, ok := resolveSession(c, verifier)
	require.True(t, ok)
	assert.Equal(t, int64(2), payload.UserID)
}

func TestResolveSession_NoTransport(t *testing.T) {
	verifier := newStubVerifier()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	_, ok := resolveSession(c, verifier)
	assert.False(t, ok)
}

func TestRequireAuth(t *testing.T) {
	verifier := newStubVerifier()

	t.Run("no session", func(t *testing.T) {
		rec, calls := runMiddleware(t, RequireAuth(verifier), nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, *calls)
		assert.Contains(t, rec.Body.String(), "unauthenticated")
	})

	t.Run("valid bearer", func(t *testing.T) {
		rec, calls := runMiddleware(t, RequireAuth(verifier), func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer attempter-token")
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, *calls)
	})
}

func TestRequireRole(t *testing.T) {
	verifier := newStubVerifier()

	t.Run("role mismatch is 403 and handler never runs", func(t *testing.T) {
		rec, calls := runMiddleware(t, RequireRole(verifier, models.RoleAdmin), func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer attempter-token")
		})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Zero(t, *calls)
	})

	t.Run("no session is 401, not 403", func(t *testing.T) {
		rec, calls := runMiddleware(t, RequireRole(verifier, models.RoleAdmin), nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, *calls)
	})

	t.Run("allowed role passes and session is attached", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer admin-token")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := RequireRole(verifier, models.RoleAdmin, models.RoleContributor)(func(c echo.Context) error {
			session, ok := SessionFromContext(c)
			require.True(t, ok)
			assert.Equal(t, models.RoleAdmin, session.Role)
			return c.NoContent(http.StatusOK)
		})

		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	verifier := newStubVerifier()

	t.Run("proceeds without session", func(t *testing.T) {
		rec, calls := runMiddleware(t, OptionalAuth(verifier), nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, *calls)
	})

	t.Run("attaches session when present", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "admin-token"})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := OptionalAuth(verifier)(func(c echo.Context) error {
			session, ok := SessionFromContext(c)
			require.True(t, ok)
			assert.Equal(t, int64(1), session.UserID)
			return c.NoContent(http.StatusOK)
		})

		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
