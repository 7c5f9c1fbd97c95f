package http

import (
	"net/http"

	"github.com/Jairamjavv/quizda-v2-sub000/internal/domain/models"

	"github.com/labstack/echo/v4"
)

const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"

	accessCookieMaxAge  = 900
	refreshCookieMaxAge = 604800
)

// sessionCookie builds one credential cookie. HttpOnly and Path=/ always;
// production additionally pins Secure and SameSite=Strict, local dev keeps
// Lax so the SPA dev server on another port can still send it.
func sessionCookie(name, value string, maxAge int, isProd bool) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	if isProd {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	return cookie
}

// attachSessionCookies sets both credential cookies. A response carries
// either both or neither.
func attachSessionCookies(c echo.Context, pair models.TokenPair, isProd bool) {
	c.SetCookie(sessionCookie(AccessCookieName, pair.AccessToken, accessCookieMaxAge, isProd))
	c.SetCookie(sessionCookie(RefreshCookieName, pair.RefreshToken, refreshCookieMaxAge, isProd))
}

// clearSessionCookies forces browser deletion of both cookies with
// Max-Age=0 (Go serializes MaxAge<0 that way).
func clearSessionCookies(c echo.Context, isProd bool) {
	c.SetCookie(sessionCookie(AccessCookieName, "", -1, isProd))
	c.SetCookie(sessionCookie(RefreshCookieName, "", -1, isProd))
}

func readCookie(c echo.Context, name string) (string, bool) {
	cookie, err := c.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	return cookie.Value, true
}
