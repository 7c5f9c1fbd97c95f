package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Jairamjavv/quizda-v2-sub000/internal/lib/logger/sl"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/metrics"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/services/ratelimit"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// RateLimit counts requests per client-ip+path. On limiter backend errors
// the request is let through: throttling is best-effort, not a gate.
func RateLimit(log *slog.Logger, limiter ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			const op = "middleware.RateLimit"

			key := c.RealIP() + ":" + c.Path()

			allowed, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				log.Warn("rate limiter unavailable", slog.String("op", op), sl.Err(err))
				return next(c)
			}

			if !allowed {
				metrics.RateLimitRejectedTotal.Inc()
				return c.JSON(http.StatusTooManyRequests, response.ErrTooManyRequests)
			}

			return next(c)
		}
	}
}
