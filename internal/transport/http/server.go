package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Jairamjavv/quizda-v2-sub000/internal/domain/models"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/lib/logger/sl"
	auth "github.com/Jairamjavv/quizda-v2-sub000/internal/services/auth_service"
	token "github.com/Jairamjavv/quizda-v2-sub000/internal/services/token_service"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/transport/http/dto/request"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

type AuthService interface {
	Register(ctx context.Context, email, username string, role models.Role, password, googleID string) (models.User, models.TokenPair, error)
	Login(ctx context.Context, email, password, googleID string) (models.User, models.TokenPair, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
}

type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
	InvalidateSessions(ctx context.Context, userID int64) error
}

type Routers struct {
	log          *slog.Logger
	AuthService  AuthService
	TokenService TokenService
	isProd       bool
}

func NewRouter(log *slog.Logger, authService AuthService, tokenService TokenService, isProd bool) *Routers {
	return &Routers{
		log:          log,
		AuthService:  authService,
		TokenService: tokenService,
		isProd:       isProd,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Creates an account and sets both session cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RegisterRequest true "Registration data"
// @Success 201 {object} response.Response{data=models.User}
// @Failure 400 {object} response.ErrorResponse "Invalid request"
// @Failure 409 {object} response.ErrorResponse "User already exists"
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/register [post]
func (r *Routers) Register(c echo.Context) error {
	const op = "http.routers.Register"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.RegisterRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid register request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	user, pair, err := r.AuthService.Register(c.Request().Context(), req.Email, req.Username, models.Role(req.Role), req.Password, req.GoogleID)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExist):
			log.Warn("user already exists", slog.String("email", req.Email))
			return c.JSON(http.StatusConflict, response.ErrUserAlreadyExists)
		case errors.Is(err, auth.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
		default:
			log.Error("registration failed", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.ErrInternal)
		}
	}

	attachSessionCookies(c, pair, r.isProd)

	log.Info("user registered successfully", slog.Int64("user_id", user.ID))

	return c.JSON(http.StatusCreated, response.Response{
		Status:  "success",
		Data:    map[string]models.User{"user": user},
		Message: "user registered",
	})
}

// Login godoc
// @Summary Authenticate a user
// @Description Login by email+password, or by external identity ref. Sets both session cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login data"
// @Success 200 {object} response.Response{data=models.User}
// @Failure 400 {object} response.ErrorResponse "Invalid request"
// @Failure 401 {object} response.ErrorResponse "Invalid credentials"
// @Failure 404 {object} response.ErrorResponse "Unknown external identity ref"
// @Router /api/v1/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid login request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	user, pair, err := r.AuthService.Login(c.Request().Context(), req.Email, req.Password, req.GoogleID)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		case errors.Is(err, auth.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, response.ErrUserNotFound)
		case errors.Is(err, auth.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
		default:
			log.Error("login failed", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.ErrInternal)
		}
	}

	attachSessionCookies(c, pair, r.isProd)

	return c.JSON(http.StatusOK, response.Response{
		Status:  "success",
		Data:    map[string]models.User{"user": user},
		Message: "logged in",
	})
}

// Me godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response{data=models.User}
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/me [get]
func (r *Routers) Me(c echo.Context) error {
	const op = "http.routers.Me"

	log := r.log.With(
		slog.String("op", op),
	)

	session, ok := SessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrUnauthenticated)
	}

	user, err := r.AuthService.UserByID(c.Request().Context(), session.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrUserNotFound)
		}

		log.Error("failed to get user", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]models.User{"user": user}))
}

// GetUserByID godoc
// @Summary Look up a user by id (admin only)
// @Tags users
// @Produce json
// @Param user_id path int true "User id"
// @Success 200 {object} response.Response{data=models.User}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/users/{user_id} [get]
func (r *Routers) GetUserByID(c echo.Context) error {
	const op = "http.routers.GetUserByID"

	log := r.log.With(
		slog.String("op", op),
	)

	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid user id"))
	}

	user, err := r.AuthService.UserByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrUserNotFound)
		}

		log.Error("failed to get user", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]models.User{"user": user}))
}

// Logout clears both session cookies. Outstanding tokens stay valid until
// their own expiry; use LogoutAll to cut them off.
func (r *Routers) Logout(c echo.Context) error {
	clearSessionCookies(c, r.isProd)

	return c.JSON(http.StatusOK, response.Response{
		Status:  "success",
		Message: "logged out",
	})
}

// LogoutAll godoc
// @Summary Invalidate every session of the current user
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/logout/all [post]
func (r *Routers) LogoutAll(c echo.Context) error {
	const op = "http.routers.LogoutAll"

	log := r.log.With(
		slog.String("op", op),
	)

	session, ok := SessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrUnauthenticated)
	}

	if err := r.TokenService.InvalidateSessions(c.Request().Context(), session.UserID); err != nil {
		log.Error("failed to invalidate sessions", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	clearSessionCookies(c, r.isProd)

	return c.JSON(http.StatusOK, response.Response{
		Status:  "success",
		Message: "all sessions invalidated",
	})
}

// Refresh godoc
// @Summary Mint a new access token from the refresh cookie
// @Description Re-sets the access cookie; the refresh token is kept as is.
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Missing, invalid or expired refresh token"
// @Failure 404 {object} response.ErrorResponse "User no longer exists"
// @Router /api/v1/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(
		slog.String("op", op),
	)

	refreshToken, ok := readCookie(c, RefreshCookieName)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrInvalidRefreshToken)
	}

	accessToken, err := r.TokenService.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrInvalidToken):
			return c.JSON(http.StatusUnauthorized, response.ErrInvalidRefreshToken)
		case errors.Is(err, token.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, response.ErrUserNotFound)
		default:
			log.Error("refresh failed", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.ErrInternal)
		}
	}

	// both cookies are re-attached, the refresh one with its old value
	attachSessionCookies(c, models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, r.isProd)

	return c.JSON(http.StatusOK, response.Response{
		Status:  "success",
		Message: "access token refreshed",
	})
}
