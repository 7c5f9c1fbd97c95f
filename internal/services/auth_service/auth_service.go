package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jairamjavv/quizda-v2-sub000/internal/domain/models"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/lib/logger/sl"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/metrics"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/repository"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExist          = errors.New("user already exist")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input")
)

// TokenIssuer mints a fresh token pair for an authenticated user.
type TokenIssuer interface {
	GenerateTokens(user models.User) (models.TokenPair, error)
}

type AuthService struct {
	log    *slog.Logger
	repo   repository.UserRepository
	tokens TokenIssuer
}

func NewAuthService(log *slog.Logger, repo repository.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		log:    log,
		repo:   repo,
		tokens: tokens,
	}
}

// Register creates the identity and mints its first token pair. Users
// coming through the external identity provider may carry no local
// password; everyone else gets a bcrypt hash persisted.
func (a *AuthService) Register(ctx context.Context, email, username string, role models.Role, password, googleID string) (models.User, models.TokenPair, error) {
	const op = "auth_service.Register"

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("register user")

	if password == "" && googleID == "" {
		return models.User{}, models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrInvalidInput)
	}

	user := models.User{
		Username: username,
		Email:    email,
		Role:     role,
		GoogleID: googleID,
	}

	if password != "" {
		passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("failed to generate password hash", sl.Err(err))

			return models.User{}, models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
		}

		user.PasswordHash = passHash
	}

	id, err := a.repo.SaveUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exist", sl.Err(err))

			return models.User{}, models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrUserExist)
		}

		log.Error("failed to save user", sl.Err(err))

		return models.User{}, models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	user.ID = id

	pair, err := a.tokens.GenerateTokens(user)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))

		return models.User{}, models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.Int64("user_id", id))

	return user, pair, nil
}

// Login authenticates by external identity ref when one is supplied,
// trusting the provider's own verification; otherwise by email+password.
// An old pair, if any, stays valid until its own expiry.
func (a *AuthService) Login(ctx context.Context, email, password, googleID string) (models.User, models.TokenPair, error) {
	const op = "auth_service.Login"

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("attempting to login user")

	var (
		user models.User
		err  error
	)

	switch {
	case googleID != "":
		user, err = a.repo.UserByGoogleID(ctx, googleID)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				log.Warn("unknown external identity ref", sl.Err(err))
				metrics.AuthFailuresTotal.WithLabelValues("unknown_external_ref").Inc()

				return models.User{}, models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
			}
			log.Error("failed to get user", sl.Err(err))

			return models.User{}, models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
		}

	case email != "" && password != "":
		user, err = a.repo.UserByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				log.Warn("user not found", sl.Err(err))
				metrics.AuthFailuresTotal.WithLabelValues("unknown_user").Inc()

				return models.User{}, models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
			}
			log.Error("failed to get user", sl.Err(err))

			return models.User{}, models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
		}

		if len(user.PasswordHash) == 0 {
			log.Info("user has no local password")
			metrics.AuthFailuresTotal.WithLabelValues("no_local_password").Inc()

			return models.User{}, models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
			log.Info("invalid credentials", sl.Err(err))
			metrics.AuthFailuresTotal.WithLabelValues("wrong_password").Inc()

			return models.User{}, models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

	default:
		return models.User{}, models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrInvalidInput)
	}

	pair, err := a.tokens.GenerateTokens(user)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))

		return models.User{}, models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully", slog.Int64("user_id", user.ID))

	return user, pair, nil
}

// UserByID refetches the identity behind a resolved session.
func (a *AuthService) UserByID(ctx context.Context, id int64) (models.User, error) {
	const op = "auth_service.UserByID"

	user, err := a.repo.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}
