package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jairamjavv/quizda-v2-sub000/internal/domain/models"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/lib/jwt"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/lib/logger/sl"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/metrics"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/repository"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/storage"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrUserNotFound = errors.New("user not found")
)

type TokenService struct {
	log   *slog.Logger
	codec *jwt.Codec
	repo  repository.UserRepository
}

func NewTokenService(log *slog.Logger, codec *jwt.Codec, repo repository.UserRepository) *TokenService {
	return &TokenService{
		log:   log,
		codec: codec,
		repo:  repo,
	}
}

func (s *TokenService) GenerateTokens(user models.User) (models.TokenPair, error) {
	const op = "token_service.GenerateTokens"

	accessToken, err := s.codec.IssueAccessToken(user)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}
	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()

	refreshToken, err := s.codec.IssueRefreshToken(user)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}
	metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()

	return models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh extends the session window without re-entering credentials. The
// identity is refetched so that a role change lands on the very next
// refresh instead of riding out the 7 day window, and the payload's token
// version must still match the stored counter. The refresh token itself is
// not rotated.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	const op = "token_service.Refresh"

	log := s.log.With(slog.String("op", op))

	payload, ok := s.codec.VerifyRefreshToken(refreshToken)
	if !ok {
		log.Info("refresh token rejected")
		metrics.AuthFailuresTotal.WithLabelValues("bad_refresh_token").Inc()

		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	user, err := s.repo.UserByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user behind refresh token is gone", slog.Int64("user_id", payload.UserID))

			return "", fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		log.Error("failed to get user", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if payload.TokenVersion != user.TokenVersion {
		log.Info("stale token version", slog.Int64("user_id", user.ID))
		metrics.AuthFailuresTotal.WithLabelValues("stale_token_version").Inc()

		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	accessToken, err := s.codec.IssueAccessToken(user)
	if err != nil {
		log.Error("failed to issue access token", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}
	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()

	return accessToken, nil
}

// InvalidateSessions bumps the user's token version so every refresh token
// minted before the bump stops working on its next use.
func (s *TokenService) InvalidateSessions(ctx context.Context, userID int64) error {
	const op = "token_service.InvalidateSessions"

	log := s.log.With(slog.String("op", op), slog.Int64("user_id", userID))

	version, err := s.repo.BumpTokenVersion(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		log.Error("failed to bump token version", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("sessions invalidated", slog.Int64("token_version", version))

	return nil
}
