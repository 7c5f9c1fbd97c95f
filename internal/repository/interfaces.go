package repository

import (
	"context"

	"github.com/Jairamjavv/quizda-v2-sub000/internal/domain/models"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.3 --all
type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (int64, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByGoogleID(ctx context.Context, googleID string) (models.User, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
	BumpTokenVersion(ctx context.Context, id int64) (int64, error)
}
