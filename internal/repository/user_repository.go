package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jairamjavv/quizda-v2-sub000/internal/domain/models"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const uniqueViolation = "23505"

type UserRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewUserRepository(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *UserRepo) SaveUser(ctx context.Context, user models.User) (int64, error) {
	const op = "repository.user_repository.SaveUser"

	query, args, err := r.sb.Insert("users").
		Columns(
			"username",
			"email",
			"role",
			"password_hash",
			"google_id",
			"token_version",
			"created_at",
			"last_login",
		).
		Values(
			user.Username,
			user.Email,
			user.Role,
			user.PasswordHash,
			nullable(user.GoogleID),
			user.TokenVersion,
			time.Now().UTC(),
			time.Now().UTC(),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var id int64
	err = r.db.QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *UserRepo) UserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "repository.user_repository.UserByEmail"

	return r.userBy(ctx, op, sq.Eq{"email": email})
}

func (r *UserRepo) UserByGoogleID(ctx context.Context, googleID string) (models.User, error) {
	const op = "repository.user_repository.UserByGoogleID"

	return r.userBy(ctx, op, sq.Eq{"google_id": googleID})
}

func (r *UserRepo) UserByID(ctx context.Context, id int64) (models.User, error) {
	const op = "repository.user_repository.UserByID"

	return r.userBy(ctx, op, sq.Eq{"id": id})
}

func (r *UserRepo) userBy(ctx context.Context, op string, pred sq.Eq) (models.User, error) {
	query, args, err := r.sb.Select(
		"id",
		"username",
		"email",
		"role",
		"password_hash",
		"google_id",
		"token_version",
		"created_at",
		"last_login",
	).From("users").Where(pred).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var user models.User
	var googleID *string

	err = r.db.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.PasswordHash,
		&googleID,
		&user.TokenVersion,
		&user.CreatedAt,
		&user.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if googleID != nil {
		user.GoogleID = *googleID
	}

	return user, nil
}

// BumpTokenVersion increments the per-user counter, cutting off every
// refresh token minted before the bump.
func (r *UserRepo) BumpTokenVersion(ctx context.Context, id int64) (int64, error) {
	const op = "repository.user_repository.BumpTokenVersion"

	query, args, err := r.sb.Update("users").
		Set("token_version", sq.Expr("token_version + 1")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING token_version").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var version int64
	err = r.db.QueryRow(ctx, query, args...).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return version, nil
}

// google_id is nullable so the partial unique index only constrains
// externally-linked accounts.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
