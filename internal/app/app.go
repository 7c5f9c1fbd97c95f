package app

import (
	"context"
	"log/slog"

	httpapp "github.com/Jairamjavv/quizda-v2-sub000/internal/app/http"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/config"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/lib/jwt"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/lib/logger/sl"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/repository"
	authsvc "github.com/Jairamjavv/quizda-v2-sub000/internal/services/auth_service"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/services/ratelimit"
	tokensvc "github.com/Jairamjavv/quizda-v2-sub000/internal/services/token_service"
	redisstorage "github.com/Jairamjavv/quizda-v2-sub000/internal/storage/redis"
	httprouters "github.com/Jairamjavv/quizda-v2-sub000/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server

	repo  *repository.Repository
	redis *redisstorage.Client
	log   *slog.Logger
}

func New(log *slog.Logger, cfg *config.Config) *App {
	repo, err := repository.NewRepository(context.Background(), cfg.DSN)
	if err != nil {
		panic(err)
	}

	codec := jwt.NewCodec([]byte(cfg.JWTSecret))

	tokenService := tokensvc.NewTokenService(log, codec, repo.User)
	authService := authsvc.NewAuthService(log, repo.User, tokenService)

	var redisClient *redisstorage.Client
	var limiter ratelimit.Limiter

	if cfg.Redis.RedisAddr != "" {
		redisClient = redisstorage.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	} else {
		// single-instance throttling only
		log.Warn("redis not configured, falling back to in-process rate limiting")
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	routers := httprouters.NewRouter(log, authService, tokenService, cfg.IsProd())

	server := httpapp.New(log, cfg.HTTP.Host, cfg.HTTP.Port, routers, codec, limiter)

	return &App{
		HTTPServer: server,
		repo:       repo,
		redis:      redisClient,
		log:        log,
	}
}

func (a *App) Stop() {
	if err := a.HTTPServer.Stop(); err != nil {
		a.log.Error("failed to stop http server", sl.Err(err))
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("failed to close redis client", sl.Err(err))
		}
	}

	a.repo.Close()
}
