package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Jairamjavv/quizda-v2-sub000/internal/domain/models"
	appmw "github.com/Jairamjavv/quizda-v2-sub000/internal/middleware"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/services/ratelimit"
	httprouters "github.com/Jairamjavv/quizda-v2-sub000/internal/transport/http"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/Jairamjavv/quizda-v2-sub000/docs"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	m        *http.ServeMux
	log      *slog.Logger
	e        *echo.Echo
	routers  *httprouters.Routers
	verifier httprouters.SessionVerifier
	limiter  ratelimit.Limiter
	host     string
	port     string
}

func New(log *slog.Logger, host, port string, routers *httprouters.Routers, verifier httprouters.SessionVerifier, limiter ratelimit.Limiter) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
				slog.String("request id", v.RequestID),
			)

			return nil
		},
	}))

	e.Use(appmw.PrometheusMetrics)

	mux := http.NewServeMux()
	err := statsviz.Register(mux)
	if err != nil {
		log.Info("Statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:        mux,
		log:      log,
		e:        e,
		routers:  routers,
		verifier: verifier,
		limiter:  limiter,
		host:     host,
		port:     port,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() {
	throttled := appmw.RateLimit(s.log, s.limiter)

	api := s.e.Group("/api/v1")
	{
		api.POST("/register", s.routers.Register, throttled)
		api.POST("/login", s.routers.Login, throttled)
		api.POST("/refresh", s.routers.Refresh, throttled)

		authed := api.Group("", httprouters.RequireAuth(s.verifier))
		{
			authed.GET("/me", s.routers.Me)
			authed.POST("/logout", s.routers.Logout)
			authed.POST("/logout/all", s.routers.LogoutAll)
		}

		admin := api.Group("/admin", httprouters.RequireRole(s.verifier, models.RoleAdmin))
		{
			admin.GET("/users/:user_id", s.routers.GetUserByID)
		}
	}

	s.e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	s.e.GET("/metrics", echoprometheus.NewHandler())

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	swagger := s.e.Group("/swag")
	{
		swagger.GET("/swagger/*", echoSwagger.WrapHandler)
	}
}
