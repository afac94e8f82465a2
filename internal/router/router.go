package router

import (
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"gamereviews/internal/auth"
	"gamereviews/internal/config"
	"gamereviews/internal/handler"
)

// Handlers groups the API handlers mounted under /api.
type Handlers struct {
	Auth   *handler.AuthHandler
	Genre  *handler.GenreHandler
	Game   *handler.GameHandler
	Review *handler.ReviewHandler
}

type route struct {
	method      string
	path        string
	handler     echo.HandlerFunc
	rateLimited bool
}

// routes is the API route table. Role checks happen inside each handler.
func routes(h Handlers) []route {
	return []route{
		{http.MethodPost, "/auth/register", h.Auth.Register, true},
		{http.MethodPost, "/auth/login", h.Auth.Login, true},
		{http.MethodPost, "/auth/logout", h.Auth.Logout, false},

		{http.MethodGet, "/genres", h.Genre.List, false},
		{http.MethodGet, "/genres/:id", h.Genre.Get, false},
		{http.MethodGet, "/genres/:id/games", h.Genre.ListGames, false},
		{http.MethodGet, "/genres/:id/games/:gameId/reviews/:reviewId", h.Genre.GetReview, false},
		{http.MethodPost, "/genres", h.Genre.Create, false},
		{http.MethodPut, "/genres", h.Genre.Update, false},
		{http.MethodDelete, "/genres/:id", h.Genre.Delete, false},

		{http.MethodGet, "/games", h.Game.List, false},
		{http.MethodGet, "/games/:id", h.Game.Get, false},
		{http.MethodGet, "/games/:id/rating", h.Game.Rating, false},
		{http.MethodPost, "/games", h.Game.Create, false},
		{http.MethodPut, "/games", h.Game.Update, false},
		{http.MethodDelete, "/games/:id", h.Game.Delete, false},

		{http.MethodGet, "/reviews", h.Review.List, false},
		{http.MethodGet, "/reviews/:id", h.Review.Get, false},
		{http.MethodPost, "/reviews", h.Review.Create, false},
		{http.MethodPut, "/reviews", h.Review.Update, false},
		{http.MethodDelete, "/reviews/:id", h.Review.Delete, false},
	}
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *zap.Logger,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	h Handlers,
) {
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(logger)

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(RequestLogger(logger))
	e.Use(auth.Middleware(jwtService, tokenStore))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	limiter := authRateLimiter(cfg.AuthRateLimit)
	api := e.Group("/api")
	for _, r := range routes(h) {
		if r.rateLimited {
			api.Add(r.method, r.path, r.handler, limiter)
			continue
		}
		api.Add(r.method, r.path, r.handler)
	}
}

// authRateLimiter allows perMinute requests per client IP with an equal burst.
func authRateLimiter(perMinute int) echo.MiddlewareFunc {
	if perMinute <= 0 {
		perMinute = 10
	}
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Every(time.Minute / time.Duration(perMinute)),
		Burst:     perMinute,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many attempts. Please wait and try again.")
		},
	})
}

// RequestLogger writes one zap entry per request.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
