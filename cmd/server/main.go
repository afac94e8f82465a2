package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gamereviews/docs" // swagger docs
	"gamereviews/internal/auth"
	"gamereviews/internal/cache"
	"gamereviews/internal/config"
	"gamereviews/internal/db"
	"gamereviews/internal/handler"
	"gamereviews/internal/logger"
	"gamereviews/internal/model"
	"gamereviews/internal/repository"
	"gamereviews/internal/router"
	"gamereviews/internal/service"
)

// @title Game Reviews API
// @version 1.0
// @description Game review catalog with genres, games, reviews and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		zlog.Fatal("database init", zap.Error(err))
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		zlog.Warn("RESET_DB=true detected, dropping all tables")
		tables := model.All()
		for i := len(tables) - 1; i >= 0; i-- {
			if err := gormDB.Migrator().DropTable(tables[i]); err != nil {
				zlog.Warn("drop table failed (may not exist)", zap.Error(err))
			}
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		zlog.Fatal("migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()
	if cacheClient.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cacheClient.Ping(ctx); err != nil {
			zlog.Warn("redis unreachable, logout revocation is best effort", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		cancel()
	} else {
		zlog.Warn("REDIS_ADDR not set, logout does not revoke tokens")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	genreRepo := repository.NewGenreRepository(gormDB)
	gameRepo := repository.NewGameRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, time.Duration(cfg.JWTExpiryMinutes)*time.Minute)
	tokenStore := auth.NewTokenStore(cacheClient)
	hasher := auth.NewPasswordHasher(cfg.PasswordHash)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, hasher, tokenStore, cfg.UsernameCaseSensitive, zlog)
	genreService := service.NewGenreService(genreRepo, gameRepo, cfg.GenreDeletePolicy, zlog)
	gameService := service.NewGameService(gameRepo, genreRepo, reviewRepo, cfg.GameIDMode, zlog)
	reviewService := service.NewReviewService(reviewRepo, gameRepo, genreRepo, zlog)

	e := echo.New()
	router.Register(e, cfg, zlog, jwtService, tokenStore, router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Genre:  handler.NewGenreHandler(genreService, reviewService),
		Game:   handler.NewGameHandler(gameService),
		Review: handler.NewReviewHandler(reviewService),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}
	zlog.Info("swagger documentation available",
		zap.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	zlog.Info("starting server",
		zap.String("port", cfg.ServerPort),
		zap.String("db_driver", cfg.DBDriver),
		zap.String("game_id_mode", cfg.GameIDMode),
		zap.String("genre_delete_policy", cfg.GenreDeletePolicy),
		zap.String("password_hash", hasher.Scheme()),
	)
	if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zlog.Fatal("server start", zap.Error(err))
	}
}
