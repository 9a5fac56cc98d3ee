package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"campusmarket/internal/adapter/api"
	"campusmarket/internal/adapter/api/handler"
	apimiddleware "campusmarket/internal/adapter/api/middleware"
	"campusmarket/internal/adapter/api/router"
	"campusmarket/internal/infrastructure/credentials"
	"campusmarket/internal/infrastructure/ratelimit"
	"campusmarket/internal/session"
	"campusmarket/internal/usecase"
	"campusmarket/internal/webui"
	"campusmarket/pkg/config"
	"campusmarket/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()

	var credStore credentials.Store
	if cfg.RedisAddr != "" {
		logger.Info("Using redis credential store at %s", cfg.RedisAddr)
		redisStore, err := credentials.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		credStore = redisStore
	} else {
		credStore = credentials.NewMemoryStore(cfg.SessionTTL)
	}

	sessionManager := session.NewManager(cfg.BackendBaseURL, credStore, cfg.SessionTTL)
	sessionManager.StartCleanupRoutine(ctx)

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine()

	authUseCase := usecase.NewAuthUseCase()
	listingUseCase := usecase.NewListingUseCase(cfg.ListingPageSize, limiter)
	messageUseCase := usecase.NewMessageUseCase(cfg.MessagePageSize, limiter)

	handler.Setup(authUseCase, listingUseCase, messageUseCase)

	e := echo.New()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())

	e.Validator = api.NewValidator()

	renderer, err := webui.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}
	e.Renderer = renderer

	sessionMiddleware := apimiddleware.NewSessionMiddleware(sessionManager, cfg.CookieSecure, cfg.SessionTTL)
	authMiddleware := apimiddleware.NewAuthMiddleware()

	router.Setup(e, sessionMiddleware, authMiddleware)

	e.Static("/static", "static")

	logger.Info("Starting server on port %s, backend at %s", cfg.ServerPort, cfg.BackendBaseURL)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
