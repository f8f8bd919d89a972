package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"chatmarket/internal/adapter/api"
	"chatmarket/internal/adapter/api/handler"
	apimiddleware "chatmarket/internal/adapter/api/middleware"
	"chatmarket/internal/adapter/api/router"
	"chatmarket/internal/adapter/repository"
	"chatmarket/internal/domain/entity"
	domainrepo "chatmarket/internal/domain/repository"
	"chatmarket/internal/domain/service"
	"chatmarket/internal/infrastructure/auth"
	"chatmarket/internal/infrastructure/metrics"
	"chatmarket/internal/infrastructure/ratelimit"
	"chatmarket/internal/infrastructure/websocket"
	"chatmarket/internal/usecase"
	"chatmarket/pkg/config"
	"chatmarket/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: %v", err)
	}
	logger.Configure(cfg.LogLevel, cfg.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open %s storage: %v", cfg.StorageDriver, err)
	}
	defer closeStore()

	if err := repository.EnsureSchemaVersion(ctx, store); err != nil {
		logger.Fatal("Storage schema check failed: %v", err)
	}

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL())
	paymentService := service.NewSimulatedPaymentService(cfg.PaymentDelay())

	authUseCase := usecase.NewAuthUseCase(
		repository.NewSnapshot[[]entity.Account](store, domainrepo.KeyAccounts),
		repository.NewSnapshot[string](store, domainrepo.KeySession),
		auth.NewPasswordHasher(cfg.BcryptCost),
		tokenManager,
	).WithDemoData(cfg.SeedDemo)
	commerceUseCase := usecase.NewCommerceUseCase(
		repository.NewSnapshot[[]entity.Storefront](store, domainrepo.KeyStorefronts),
		repository.NewSnapshot[[]entity.Listing](store, domainrepo.KeyListings),
		repository.NewSnapshot[[]entity.Order](store, domainrepo.KeyOrders),
		repository.NewSnapshot[[]entity.CartLine](store, domainrepo.KeyCart),
	).WithDemoData(cfg.SeedDemo)
	chatUseCase := usecase.NewChatUseCase(
		repository.NewSnapshot[[]entity.Conversation](store, domainrepo.KeyConversations),
		repository.NewSnapshot[[]entity.Message](store, domainrepo.KeyMessages),
		wsManager,
	)
	checkoutUseCase := usecase.NewCheckoutUseCase(commerceUseCase, chatUseCase, authUseCase, paymentService, wsManager)

	if err := authUseCase.Init(ctx); err != nil {
		logger.Fatal("Failed to load accounts: %v", err)
	}
	if err := commerceUseCase.Init(ctx); err != nil {
		logger.Fatal("Failed to load catalog: %v", err)
	}
	if err := chatUseCase.Init(ctx); err != nil {
		logger.Fatal("Failed to load conversations: %v", err)
	}

	handler.Setup(authUseCase, commerceUseCase, chatUseCase, checkoutUseCase)
	handler.SetupHealthHandler(store)
	wsManager.SetCommandHandler(handler.GetChatHandler())

	limiter := ratelimit.NewRateLimiter(ratelimit.Policy{
		Limit: rate.Limit(cfg.RateLimitRPS),
		Burst: cfg.RateLimitBurst,
	}).
		WithPolicy(ratelimit.ActionSendMessage, ratelimit.PerMinute(60)).
		WithPolicy(ratelimit.ActionPayment, ratelimit.PerMinute(10))
	limiter.StartCleanupRoutine(ctx, 10*time.Minute, time.Hour)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(metrics.Middleware())
	e.Use(apimiddleware.RateLimit(limiter, ratelimit.ActionRequest))

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(tokenManager)
	roleMiddleware := apimiddleware.NewRoleMiddleware(authUseCase)

	router.Setup(e, authMiddleware, roleMiddleware, limiter)
	router.SetupWebSocketRouter(e, handler.NewWebSocketHandler(wsManager, authMiddleware))

	go func() {
		logger.WithFields(logger.Fields{
			"port":    cfg.ServerPort,
			"storage": cfg.StorageDriver,
			"env":     cfg.Environment,
		}).Info("Starting server")

		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}

// openStore connects the snapshot backend named by STORAGE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (domainrepo.KeyValueStore, func(), error) {
	switch cfg.StorageDriver {
	case "memory":
		logger.Warn("Using in-memory storage; data is lost on restart")
		return repository.NewMemoryStore(), func() {}, nil

	case "file":
		store, err := repository.NewFileStore(cfg.StorageDir)
		return store, func() {}, err

	case "firestore":
		var opts []option.ClientOption
		if path := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); path != "" {
			logger.Info("Using Firebase service account from file: %s", path)
			opts = append(opts, option.WithCredentialsFile(path))
		}

		client, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("create firestore client: %w", err)
		}
		return repository.NewFirestoreSnapshotStore(client), func() { client.Close() }, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("ping redis at %s: %w", cfg.RedisAddr, err)
		}
		return repository.NewRedisSnapshotStore(client, cfg.RedisPrefix), func() { client.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
