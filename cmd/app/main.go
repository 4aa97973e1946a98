package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shardbot/internal/api"
	"shardbot/internal/middleware"
	"shardbot/internal/repository"
	"shardbot/internal/scheduler"
	"shardbot/internal/service"
	"shardbot/internal/telegram"
	"shardbot/pkg/auth"
	"shardbot/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := newRepository(ctx, cfg.Storage)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	tgClient, err := telegram.NewClient(cfg.Telegram)
	if err != nil {
		zapLogger.Fatal("Failed to initialize telegram client", zap.Error(err))
	}

	clock := service.RealClock()
	dates, err := service.NewDateProvider(clock, cfg.Schedule.Timezone)
	if err != nil {
		zapLogger.Fatal("Failed to initialize date provider", zap.Error(err))
	}

	hub := api.NewHub()
	notifier := service.CombineNotifiers(tgClient, hub)

	inventoryService := service.NewInventoryService(repo)
	taskService := service.NewTaskService(repo, dates)
	tradeService := service.NewTradeService(repo)
	presenter := telegram.NewPresenter(tgClient, repo, tradeService)
	passService := service.NewPassService(repo, dates, clock, tgClient, tgClient)
	cycleService := service.NewCycleService(repo, taskService, dates, tgClient, notifier, presenter)
	svc := service.NewService(inventoryService, taskService, tradeService, passService, cycleService)

	if err := cycleService.EnsureBoards(ctx); err != nil {
		zapLogger.Error("Failed to regenerate daily boards", zap.Error(err))
	}

	sched, err := scheduler.New(cycleService, cfg.Schedule, clock)
	if err != nil {
		zapLogger.Fatal("Failed to initialize scheduler", zap.Error(err))
	}
	go sched.Run(ctx)

	bot := telegram.NewBot(tgClient, svc, presenter, cfg.AdminIDs)
	go bot.Run(ctx)

	telegramAuth := auth.NewTelegramAuth(cfg.Telegram.BotToken, cfg.Telegram.Debug)
	authz := middleware.NewAuthorization(cfg.AdminIDs)

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	corsConfig.AllowHeaders = []string{"*"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	a := router.Group("/api/v1")
	api.NewTaskRoutes(a, taskService, presenter, telegramAuth)
	api.NewShopRoutes(a, tradeService, telegramAuth)
	api.NewInventoryRoutes(a, inventoryService, telegramAuth)
	api.NewPassRoutes(a, passService, telegramAuth)
	api.NewAdminRoutes(a, inventoryService, cycleService, telegramAuth, authz)
	api.NewWSRoutes(a, hub, telegramAuth)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		zapLogger.Info("Starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server shutdown failed", zap.Error(err))
	}
}

func newRepository(ctx context.Context, cfg StorageConfig) (*repository.Repository, error) {
	switch cfg.Driver {
	case "file":
		return repository.New(ctx, repository.NewFileStore(cfg.FilePath))
	case "postgres":
		store, err := repository.NewPostgresStore(cfg.Database)
		if err != nil {
			return nil, err
		}
		return repository.New(ctx, store)
	case "memory":
		return repository.NewInMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
