package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"questpath/internal/api"
	"questpath/internal/catalog"
	"questpath/internal/client"
	"questpath/internal/metrics"
	"questpath/internal/middleware"
	"questpath/internal/repository"
	"questpath/internal/service"
	"questpath/pkg/auth"
	"questpath/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", configPath, "directory containing config.yaml")
	flag.Parse()

	cfg, err := LoadConfig(*configDir)
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

	repo, err := repository.New(ctx, cfg.Storage)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	backend := client.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	var quests service.QuestCatalog = backend
	if cfg.Catalog.Path != "" {
		local, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			zapLogger.Fatal("Failed to load quest catalog", zap.Error(err))
		}
		zapLogger.Info("Using local quest catalog",
			zap.String("path", cfg.Catalog.Path),
			zap.Int("quests", local.Len()))
		quests = local
	}

	var verifier service.TokenVerifier
	if cfg.Firebase.Enabled {
		fv, err := auth.NewFirebaseVerifier(ctx, cfg.Firebase.Auth())
		if err != nil {
			zapLogger.Fatal("Failed to initialize firebase", zap.Error(err))
		}
		verifier = fv
	}

	hub := api.NewProgressHub()
	ledger := service.NewQuestLedger(backend)
	ledger.AddListener(hub)

	session := service.NewAuthSession(backend, repo, ledger, verifier)
	backend.SetTokenSource(session)

	if user, err := session.Restore(ctx); err != nil {
		zapLogger.Warn("Failed to restore session", zap.Error(err))
	} else if user != nil {
		zapLogger.Info("Restored session", zap.String("user_id", user.ID))
	}

	questService := service.NewQuestService(quests, ledger)
	workflowService := service.NewWorkflowService(backend, service.NewWorkflowSequencer())

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go limiter.Cleanup(ctx, time.Minute)

	router, err := newRouter(cfg.Server)
	if err != nil {
		zapLogger.Fatal("Failed to build router", zap.Error(err))
	}

	api.NewHealthRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	authz := middleware.NewAuthorization(session)
	a := router.Group("/api/v1")
	a.Use(limiter.Middleware())
	api.NewAuthRoutes(a, session, authz)
	api.NewQuestRoutes(a, questService, authz)
	api.NewWorkflowRoutes(a, workflowService, authz)
	api.NewProgressRoutes(a, hub, authz, middleware.Origins(cfg.Server.AllowedOrigins))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		zapLogger.Info("Starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server shutdown failed", zap.Error(err))
	}
	zapLogger.Info("Server stopped")
}
