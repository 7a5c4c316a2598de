package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/slateline/slateline-backend/internal/cache"
	"github.com/slateline/slateline-backend/internal/clients/compute"
	redisclient "github.com/slateline/slateline-backend/internal/clients/redis"
	"github.com/slateline/slateline-backend/internal/db"
	"github.com/slateline/slateline-backend/internal/handlers"
	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/middleware"
	"github.com/slateline/slateline-backend/internal/observability"
	"github.com/slateline/slateline-backend/internal/repos"
	"github.com/slateline/slateline-backend/internal/server"
	"github.com/slateline/slateline-backend/internal/services"
	"github.com/slateline/slateline-backend/internal/sse"
	"github.com/slateline/slateline-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: utils.GetEnv("OTEL_SERVICE_NAME", "slateline-backend", log),
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownOTel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOTel(ctx)
		}()
	}

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	computeBaseURL := utils.GetEnv("COMPUTE_BASE_URL", "http://localhost:9000", log)
	computeAPIKey := utils.GetEnv("COMPUTE_API_KEY", "", log)
	computeRegistryPath := utils.GetEnv("COMPUTE_REGISTRY_PATH", "", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Redis
	rdb, err := redisclient.NewClient(log)
	if err != nil {
		log.Error("Redis init failed", "error", err)
		os.Exit(1)
	}
	invalidationBus, err := redisclient.NewInvalidationBus(log, rdb)
	if err != nil {
		log.Error("Could not init invalidation bus", "error", err)
		os.Exit(1)
	}
	defer invalidationBus.Close()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	projectRepo := repos.NewProjectRepo(thePG, log)
	scenarioRepo := repos.NewScenarioRepo(thePG, log)
	projectionRepo := repos.NewProjectionRepo(thePG, log)
	stressTestRepo := repos.NewStressTestRepo(thePG, log)
	driftAlertRepo := repos.NewDriftAlertRepo(thePG, log)
	decisionEventRepo := repos.NewDecisionEventRepo(thePG, log)

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewSSEHub(log)

	// Cache
	invalidator := cache.NewInvalidator(log, rdb, invalidationBus)

	// Compute client
	registry, err := compute.LoadRegistry(computeRegistryPath)
	if err != nil {
		log.Error("Could not load compute registry", "error", err)
		os.Exit(1)
	}
	computeClient, err := compute.New(log, registry, compute.Options{
		BaseURL: computeBaseURL,
		APIKey:  computeAPIKey,
	})
	if err != nil {
		log.Error("Could not init compute client", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	projectService := services.NewProjectService(thePG, log, projectRepo)
	scenarioService := services.NewScenarioService(thePG, log, scenarioRepo, decisionEventRepo, computeClient, invalidator, sseHub)
	comparisonService := services.NewComparisonService(thePG, log, scenarioRepo, projectionRepo, stressTestRepo, driftAlertRepo, invalidator)
	driftService := services.NewDriftService(thePG, log, driftAlertRepo, invalidator, sseHub)
	decisionLogService := services.NewDecisionLogService(thePG, log, decisionEventRepo, scenarioRepo)
	projectionService := services.NewProjectionService(thePG, log, scenarioRepo, projectionRepo, stressTestRepo, decisionEventRepo, computeClient, invalidator, sseHub)

	// Fan invalidations published by peer processes out to connected panels.
	if err := invalidationBus.StartForwarder(context.Background(), func(m redisclient.InvalidationMessage) {
		sseHub.Broadcast(sse.SSEMessage{
			Channel: "project:" + m.ProjectID,
			Event:   sse.SSEEventCacheInvalidated,
			Data:    m,
		})
	}); err != nil {
		log.Warn("Could not start invalidation forwarder", "error", err)
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(log, authService)
	projectHandler := handlers.NewProjectHandler(log, projectService)
	scenarioHandler := handlers.NewScenarioHandler(log, projectService, scenarioService, projectionService)
	comparisonHandler := handlers.NewComparisonHandler(log, projectService, comparisonService)
	driftHandler := handlers.NewDriftHandler(log, projectService, driftService)
	decisionLogHandler := handlers.NewDecisionLogHandler(log, projectService, decisionLogService)
	sseHandler := handlers.NewSSEHandler(log, projectService, sseHub)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:        authHandler,
		AuthMiddleware:     authMiddleware,
		ProjectHandler:     projectHandler,
		ScenarioHandler:    scenarioHandler,
		ComparisonHandler:  comparisonHandler,
		DriftHandler:       driftHandler,
		DecisionLogHandler: decisionLogHandler,
		SSEHandler:         sseHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
