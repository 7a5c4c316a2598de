package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/slateline/slateline-backend/internal/handlers"
	"github.com/slateline/slateline-backend/internal/middleware"
	"github.com/slateline/slateline-backend/internal/utils"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	ProjectHandler     *handlers.ProjectHandler
	ScenarioHandler    *handlers.ScenarioHandler
	ComparisonHandler  *handlers.ComparisonHandler
	DriftHandler       *handlers.DriftHandler
	DecisionLogHandler *handlers.DecisionLogHandler
	SSEHandler         *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(utils.GetEnv("OTEL_SERVICE_NAME", "slateline-backend", nil)))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// Projects
	protected.GET("/projects", cfg.ProjectHandler.ListUserProjects)
	protected.POST("/projects", cfg.ProjectHandler.CreateProject)

	project := protected.Group("/projects/:projectID")
	{
		// Scenarios
		project.GET("/scenarios", cfg.ScenarioHandler.ListScenarios)
		project.POST("/scenarios/:scenarioID/activate", cfg.ScenarioHandler.Activate)
		project.POST("/scenarios/:scenarioID/pin", cfg.ScenarioHandler.TogglePin)
		project.POST("/scenarios/:scenarioID/archive", cfg.ScenarioHandler.Archive)
		project.POST("/scenarios/:scenarioID/branch", cfg.ScenarioHandler.Branch)
		project.POST("/scenarios/:scenarioID/projection", cfg.ScenarioHandler.RunProjection)
		project.POST("/scenarios/:scenarioID/stress-test", cfg.ScenarioHandler.RunStressTest)
		project.POST("/recommendation", cfg.ScenarioHandler.ComputeRecommendation)
		// Comparison
		project.GET("/comparison", cfg.ComparisonHandler.GetComparison)
		// Drift
		project.GET("/drift/alerts", cfg.DriftHandler.ListAlerts)
		project.GET("/drift/counts/:scenarioID", cfg.DriftHandler.GetCounts)
		project.POST("/drift/alerts/:alertID/acknowledge", cfg.DriftHandler.Acknowledge)
		project.POST("/drift/clear/:scenarioID", cfg.DriftHandler.Clear)
		// Decision log
		project.GET("/decision-log", cfg.DecisionLogHandler.GetDecisionLog)
		// SSE
		project.GET("/stream", cfg.SSEHandler.Stream)
	}

	return router
}
