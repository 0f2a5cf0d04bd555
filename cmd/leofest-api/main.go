package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/leoclub/leofest-api/api/swagger"
	"github.com/leoclub/leofest-api/internal/handler"
	"github.com/leoclub/leofest-api/internal/memstore"
	"github.com/leoclub/leofest-api/internal/middleware"
	"github.com/leoclub/leofest-api/internal/models"
	"github.com/leoclub/leofest-api/internal/repository"
	"github.com/leoclub/leofest-api/internal/service"
	"github.com/leoclub/leofest-api/internal/store"
	"github.com/leoclub/leofest-api/pkg/cache"
	"github.com/leoclub/leofest-api/pkg/config"
	"github.com/leoclub/leofest-api/pkg/database"
	"github.com/leoclub/leofest-api/pkg/logger"
	corsmiddleware "github.com/leoclub/leofest-api/pkg/middleware/cors"
	reqidmiddleware "github.com/leoclub/leofest-api/pkg/middleware/requestid"
)

// @title LeoFest API
// @version 1.0.0
// @description Student festival management engine
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	stores, err := buildStores(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init storage", "error", err)
	}

	var redisClient *redis.Client
	if cfg.Analytics.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, visit analytics disabled", "error", err)
		}
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := buildRouter(cfg, logr, stores, redisClient)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "storage", cfg.Storage.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func buildStores(cfg *config.Config, logr *zap.Logger) (*store.Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		logr.Info("using in-memory storage")
		return memstore.New(), nil
	case config.StorageDriverPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		return repository.New(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func buildRouter(cfg *config.Config, logr *zap.Logger, stores *store.Store, redisClient *redis.Client) *gin.Engine {
	validate := validator.New()

	authSvc := service.NewAuthService(stores.Users, validate, logr, cfg.JWT)
	userSvc := service.NewUserService(stores.Users, validate, logr, cfg.Festival.TemporaryPasswordSize)
	eventSvc := service.NewEventService(stores.Events, validate, logr, cfg.Festival.DefaultEventCost)
	assignmentSvc := service.NewAssignmentService(stores.Assignments, stores.Events, stores.Users, logr, cfg.Festival.CoordinatorMaxActive)
	participationSvc := service.NewParticipationService(stores.Participations, stores.Events, stores.Users, assignmentSvc, validate, logr)
	leaderboardSvc := service.NewLeaderboardService(stores.Leaderboards, stores.Events, stores.Participations, stores.Users, assignmentSvc, validate, logr)
	revenueSvc := service.NewRevenueService(stores.Events, stores.Participations, logr)
	analyticsSvc := service.NewAnalyticsService(redisClient, logr)
	metricsSvc := service.NewMetricsService()
	reportSvc := service.NewReportService(stores.Events, stores.Participations, revenueSvc, assignmentSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	participationHandler := handler.NewParticipationHandler(participationSvc, metricsSvc)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardSvc, metricsSvc)
	revenueHandler := handler.NewRevenueHandler(revenueSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.Visits(analyticsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.RegisterStudent)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	events := api.Group("/events")
	events.GET("", eventHandler.List)
	events.GET("/:id", eventHandler.Get)
	events.GET("/:id/leaderboard", leaderboardHandler.Leaderboard)
	events.GET("/:id/winners", leaderboardHandler.Winners)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staffOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator)

	protected.POST("/events", adminOnly, eventHandler.Create)
	protected.PUT("/events/:id", adminOnly, eventHandler.Update)
	protected.PATCH("/events/:id/status", adminOnly, eventHandler.SetStatus)
	protected.DELETE("/events/:id", adminOnly, eventHandler.Delete)
	protected.POST("/events/:id/complete", adminOnly, leaderboardHandler.Complete)

	protected.POST("/events/:id/coordinators", assignmentHandler.Join)
	protected.DELETE("/events/:id/coordinators", assignmentHandler.Leave)
	protected.GET("/events/:id/coordinators", staffOnly, assignmentHandler.EventCoordinators)
	protected.GET("/coordinators/me/events", assignmentHandler.MyEvents)

	protected.POST("/participations", participationHandler.Register)
	protected.GET("/participations/me", participationHandler.ListMine)
	protected.DELETE("/participations/:id", participationHandler.Withdraw)
	protected.PATCH("/participations/:id/arrived", staffOnly, participationHandler.SetArrived)
	protected.PATCH("/participations/:id/payment", staffOnly, participationHandler.SetPaymentStatus)
	protected.GET("/events/:id/participations", staffOnly, participationHandler.ListByEvent)

	protected.PUT("/events/:id/scores", staffOnly, leaderboardHandler.UpsertScore)
	protected.GET("/events/:id/score-authors", staffOnly, leaderboardHandler.ScoreAuthors)

	protected.POST("/users", adminOnly, userHandler.Create)
	protected.GET("/users/coordinators", adminOnly, userHandler.ListCoordinators)
	protected.PATCH("/users/coordinators/:id/status", adminOnly, userHandler.SetCoordinatorStatus)

	protected.GET("/payments/summary", adminOnly, revenueHandler.Summary)
	protected.GET("/analytics/visits", adminOnly, analyticsHandler.Visits)

	if cfg.Reports.Enabled {
		protected.GET("/events/:id/report", staffOnly, reportHandler.EventReport)
		protected.GET("/payments/report", adminOnly, reportHandler.RevenueReport)
	}

	return r
}
