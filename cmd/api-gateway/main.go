package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/brightmont/admissions-engine/api/swagger"
	"github.com/brightmont/admissions-engine/internal/handler"
	"github.com/brightmont/admissions-engine/internal/middleware"
	"github.com/brightmont/admissions-engine/internal/repository"
	"github.com/brightmont/admissions-engine/internal/service"
	"github.com/brightmont/admissions-engine/internal/store"
	"github.com/brightmont/admissions-engine/pkg/cache"
	"github.com/brightmont/admissions-engine/pkg/config"
	"github.com/brightmont/admissions-engine/pkg/keylock"
	"github.com/brightmont/admissions-engine/pkg/logger"
	corsmiddleware "github.com/brightmont/admissions-engine/pkg/middleware/cors"
	reqidmiddleware "github.com/brightmont/admissions-engine/pkg/middleware/requestid"
)

// @title Admissions Engine API
// @version 0.1.0
// @description Application persistence and admission workflow engine
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()

	backends, err := store.Open(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to open storage backend", "error", err)
	}
	backends = store.Instrument(backends, metricsSvc)

	var cacheSvc *service.CacheService
	if cfg.Statistics.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, statistics cache disabled", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Statistics.CacheTTL, logr, true)
		}
	}

	locks := keylock.New()
	timeout := cfg.Storage.OpTimeout

	enrollmentSvc := service.NewEnrollmentService(backends.Aggregates, backends.Students, cacheSvc, locks, logr, timeout)
	applicationSvc := service.NewApplicationService(backends.Applications, backends.Students, enrollmentSvc, locks, nil, logr, timeout)
	studentSvc := service.NewStudentService(backends.Students, cacheSvc, logr, timeout)
	profileSvc := service.NewProfileService(backends.Profiles, nil, logr, timeout)
	exportSvc := service.NewExportService(studentSvc, enrollmentSvc)

	applicationHandler := handler.NewApplicationHandler(applicationSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	statisticsHandler := handler.NewStatisticsHandler(enrollmentSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.Identity(cfg.JWT.Secret))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "backend": backends.Kind})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/applications", applicationHandler.Create)
		api.GET("/applications", applicationHandler.List)
		api.GET("/applications/:email", applicationHandler.Get)
		api.PATCH("/applications/:email", applicationHandler.Patch)
		api.DELETE("/applications/:email", applicationHandler.Delete)
		api.POST("/applications/:email/status", applicationHandler.Transition)
		api.POST("/applications/:email/promote", applicationHandler.Promote)

		api.GET("/students", studentHandler.List)
		api.GET("/students/:id", studentHandler.Get)
		api.PATCH("/students/:id", studentHandler.Patch)
		api.DELETE("/students/:id", studentHandler.Delete)

		api.PUT("/profiles", profileHandler.Upsert)
		api.GET("/profiles/:email", profileHandler.Get)
		api.PATCH("/profiles/:email", profileHandler.Patch)
		api.DELETE("/profiles/:email", profileHandler.Delete)

		api.GET("/statistics", statisticsHandler.Summary)
		api.GET("/statistics/:year", statisticsHandler.Year)
		api.POST("/statistics/:year/reconcile", statisticsHandler.Reconcile)

		api.GET("/exports/students.csv", exportHandler.StudentRosterCSV)
		api.GET("/exports/enrollment.pdf", exportHandler.EnrollmentSummaryPDF)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "backend", backends.Kind)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
