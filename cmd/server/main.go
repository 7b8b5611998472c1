package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/notioncoach/notioncoach-api/api/swagger"
	"github.com/notioncoach/notioncoach-api/internal/captcha"
	"github.com/notioncoach/notioncoach-api/internal/directory"
	"github.com/notioncoach/notioncoach-api/internal/gate"
	"github.com/notioncoach/notioncoach-api/internal/handler"
	"github.com/notioncoach/notioncoach-api/internal/middleware"
	"github.com/notioncoach/notioncoach-api/internal/repository"
	"github.com/notioncoach/notioncoach-api/internal/service"
	"github.com/notioncoach/notioncoach-api/internal/strava"
	"github.com/notioncoach/notioncoach-api/pkg/cache"
	"github.com/notioncoach/notioncoach-api/pkg/config"
	"github.com/notioncoach/notioncoach-api/pkg/database"
	"github.com/notioncoach/notioncoach-api/pkg/logger"
	corsmiddleware "github.com/notioncoach/notioncoach-api/pkg/middleware/cors"
	reqidmiddleware "github.com/notioncoach/notioncoach-api/pkg/middleware/requestid"
)

// @title NotionCoach API
// @version 1.0.0
// @description Access gate and user-directory service for the NotionCoach platform
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

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Stats.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect redis", "error", err)
		}
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Stats.CacheTTL, logr, true)
	}

	var auditSvc *service.AuditService
	if cfg.Audit.Enabled {
		db, err := database.NewPostgres(cfg.Audit.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect audit database", "error", err)
		}
		defer db.Close() //nolint:errcheck
		auditRepo := repository.NewAuditRepository(db)
		auditSvc = service.NewAuditService(auditRepo, cfg.Audit, logr)
		auditSvc.Start(context.Background())
		defer auditSvc.Stop()
	}

	dir := directory.NewHTTPClient(cfg.Directory, logr, metrics)
	admins := gate.NewAdminChecker(cfg.Admin.Emails)
	verifier := middleware.NewSessionVerifier(cfg.Session)
	validate := validator.New()

	usersSvc := service.NewAdminUsersService(dir, admins, cacheSvc, auditSvc, logr, service.AdminUsersServiceConfig{
		DefaultLimit:    cfg.Pagination.DefaultLimit,
		MaxLimit:        cfg.Pagination.MaxLimit,
		StatsFetchLimit: cfg.Directory.StatsFetchLimit,
		StatsCacheTTL:   cfg.Stats.CacheTTL,
	})
	roleSvc := service.NewRoleService(dir, auditSvc, usersSvc, logr)
	stravaClient := strava.NewClient(cfg.Strava, logr)
	captchaVerifier := captcha.NewHTTPVerifier(cfg.Captcha, logr)

	usersHandler := handler.NewAdminUsersHandler(usersSvc, validate)
	roleHandler := handler.NewRoleHandler(roleSvc, validate)
	stravaHandler := handler.NewStravaHandler(stravaClient, logr)
	captchaHandler := handler.NewCaptchaHandler(captchaVerifier, validate, logr)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.OptionalSession(verifier))
	r.Use(middleware.AccessGate(dir, admins, logr))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")
	{
		api.GET("/admin/users", usersHandler.List)
		api.DELETE("/admin/users", usersHandler.Delete)
		api.GET("/admin/users/export", usersHandler.Export)
		api.PUT("/me/role", roleHandler.SetRole)
		api.GET("/strava/callback", stravaHandler.Callback)
		api.POST("/verify-recaptcha", captchaHandler.Verify)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
