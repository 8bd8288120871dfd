package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/zmanview/zmanview-api/api/swagger"
	"github.com/zmanview/zmanview-api/internal/handler"
	"github.com/zmanview/zmanview-api/internal/middleware"
	"github.com/zmanview/zmanview-api/internal/models"
	"github.com/zmanview/zmanview-api/internal/repository"
	"github.com/zmanview/zmanview-api/internal/service"
	"github.com/zmanview/zmanview-api/pkg/cache"
	"github.com/zmanview/zmanview-api/pkg/config"
	"github.com/zmanview/zmanview-api/pkg/database"
	"github.com/zmanview/zmanview-api/pkg/export"
	"github.com/zmanview/zmanview-api/pkg/logger"
	corsmiddleware "github.com/zmanview/zmanview-api/pkg/middleware/cors"
	reqidmiddleware "github.com/zmanview/zmanview-api/pkg/middleware/requestid"
)

// @title ZmanView API
// @version 1.0.0
// @description Shul display board backend
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, display cache disabled", "error", err)
		redisClient = nil
	}

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	shulRepo := repository.NewShulRepository(db)
	customTimeRepo := repository.NewCustomTimeRepository(db)
	zmanimRepo := repository.NewZmanimRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	layoutRepo := repository.NewLayoutRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	// Services.
	metrics := service.NewMetricsService()
	cacheEnabled := cfg.Display.CacheEnabled && redisClient != nil
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Display.CacheTTL, logr, cacheEnabled)
	authSvc := service.NewAuthService(userRepo, validator.New(), cfg.JWT, logr)
	shulSvc := service.NewShulService(shulRepo, cacheSvc, logr)
	customTimeSvc := service.NewCustomTimeService(customTimeRepo, layoutRepo, userRepo, cacheSvc, logr)
	zmanimSvc := service.NewZmanimService(zmanimRepo, shulRepo, service.UnconfiguredCalculator{}, userRepo, metrics, logr,
		cfg.Zmanim.HorizonDays, cfg.Zmanim.WorkerConcurrency, cfg.Zmanim.WorkerRetries)
	displaySvc := service.NewDisplayService(shulRepo, customTimeRepo, zmanimSvc, announcementRepo, layoutRepo, cacheSvc, metrics, logr, cfg.Display.CacheTTL)
	announcementSvc := service.NewAnnouncementService(announcementRepo, layoutRepo, cacheSvc, logr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zmanimSvc.Start(ctx)
	defer zmanimSvc.Stop()

	if cfg.Zmanim.RefreshEnabled {
		go autoRefresh(ctx, shulSvc, zmanimSvc, logr)
	}

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	shulHandler := handler.NewShulHandler(shulSvc)
	customTimeHandler := handler.NewCustomTimeHandler(customTimeSvc)
	zmanimHandler := handler.NewZmanimHandler(zmanimSvc)
	displayHandler := handler.NewDisplayHandler(displaySvc, export.NewCSVExporter(), export.NewPDFExporter())
	announcementHandler := handler.NewAnnouncementHandler(announcementSvc)
	metricsHandler := handler.NewMetricsHandler(metrics, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.GET("/zmanim/fields", zmanimHandler.Fields)

	authed := api.Group("", middleware.JWT(authSvc))
	authed.POST("/auth/logout", authHandler.Logout)
	authed.GET("/shuls", middleware.RequireRoles(models.RoleSuperAdmin), shulHandler.List)

	shul := authed.Group("/shuls/:shulId", middleware.RequireShulAccess())

	// Read surface for display devices and admins.
	reader := shul.Group("", middleware.RequireRoles(models.RoleSuperAdmin, models.RoleShulAdmin, models.RoleDisplay))
	reader.GET("", shulHandler.Get)
	reader.GET("/display", displayHandler.Schedule)
	if cfg.Exports.Enabled {
		reader.GET("/display/export", displayHandler.Export)
	}
	reader.GET("/display/layout", displayHandler.Layout)
	reader.GET("/zmanim", zmanimHandler.Range)
	reader.GET("/custom-times", customTimeHandler.List)
	reader.GET("/custom-times/:internalName", customTimeHandler.Get)
	reader.GET("/announcements", announcementHandler.List)
	reader.GET("/announcements/:id", announcementHandler.Get)

	// Write surface for admins.
	admin := shul.Group("", middleware.RequireRoles(models.RoleSuperAdmin, models.RoleShulAdmin))
	admin.PUT("", shulHandler.Update)
	admin.POST("/custom-times", customTimeHandler.Create)
	admin.PUT("/custom-times/:internalName", customTimeHandler.Update)
	admin.DELETE("/custom-times/:internalName", customTimeHandler.Delete)
	admin.POST("/zmanim/refresh", zmanimHandler.Refresh)
	admin.POST("/announcements", announcementHandler.Create)
	admin.PUT("/announcements/:id", announcementHandler.Update)
	admin.DELETE("/announcements/:id", announcementHandler.Delete)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// autoRefresh enqueues a table refresh for every shul on startup and then
// daily, keeping the horizon rolling without manual triggers.
func autoRefresh(ctx context.Context, shuls *service.ShulService, zmanim *service.ZmanimService, logr *zap.Logger) {
	run := func() {
		list, err := shuls.List(ctx)
		if err != nil {
			logr.Sugar().Warnw("auto refresh skipped", "error", err)
			return
		}
		for i := range list {
			if err := zmanim.EnqueueRefresh(ctx, list[i].ID, nil); err != nil {
				logr.Sugar().Warnw("auto refresh enqueue failed", "shul_id", list[i].ID, "error", err)
			}
		}
	}

	run()
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}
