package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/testudo-plus/schedule-api/api/swagger"
	"github.com/testudo-plus/schedule-api/internal/assembler"
	"github.com/testudo-plus/schedule-api/internal/cache"
	"github.com/testudo-plus/schedule-api/internal/catalog"
	"github.com/testudo-plus/schedule-api/internal/handler"
	"github.com/testudo-plus/schedule-api/internal/llm"
	"github.com/testudo-plus/schedule-api/internal/models"
	"github.com/testudo-plus/schedule-api/internal/service"
	kvcache "github.com/testudo-plus/schedule-api/pkg/cache"
	"github.com/testudo-plus/schedule-api/pkg/config"
	"github.com/testudo-plus/schedule-api/pkg/jobs"
	"github.com/testudo-plus/schedule-api/pkg/logger"
	corsmiddleware "github.com/testudo-plus/schedule-api/pkg/middleware/cors"
	reqidmiddleware "github.com/testudo-plus/schedule-api/pkg/middleware/requestid"
	"github.com/testudo-plus/schedule-api/pkg/storage"
)

// @title Testudo Plus Schedule API
// @version 1.0.0
// @description Free-text course schedule builder for the UMD catalog
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()

	snapshots, err := storage.NewLocalStorage(cfg.Cache.SnapshotDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init snapshot storage", "dir", cfg.Cache.SnapshotDir, "error", err)
	}

	store := cache.NewStore(cache.StoreConfig{
		TTL:       cfg.Cache.TTL,
		Snapshots: snapshots,
		Metrics:   metrics,
		Logger:    logr,
	})
	if removed, err := snapshots.CleanupOlderThan(cfg.Cache.TTL); err != nil {
		logr.Sugar().Warnw("snapshot cleanup failed", "error", err)
	} else if len(removed) > 0 {
		logr.Sugar().Infow("pruned expired snapshots", "count", len(removed))
	}
	if cfg.Cache.SeedOnStart {
		store.Load()
	}

	catalogClient := catalog.NewClient(cfg.Catalog, logr)

	collab, err := llm.New(ctx, cfg.Advisor, logr)
	if err != nil {
		logr.Sugar().Warnw("advisor collaborator disabled", "error", err)
	}

	asm := assembler.New(assembler.Config{
		TopK:          cfg.Assembler.TopK,
		NodeBudget:    cfg.Assembler.NodeBudget,
		WeightRating:  cfg.Assembler.WeightRating,
		WeightGPA:     cfg.Assembler.WeightGPA,
		WeightCompact: cfg.Assembler.WeightCompact,
	}, logr)

	scheduleSvc := service.NewScheduleService(service.ScheduleServiceDeps{
		Store:     store,
		Fetcher:   catalogClient,
		Assembler: asm,
		Explainer: collab,
		Metrics:   metrics,
		Logger:    logr,
	})
	termSvc := service.NewTermService(nil)
	campusSvc := service.NewCampusService()

	var eventSvc *service.EventService
	if cfg.Events.Enabled {
		var kv *kvcache.KV
		if cfg.Redis.Enabled {
			rdb, err := kvcache.NewRedis(cfg.Redis)
			if err != nil {
				logr.Sugar().Warnw("redis unavailable, events cache disabled", "error", err)
			} else {
				kv = kvcache.NewKV(rdb)
			}
		}
		feed := catalog.NewEventsClient(cfg.Events, logr)
		if kv != nil {
			eventSvc = service.NewEventService(feed, kv, cfg.Events.CacheTTL, cfg.Events.DaysAhead, logr)
		} else {
			eventSvc = service.NewEventService(feed, nil, cfg.Events.CacheTTL, cfg.Events.DaysAhead, logr)
		}
	}

	advisorSvc := service.NewAdvisorService(store, catalogClient, collab, campusSvc, eventSvc, nil, logr)

	if cfg.Prewarm.Enabled {
		startPrewarm(ctx, cfg, store, catalogClient, logr)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	api.POST("/schedule/build", scheduleHandler.Build)
	api.GET("/schedule/export", scheduleHandler.Export)
	api.GET("/terms", handler.NewTermHandler(termSvc).List)
	if eventSvc != nil {
		api.GET("/events/upcoming", handler.NewEventHandler(eventSvc).Upcoming)
	}
	advisorHandler := handler.NewAdvisorHandler(advisorSvc)
	api.POST("/advisor/recommend", advisorHandler.Recommend)
	api.POST("/compass/ask", advisorHandler.Ask)

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
		logr.Sugar().Warnw("server shutdown interrupted", "error", err)
	}
	if err := store.Close(); err != nil {
		logr.Sugar().Warnw("snapshot flush failed", "error", err)
	}
}

// startPrewarm refreshes soon-to-expire partitions off the request path. The
// scan threshold is a tenth of the TTL so entries are renewed before clients
// ever see a stale read.
func startPrewarm(ctx context.Context, cfg *config.Config, store *cache.Store, client *catalog.Client, logr *zap.Logger) {
	queue := jobs.NewQueue("prewarm", func(ctx context.Context, job jobs.Job) error {
		id, ok := job.Payload.(models.PartitionID)
		if !ok {
			return fmt.Errorf("unexpected payload %T", job.Payload)
		}
		// Resolve would short-circuit on the still-fresh entry; prewarm has
		// to replace it before it expires.
		return store.Refresh(ctx, id, client.FetchPartition)
	}, jobs.QueueConfig{
		Workers: cfg.Prewarm.Workers,
		Logger:  logr,
	})
	queue.Start(ctx)

	threshold := cfg.Cache.TTL / 10
	go func() {
		ticker := time.NewTicker(threshold)
		defer ticker.Stop()
		defer queue.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, id := range store.Expiring(threshold) {
					job := jobs.Job{ID: id.String(), Type: "prewarm", Payload: id}
					if err := queue.Enqueue(job); err != nil {
						logr.Sugar().Warnw("prewarm enqueue failed", "partition", id.String(), "error", err)
					}
				}
			}
		}
	}()
}
