package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/andhika-lab/uni-timetable-api/internal/handler"
	"github.com/andhika-lab/uni-timetable-api/internal/middleware"
	"github.com/andhika-lab/uni-timetable-api/internal/repository"
	"github.com/andhika-lab/uni-timetable-api/internal/service"
	"github.com/andhika-lab/uni-timetable-api/internal/timetable"
	"github.com/andhika-lab/uni-timetable-api/pkg/cache"
	"github.com/andhika-lab/uni-timetable-api/pkg/config"
	"github.com/andhika-lab/uni-timetable-api/pkg/database"
	"github.com/andhika-lab/uni-timetable-api/pkg/export"
	"github.com/andhika-lab/uni-timetable-api/pkg/logger"
	corsmiddleware "github.com/andhika-lab/uni-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/andhika-lab/uni-timetable-api/pkg/middleware/requestid"
)

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, timetable caching disabled", "error", err)
		redisClient = nil
	}

	slotRepo := repository.NewTimeSlotRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	groupRepo := repository.NewStudentGroupRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)

	metricsSvc := service.NewMetricsService()
	engine := timetable.NewEngine(nil, logr, timetable.Config{AttemptFactor: cfg.Scheduler.AttemptFactor})
	timetableSvc := service.NewTimetableService(
		slotRepo,
		courseRepo,
		classroomRepo,
		teacherRepo,
		groupRepo,
		timetableRepo,
		db,
		engine,
		export.NewPDFExporter(),
		redisClient,
		metricsSvc,
		nil,
		logr,
		service.TimetableServiceConfig{
			CacheTTL: cfg.Scheduler.CacheTTL,
			RunTTL:   cfg.Scheduler.RunTTL,
		},
	)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	if cfg.Scheduler.AsyncEnabled {
		timetableSvc.StartWorker(workerCtx)
		defer timetableSvc.StopWorker()
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	timetableHandler := handler.NewTimetableHandler(timetableSvc, cfg.Scheduler.AsyncEnabled)
	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/timetable/generate", timetableHandler.Generate)
		api.POST("/timetable/generate/async", timetableHandler.GenerateAsync)
		api.GET("/timetable/runs/:id", timetableHandler.Run)
		api.GET("/timetable/feasibility", timetableHandler.Feasibility)
		api.GET("/groups/:id/timetable", timetableHandler.GroupTimetable)
		api.GET("/groups/:id/timetable/export", timetableHandler.ExportGroupTimetable)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
