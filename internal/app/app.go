package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edutech_backend/internal/catalog"
	"edutech_backend/internal/config"
	"edutech_backend/internal/controller"
	"edutech_backend/internal/repository"
	"edutech_backend/internal/service"
	"edutech_backend/internal/util"
	"edutech_backend/pkg/configwatcher"
	"edutech_backend/pkg/database"
	"edutech_backend/pkg/logger"
	"edutech_backend/pkg/monitoring"
	"edutech_backend/pkg/security"
	"edutech_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	Config  *config.Config
	Runtime *config.Runtime
	Router  *gin.Engine
	Catalog *catalog.Catalog
	Redis   *redis.Client

	services *services
}

type services struct {
	user        *service.UserService
	auth        *service.AuthService
	progress    *service.ProgressService
	quiz        *service.QuizService
	certificate *service.CertificateService
	storage     *service.StorageService
	hub         *service.EventHub
}

type controllers struct {
	auth        *controller.AuthController
	catalog     *controller.CatalogController
	progress    *controller.ProgressController
	quiz        *controller.QuizController
	certificate *controller.CertificateController
	health      *controller.HealthController
}

func (a *App) initSnapshotStore(cfg *config.Config) (repository.SnapshotStore, error) {
	switch cfg.Snapshot.Type {
	case util.SnapshotSQLite:
		db, err := database.InitSQLite(&cfg.Snapshot)
		if err != nil {
			return nil, err
		}
		return repository.NewSQLiteStore(db, cfg.Snapshot.Key)
	case util.SnapshotRedis:
		if a.Redis == nil {
			return nil, fmt.Errorf("redis snapshot store requires a redis connection")
		}
		return repository.NewRedisStore(a.Redis, cfg.Snapshot.Key), nil
	default:
		return repository.NewFileStore(cfg.Snapshot.FilePath)
	}
}

func (a *App) initServices(cfg *config.Config, store repository.SnapshotStore) (*services, error) {
	s := &services{}

	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	s.storage = storage

	var hubRedis *redis.Client
	if cfg.Events.UseRedis {
		hubRedis = a.Redis
	}
	s.hub = service.NewEventHub(hubRedis, cfg.Events.Channel)
	go s.hub.Run()

	s.user = service.NewUserService(store, a.Catalog)
	s.auth = service.NewAuthService(s.user, a.Runtime)
	s.certificate = service.NewCertificateService(s.storage)
	s.progress = service.NewProgressService(s.user, a.Catalog, s.certificate, s.hub)
	s.quiz = service.NewQuizService(a.Catalog, s.user, s.progress)

	return s, nil
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth, s.user),
		catalog:     controller.NewCatalogController(a.Catalog),
		progress:    controller.NewProgressController(s.progress),
		quiz:        controller.NewQuizController(s.quiz),
		certificate: controller.NewCertificateController(s.certificate, s.user),
		health:      controller.NewHealthController(),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	cat, err := catalog.Load(&cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Log.Info("Catalog loaded", zap.Int("courses", len(cat.Courses())))

	app := &App{
		Config:  cfg,
		Runtime: config.NewRuntime(cfg),
		Catalog: cat,
	}

	if cfg.CatalogCheckOnly {
		return app, nil
	}

	if cfg.Snapshot.Type == util.SnapshotRedis || cfg.Events.UseRedis {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		app.Redis = rdb
	}

	store, err := app.initSnapshotStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("init snapshot store: %w", err)
	}

	services, err := app.initServices(cfg, store)
	if err != nil {
		return nil, err
	}
	app.services = services

	if err := services.user.Bootstrap(context.Background()); err != nil {
		return nil, fmt.Errorf("restore profile snapshot: %w", err)
	}

	controllers := app.initControllers(services)

	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("edutech-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
	}

	app.registerRoutes(router, controllers)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/exports", cfg.Storage.LocalPath)
	}

	return app, nil
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

// applyConfig absorbs a reloaded config file. Only settings read on each
// request can change at runtime; listen address and store wiring cannot.
// A fresh snapshot is published whole so request goroutines never observe
// a partial update.
func (a *App) applyConfig(newCfg *config.Config) {
	next := *a.Runtime.Load()
	next.JWT = newCfg.JWT
	next.Events = newCfg.Events
	a.Runtime.Swap(&next)
	logger.Log.Info("Config reloaded")
}

func (a *App) Run() {
	go configwatcher.WatchConfig("configs/config.yaml", a.applyConfig)

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.services != nil {
		a.services.hub.Stop()
		a.services.quiz.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
