package app

import (
	"access_edu_backend/internal/config"
	"access_edu_backend/internal/controller"
	"access_edu_backend/internal/repository"
	"access_edu_backend/internal/service"
	"access_edu_backend/pkg/configwatcher"
	"access_edu_backend/pkg/database"
	"access_edu_backend/pkg/logger"
	"access_edu_backend/pkg/monitoring"
	"access_edu_backend/pkg/security"
	"access_edu_backend/pkg/tracing"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConfigDir 配置文件目录，热加载监听其中的 config.yaml
const ConfigDir = "configs"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	ctx             context.Context
	cancel          context.CancelFunc
	configCallbacks []func(*config.Config)
}

type repositories struct {
	attempt     *repository.QuizAttemptRepository
	progress    *repository.LessonProgressRepository
	catalog     *repository.CatalogRepository
	certificate *repository.CertificateRepository
}

type services struct {
	storage     *service.StorageService
	analytics   *service.QuizAnalyticsService
	quiz        *service.QuizService
	learning    *service.LearningService
	certificate *service.CertificateService
}

type controllers struct {
	analytics   *controller.AnalyticsController
	quiz        *controller.QuizController
	learning    *controller.LearningController
	certificate *controller.CertificateController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		attempt:     repository.NewQuizAttemptRepository(db),
		progress:    repository.NewLessonProgressRepository(db),
		catalog:     repository.NewCatalogRepository(db),
		certificate: repository.NewCertificateRepository(db),
	}
}

func analyticsOptions(cfg *config.Config) service.AnalyticsOptions {
	return service.AnalyticsOptions{
		WeakTopicWindow: cfg.Analytics.WeakTopicWindow,
		RenderDocuments: cfg.Certificate.RenderDocument,
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)

	var notifier service.CertificateNotifier = service.NopCertificateNotifier{}
	if rdb != nil {
		notifier = service.NewRedisCertificateNotifier(rdb)
	}

	s.analytics = service.NewQuizAnalyticsService(
		repos.attempt,
		repos.progress,
		repos.catalog,
		repos.certificate,
		s.storage,
		notifier,
		analyticsOptions(cfg),
	)
	s.quiz = service.NewQuizService(repos.attempt, repos.catalog, s.analytics)
	s.learning = service.NewLearningService(repos.progress, repos.catalog, repos.certificate, s.analytics)
	s.certificate = service.NewCertificateService(
		repos.certificate,
		repos.attempt,
		repos.progress,
		repos.catalog,
		s.analytics,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		analytics:   controller.NewAnalyticsController(s.analytics, s.learning),
		quiz:        controller.NewQuizController(s.quiz),
		learning:    controller.NewLearningController(s.learning),
		certificate: controller.NewCertificateController(s.certificate, s.analytics),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startConfigWatcher 配置文件变化时依次调用已注册的回调
func (a *App) startConfigWatcher() {
	configFile := filepath.Join(ConfigDir, "config.yaml")
	go func() {
		err := configwatcher.WatchConfig(a.ctx, configFile, func(cfg *config.Config) {
			for _, callback := range a.configCallbacks {
				callback(cfg)
			}
		})
		if err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.String("file", configFile), zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// release 模式默认不迁移，除非显式指定 -migrate
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		ctx:    ctx,
		cancel: cancel,
	}
	if cfg.MigrateOnly {
		return app
	}

	// Redis 只用于证书颁发通知，连接失败时降级为不发送通知
	if cfg.Redis.Enabled {
		pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
		rdb, err := database.InitRedis(pingCtx, &cfg.Redis)
		cancelPing()
		if err != nil {
			logger.Log.Warn("Redis unavailable, certificate notifications disabled", zap.Error(err))
		} else {
			app.Redis = rdb
		}
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, app.Redis)
	controllers := app.initControllers(app.services, db, app.Redis)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetLevel(newCfg)
		app.services.analytics.ApplyOptions(analyticsOptions(newCfg))
		logger.Log.Info("Runtime options updated",
			zap.String("logLevel", logger.Level().String()),
			zap.Int("weakTopicWindow", app.services.analytics.WeakTopicWindow()),
		)
	})
	app.startConfigWatcher()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close(ctx)
	logger.Log.Info("Server exiting")
}

// Close 停止后台任务并释放连接
func (a *App) Close(ctx context.Context) {
	a.cancel()

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
