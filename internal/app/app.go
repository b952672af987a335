package app

import (
	"bitbybit_backend/internal/config"
	"bitbybit_backend/internal/controller"
	"bitbybit_backend/internal/repository"
	"bitbybit_backend/internal/service"
	"bitbybit_backend/pkg/configwatcher"
	"bitbybit_backend/pkg/database"
	"bitbybit_backend/pkg/logger"
	"bitbybit_backend/pkg/monitoring"
	"bitbybit_backend/pkg/security"
	"bitbybit_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user         *repository.UserRepository
	course       *repository.CourseRepository
	exam         *repository.ExamRepository
	attempt      *repository.AttemptRepository
	subscription *repository.SubscriptionRepository
	banner       *repository.BannerRepository
}

type services struct {
	auth      *service.AuthService
	sms       *service.SMSService
	storage   *service.StorageService
	content   *service.ContentService
	access    *service.AccessService
	attempt   *service.AttemptService
	ai        *service.AIService
	generator *service.GeneratorService
	importer  *service.ImportService
}

type controllers struct {
	auth    *controller.AuthController
	content *controller.ContentController
	exam    *controller.ExamController
	admin   *controller.AdminController
	health  *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		course:       repository.NewCourseRepository(db),
		exam:         repository.NewExamRepository(db),
		attempt:      repository.NewAttemptRepository(db),
		subscription: repository.NewSubscriptionRepository(db),
		banner:       repository.NewBannerRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.sms = service.NewSMSService(cfg.SMS)
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg, rdb, s.sms)
	s.content = service.NewContentService(repos.course, repos.exam, repos.banner, s.storage, db)
	s.access = service.NewAccessService(repos.course, repos.subscription)
	s.attempt = service.NewAttemptService(repos.attempt, repos.exam, db)
	s.ai = service.NewAIService(cfg.AI)
	s.generator = service.NewGeneratorService(s.ai, repos.course, db)
	s.importer = service.NewImportService(repos.course, repos.exam, db)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		content: controller.NewContentController(s.content, s.access),
		exam:    controller.NewExamController(s.attempt, s.content, s.access),
		admin:   controller.NewAdminController(s.content, s.generator, s.importer),
		health:  controller.NewHealthController(db, rdb),
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

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("failed to initialize database", zap.Error(err))
	}

	// InitDB already ran the schema migration; -migrate-only stops here.
	if cfg.MigrateOnly {
		logger.Log.Info("database migration complete")
		os.Exit(0)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	svcs := app.initServices(repos, cfg, db, rdb)
	ctrls := app.initControllers(svcs, db, rdb)

	monitoring.Init()

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("bitbybit-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("failed to initialize tracing", zap.Error(err))
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, ctrls, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// Hot reload for operational knobs. Anything already baked into running
	// components (routes, pool sizes) needs a restart; the swap here only
	// serves future reads of a.Config.
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		if updated, ok := newCfg.(*config.Config); ok {
			app.Config = updated
			logger.Log.Info("configuration reloaded")
		}
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("server exiting")
}
