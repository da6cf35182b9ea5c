package app

import (
	"codequest_backend/internal/config"
	"codequest_backend/internal/controller"
	"codequest_backend/internal/judge0"
	"codequest_backend/internal/repository"
	"codequest_backend/internal/service"
	"codequest_backend/pkg/database"
	"codequest_backend/pkg/logger"
	"codequest_backend/pkg/monitoring"
	"codequest_backend/pkg/security"
	"codequest_backend/pkg/tracing"
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
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	language   *repository.LanguageRepository
	exercise   *repository.ExerciseRepository
	attempt    *repository.AttemptRepository
	submission *repository.SubmissionRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	user        *service.UserService
	exercise    *service.ExerciseService
	attempt     *service.AttemptService
	execution   *service.ExecutionService
	submission  *service.SubmissionService
	achievement *service.AchievementService
	sessions    *service.SessionManager
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	exercise    *controller.ExerciseController
	attempt     *controller.AttemptController
	session     *controller.SessionController
	execution   *controller.ExecutionController
	submission  *controller.SubmissionController
	achievement *controller.AchievementController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig pushes a reloaded config to every registered callback.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		language:   repository.NewLanguageRepository(db),
		exercise:   repository.NewExerciseRepository(db),
		attempt:    repository.NewAttemptRepository(db),
		submission: repository.NewSubmissionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.submission, s.storage)
	s.exercise = service.NewExerciseService(repos.exercise, repos.language, repos.submission)
	s.attempt = service.NewAttemptService(repos.attempt)
	s.execution = service.NewExecutionService(judge0.NewClient(cfg.Judge0))
	s.submission = service.NewSubmissionService(repos.submission, repos.user, rdb)
	s.achievement = service.NewAchievementService(repos.user, repos.submission, rdb)
	s.sessions = service.NewSessionManager(repos.attempt)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth, s.user),
		user:        controller.NewUserController(s.user),
		exercise:    controller.NewExerciseController(s.exercise),
		attempt:     controller.NewAttemptController(s.attempt),
		session:     controller.NewSessionController(s.sessions, s.exercise, s.execution, s.submission),
		execution:   controller.NewExecutionController(s.execution),
		submission:  controller.NewSubmissionController(s.submission),
		achievement: controller.NewAchievementController(s.achievement),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services, cfg *config.Config) {
	maxIdle := time.Duration(cfg.Session.MaxIdleMinutes) * time.Minute
	if maxIdle <= 0 {
		maxIdle = 2 * time.Hour
	}
	s.sessions.StartReaper(maxIdle)
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 缓存不可用时排行榜回退到数据库
		logger.Log.Warn("Failed to initialize redis, leaderboard cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("codequest-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services, cfg)

	return app
}

func (a *App) Run() {
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
