package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stem_tutor_backend/internal/config"
	"stem_tutor_backend/internal/controller"
	"stem_tutor_backend/internal/event"
	"stem_tutor_backend/internal/oracle"
	"stem_tutor_backend/internal/repository"
	"stem_tutor_backend/internal/service"
	"stem_tutor_backend/internal/util"
	"stem_tutor_backend/pkg/configwatcher"
	"stem_tutor_backend/pkg/database"
	"stem_tutor_backend/pkg/logger"
	"stem_tutor_backend/pkg/monitoring"
	"stem_tutor_backend/pkg/security"
	"stem_tutor_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config    *config.Config
	Router    *gin.Engine
	DB        *gorm.DB
	Redis     *redis.Client
	Publisher event.Publisher

	repos    *repositories
	services *services
	tracer   *sdktrace.TracerProvider
}

// Deps 外部依赖，测试中可替换为 sqlite 与 MockOracle
type Deps struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Oracle     oracle.Oracle
	Publisher  event.Publisher
	RandSource rand.Source
}

type repositories struct {
	user          *repository.UserRepository
	subject       *repository.SubjectRepository
	question      *repository.QuestionRepository
	answer        *repository.AnswerRepository
	learningPath  *repository.LearningPathRepository
	progress      *repository.ProgressRepository
	project       *repository.ProjectRepository
	qa            *repository.QARepository
	oracleRequest *repository.OracleRequestRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	storage      *service.StorageService
	subject      *service.SubjectService
	question     *service.QuestionService
	answer       *service.AnswerService
	curriculum   *service.CurriculumService
	evaluation   *service.EvaluationService
	progress     *service.ProgressService
	learningPath *service.LearningPathService
	project      *service.ProjectService
	ask          *service.AskService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	subject      *controller.SubjectController
	question     *controller.QuestionController
	answer       *controller.AnswerController
	curriculum   *controller.CurriculumController
	progress     *controller.ProgressController
	learningPath *controller.LearningPathController
	project      *controller.ProjectController
	ask          *controller.AskController
	health       *controller.HealthController
}

func initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		subject:       repository.NewSubjectRepository(db),
		question:      repository.NewQuestionRepository(db),
		answer:        repository.NewAnswerRepository(db),
		learningPath:  repository.NewLearningPathRepository(db),
		progress:      repository.NewProgressRepository(db),
		project:       repository.NewProjectRepository(db),
		qa:            repository.NewQARepository(db),
		oracleRequest: repository.NewOracleRequestRepository(db),
	}
}

func initServices(repos *repositories, cfg *config.Config, deps Deps) *services {
	curriculumOpts := []service.CurriculumOption{
		service.WithAdvanceAfter(cfg.Curriculum.AdvanceAfter),
		service.WithCurriculumPublisher(deps.Publisher),
	}
	if deps.RandSource != nil {
		curriculumOpts = append(curriculumOpts, service.WithRandSource(deps.RandSource))
	}
	curriculum := service.NewCurriculumService(repos.learningPath, repos.question, repos.progress, curriculumOpts...)

	userService := service.NewUserService(repos.user, repos.subject)

	return &services{
		auth:       service.NewAuthService(repos.user, cfg),
		user:       userService,
		storage:    service.NewStorageService(context.Background(), cfg),
		subject:    service.NewSubjectService(repos.subject),
		question:   service.NewQuestionService(repos.question, repos.subject, repos.answer),
		answer:     service.NewAnswerService(repos.answer),
		curriculum: curriculum,
		evaluation: service.NewEvaluationService(
			deps.Oracle,
			repos.question,
			repos.answer,
			repos.user,
			curriculum,
			deps.Publisher,
			cfg.AI.Timeout,
			cfg.AI.MaxTokens,
		),
		progress: service.NewProgressService(
			repos.answer,
			repos.user,
			repos.progress,
			repos.question,
			curriculum,
			deps.Redis,
			cfg.Leaderboard.CacheTTL,
		),
		learningPath: service.NewLearningPathService(repos.learningPath, repos.user, repos.subject, curriculum),
		project:      service.NewProjectService(repos.project, repos.subject),
		ask:          service.NewAskService(deps.Oracle, repos.qa, repos.user, cfg.AI.Timeout, cfg.AI.MaxTokens),
	}
}

func initControllers(s *services, repos *repositories, deps Deps) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, s.user, s.progress),
		user:         controller.NewUserController(s.user, s.storage, s.progress),
		subject:      controller.NewSubjectController(s.subject),
		question:     controller.NewQuestionController(s.question, s.storage, s.progress),
		answer:       controller.NewAnswerController(s.evaluation, s.answer, s.progress),
		curriculum:   controller.NewCurriculumController(s.curriculum),
		progress:     controller.NewProgressController(s.progress),
		learningPath: controller.NewLearningPathController(s.learningPath),
		project:      controller.NewProjectController(s.project),
		ask:          controller.NewAskController(s.ask, repos.oracleRequest),
		health:       controller.NewHealthController(deps.DB, deps.Redis),
	}
}

// Build 组装仓储、服务、控制器与路由，不做任何外部连接
func Build(cfg *config.Config, deps Deps) *App {
	if deps.Publisher == nil {
		deps.Publisher = event.NoopPublisher{}
	}

	repos := initRepositories(deps.DB)
	svcs := initServices(repos, cfg, deps)
	ctrls := initControllers(svcs, repos, deps)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())

	a := &App{
		Config:    cfg,
		Router:    router,
		DB:        deps.DB,
		Redis:     deps.Redis,
		Publisher: deps.Publisher,
		repos:     repos,
		services:  svcs,
	}

	a.setupMiddlewares(router, cfg)
	a.registerRoutes(router, ctrls, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}
	return a
}

// NewApp 初始化日志、数据库、缓存、消息、AI 与追踪后组装应用
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	rdb, err := database.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("initialize redis: %w", err)
	}

	publisher, err := event.New(cfg.Events.Enabled, cfg.Events.AMQPURL, cfg.Events.Exchange)
	if err != nil {
		return nil, fmt.Errorf("initialize event publisher: %w", err)
	}

	o, err := oracle.New(ctx, cfg.AI, repository.NewOracleRequestRepository(db))
	if err != nil {
		return nil, err
	}
	logger.Log.Info("AI oracle initialized", zap.String("oracle", o.Name()))

	a := Build(cfg, Deps{
		DB:        db,
		Redis:     rdb,
		Oracle:    o,
		Publisher: publisher,
	})

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("stem-tutor", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, fmt.Errorf("initialize tracing: %w", err)
		}
		a.tracer = tp
	}
	return a, nil
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// ApplyConfig 热更新可在运行时调整的配置项
func (a *App) ApplyConfig(cfg *config.Config) {
	a.services.evaluation.SetTimeout(cfg.AI.Timeout)
	a.services.ask.SetTimeout(cfg.AI.Timeout)
	a.services.progress.SetCacheTTL(cfg.Leaderboard.CacheTTL)
	a.services.curriculum.SetAdvanceAfter(cfg.Curriculum.AdvanceAfter)

	logger.Log.Info("Configuration reloaded",
		zap.Duration("ai_timeout", cfg.AI.Timeout),
		zap.Duration("leaderboard_cache_ttl", cfg.Leaderboard.CacheTTL),
		zap.Int("advance_after", cfg.Curriculum.AdvanceAfter))
}

// Run 启动 HTTP 服务并监听配置变化，收到中断信号后优雅退出
func (a *App) Run(configDir string) error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := configwatcher.WatchConfig(ctx, configDir, a.ApplyConfig); err != nil {
			logger.Log.Warn("Config watcher stopped", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	// 关闭服务（设置5秒的超时时间）
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.Close(shutdownCtx)
	logger.Log.Info("Server exiting")
	return nil
}

// Close 释放消息、缓存与追踪资源
func (a *App) Close(ctx context.Context) {
	if err := a.Publisher.Close(); err != nil {
		logger.Log.Error("Failed to close event publisher", zap.Error(err))
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	logger.Log.Sync()
}
