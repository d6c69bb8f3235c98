package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/skillport/institute-api/api/swagger"
	"github.com/skillport/institute-api/internal/handler"
	"github.com/skillport/institute-api/internal/middleware"
	"github.com/skillport/institute-api/internal/repository"
	"github.com/skillport/institute-api/internal/service"
	"github.com/skillport/institute-api/pkg/cache"
	"github.com/skillport/institute-api/pkg/config"
	"github.com/skillport/institute-api/pkg/database"
	"github.com/skillport/institute-api/pkg/export"
	"github.com/skillport/institute-api/pkg/jobs"
	"github.com/skillport/institute-api/pkg/logger"
	"github.com/skillport/institute-api/pkg/mailer"
	corsmiddleware "github.com/skillport/institute-api/pkg/middleware/cors"
	reqidmiddleware "github.com/skillport/institute-api/pkg/middleware/requestid"
	"github.com/skillport/institute-api/pkg/storage"
)

// @title SkillPort Institute API
// @version 1.0.0
// @description Enrollment wizard, payment vouchers and admin course management
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, catalog cache disabled", "error", err)
		redisClient = nil
	}

	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Uploads.SignedURLSecret, cfg.Uploads.SignedURLTTL)

	validate := validator.New()

	// Repositories.
	courseRepo := repository.NewCourseRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	curriculumRepo := repository.NewCurriculumRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	slipRepo := repository.NewPaymentSlipRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Mailer: SendGrid in real deployments, console otherwise.
	var mail mailer.Mailer
	if cfg.Email.Enabled && cfg.Email.SendgridKey != "" {
		mail = mailer.NewSendgridMailer(cfg.Email.SendgridKey, cfg.Email.FromName, cfg.Email.FromAddress)
	} else {
		mail = mailer.NewConsoleMailer(logr)
	}

	metrics := service.NewMetricsService()
	notifications := service.NewNotificationService(mail, metrics, logr, cfg.Email.AdminEmail, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifications.Start(ctx)
	defer notifications.Stop()

	// Services.
	catalogCache := service.NewCatalogCacheHelper(cacheRepo, cfg.Catalog.CacheTTL)
	if redisClient == nil {
		catalogCache = nil
	}
	courseSvc := service.NewCourseService(courseRepo, catalogCache, validate, logr)
	instructorSvc := service.NewInstructorService(instructorRepo, validate, logr)
	curriculumSvc := service.NewCurriculumService(curriculumRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, notifications, logr)
	voucherSvc := service.NewVoucherService(enrollmentRepo, export.NewVoucherRenderer(cfg.Voucher.InstituteName), notifications, logr, cfg.Voucher)
	slipSvc := service.NewPaymentSlipService(slipRepo, enrollmentRepo, uploadStore, signer, notifications, logr, service.PaymentSlipServiceConfig{
		MaxFileSize:  cfg.Uploads.MaxFileSizeBytes,
		AllowedMIMEs: cfg.Uploads.AllowedMIMEs,
	})
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metrics))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.RouterDeps{
		Auth:        handler.NewAuthHandler(authSvc),
		Courses:     handler.NewCourseHandler(courseSvc, metrics),
		Instructors: handler.NewInstructorHandler(instructorSvc),
		Curriculum:  handler.NewCurriculumHandler(curriculumSvc),
		Enrollments: handler.NewEnrollmentHandler(enrollmentSvc, metrics),
		Vouchers:    handler.NewVoucherHandler(voucherSvc, metrics),
		Slips:       handler.NewPaymentSlipHandler(slipSvc, metrics),
		Metrics:     handler.NewMetricsHandler(metrics),
		AuthService: authSvc,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
