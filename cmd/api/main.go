package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/helwan-dev/smart-campus-api/internal/config"
	"github.com/helwan-dev/smart-campus-api/internal/database"
	"github.com/helwan-dev/smart-campus-api/internal/handler"
	"github.com/helwan-dev/smart-campus-api/internal/middleware"
	"github.com/helwan-dev/smart-campus-api/internal/observability"
	"github.com/helwan-dev/smart-campus-api/internal/repository"
	"github.com/helwan-dev/smart-campus-api/internal/router"
	"github.com/helwan-dev/smart-campus-api/internal/security"
	"github.com/helwan-dev/smart-campus-api/internal/service"
	"github.com/helwan-dev/smart-campus-api/pkg/storage"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	store, err := buildStorage(cfg, logger)
	if err != nil {
		log.Fatalf("failed to configure storage: %v", err)
	}

	observability.RegisterMetrics()

	validate := validator.New(validator.WithRequiredStructEnabled())
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	tokens := security.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)

	authService := service.NewAuthService(userRepo, hasher, tokens, validate, logger)
	courseService := service.NewCourseService(courseRepo, store, validate, cfg.MaxUploadMB, logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, courseRepo, redisClient, cfg.SessionTTL, logger)
	complaintService := service.NewComplaintService(complaintRepo, store, validate, logger)
	statsService := service.NewStatsService(userRepo, courseRepo, attendanceRepo, complaintRepo, redisClient, cfg.StatsCacheTTL, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	courseHandler := handler.NewCourseHandler(courseService, logger)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, logger)
	complaintHandler := handler.NewComplaintHandler(complaintService, logger)
	adminHandler := handler.NewAdminHandler(statsService, complaintService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		CourseHandler:     courseHandler,
		AttendanceHandler: attendanceHandler,
		ComplaintHandler:  complaintHandler,
		AdminHandler:      adminHandler,
		JWTMiddleware:     middleware.JWTProtected(tokens),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildStorage(cfg config.Config, logger zerolog.Logger) (storage.Storage, error) {
	if cfg.StorageDriver == "cloudinary" {
		return storage.NewCloudinary(storage.CloudinaryConfig{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
	}

	return storage.NewLocal(cfg.LocalStorageDir, cfg.LocalStorageBaseURL, logger)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
