package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-medical-dispatch/config"
	deliveryHttp "go-medical-dispatch/internal/delivery/http"
	"go-medical-dispatch/internal/delivery/http/handler"
	"go-medical-dispatch/internal/delivery/http/middleware"
	"go-medical-dispatch/internal/infrastructure/cache"
	"go-medical-dispatch/internal/infrastructure/database"
	"go-medical-dispatch/internal/repository"
	"go-medical-dispatch/internal/service"
	"go-medical-dispatch/internal/usecase"
	"go-medical-dispatch/pkg/jwt"
	"go-medical-dispatch/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	if err := database.RunMigrations(cfg.DB); err != nil {
		return nil, err
	}

	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.Server = initializeServer(cfg, db, redisClient)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *http.Server {
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	log := logrus.StandardLogger()

	// Repositories
	userRepo := repository.NewUserRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	doctorServiceRepo := repository.NewDoctorServiceRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	reportRepo := repository.NewAppointmentReportRepository()
	assignmentRepo := repository.NewAssignmentRepository()
	sosRepo := repository.NewSOSRepository()
	invitationRepo := repository.NewSOSInvitationRepository()

	// Triage: without an API key the live classifier stays off and the
	// deterministic fallback serves every call.
	var classifier service.Classifier
	if cfg.AI.APIKey != "" {
		classifier = service.NewOpenAIClassifier(cfg.AI)
	} else {
		logrus.Warn("AI API key not set, triage runs on heuristic fallback only")
	}
	triageService := service.NewTriageService(classifier, log)

	// Usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, doctorProfileRepo, patientProfileRepo, jwtService, redisClient)
	searchUsecase := usecase.NewDoctorSearchUsecase(db, log, doctorProfileRepo, patientProfileRepo, cfg.Dispatch.DefaultSearchKm)
	profileUsecase := usecase.NewDoctorProfileUsecase(db, log, doctorProfileRepo, doctorServiceRepo, userRepo)
	appointmentUsecase := usecase.NewPatientAppointmentUsecase(db, log, appointmentRepo, patientProfileRepo, triageService)
	assignmentUsecase := usecase.NewAssignmentUsecase(db, log, assignmentRepo, appointmentRepo, doctorProfileRepo)
	closeUsecase := usecase.NewAppointmentCloseUsecase(db, log, appointmentRepo, reportRepo, assignmentRepo, doctorProfileRepo, doctorServiceRepo, triageService)
	sosUsecase := usecase.NewSOSUsecase(db, log, sosRepo, invitationRepo, doctorProfileRepo, patientProfileRepo, triageService, cfg.Dispatch.DefaultSOSRadiusKm, cfg.Dispatch.InvitationFanoutCap)
	triageUsecase := usecase.NewTriageUsecase(log, triageService)

	// Handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	doctorHandler := handler.NewDoctorHandler(searchUsecase, profileUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	assignmentHandler := handler.NewAssignmentHandler(assignmentUsecase, closeUsecase, customValidator)
	sosHandler := handler.NewSOSHandler(sosUsecase, customValidator)
	triageHandler := handler.NewTriageHandler(triageUsecase, customValidator)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	router := deliveryHttp.NewRouter(
		authHandler,
		doctorHandler,
		appointmentHandler,
		assignmentHandler,
		sosHandler,
		triageHandler,
		authMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.App.Port),
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
