package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flackattacker/trainertracker-sub001/internal/api"
	"github.com/flackattacker/trainertracker-sub001/internal/config"
	"github.com/flackattacker/trainertracker-sub001/internal/logger"
	"github.com/flackattacker/trainertracker-sub001/internal/repository/mongo"
	"github.com/flackattacker/trainertracker-sub001/internal/service"
	"github.com/flackattacker/trainertracker-sub001/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Trainer Tracker API
// @version 1.0
// @description API for managing trainer availability, session bookings, training programs, and progression planning.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("could not load config: " + err.Error())
	}

	log := logger.Init(cfg.Server.Env)
	defer log.Sync()
	log.Info("starting trainer tracker server", zap.String("env", cfg.Server.Env))

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatal("could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		log.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info("database connection established", zap.String("db", cfg.Database.Name))

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureAvailabilityIndexes(ctx, appDB.Collection("weekly_availability"), appDB.Collection("availability_exceptions"))
		mongo.EnsureSessionIndexes(ctx, appDB.Collection("sessions"))
		mongo.EnsureProgramIndexes(ctx, appDB.Collection("programs"))
		mongo.EnsurePerformanceIndexes(ctx, appDB.Collection("exercise_performance"))
		mongo.EnsurePhotoIndexes(ctx, appDB.Collection("progress_photos"))
		log.Info("index creation process completed")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatal("failed to initialize S3 storage", zap.Error(err))
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	availRepo := mongo.NewMongoAvailabilityRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	programRepo := mongo.NewMongoProgramRepository(appDB)
	perfRepo := mongo.NewMongoPerformanceRepository(appDB)
	photoRepo := mongo.NewMongoPhotoRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	trainerService := service.NewTrainerService(userRepo, perfRepo)
	availabilityService := service.NewAvailabilityService(availRepo, sessionRepo)
	bookingService := service.NewBookingService(sessionRepo, trainerService)
	programService := service.NewProgramService(programRepo, perfRepo, userRepo, trainerService)
	clientService := service.NewClientService(userRepo, photoRepo, perfRepo, fileStorage)

	// --- Initialize Gin Engine ---
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.JWT.Secret,
		authService, trainerService, availabilityService, bookingService, programService, clientService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen and serve error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exiting")
}
