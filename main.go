// File: carbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"carbook/config"
	"carbook/database"
	reservationRepo "carbook/database/repository/reservation"
	sessionRepo "carbook/database/repository/session"
	vehicleRepo "carbook/database/repository/vehicle"
	"carbook/handlers"
	"carbook/middleware"
	"carbook/routes"
	"carbook/services/chat"
	"carbook/services/conversation"
	"carbook/services/reservation"
	"carbook/services/session"
	"carbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// openStorage builds the vehicle and reservation repositories for STORAGE_DRIVER.
func openStorage(logger *zap.Logger) (vehicleRepo.VehicleRepository, reservationRepo.ReservationRepository) {
	driver := strings.ToLower(config.AppConfig.StorageDriver)
	switch driver {
	case "mongo", "":
		database.InitDB()
		db := database.MongoDatabase()

		vehicles := vehicleRepo.NewMongoVehicleRepo(db)
		if err := vehicles.EnsureIndexes(); err != nil {
			logger.Fatal("main: failed to create vehicle indexes", zap.Error(err))
		}
		reservations := reservationRepo.NewMongoReservationRepo(db)
		if err := reservations.EnsureIndexes(); err != nil {
			logger.Fatal("main: failed to create reservation indexes", zap.Error(err))
		}
		return vehicles, reservations

	case "postgres", "sqlite":
		db, err := database.OpenGorm(driver, config.AppConfig.SQLDSN)
		if err != nil {
			logger.Fatal("main: failed to open sql database", zap.String("driver", driver), zap.Error(err))
		}
		vehicles, err := vehicleRepo.NewGormVehicleRepo(db)
		if err != nil {
			logger.Fatal("main: failed to prepare vehicles table", zap.Error(err))
		}
		reservations, err := reservationRepo.NewGormReservationRepo(db)
		if err != nil {
			logger.Fatal("main: failed to prepare reservations table", zap.Error(err))
		}
		return vehicles, reservations

	case "memory":
		return vehicleRepo.NewMemoryVehicleRepo(), reservationRepo.NewMemoryReservationRepo()
	}

	logger.Fatal("main: unsupported STORAGE_DRIVER", zap.String("driver", driver))
	return nil, nil
}

// openSessionStore builds the session store for SESSION_STORE.
func openSessionStore(logger *zap.Logger) sessionRepo.SessionStore {
	switch strings.ToLower(config.AppConfig.SessionStore) {
	case "redis", "":
		return sessionRepo.NewRedisSessionStore(utils.GetSessionCacheClient())
	case "memory":
		return sessionRepo.NewMemorySessionStore()
	}
	logger.Fatal("main: unsupported SESSION_STORE", zap.String("store", config.AppConfig.SessionStore))
	return nil
}

func seedVehicles(ctx context.Context, logger *zap.Logger, repo vehicleRepo.VehicleRepository) {
	catalogue, err := vehicleRepo.DefaultCatalogue()
	if err != nil {
		logger.Fatal("main: failed to load vehicle catalogue", zap.Error(err))
	}
	if err := repo.InsertMissing(ctx, catalogue); err != nil {
		logger.Fatal("main: failed to seed vehicles", zap.Error(err))
	}
	logger.Info("Vehicle catalogue checked", zap.Int("vehicles", len(catalogue)))
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stopMonitors := context.WithCancel(context.Background())
	defer stopMonitors()

	// repositories.
	vehicles, reservations := openStorage(logger)
	sessionStore := openSessionStore(logger)
	if config.AppConfig.SeedVehicles || config.AppConfig.StorageDriver == "memory" {
		seedVehicles(rootCtx, logger, vehicles)
	}

	policy := conversation.DefaultPolicy()
	policy.MaxUnknownTurns = config.AppConfig.MaxUnknownTurns
	clearPolicy, err := conversation.ParseClearPolicy(config.AppConfig.ConflictClearPolicy)
	if err != nil {
		logger.Fatal("main: invalid CONFLICT_CLEAR_POLICY", zap.Error(err))
	}
	policy.OnConflict = clearPolicy

	// services.
	sessionManager := session.NewSessionManager(sessionStore, config.Session())
	reservationService := reservation.NewReservationService(reservations, vehicles, config.AppConfig.StorageTimeout)
	chatService := chat.NewChatService(sessionManager, reservationService, conversation.New(policy))

	utils.StartHealthMonitor(rootCtx, map[string]utils.Pinger{
		"sessions":     sessionManager,
		"reservations": reservationService,
	}, 30*time.Second)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlers.NewHandlerBundle(sessionManager, chatService, reservationService))

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stopMonitors()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if database.MongoClient != nil {
		if err := database.MongoClient.Disconnect(ctx); err != nil {
			logger.Warn("main: mongo disconnect failed", zap.Error(err))
		}
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
