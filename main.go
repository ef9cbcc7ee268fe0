// File: timeline/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"

	"timeline/config"
	"timeline/database"
	scheduleRepo "timeline/database/repository/schedule"
	"timeline/handlers"
	"timeline/middleware"
	"timeline/routes"
	"timeline/services/schedule"
	"timeline/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitRedis()
	utils.FirebaseInit()

	// Pick the document store backend.
	var repo scheduleRepo.ScheduleRepository
	var mongoClient *mongo.Client
	switch config.AppConfig.StoreBackend {
	case "mongo":
		database.InitDB()
		mongoClient = database.MongoClient
		repo = scheduleRepo.NewMongoScheduleRepo()
	default:
		repo = scheduleRepo.NewFirestoreScheduleRepo()
	}

	utils.StartHealthMonitor([]*redis.Client{utils.CacheClient, utils.AuthCacheClient}, mongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Services and handlers.
	scheduleService := schedule.NewDefaultScheduleService(repo, utils.GetCacheClient())
	defer scheduleService.Close()

	scheduleHandler := handlers.NewScheduleHandler(scheduleService)

	// Register routes.
	routes.RegisterRoutes(router, scheduleHandler)

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
