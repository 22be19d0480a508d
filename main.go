// File: schedly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schedly/config"
	"schedly/cron"
	"schedly/database"
	appointmentRepo "schedly/database/repository/appointment"
	scheduleRepo "schedly/database/repository/schedule"
	"schedly/handlers"
	"schedly/middleware"
	"schedly/routes"
	"schedly/services/notification"
	"schedly/services/realtime"
	"schedly/services/scheduling"
	"schedly/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()
	if err := apptRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure appointment indexes: %v", err)
	}
	schedRepo := scheduleRepo.NewMongoScheduleRepo()
	if err := schedRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure schedule indexes: %v", err)
	}

	// collaborators.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer asynqClient.Close()

	dispatcher := notification.NewAsynqDispatcher(asynqClient)
	broadcaster := realtime.NewRedisBroadcaster(utils.GetCacheClient())

	// the scheduling engine.
	engine := scheduling.NewDefaultSchedulingEngine(apptRepo, schedRepo, dispatcher, broadcaster)
	engine.Granularity = config.AppConfig.SlotGranularityMin
	engine.ReminderOffsets = config.AppConfig.ReminderOffsetsMin

	cron.InitReminderWorker()

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Appointments: handlers.NewAppointmentHandler(engine, logger),
		Availability: handlers.NewAvailabilityHandler(engine, utils.GetCacheClient(), logger),
	}
	routes.RegisterRoutes(router, handlerBundle)

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
