package main

import (
	"alcyxob/triplan/internal/api"
	"alcyxob/triplan/internal/app"
	"alcyxob/triplan/internal/config"
	"alcyxob/triplan/internal/pkg/logger"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title Triplan API
// @version 1.0
// @description Triathlon training plans: generation, editing, workout logging and CSV import.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	logg, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		log.Fatalf("FATAL: Could not init logger: %v", err)
	}
	defer logg.Sync()
	logg.Info("starting triplan server", "address", cfg.Server.Address, "mode", cfg.Server.Mode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	application, err := app.New(ctx, cfg, logg)
	cancel()
	if err != nil {
		logg.Fatal("startup failed", "error", err)
	}
	defer application.Close()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, api.Services{
		Auth:     application.Auth,
		Plans:    application.Plans,
		Editor:   application.Editor,
		Workouts: application.Workouts,
		Imports:  application.Imports,
		Profiles: application.Profiles,
		Chat:     application.Chat,
	}, cfg.Server.AllowedOrigins, logg)

	server := &http.Server{
		Addr:        cfg.Server.Address,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// Plan generation blocks on the generator for up to its timeout.
		WriteTimeout: cfg.Generator.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("ListenAndServe error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logg.Error("server forced to shutdown", "error", err)
	}
	logg.Info("server exiting")
}
