package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arivanan0218/hospital-management-system-sub006/config"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/admission"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/api"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/db"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/discharge"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/lifecycle"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/registry"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/store"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/turnover"
)

func main() {
	logger := log.New(os.Stdout, "hospitald ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	reg := registry.New(gormDB)
	lc := lifecycle.NewManager(gormDB, cfg.Turnover.DefaultCleaning)
	sweeper := turnover.NewSweeper(gormDB, lc, cfg.Turnover.SweepInterval, cfg.Turnover.Enabled)
	planner := admission.NewPlanner(gormDB, appStore, reg, lc)
	discharger := discharge.NewCoordinator(gormDB, appStore, lc, sweeper)

	// Run the turnover sweeper in the background.
	go sweeper.Run(ctx)

	handler := api.NewHandler(appStore, reg, lc, planner, discharger)
	router := api.NewRouter(handler, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
