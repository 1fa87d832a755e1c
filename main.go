package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweater-ventures/courtside/api"
	"github.com/sweater-ventures/courtside/app"
	"github.com/sweater-ventures/courtside/config"
	"github.com/sweater-ventures/courtside/middleware"
)

func main() {
	config.InitLogging()
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Unable to load configuration!!!", err)
	}

	application, err := app.NewApp(appConfig)
	if err != nil {
		log.Fatal("Unable to initialize application", err)
	}
	defer application.Close()

	slog.Debug("Configuration",
		"DevMode", appConfig.DevMode,
		"LogLevel", appConfig.LogLevel,
		"PreloadDebounce", appConfig.PreloadDebounce,
		"FetchTimeout", appConfig.FetchTimeout,
	)

	router := http.NewServeMux()
	api.AddApis(application, router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", appConfig.Port),
		Handler: middleware.AllStandardMiddleware(application, router),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The provider follows sign-in/sign-out for the life of the process.
	providerDone := make(chan struct{})
	go func() {
		defer close(providerDone)
		application.Provider.Run(ctx)
	}()

	go func() {
		slog.Info("Starting Courtside", "port", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}
	<-providerDone

	slog.Info("Shutdown complete")
}
