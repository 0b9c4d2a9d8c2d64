package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/macrolens/intake/config"
	"github.com/macrolens/intake/internal/app"
	httpDelivery "github.com/macrolens/intake/internal/delivery/http"
	"github.com/macrolens/intake/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Log.Level)
	logger.Info("starting intake server",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"store", cfg.Store.Type,
		"path", cfg.Store.Path)

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	handler := httpDelivery.NewHandler(a.Resolver, a.Suggester, logger)
	router := httpDelivery.SetupRouter(cfg, handler)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
