package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/macrolens/intake/config"
	"github.com/macrolens/intake/internal/app"
	"github.com/macrolens/intake/internal/delivery/cli"
	"github.com/macrolens/intake/internal/domain"
	"github.com/macrolens/intake/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Log.Level)

	// Ctrl-D ends the session with the final summary.
	ctx := context.Background()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "store", cfg.Store.Path, "error", err)
		if errors.Is(err, domain.ErrStoreNotFound) {
			logger.Info("set INTAKE_STORE_CREATE=true to start with an empty catalog")
		}
		os.Exit(1)
	}
	defer a.Close()

	session := cli.NewSession(a.Resolver, a.Suggester, os.Stdin, os.Stdout, logger)
	if _, err := session.Run(ctx); err != nil {
		logger.Error("session ended", "error", err)
		a.Close()
		os.Exit(1)
	}
}
