package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/repsphere/internal/logging"
	"github.com/dmitrijs2005/repsphere/internal/server"
	"github.com/dmitrijs2005/repsphere/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger, err := logging.New(logging.Options{Backend: cfg.LogBackend, Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
