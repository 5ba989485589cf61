package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/repsphere/internal/client/auth"
	"github.com/dmitrijs2005/repsphere/internal/client/cli"
	"github.com/dmitrijs2005/repsphere/internal/client/config"
	"github.com/dmitrijs2005/repsphere/internal/client/controller"
	"github.com/dmitrijs2005/repsphere/internal/client/facade"
	"github.com/dmitrijs2005/repsphere/internal/client/repositories/results"
	"github.com/dmitrijs2005/repsphere/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger, err := logging.New(logging.Options{Backend: cfg.LogBackend, Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("%v", err)
	}

	f, closeFacade, err := facade.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() {
		if err := closeFacade(); err != nil {
			logger.Warn(ctx, "closing backend", "error", err)
		}
	}()

	var history results.Repository
	db, err := results.Open(ctx, cfg.DataDir)
	if err != nil {
		logger.Warn(ctx, "local history unavailable", "data_dir", cfg.DataDir, "error", err)
	} else {
		defer db.Close()
		history = results.NewSQLiteRepository(db)
	}

	session := auth.NewSession(f, logger)
	ctrl := controller.New(f, session, history, logger, controller.Options{
		MeetingType:     cfg.MeetingType,
		Approach:        cfg.Approach,
		AnalysisTimeout: cfg.AnalysisTimeout,
	})

	app := cli.NewApp(cfg, session, ctrl, history, logger)
	app.Run(ctx)

}
