package facade

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/repsphere/internal/client/api"
	"github.com/dmitrijs2005/repsphere/internal/client/config"
	"github.com/dmitrijs2005/repsphere/internal/client/repositories/repomanager"
	"github.com/dmitrijs2005/repsphere/internal/client/storage"
	"github.com/dmitrijs2005/repsphere/internal/logging"
)

// openRecordsDB is a seam for tests.
var openRecordsDB = repomanager.Open

// New builds the Facade selected by cfg.Backend. The returned close func
// releases the records database, if one was opened. An unreachable records
// database is logged and the facade runs without it.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (Facade, func() error, error) {
	noop := func() error { return nil }
	if log == nil {
		log = logging.Nop()
	}

	switch cfg.Backend {
	case config.BackendMock:
		return NewMock(), noop, nil
	case config.BackendLive, "":
	default:
		return nil, noop, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	client := api.New(cfg.APIBaseURL, &http.Client{})
	store := storage.NewS3Store(storage.Options{
		Endpoint:      cfg.S3Endpoint,
		Region:        cfg.S3Region,
		Bucket:        cfg.S3Bucket,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
		PresignTTL:    cfg.PresignTTL,
	}, nil)
	if !store.Configured() {
		log.Warn(ctx, "object storage is not configured; uploads will fail")
	}

	var (
		db    *sql.DB
		repos repomanager.RepositoryManager
	)
	closeFn := noop
	if cfg.DatabaseDSN == "" {
		log.Warn(ctx, "records database is not configured; conversation records are disabled")
	} else {
		var err error
		db, err = openRecordsDB(ctx, cfg.DatabaseDSN)
		if err == nil {
			rm := repomanager.NewPostgresRepositoryManager()
			if err = rm.RunMigrations(ctx, db); err == nil {
				repos = rm
				closeFn = db.Close
			} else {
				_ = db.Close()
			}
		}
		if err != nil {
			log.Warn(ctx, "records database unavailable; continuing without it", "error", err)
			db = nil
		}
	}

	return NewLive(client, store, db, repos, cfg.AnalysisEndpoint, log), closeFn, nil
}
