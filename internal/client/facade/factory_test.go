package facade

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/repsphere/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SelectsBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	cfg.Backend = config.BackendMock
	f, closeFn, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &Mock{}, f)
	require.NoError(t, closeFn())

	cfg.Backend = config.BackendLive
	f, closeFn, err = New(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &Live{}, f)
	require.NoError(t, closeFn())

	cfg.Backend = "carrier-pigeon"
	_, _, err = New(context.Background(), cfg, nil)
	require.Error(t, err)
}

func TestNew_UnreachableDatabaseDegrades(t *testing.T) {
	orig := openRecordsDB
	t.Cleanup(func() { openRecordsDB = orig })
	openRecordsDB = func(ctx context.Context, dsn string) (*sql.DB, error) {
		return nil, errors.New("connection refused")
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = "postgres://nowhere"

	f, _, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)

	live := f.(*Live)
	assert.Nil(t, live.db)
}
