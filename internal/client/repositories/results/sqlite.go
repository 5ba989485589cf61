package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/repsphere/internal/client/migrations/cache"
	"github.com/dmitrijs2005/repsphere/internal/client/models"
	"github.com/dmitrijs2005/repsphere/internal/common"
	"github.com/dmitrijs2005/repsphere/internal/dbx"
	"github.com/dmitrijs2005/repsphere/internal/filex"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const dbFileName = "results.db"

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// RunMigrations applies the embedded cache schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(cache.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the cache database inside dataDir and
// migrates it. An empty dataDir means the working directory.
func Open(ctx context.Context, dataDir string) (*sql.DB, error) {
	base, name := "", dataDir
	if filepath.IsAbs(dataDir) {
		base, name = dataDir, ""
	}
	dir, err := filex.EnsureSubDir(base, name)
	if err != nil {
		return nil, err
	}
	return OpenDSN(ctx, filepath.Join(dir, dbFileName))
}

// OpenDSN opens the cache at an explicit sqlite DSN.
func OpenDSN(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Save inserts e or replaces the row with the same id.
func (r *SQLiteRepository) Save(ctx context.Context, e *models.ResultEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO results (id, conversation_id, filename, file_url, result, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			conversation_id = excluded.conversation_id,
			filename = excluded.filename,
			file_url = excluded.file_url,
			result = excluded.result,
			completed_at = excluded.completed_at
	`, e.ID, e.ConversationID, e.Filename, e.FileURL, []byte(e.Result), e.CompletedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save result[%s]: %w", e.ID, err)
	}
	return nil
}

// Get looks a result up by its id or by its conversation id.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.ResultEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, conversation_id, filename, file_url, result, completed_at
		FROM results WHERE id = ? OR conversation_id = ?
		ORDER BY completed_at DESC LIMIT 1`, id, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result[%s]: %w", id, err)
	}
	return e, nil
}

// List returns the newest results first. limit <= 0 means no limit.
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]*models.ResultEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, conversation_id, filename, file_url, result, completed_at
		FROM results ORDER BY completed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var out []*models.ResultEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate result rows: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.ResultEntry, error) {
	e := &models.ResultEntry{}
	var doc []byte
	if err := s.Scan(&e.ID, &e.ConversationID, &e.Filename, &e.FileURL, &doc, &e.CompletedAt); err != nil {
		return nil, err
	}
	e.Result = models.AnalysisResult(doc)
	return e, nil
}
