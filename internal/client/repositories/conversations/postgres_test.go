package conversations

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/repsphere/internal/client/models"
	"github.com/dmitrijs2005/repsphere/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

const insertQ = `(?s)^\s*INSERT\s+INTO\s+conversations\b.*RETURNING\s+created_at,\s*updated_at$`

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(insertQ).
		WithArgs("c1", "u1", "call.mp3", "https://cdn/call.mp3", int64(1024), "discovery", "socratic", "analyzing").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	c := &models.Conversation{
		ID: "c1", UserID: "u1", Filename: "call.mp3", FileURL: "https://cdn/call.mp3", FileSize: 1024,
		MeetingType: "discovery", Approach: "socratic", Status: models.ConversationStatusAnalyzing,
	}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, now, c.CreatedAt)
	assert.Equal(t, now, c.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("boom"))

	err := repo.Create(context.Background(), &models.Conversation{ID: "c1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert conversation")
}

func TestUpdateStatus(t *testing.T) {
	q := `^UPDATE\s+conversations\s+SET\s+status\s*=\s*\$2,\s*error_message\s*=\s*\$3.*WHERE\s+id\s*=\s*\$1$`

	t.Run("ok", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(q).WithArgs("c1", "error", "analysis timed out").WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateStatus(context.Background(), "c1", models.ConversationStatusError, "analysis timed out"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(q).WithArgs("missing", "completed", "").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), "missing", models.ConversationStatusCompleted, "")
		require.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(q).WillReturnError(errors.New("conn reset"))

		err := repo.UpdateStatus(context.Background(), "c1", models.ConversationStatusCompleted, "")
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestGetByID(t *testing.T) {
	q := `(?s)^\s*SELECT\s+id,\s*user_id,.*FROM\s+conversations\s+WHERE\s+id\s*=\s*\$1$`
	cols := []string{"id", "user_id", "filename", "file_url", "file_size", "meeting_type", "approach", "status", "error_message", "created_at", "updated_at"}
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("c1").WillReturnRows(sqlmock.NewRows(cols).
			AddRow("c1", "u1", "a.wav", "https://x/a.wav", int64(7), "demo", "spin", "completed", "", now, now))

		c, err := repo.GetByID(context.Background(), "c1")
		require.NoError(t, err)
		assert.Equal(t, models.ConversationStatusCompleted, c.Status)
		assert.Equal(t, "a.wav", c.Filename)
		assert.Equal(t, int64(7), c.FileSize)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("nope").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), "nope")
		require.ErrorIs(t, err, common.ErrorNotFound)
	})
}
