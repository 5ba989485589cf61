package customers

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/repsphere/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	selectQ = `^SELECT\s+user_id\s+FROM\s+stripe_customers\s+WHERE\s+customer_id\s*=\s*\$1`
	linkQ   = `^INSERT\s+INTO\s+stripe_customers\s*\(customer_id,\s*user_id\)\s+VALUES.*ON\s+CONFLICT\s+\(customer_id\)\s+DO\s+UPDATE`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestUserID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(selectQ).WithArgs("cus_1").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1"))

		got, err := repo.UserID(context.Background(), "cus_1")
		require.NoError(t, err)
		assert.Equal(t, "u1", got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(selectQ).WithArgs("cus_x").WillReturnError(sql.ErrNoRows)

		_, err := repo.UserID(context.Background(), "cus_x")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(selectQ).WillReturnError(errors.New("boom"))

		_, err := repo.UserID(context.Background(), "cus_1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestLink(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(linkQ).WithArgs("cus_1", "u1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Link(context.Background(), "cus_1", "u1"))

	mock.ExpectExec(linkQ).WillReturnError(errors.New("boom"))
	assert.ErrorContains(t, repo.Link(context.Background(), "cus_1", "u1"), "db error")
	require.NoError(t, mock.ExpectationsWereMet())
}
