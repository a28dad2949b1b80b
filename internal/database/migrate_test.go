package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles(t *testing.T) {
	up, err := migrationFiles(migrationsFS, "migrations/oracle", Up)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"000001_create_articles.up.sql",
		"000002_index_articles_created_at.up.sql",
	}, up)

	down, err := migrationFiles(migrationsFS, "migrations/oracle", Down)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"000002_index_articles_created_at.down.sql",
		"000001_create_articles.down.sql",
	}, down)

	pg, err := migrationFiles(migrationsFS, "migrations/postgres", Up)
	require.NoError(t, err)
	assert.Len(t, pg, 2)
}

func TestRunScriptMigrations(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mockDB.Close()

	t.Run("executes in order", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE articles")).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX idx_articles_created_at")).WillReturnResult(sqlmock.NewResult(0, 0))

		err := runScriptMigrations(context.Background(), mockDB, migrationsFS, "migrations/oracle", Up)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops on first failure", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE articles")).WillReturnError(errors.New("ORA-01031: insufficient privileges"))

		err := runScriptMigrations(context.Background(), mockDB, migrationsFS, "migrations/oracle", Up)
		assert.ErrorContains(t, err, "000001_create_articles.up.sql")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLDriverName(t *testing.T) {
	tests := map[string]string{
		"":           "oracle",
		"oracle":     "oracle",
		"Postgres":   "pgx",
		"postgresql": "pgx",
		"pgx":        "pgx",
	}
	for in, want := range tests {
		got, err := SQLDriverName(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := SQLDriverName("mysql")
	assert.Error(t, err)
}
