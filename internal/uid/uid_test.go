package uid

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/journalkeeper/internal/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

const insertIDQuery = `INSERT\s+INTO\s+ids`

func TestGenerate_RetriesOnCollision(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	g := NewGenerator(repomanager.NewPostgresRepositoryManager())

	// first candidate collides, second is accepted
	mock.ExpectExec(insertIDQuery).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(insertIDQuery).WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := g.Generate(context.Background(), db)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerate_GivesUpAfterMaxAttempts(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	g := NewGenerator(repomanager.NewPostgresRepositoryManager())

	for i := 0; i < maxAttempts; i++ {
		mock.ExpectExec(insertIDQuery).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	_, err = g.Generate(context.Background(), db)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
