package testimonials

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM testimonials").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "text", "rating", "anonymous", "created_at"}).
			AddRow(int64(2), "Asha Rao", "Wonderful experience", 5, false, created).
			AddRow(int64(1), "Anonymous", "Very helpful", 4, true, created.Add(-time.Hour)))

	repo := NewRepository(mock)
	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].ID)
	assert.True(t, items[1].Anonymous)
}

func TestRepositoryInsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO testimonials").
		WithArgs("Asha Rao", "Wonderful experience", 5, false).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))

	repo := NewRepository(mock)
	item, err := repo.Insert(context.Background(), SubmitRequest{
		Name:   "Asha Rao",
		Text:   "Wonderful experience",
		Rating: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), item.ID)
	assert.Equal(t, "Asha Rao", item.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryInsertAnonymousMasksName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO testimonials").
		WithArgs("Anonymous", "Quiet but effective", 4, true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(8), time.Now()))

	repo := NewRepository(mock)
	item, err := repo.Insert(context.Background(), SubmitRequest{
		Name:      "Asha Rao",
		Text:      "Quiet but effective",
		Rating:    4,
		Anonymous: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", item.Name)
}

func TestRepositoryDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM testimonials").
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	repo := NewRepository(mock)
	assert.NoError(t, repo.Delete(context.Background(), 7))
}

func TestRepositoryDeleteNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM testimonials").
		WithArgs(int64(99)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewRepository(mock)
	assert.ErrorIs(t, repo.Delete(context.Background(), 99), ErrNotFound)
}

func TestRepositoryListError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM testimonials").
		WillReturnError(errors.New("connection refused"))

	repo := NewRepository(mock)
	_, err = repo.List(context.Background())
	assert.Error(t, err)
}
