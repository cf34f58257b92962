package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFollowRepository_Follow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	t.Run("Creates new edge", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "follows"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		created, err := repo.Follow(ctx, 1, 2)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Existing edge is a no-op", func(t *testing.T) {
		// ON CONFLICT DO NOTHING returns no rows for the duplicate.
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "follows"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectCommit()

		created, err := repo.Follow(ctx, 1, 2)
		require.NoError(t, err)
		assert.False(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFollowRepository_IsFollowing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	t.Run("Edge present", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "follower_id", "followee_id"}).AddRow(1, 1, 2)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "follows" WHERE follower_id = $1 AND followee_id = $2`)).
			WithArgs(1, 2, 1).
			WillReturnRows(rows)

		following, err := repo.IsFollowing(ctx, 1, 2)
		require.NoError(t, err)
		assert.True(t, following)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Edge absent", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "follows" WHERE follower_id = $1 AND followee_id = $2`)).
			WithArgs(1, 3, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		following, err := repo.IsFollowing(ctx, 1, 3)
		require.NoError(t, err)
		assert.False(t, following)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFollowRepository_Unfollow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "follows" WHERE follower_id = $1 AND followee_id = $2`)).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Unfollow(ctx, 1, 2)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
