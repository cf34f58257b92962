package repository

import (
	"context"
	"testing"

	"auroric/internal/cache"
	"auroric/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Follow{}))
	return db
}

func withMiniredis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	old := cache.GetClient()
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(old) })
}

func TestUserRepository_UpdateKeepsPasswordAfterCacheHit(t *testing.T) {
	withMiniredis(t)
	db := setupSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Username:    "alice",
		DisplayName: "Alice",
		Email:       "alice@example.com",
		Password:    "bcrypt-hash",
	}
	require.NoError(t, repo.Create(ctx, user))

	// First read populates the cache, second is served from it; the
	// cached copy comes back without the password hash.
	_, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	cached, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cached.Password)

	cached.Bio = "updated bio"
	require.NoError(t, repo.Update(ctx, cached))

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "bcrypt-hash", stored.Password)
	assert.Equal(t, "updated bio", stored.Bio)
}

func TestUserRepository_UpdateWritesNonEmptyPassword(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Username:    "bob",
		DisplayName: "Bob",
		Email:       "bob@example.com",
		Password:    "old-hash",
	}
	require.NoError(t, repo.Create(ctx, user))

	user.Password = "new-hash"
	require.NoError(t, repo.Update(ctx, user))

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "new-hash", stored.Password)
}
