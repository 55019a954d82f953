package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kinoteka/online_cinema/pkg/auth"
	"github.com/kinoteka/online_cinema/services/files/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// one connection only: every pooled conn gets its own :memory: database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Movie{}))
	return &GormRepo{DB: db}
}

func TestGormRepo_MovieObjectKey(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	withVideo := models.Movie{Title: "Starfall", MovieURL: "movies/starfall.mp4"}
	require.NoError(t, r.DB.Create(&withVideo).Error)
	noVideo := models.Movie{Title: "Unreleased"}
	require.NoError(t, r.DB.Create(&noVideo).Error)

	key, err := r.MovieObjectKey(ctx, withVideo.ID)
	require.NoError(t, err)
	assert.Equal(t, "movies/starfall.mp4", key)

	_, err = r.MovieObjectKey(ctx, noVideo.ID)
	assert.ErrorIs(t, err, ErrNoVideo)

	_, err = r.MovieObjectKey(ctx, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGormRepo_ResolveUser(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	user := models.User{Username: "alice", Role: models.RoleAdmin}
	require.NoError(t, r.DB.Create(&user).Error)

	p, err := r.ResolveUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.True(t, p.IsAdmin())

	_, err = r.ResolveUser(ctx, 999)
	assert.ErrorIs(t, err, auth.ErrUnknownUser)
}
