package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kinoteka/online_cinema/services/catalog/internal/models"
	"github.com/kinoteka/online_cinema/services/catalog/internal/transport"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// one connection only: every pooled conn gets its own :memory: database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Movie{},
		&models.Genre{},
		&models.Actor{},
		&models.MovieActor{},
		&models.Favorite{},
		&models.WatchlistItem{},
		&models.User{},
	))

	return &GormRepo{DB: db}
}

func seedMovie(t *testing.T, r *GormRepo, title string, rating int, genres ...models.Genre) *models.Movie {
	t.Helper()
	movie := models.Movie{Title: title, Rating: rating, Duration: 120, Genres: genres}
	require.NoError(t, r.CreateMovie(context.Background(), &movie))
	return &movie
}

func TestGormRepo_MovieCRUD(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	drama := models.Genre{Name: "drama"}
	created := seedMovie(t, r, "The Long Night", 8, drama)
	require.NotZero(t, created.ID)

	got, err := r.GetMovie(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Long Night", got.Title)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, "drama", got.Genres[0].Name)

	newTitle := "The Longest Night"
	newRating := 9
	patched, err := r.PatchMovie(ctx, transport.PatchMovieRequest{
		Title:  &newTitle,
		Rating: &newRating,
	}, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Longest Night", patched.Title)
	assert.Equal(t, 9, patched.Rating)

	require.NoError(t, r.DeleteMovie(ctx, created.ID))

	_, err = r.GetMovie(ctx, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = r.DeleteMovie(ctx, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGormRepo_ListMovies_Filters(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	drama := models.Genre{Name: "drama"}
	comedy := models.Genre{Name: "comedy"}
	seedMovie(t, r, "Night Shift", 7, drama)
	m2 := seedMovie(t, r, "Day Shift", 6, comedy)
	seedMovie(t, r, "Midnight Run", 8, models.Genre{ID: m2.Genres[0].ID})

	total, items, err := r.ListMovies(ctx, MovieFilter{Title: "shift"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)

	total, items, err = r.ListMovies(ctx, MovieFilter{GenreID: m2.Genres[0].ID}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	total, items, err = r.ListMovies(ctx, MovieFilter{}, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, items, 2)
}

func TestGormRepo_SimilarMovies_TierOrdering(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	scifi := models.Genre{Name: "sci-fi"}
	base := seedMovie(t, r, "Starfall", 8, scifi)
	scifiID := base.Genres[0].ID

	// same genre, rating within 1: tier 1
	closeMatch := seedMovie(t, r, "Moonrise", 8, models.Genre{ID: scifiID})
	// same genre but rating off by 2: only qualifies for tier 2
	farGenre := seedMovie(t, r, "Nebula", 6, models.Genre{ID: scifiID})
	// no shared genre, rating within 2: tier 2
	noGenre := seedMovie(t, r, "Quiet Earth", 7, models.Genre{Name: "indie"})
	// rating too far off: excluded entirely
	seedMovie(t, r, "Slapstick", 3, models.Genre{Name: "comedy"})

	similar, err := r.SimilarMovies(ctx, base.ID, 10)
	require.NoError(t, err)
	require.Len(t, similar, 3)

	assert.Equal(t, closeMatch.ID, similar[0].ID)
	assert.Equal(t, 1, similar[0].Tier)

	// tier 2 entries follow, closest rating first
	assert.Equal(t, noGenre.ID, similar[1].ID)
	assert.Equal(t, farGenre.ID, similar[2].ID)

	// the movie itself never appears in its own recommendations
	for _, s := range similar {
		assert.NotEqual(t, base.ID, s.ID)
	}
}

func TestGormRepo_SimilarMovies_UnknownMovie(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.SimilarMovies(context.Background(), 999, 10)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGormRepo_Cast(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	movie := seedMovie(t, r, "Heist", 7)
	actor := models.Actor{Name: "Jo March"}
	require.NoError(t, r.CreateActor(ctx, &actor))

	require.NoError(t, r.SetCast(ctx, &models.MovieActor{
		MovieID: movie.ID, ActorID: actor.ID, RoleName: "The Driver",
	}))

	cast, err := r.MovieCast(ctx, movie.ID)
	require.NoError(t, err)
	require.Len(t, cast, 1)
	assert.Equal(t, "Jo March", cast[0].Name)
	assert.Equal(t, "The Driver", cast[0].RoleName)

	// re-adding the same actor updates the character name
	require.NoError(t, r.SetCast(ctx, &models.MovieActor{
		MovieID: movie.ID, ActorID: actor.ID, RoleName: "The Mechanic",
	}))
	cast, err = r.MovieCast(ctx, movie.ID)
	require.NoError(t, err)
	require.Len(t, cast, 1)
	assert.Equal(t, "The Mechanic", cast[0].RoleName)

	movies, err := r.Filmography(ctx, actor.ID)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, movie.ID, movies[0].ID)

	require.NoError(t, r.RemoveCast(ctx, movie.ID, actor.ID))
	assert.ErrorIs(t, r.RemoveCast(ctx, movie.ID, actor.ID), gorm.ErrRecordNotFound)
}

func TestGormRepo_DeleteActor_RemovesCastEntries(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	movie := seedMovie(t, r, "Heist", 7)
	actor := models.Actor{Name: "Jo March"}
	require.NoError(t, r.CreateActor(ctx, &actor))
	require.NoError(t, r.SetCast(ctx, &models.MovieActor{MovieID: movie.ID, ActorID: actor.ID}))

	require.NoError(t, r.DeleteActor(ctx, actor.ID))

	cast, err := r.MovieCast(ctx, movie.ID)
	require.NoError(t, err)
	assert.Empty(t, cast)
}

func TestGormRepo_FavoritesAndWatchlist(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	movie := seedMovie(t, r, "Starfall", 8)
	const userID = uint(42)

	require.NoError(t, r.AddFavorite(ctx, userID, movie.ID))
	// adding twice is a no-op
	require.NoError(t, r.AddFavorite(ctx, userID, movie.ID))

	favs, err := r.ListFavorites(ctx, userID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, movie.ID, favs[0].ID)

	// a different user sees an empty list
	favs, err = r.ListFavorites(ctx, userID+1)
	require.NoError(t, err)
	assert.Empty(t, favs)

	require.NoError(t, r.RemoveFavorite(ctx, userID, movie.ID))
	assert.ErrorIs(t, r.RemoveFavorite(ctx, userID, movie.ID), gorm.ErrRecordNotFound)

	// favoriting a movie that does not exist fails up front
	assert.ErrorIs(t, r.AddFavorite(ctx, userID, 999), gorm.ErrRecordNotFound)

	require.NoError(t, r.AddToWatchlist(ctx, userID, movie.ID))
	watch, err := r.ListWatchlist(ctx, userID)
	require.NoError(t, err)
	require.Len(t, watch, 1)

	require.NoError(t, r.RemoveFromWatchlist(ctx, userID, movie.ID))
	watch, err = r.ListWatchlist(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, watch)
}
