package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/kinoteka/online_cinema/pkg/events"
	"github.com/kinoteka/online_cinema/pkg/logging"
	"github.com/kinoteka/online_cinema/services/catalog/internal/models"
	"github.com/kinoteka/online_cinema/services/catalog/internal/repo"
	"github.com/kinoteka/online_cinema/services/catalog/internal/search"
	"github.com/kinoteka/online_cinema/services/catalog/internal/transport"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrSearchUnavailable = errors.New("search unavailable")
)

const SimilarLimit = 10

type CatalogService struct {
	Repo     *repo.GormRepo
	Index    *search.Index
	Producer *events.Producer
}

func (s *CatalogService) GetMovie(ctx context.Context, id uint) (*models.Movie, error) {
	return s.Repo.GetMovie(ctx, id)
}

func (s *CatalogService) ListMovies(ctx context.Context, f repo.MovieFilter, offset, limit int) (int64, []models.Movie, error) {
	return s.Repo.ListMovies(ctx, f, offset, limit)
}

func (s *CatalogService) CreateMovie(ctx context.Context, req transport.CreateMovieRequest) (*models.Movie, error) {
	if err := validateMovie(req.Title, req.Rating, req.Duration); err != nil {
		return nil, err
	}

	movie := models.Movie{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		ReleaseDate: req.ReleaseDate,
		Duration:    req.Duration,
		Rating:      req.Rating,
		MovieURL:    req.MovieURL,
		PosterURL:   req.PosterURL,
		TrailerURL:  req.TrailerURL,
		BackdropURL: req.BackdropURL,
	}
	for _, gid := range req.GenreIDs {
		movie.Genres = append(movie.Genres, models.Genre{ID: gid})
	}

	if err := s.Repo.CreateMovie(ctx, &movie); err != nil {
		return nil, err
	}

	s.indexMovie(ctx, &movie)
	s.publish(ctx, "movie_created", movie.ID)
	return &movie, nil
}

func (s *CatalogService) PatchMovie(ctx context.Context, req transport.PatchMovieRequest, id uint) (*models.Movie, error) {
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 10) {
		return nil, ErrValidation
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, ErrValidation
	}
	if req.Duration != nil && *req.Duration <= 0 {
		return nil, ErrValidation
	}

	movie, err := s.Repo.PatchMovie(ctx, req, id)
	if err != nil {
		return nil, err
	}

	s.indexMovie(ctx, movie)
	s.publish(ctx, "movie_updated", movie.ID)
	return movie, nil
}

func (s *CatalogService) DeleteMovie(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteMovie(ctx, id); err != nil {
		return err
	}

	if s.Index != nil {
		if err := s.Index.DeleteMovie(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_delete_failed", "movie_id", id, "error", err)
		}
	}
	s.publish(ctx, "movie_deleted", id)
	return nil
}

func (s *CatalogService) SimilarMovies(ctx context.Context, id uint) ([]repo.SimilarMovie, error) {
	return s.Repo.SimilarMovies(ctx, id, SimilarLimit)
}

func (s *CatalogService) SearchMovies(ctx context.Context, query string, from, size int) (int64, []search.MovieDoc, error) {
	if s.Index == nil {
		return 0, nil, ErrSearchUnavailable
	}
	return s.Index.Search(ctx, query, from, size)
}

func (s *CatalogService) CreateGenre(ctx context.Context, req transport.CreateGenreRequest) (*models.Genre, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrValidation
	}
	genre := models.Genre{Name: name}
	if err := s.Repo.CreateGenre(ctx, &genre); err != nil {
		return nil, err
	}
	return &genre, nil
}

func (s *CatalogService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	return s.Repo.ListGenres(ctx)
}

func (s *CatalogService) GetActor(ctx context.Context, id uint) (*models.Actor, error) {
	return s.Repo.GetActor(ctx, id)
}

func (s *CatalogService) CreateActor(ctx context.Context, req transport.CreateActorRequest) (*models.Actor, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrValidation
	}
	actor := models.Actor{
		Name:      strings.TrimSpace(req.Name),
		BirthDate: req.BirthDate,
		PhotoURL:  req.PhotoURL,
		Biography: req.Biography,
	}
	if err := s.Repo.CreateActor(ctx, &actor); err != nil {
		return nil, err
	}
	return &actor, nil
}

func (s *CatalogService) DeleteActor(ctx context.Context, id uint) error {
	return s.Repo.DeleteActor(ctx, id)
}

func (s *CatalogService) MovieCast(ctx context.Context, movieID uint) ([]repo.CastMember, error) {
	if _, err := s.Repo.GetMovie(ctx, movieID); err != nil {
		return nil, err
	}
	return s.Repo.MovieCast(ctx, movieID)
}

func (s *CatalogService) Filmography(ctx context.Context, actorID uint) ([]models.Movie, error) {
	if _, err := s.Repo.GetActor(ctx, actorID); err != nil {
		return nil, err
	}
	return s.Repo.Filmography(ctx, actorID)
}

func (s *CatalogService) SetCast(ctx context.Context, movieID uint, req transport.CastEntryRequest) error {
	if req.ActorID == 0 {
		return ErrValidation
	}
	if _, err := s.Repo.GetMovie(ctx, movieID); err != nil {
		return err
	}
	if _, err := s.Repo.GetActor(ctx, req.ActorID); err != nil {
		return err
	}
	return s.Repo.SetCast(ctx, &models.MovieActor{
		MovieID:  movieID,
		ActorID:  req.ActorID,
		RoleName: req.RoleName,
	})
}

func (s *CatalogService) RemoveCast(ctx context.Context, movieID, actorID uint) error {
	return s.Repo.RemoveCast(ctx, movieID, actorID)
}

func (s *CatalogService) AddFavorite(ctx context.Context, userID, movieID uint) error {
	return s.Repo.AddFavorite(ctx, userID, movieID)
}

func (s *CatalogService) RemoveFavorite(ctx context.Context, userID, movieID uint) error {
	return s.Repo.RemoveFavorite(ctx, userID, movieID)
}

func (s *CatalogService) ListFavorites(ctx context.Context, userID uint) ([]models.Movie, error) {
	return s.Repo.ListFavorites(ctx, userID)
}

func (s *CatalogService) AddToWatchlist(ctx context.Context, userID, movieID uint) error {
	return s.Repo.AddToWatchlist(ctx, userID, movieID)
}

func (s *CatalogService) RemoveFromWatchlist(ctx context.Context, userID, movieID uint) error {
	return s.Repo.RemoveFromWatchlist(ctx, userID, movieID)
}

func (s *CatalogService) ListWatchlist(ctx context.Context, userID uint) ([]models.Movie, error) {
	return s.Repo.ListWatchlist(ctx, userID)
}

func validateMovie(title string, rating, duration int) error {
	if strings.TrimSpace(title) == "" {
		return ErrValidation
	}
	if rating < 1 || rating > 10 {
		return ErrValidation
	}
	if duration <= 0 {
		return ErrValidation
	}
	return nil
}

// indexMovie keeps the search index in sync on a best effort basis; a
// write to the catalog never fails because Elasticsearch is down.
func (s *CatalogService) indexMovie(ctx context.Context, movie *models.Movie) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexMovie(ctx, movie); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "movie_id", movie.ID, "error", err)
	}
}

func (s *CatalogService) publish(ctx context.Context, eventType string, movieID uint) {
	if s.Producer == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := strconv.FormatUint(uint64(movieID), 10)
	err := s.Producer.PublishEvent(pubCtx, events.TopicMovieEvents, key, map[string]any{
		"type":     eventType,
		"movie_id": movieID,
	})
	if err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "type", eventType, "error", err)
	}
}
