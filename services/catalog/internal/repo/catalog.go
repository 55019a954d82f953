package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/kinoteka/online_cinema/services/catalog/internal/models"
	"github.com/kinoteka/online_cinema/services/catalog/internal/transport"
)

type MovieFilter struct {
	ID      uint
	Title   string
	GenreID uint
}

func (r *GormRepo) GetMovie(ctx context.Context, id uint) (*models.Movie, error) {
	var movie models.Movie
	if err := r.DB.WithContext(ctx).Preload("Genres").Where("id = ?", id).First(&movie).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *GormRepo) ListMovies(ctx context.Context, f MovieFilter, offset, limit int) (int64, []models.Movie, error) {
	q := r.DB.WithContext(ctx).Model(&models.Movie{})

	if f.ID != 0 {
		q = q.Where("movies.id = ?", f.ID)
	}
	if f.Title != "" {
		q = q.Where("LOWER(movies.title) LIKE LOWER(?)", "%"+f.Title+"%")
	}
	if f.GenreID != 0 {
		q = q.Joins("JOIN movie_genres mg ON mg.movie_id = movies.id").
			Where("mg.genre_id = ?", f.GenreID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Movie, 0, limit)
	if err := q.Preload("Genres").Order("movies.id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateMovie(ctx context.Context, movie *models.Movie) error {
	return r.DB.WithContext(ctx).Create(movie).Error
}

func (r *GormRepo) PatchMovie(ctx context.Context, req transport.PatchMovieRequest, id uint) (*models.Movie, error) {
	var movie models.Movie
	if err := r.DB.WithContext(ctx).First(&movie, id).Error; err != nil {
		return nil, err
	}

	if req.Title != nil {
		movie.Title = *req.Title
	}
	if req.Description != nil {
		movie.Description = *req.Description
	}
	if req.ReleaseDate != nil {
		movie.ReleaseDate = req.ReleaseDate
	}
	if req.Duration != nil {
		movie.Duration = *req.Duration
	}
	if req.Rating != nil {
		movie.Rating = *req.Rating
	}
	if req.MovieURL != nil {
		movie.MovieURL = *req.MovieURL
	}
	if req.PosterURL != nil {
		movie.PosterURL = *req.PosterURL
	}
	if req.TrailerURL != nil {
		movie.TrailerURL = *req.TrailerURL
	}
	if req.BackdropURL != nil {
		movie.BackdropURL = *req.BackdropURL
	}

	if err := r.DB.WithContext(ctx).Save(&movie).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *GormRepo) DeleteMovie(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Movie{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CreateGenre(ctx context.Context, genre *models.Genre) error {
	return r.DB.WithContext(ctx).Create(genre).Error
}

func (r *GormRepo) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}
