package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kinoteka/online_cinema/services/catalog/internal/models"
)

func (r *GormRepo) AddFavorite(ctx context.Context, userID, movieID uint) error {
	if err := r.movieExists(ctx, movieID); err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Favorite{UserID: userID, MovieID: movieID}).Error
}

func (r *GormRepo) RemoveFavorite(ctx context.Context, userID, movieID uint) error {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ListFavorites(ctx context.Context, userID uint) ([]models.Movie, error) {
	var movies []models.Movie
	err := r.DB.WithContext(ctx).
		Joins("JOIN favorites f ON f.movie_id = movies.id").
		Where("f.user_id = ?", userID).
		Order("movies.id ASC").
		Find(&movies).Error
	if err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *GormRepo) AddToWatchlist(ctx context.Context, userID, movieID uint) error {
	if err := r.movieExists(ctx, movieID); err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.WatchlistItem{UserID: userID, MovieID: movieID}).Error
}

func (r *GormRepo) RemoveFromWatchlist(ctx context.Context, userID, movieID uint) error {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&models.WatchlistItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ListWatchlist(ctx context.Context, userID uint) ([]models.Movie, error) {
	var movies []models.Movie
	err := r.DB.WithContext(ctx).
		Joins("JOIN watchlist_items w ON w.movie_id = movies.id").
		Where("w.user_id = ?", userID).
		Order("movies.id ASC").
		Find(&movies).Error
	if err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *GormRepo) movieExists(ctx context.Context, movieID uint) error {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Movie{}).Where("id = ?", movieID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
