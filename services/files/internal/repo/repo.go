package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kinoteka/online_cinema/pkg/auth"
	"github.com/kinoteka/online_cinema/services/files/internal/models"
)

var ErrNoVideo = errors.New("movie has no video attached")

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) ResolveUser(ctx context.Context, id uint) (*auth.Principal, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUnknownUser
		}
		return nil, err
	}
	return &auth.Principal{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// MovieObjectKey returns the storage key of a movie's video file.
func (r *GormRepo) MovieObjectKey(ctx context.Context, movieID uint) (string, error) {
	var movie models.Movie
	if err := r.DB.WithContext(ctx).Where("id = ?", movieID).First(&movie).Error; err != nil {
		return "", err
	}
	if movie.MovieURL == "" {
		return "", ErrNoVideo
	}
	return movie.MovieURL, nil
}
