package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kinoteka/online_cinema/services/catalog/internal/models"
)

// CastMember is an actor joined with the character they play in one movie.
type CastMember struct {
	ActorID  uint   `json:"actor_id"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
	RoleName string `json:"role_name"`
}

func (r *GormRepo) GetActor(ctx context.Context, id uint) (*models.Actor, error) {
	var actor models.Actor
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&actor).Error; err != nil {
		return nil, err
	}
	return &actor, nil
}

func (r *GormRepo) CreateActor(ctx context.Context, actor *models.Actor) error {
	return r.DB.WithContext(ctx).Create(actor).Error
}

func (r *GormRepo) DeleteActor(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("actor_id = ?", id).Delete(&models.MovieActor{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Actor{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// MovieCast returns the actors of a movie with their character names.
func (r *GormRepo) MovieCast(ctx context.Context, movieID uint) ([]CastMember, error) {
	var cast []CastMember
	err := r.DB.WithContext(ctx).
		Table("movie_actors ma").
		Select("ma.actor_id, a.name, a.photo_url, ma.role_name").
		Joins("JOIN actors a ON a.id = ma.actor_id").
		Where("ma.movie_id = ?", movieID).
		Order("a.name ASC").
		Scan(&cast).Error
	if err != nil {
		return nil, err
	}
	return cast, nil
}

// Filmography returns every movie an actor appears in.
func (r *GormRepo) Filmography(ctx context.Context, actorID uint) ([]models.Movie, error) {
	var movies []models.Movie
	err := r.DB.WithContext(ctx).
		Joins("JOIN movie_actors ma ON ma.movie_id = movies.id").
		Where("ma.actor_id = ?", actorID).
		Order("movies.id ASC").
		Find(&movies).Error
	if err != nil {
		return nil, err
	}
	return movies, nil
}

// SetCast replaces the cast entry for one actor in one movie. Re-adding the
// same actor updates the character name instead of failing.
func (r *GormRepo) SetCast(ctx context.Context, entry *models.MovieActor) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "movie_id"}, {Name: "actor_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role_name"}),
	}).Create(entry).Error
}

func (r *GormRepo) RemoveCast(ctx context.Context, movieID, actorID uint) error {
	res := r.DB.WithContext(ctx).
		Where("movie_id = ? AND actor_id = ?", movieID, actorID).
		Delete(&models.MovieActor{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
