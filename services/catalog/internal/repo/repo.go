package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kinoteka/online_cinema/pkg/auth"
	"github.com/kinoteka/online_cinema/services/catalog/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

// ResolveUser adapts the shared users table to the auth core.
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
