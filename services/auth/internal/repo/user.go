package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kinoteka/online_cinema/pkg/auth"
	"github.com/kinoteka/online_cinema/services/auth/internal/models"
)

func (r *GormRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts the user unless the username or the email is already
// taken; both columns carry a unique index.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", u.Username, u.Email).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrUserExists
	}

	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		// a concurrent register can still lose the race to the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

// PromoteAdmin flips the role to admin exactly once. The false return is not
// an error: an already-admin user is a distinct success outcome.
func (r *GormRepo) PromoteAdmin(ctx context.Context, id uint) (bool, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if user.Role == models.RoleAdmin {
		return false, nil
	}

	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("role", models.RoleAdmin).Error; err != nil {
		return false, err
	}
	return true, nil
}

// ResolveUser adapts the repo to the auth core's credential-store interface.
func (r *GormRepo) ResolveUser(ctx context.Context, id uint) (*auth.Principal, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, auth.ErrUnknownUser
		}
		return nil, err
	}
	return &auth.Principal{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}
