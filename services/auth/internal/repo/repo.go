package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

type GormRepo struct {
	DB *gorm.DB
}
