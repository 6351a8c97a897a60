package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrUserNotFound is returned when the referenced user id is unknown.
var ErrUserNotFound = errors.New("user not found")

// Directory resolves user accounts for display and notification
// recipients.
type Directory interface {
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetOrganization(ctx context.Context, id uuid.UUID) (*Organization, error)
}

type gormDirectory struct {
	db *gorm.DB
}

// NewDirectory creates a gorm-backed directory.
func NewDirectory(db *gorm.DB) Directory {
	return &gormDirectory{db: db}
}

func (d *gormDirectory) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := d.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (d *gormDirectory) GetOrganization(ctx context.Context, id uuid.UUID) (*Organization, error) {
	var org Organization
	err := d.db.WithContext(ctx).First(&org, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("organization %s: %w", id, gorm.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &org, nil
}
