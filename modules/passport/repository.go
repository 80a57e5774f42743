package passport

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/grantmatch/domain/passport"
	"gorm.io/gorm"
)

// ErrPassportNotFound is returned when a user has no stored passport.
var ErrPassportNotFound = errors.New("passport not found")

// Repository provides passport storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByUser retrieves the passport of userID. The boolean is false when none exists.
func (r *Repository) GetByUser(ctx context.Context, userID string) (*domain.Passport, bool, error) {
	var p domain.Passport
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Limit(1).Find(&p)
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to find passport: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	return &p, true, nil
}

// Create saves a new passport.
func (r *Repository) Create(ctx context.Context, p *domain.Passport) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create passport: %w", err)
	}
	return nil
}

// Update writes changes to the passport with the given ID.
func (r *Repository) Update(ctx context.Context, id uint, changes map[string]any) error {
	if len(changes) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&domain.Passport{}).Where("id = ?", id).Updates(changes)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update passport: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrPassportNotFound
	}
	return nil
}
