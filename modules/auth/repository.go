package auth

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/grantmatch/domain/user"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when a unique user attribute is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUnknownField is returned for a filter on a column that is not a user lookup key.
	ErrUnknownField = errors.New("unknown user field")
)

// UserRepository handles user persistence using GORM.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func column(f domain.Field) (string, error) {
	switch f {
	case domain.FieldID, domain.FieldUsername, domain.FieldEmail, domain.FieldINN, domain.FieldPhone:
		return string(f), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
}

// GetOne returns the non-deleted user matching filter. The boolean is false
// when no such user exists.
func (r *UserRepository) GetOne(ctx context.Context, filter domain.Filter) (*domain.User, bool, error) {
	col, err := column(filter.Field)
	if err != nil {
		return nil, false, err
	}

	var user domain.User
	result := r.db.WithContext(ctx).Where(col+" = ?", filter.Value).Limit(1).Find(&user)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	return &user, true, nil
}

// GetAny is GetOne including soft-deleted users.
func (r *UserRepository) GetAny(ctx context.Context, filter domain.Filter) (*domain.User, bool, error) {
	col, err := column(filter.Field)
	if err != nil {
		return nil, false, err
	}

	var user domain.User
	result := r.db.WithContext(ctx).Unscoped().Where(col+" = ?", filter.Value).Limit(1).Find(&user)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	return &user, true, nil
}

// Exists reports whether any user, soft-deleted ones included, matches filter.
func (r *UserRepository) Exists(ctx context.Context, filter domain.Filter) (bool, error) {
	col, err := column(filter.Field)
	if err != nil {
		return false, err
	}

	var count int64
	result := r.db.WithContext(ctx).Unscoped().Model(&domain.User{}).Where(col+" = ?", filter.Value).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// Create creates a new user in the database.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return result.Error
	}
	return nil
}

// Update saves all fields of user.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	result := r.db.WithContext(ctx).Save(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return result.Error
	}
	return nil
}

// Delete soft-deletes the user with the given ID.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// HardDelete removes the user row permanently, soft-deleted or not.
func (r *UserRepository) HardDelete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Unscoped().Delete(&domain.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// List returns a window of non-deleted users ordered by creation time and
// the total number of non-deleted users.
func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []domain.User
	result := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Offset(offset).Limit(limit).Find(&users)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return users, total, nil
}
