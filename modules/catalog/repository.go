package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a catalog record is not found.
var ErrNotFound = errors.New("not found")

// Repository provides storage for one catalog entity type, keyed by an
// auto-increment ID.
type Repository[T any] struct {
	db *gorm.DB
}

// NewRepository creates a new Repository.
func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// Transaction runs fn against a repository bound to a single database
// transaction. Any error from fn rolls the transaction back.
func (r *Repository[T]) Transaction(ctx context.Context, fn func(tx *Repository[T]) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository[T]{db: tx})
	})
}

// Create saves a new record.
func (r *Repository[T]) Create(ctx context.Context, record *T) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

// GetOne retrieves a record by ID. The boolean is false when none exists.
func (r *Repository[T]) GetOne(ctx context.Context, id uint) (*T, bool, error) {
	var record T
	result := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&record)
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to find record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	return &record, true, nil
}

// FindAll retrieves every record matching the optional where clause, in ID order.
func (r *Repository[T]) FindAll(ctx context.Context, where ...any) ([]T, error) {
	var records []T
	q := r.db.WithContext(ctx).Order("id ASC")
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find records: %w", err)
	}
	return records, nil
}

// List returns a window of records in ID order and the total count.
func (r *Repository[T]) List(ctx context.Context, offset, limit int) ([]T, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count records: %w", err)
	}

	var records []T
	if err := r.db.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list records: %w", err)
	}
	return records, total, nil
}

// Update writes the non-nil fields of changes to the record with the given ID.
func (r *Repository[T]) Update(ctx context.Context, id uint, changes map[string]any) error {
	if len(changes) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(changes)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record with the given ID.
func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
