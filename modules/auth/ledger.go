package auth

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlacklistedToken is a revoked token kept until its own expiry passes.
type BlacklistedToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Token     string    `gorm:"uniqueIndex;not null;type:text"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

// TableName returns the table name for BlacklistedToken.
func (BlacklistedToken) TableName() string {
	return "token_blacklist"
}

// Ledger is the revocation ledger: the set of tokens that must no longer
// verify even though their signature and expiry are still good.
type Ledger struct {
	db *gorm.DB
}

// NewLedger creates a Ledger on db. The caller migrates BlacklistedToken.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Contains reports whether token has been revoked.
func (l *Ledger) Contains(ctx context.Context, token string) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).
		Model(&BlacklistedToken{}).
		Where("token = ?", token).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to query token ledger: %w", err)
	}
	return count > 0, nil
}

// Add revokes token. Adding an already revoked token is a no-op.
func (l *Ledger) Add(ctx context.Context, token string, expiresAt time.Time) error {
	entry := BlacklistedToken{Token: token, ExpiresAt: expiresAt.UTC()}
	err := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token"}}, DoNothing: true}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// Purge removes entries that expired before cutoff and returns how many
// were removed.
func (l *Ledger) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	result := l.db.WithContext(ctx).
		Where("expires_at < ?", cutoff.UTC()).
		Delete(&BlacklistedToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge token ledger: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Len returns the number of ledger entries.
func (l *Ledger) Len(ctx context.Context) (int64, error) {
	var count int64
	if err := l.db.WithContext(ctx).Model(&BlacklistedToken{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count token ledger: %w", err)
	}
	return count, nil
}
