// Package database opens the SQLite database shared by the modules.
package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the SQLite database at path and migrates the given models.
// Several modules hold their own handle on the same file, so WAL mode and a
// busy timeout are enabled for file-backed databases.
func Open(path string, models ...any) (*gorm.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if path == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return db, nil
}

// Close closes the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the database connection.
func Ping(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Ping()
}

// Page is a paginated result set.
type Page[T any] struct {
	Data         []T   `json:"data"`
	TotalCount   int64 `json:"total_count"`
	HasMore      bool  `json:"has_more"`
	Page         int   `json:"page"`
	ItemsPerPage int   `json:"items_per_page"`
}

// Offset computes the row offset for a 1-based page number.
func Offset(page, itemsPerPage int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * itemsPerPage
}

// NewPage wraps a slice of rows with pagination metadata.
func NewPage[T any](data []T, total int64, page, itemsPerPage int) Page[T] {
	if page < 1 {
		page = 1
	}
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:         data,
		TotalCount:   total,
		HasMore:      int64(page*itemsPerPage) < total,
		Page:         page,
		ItemsPerPage: itemsPerPage,
	}
}

// NormalizePaging clamps page and itemsPerPage to sane bounds.
func NormalizePaging(page, itemsPerPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if itemsPerPage < 1 {
		itemsPerPage = 10
	}
	if itemsPerPage > 100 {
		itemsPerPage = 100
	}
	return page, itemsPerPage
}
