package database

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB wraps the gorm connection
type DB struct {
	*gorm.DB
}

// Open opens a connection to the SQLite database at path
func Open(path string, maxOpenConns, maxIdleConns int) (*DB, error) {
	gormDB, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	if maxOpenConns <= 0 {
		maxOpenConns = 25
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 5
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return &DB{gormDB}, nil
}

// NewDBFromGorm wraps an existing gorm connection
func NewDBFromGorm(gormDB *gorm.DB) *DB {
	return &DB{gormDB}
}

// Migrate creates all tables and indexes and records the schema version
func (db *DB) Migrate() error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(&Analysis{}, &SchemaMeta{}); err != nil {
			return fmt.Errorf("failed to migrate tables: %w", err)
		}

		for _, stmt := range CreateIndexesSQL {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to create index: %w", err)
			}
		}

		meta := SchemaMeta{Key: schemaVersionKey, Value: fmt.Sprint(SchemaVersion)}
		if err := tx.Save(&meta).Error; err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
		return nil
	})
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
