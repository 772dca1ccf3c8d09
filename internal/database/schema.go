package database

import (
	"strconv"
	"time"
)

const (
	// Schema version for migrations
	SchemaVersion = 1

	schemaVersionKey = "schema_version"
)

// SchemaMeta stores key/value facts about the database itself
type SchemaMeta struct {
	Key       string `gorm:"column:meta_key;primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName specifies the table name for SchemaMeta
func (SchemaMeta) TableName() string {
	return "metadata"
}

// CreateIndexesSQL contains the composite indexes AutoMigrate cannot express
var CreateIndexesSQL = []string{
	`CREATE INDEX IF NOT EXISTS idx_analyses_genre_updated ON analyses(genre, updated_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_analyses_dataset_expected ON analyses(dataset, expected_genre)`,
	`CREATE INDEX IF NOT EXISTS idx_analyses_title_pinyin ON analyses(title_pinyin, title_pinyin_abbr)`,
	`CREATE INDEX IF NOT EXISTS idx_analyses_author_pinyin ON analyses(author_pinyin, author_pinyin_abbr)`,
}

// InstalledSchemaVersion reads the recorded schema version, 0 when none was recorded
func (db *DB) InstalledSchemaVersion() (int, error) {
	var meta SchemaMeta
	err := db.Where("meta_key = ?", schemaVersionKey).Limit(1).Find(&meta).Error
	if err != nil {
		return 0, err
	}
	if meta.Value == "" {
		return 0, nil
	}
	return strconv.Atoi(meta.Value)
}
