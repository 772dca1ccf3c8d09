package database

import (
	"github.com/vbauerster/mpb/v8"
	"gorm.io/gorm"
)

// RepositoryInterface defines the interface for repository operations
type RepositoryInterface interface {
	SaveAnalysis(analysis *Analysis) error
	BatchInsertAnalyses(analyses []*Analysis, batchSize int) error
	BatchInsertAnalysesWithTransaction(analyses []*Analysis, transactionSize, batchSize int, progress *mpb.Progress) error
	GetAnalysisByID(id int64) (*Analysis, error)
	ListAnalyses(limit, offset int, filter AnalysisFilter) ([]Analysis, int, error)
	DeleteAnalysis(id int64) error
	CountAnalyses() (int, error)
	GetStatistics() (*Statistics, error)
}

var (
	_ RepositoryInterface = (*Repository)(nil)
	_ RepositoryInterface = (*CachedRepository)(nil)
)

// Repository handles database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// GetAnalysisByID retrieves an analysis by ID
func (r *Repository) GetAnalysisByID(id int64) (*Analysis, error) {
	var analysis Analysis
	err := r.db.First(&analysis, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

// ListAnalyses returns a page of analyses, most recently seen first, with the
// total count matching the filter
func (r *Repository) ListAnalyses(limit, offset int, filter AnalysisFilter) ([]Analysis, int, error) {
	query := applyFilter(r.db.Model(&Analysis{}), filter)

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	var analyses []Analysis
	err := query.
		Order("updated_at DESC").
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&analyses).Error
	if err != nil {
		return nil, 0, err
	}

	return analyses, int(totalCount), nil
}

// ListMisclassified returns labelled analyses whose genre differs from the label
func (r *Repository) ListMisclassified(dataset string, limit int) ([]Analysis, error) {
	query := r.db.Model(&Analysis{}).
		Where("expected_genre IS NOT NULL AND expected_genre != genre")
	if dataset != "" {
		query = query.Where("dataset = ?", dataset)
	}

	var analyses []Analysis
	err := query.Order("id").Limit(limit).Find(&analyses).Error
	return analyses, err
}

// applyFilter adds a WHERE clause per non-nil filter field
func applyFilter(query *gorm.DB, filter AnalysisFilter) *gorm.DB {
	if filter.Genre != nil {
		query = query.Where("genre = ?", *filter.Genre)
	}
	if filter.Dynasty != nil {
		query = query.Where("dynasty = ?", *filter.Dynasty)
	}
	if filter.Author != nil {
		query = query.Where("author = ?", *filter.Author)
	}
	if filter.Dataset != nil {
		query = query.Where("dataset = ?", *filter.Dataset)
	}
	if filter.Lang != nil {
		query = query.Where("lang = ?", *filter.Lang)
	}
	return query
}
