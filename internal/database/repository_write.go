package database

import (
	"fmt"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/palemoky/chinese-genre-classifier/internal/logger"
)

// Write operations for classification results

// reclassifiedColumns are refreshed when a known text is classified again
var reclassifiedColumns = []string{
	"genre", "form", "tune", "title", "title_pinyin", "title_pinyin_abbr",
	"author", "author_pinyin", "author_pinyin_abbr", "dynasty", "lang", "content", "phrases",
	"character_count", "phrase_count", "average_length", "max_length", "min_length",
	"is_uniform_length", "parallel_ratio", "punctuation_count", "punctuation_ratio",
	"classical_ratio", "modern_ratio", "updated_at",
}

// SaveAnalysis inserts an analysis or, when the same text was stored before,
// refreshes its results and increments its hit count. The record is reloaded so
// HitCount and timestamps reflect the stored row.
func (r *Repository) SaveAnalysis(analysis *Analysis) error {
	updates := clause.AssignmentColumns(reclassifiedColumns)
	updates = append(updates, clause.Assignment{
		Column: clause.Column{Name: "hit_count"},
		Value:  gorm.Expr("hit_count + 1"),
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: updates,
	}).Create(analysis).Error
	if err != nil {
		return fmt.Errorf("failed to save analysis %d: %w", analysis.ID, err)
	}

	return r.db.First(analysis, "id = ?", analysis.ID).Error
}

// BatchInsertAnalyses inserts multiple analyses in batches
// Handles duplicate IDs by skipping them (ON CONFLICT DO NOTHING)
func (r *Repository) BatchInsertAnalyses(analyses []*Analysis, batchSize int) error {
	if len(analyses) == 0 {
		return nil
	}

	if batchSize <= 0 {
		batchSize = 100 // Default batch size
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).CreateInBatches(analyses, batchSize).Error
}

// BatchInsertAnalysesWithTransaction inserts analyses in large transactions
// This reduces fsync overhead by grouping multiple batches into one transaction
// transactionSize: number of analyses per transaction (e.g., 10000)
// batchSize: number of analyses per insert statement (e.g., 500)
// progress: progress container for displaying insertion progress, may be nil
func (r *Repository) BatchInsertAnalysesWithTransaction(analyses []*Analysis, transactionSize, batchSize int, progress *mpb.Progress) error {
	if len(analyses) == 0 {
		return nil
	}

	if transactionSize <= 0 {
		transactionSize = 10000
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	totalTransactions := (len(analyses) + transactionSize - 1) / transactionSize

	var bar *mpb.Bar
	if progress != nil {
		bar = progress.AddBar(int64(len(analyses)),
			mpb.PrependDecorators(
				decor.Name("Saving analyses: ", decor.WC{W: 17, C: decor.DindentRight}),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Percentage(decor.WC{W: 5}),
				decor.Name(" | "),
				decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 6}),
			),
		)
	}

	logger.Debug("starting batch insertion",
		zap.Int("analyses", len(analyses)),
		zap.Int("transactions", totalTransactions),
		zap.Int("batch_size", batchSize),
	)

	for i := 0; i < len(analyses); i += transactionSize {
		end := min(i+transactionSize, len(analyses))
		chunk := analyses[i:end]

		err := r.db.Transaction(func(tx *gorm.DB) error {
			for j := 0; j < len(chunk); j += batchSize {
				batch := chunk[j:min(j+batchSize, len(chunk))]

				err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "id"}},
					DoNothing: true,
				}).Create(&batch).Error
				if err != nil {
					return err
				}

				if bar != nil {
					bar.IncrBy(len(batch))
				}
			}
			return nil
		})
		if err != nil {
			if bar != nil {
				bar.Abort(false)
			}
			txNum := i/transactionSize + 1
			return fmt.Errorf("failed to insert transaction %d/%d (analyses %d-%d): %w",
				txNum, totalTransactions, i, end, err)
		}
	}

	return nil
}

// DeleteAnalysis removes an analysis, returning gorm.ErrRecordNotFound when absent
func (r *Repository) DeleteAnalysis(id int64) error {
	result := r.db.Delete(&Analysis{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
