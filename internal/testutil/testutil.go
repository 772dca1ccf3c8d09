// Package testutil provides shared utilities for testing.
package testutil

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/palemoky/chinese-genre-classifier/internal/classifier"
	"github.com/palemoky/chinese-genre-classifier/internal/database"
)

// Sample texts covering every genre
const (
	JingYeSi      = "静夜思\n唐·李白\n床前明月光，疑是地上霜。\n举头望明月，低头思故乡。"
	ShuiDiaoGeTou = "水调歌头·明月几时有\n宋·苏轼\n明月几时有？把酒问青天。不知天上宫阙，今夕是何年。我欲乘风归去，又恐琼楼玉宇，高处不胜寒。起舞弄清影，何似在人间。"
	LunYu         = "学而时习之，不亦说乎。有朋自远方来，不亦乐乎。人不知而不愠，不亦君子乎。"
	NewsReport    = "据新华社报道，今天上午我们的记者来到了这个城市的科技园区。工作人员表示，园区已经进行了全面的升级改造，现在可以容纳更多的企业入驻。"
)

// SetupTestDB creates an in-memory SQLite database with migrations applied.
// Returns the DB wrapper and Repository. Automatically cleans up on test completion.
func SetupTestDB(t testing.TB) (*database.DB, *database.Repository) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to open in-memory database")

	// Every pooled connection would otherwise see its own empty database
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := database.NewDBFromGorm(gormDB)
	require.NoError(t, db.Migrate(), "Failed to run migrations")

	repo := database.NewRepository(db)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db, repo
}

// SeedAnalyses classifies and stores each text, returning the stored records
func SeedAnalyses(t testing.TB, repo database.RepositoryInterface, texts ...string) []*database.Analysis {
	t.Helper()

	records := make([]*database.Analysis, 0, len(texts))
	for _, text := range texts {
		record, err := database.NewAnalysis(classifier.Classify(text), "test")
		require.NoError(t, err)
		require.NoError(t, repo.SaveAnalysis(record))
		records = append(records, record)
	}
	return records
}

// SetupTestGin creates a test Gin engine with test mode enabled.
func SetupTestGin() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// GormDB returns the underlying GORM database from a database.DB wrapper.
// This is useful for direct database manipulation in tests.
func GormDB(db *database.DB) *gorm.DB {
	return db.DB
}
