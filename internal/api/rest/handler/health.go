package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/palemoky/chinese-genre-classifier/internal/database"
)

// HealthHandler handles health check requests
func HealthHandler(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check database connection
		sqlDB, err := db.DB.DB()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "failed to get database connection",
			})
			return
		}

		if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		version, err := db.InstalledSchemaVersion()
		if err != nil || version != database.SchemaVersion {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":         "unhealthy",
				"error":          "database schema is not migrated",
				"schema_version": version,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":         "healthy",
			"schema_version": version,
		})
	}
}

// StatsHandler returns overall statistics
func StatsHandler(repo database.RepositoryInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := repo.GetStatistics()
		if err != nil {
			respondError(c, err)
			return
		}

		respondOK(c, stats)
	}
}
