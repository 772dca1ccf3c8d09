package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/palemoky/chinese-genre-classifier/internal/classifier"
)

// ListGenres lists the classification labels in detector order
func ListGenres(c *gin.Context) {
	data := make([]map[string]any, len(classifier.AllGenres))
	for i, g := range classifier.AllGenres {
		data[i] = map[string]any{
			"genre":        g,
			"display_name": g.DisplayName(),
			"classical":    g.IsClassical(),
		}
	}
	respondOK(c, data)
}
