package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/palemoky/chinese-genre-classifier/internal/helpers"
)

// ParsePagination parses ?page and ?page_size, clamping them to sane bounds
func ParsePagination(c *gin.Context) *helpers.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return helpers.NewPagination(page, pageSize)
}

// NewPaginationResponse creates a standardized pagination response
func NewPaginationResponse(data any, p *helpers.Pagination, total int) gin.H {
	return gin.H{
		"data": data,
		"pagination": gin.H{
			"page":        p.Page,
			"page_size":   p.PageSize,
			"total":       total,
			"total_pages": p.TotalPages(total),
		},
	}
}
