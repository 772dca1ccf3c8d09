package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apierrors "github.com/palemoky/chinese-genre-classifier/internal/errors"
	"github.com/palemoky/chinese-genre-classifier/internal/helpers"
)

// parseID extracts and validates an analysis ID from a URL parameter.
// Returns the ID and true if successful, or sends an error response and returns false.
func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := helpers.ParseAnalysisID(c.Param(param))
	if err != nil {
		respondError(c, apierrors.InvalidID(param))
		return 0, false
	}
	return id, true
}

// respondError sends err in the {"error": {"code", "message"}} shape. A wrapped
// APIError keeps its code and status but reports the full wrapped message.
// Anything that is not an APIError becomes an internal error and is attached to
// the context for the access log.
func respondError(c *gin.Context, err error) {
	apiErr := apierrors.From(err)
	if apiErr == apierrors.ErrInternal {
		_ = c.Error(err)
	} else if msg := err.Error(); msg != apiErr.Message {
		apiErr = &apierrors.APIError{Code: apiErr.Code, Message: msg, HTTPStatus: apiErr.HTTPStatus}
	}
	c.AbortWithStatusJSON(apiErr.HTTPStatus, gin.H{"error": apiErr})
}

// respondLookupError maps a missing record to NOT_FOUND
func respondLookupError(c *gin.Context, err error, resource string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, apierrors.NotFound(resource))
		return
	}
	respondError(c, err)
}

// respondOK sends a JSON success response with the given data.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}
