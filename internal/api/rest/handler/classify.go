package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/palemoky/chinese-genre-classifier/internal/classifier"
	apierrors "github.com/palemoky/chinese-genre-classifier/internal/errors"
	"github.com/palemoky/chinese-genre-classifier/internal/service"
)

// ClassifyHandler handles classification requests
type ClassifyHandler struct {
	svc            *service.Service
	persistDefault bool
}

// NewClassifyHandler creates a new classify handler. persistDefault applies when
// a request does not say whether to store its result.
func NewClassifyHandler(svc *service.Service, persistDefault bool) *ClassifyHandler {
	return &ClassifyHandler{svc: svc, persistDefault: persistDefault}
}

// ClassifyRequest is the body of POST /classify
type ClassifyRequest struct {
	Text          string `json:"text" binding:"required"`
	Persist       *bool  `json:"persist"`
	Dataset       string `json:"dataset"`
	ExpectedGenre string `json:"expected_genre"`
}

// BatchClassifyRequest is the body of POST /classify/batch
type BatchClassifyRequest struct {
	Texts   []string `json:"texts" binding:"required,min=1"`
	Persist *bool    `json:"persist"`
	Dataset string   `json:"dataset"`
}

// Classify classifies a single text
func (h *ClassifyHandler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.InvalidRequest("body must be a JSON object with a non-empty \"text\""))
		return
	}

	opts := h.options(req.Persist, req.Dataset)
	if req.ExpectedGenre != "" {
		genre, ok := classifier.ParseGenre(req.ExpectedGenre)
		if !ok {
			respondError(c, apierrors.InvalidRequest("unknown expected_genre "+req.ExpectedGenre))
			return
		}
		opts.ExpectedGenre = genre
	}

	result, err := h.svc.Classify(c.Request.Context(), req.Text, opts)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, formatResult(result))
}

// ClassifyBatch classifies several texts, returning results in request order
func (h *ClassifyHandler) ClassifyBatch(c *gin.Context) {
	var req BatchClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.InvalidRequest("body must be a JSON object with a non-empty \"texts\" array"))
		return
	}

	results, err := h.svc.ClassifyBatch(c.Request.Context(), req.Texts, h.options(req.Persist, req.Dataset))
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]map[string]any, len(results))
	for i, r := range results {
		data[i] = formatResult(r)
	}
	respondOK(c, data)
}

func (h *ClassifyHandler) options(persist *bool, dataset string) service.ClassifyOptions {
	opts := service.ClassifyOptions{
		Source:  service.SourceAPI,
		Persist: h.persistDefault,
		Dataset: dataset,
	}
	if persist != nil {
		opts.Persist = *persist
	}
	return opts
}
