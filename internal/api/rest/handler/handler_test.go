package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/chinese-genre-classifier/internal/classifier"
	"github.com/palemoky/chinese-genre-classifier/internal/database"
	"github.com/palemoky/chinese-genre-classifier/internal/search"
	"github.com/palemoky/chinese-genre-classifier/internal/service"
	"github.com/palemoky/chinese-genre-classifier/internal/testutil"
)

type testEnv struct {
	router *gin.Engine
	db     *database.DB
	repo   *database.Repository
}

// setupTestRouter wires every handler over an in-memory database
func setupTestRouter(t *testing.T) testEnv {
	t.Helper()

	db, repo := testutil.SetupTestDB(t)
	c, err := classifier.New(classifier.DefaultOptions())
	require.NoError(t, err)
	svc, err := service.New(service.Options{
		Classifier:    c,
		Repository:    repo,
		MaxTextLength: 200,
		MaxBatchSize:  4,
	})
	require.NoError(t, err)

	router := testutil.SetupTestGin()

	classify := NewClassifyHandler(svc, true)
	router.POST("/classify", classify.Classify)
	router.POST("/classify/batch", classify.ClassifyBatch)

	analyses := NewAnalysisHandler(repo, search.NewEngine(db))
	router.GET("/analyses", analyses.ListAnalyses)
	router.GET("/analyses/search", analyses.SearchAnalyses)
	router.GET("/analyses/:id", analyses.GetAnalysis)
	router.DELETE("/analyses/:id", analyses.DeleteAnalysis)

	router.GET("/genres", ListGenres)
	router.GET("/health", HealthHandler(db))
	router.GET("/stats", StatsHandler(repo))

	return testEnv{router: router, db: db, repo: repo}
}

func (e testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		reader = bytes.NewReader([]byte(raw))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var response map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	}
	return w, response
}

// errorCode extracts error.code from an error response
func errorCode(t *testing.T, resp map[string]any) string {
	t.Helper()
	apiErr, ok := resp["error"].(map[string]any)
	require.True(t, ok, "response has no error object: %v", resp)
	return apiErr["code"].(string)
}

func dataObject(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", resp)
	return data
}
