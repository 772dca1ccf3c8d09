package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/chinese-genre-classifier/internal/api/rest"
	"github.com/palemoky/chinese-genre-classifier/internal/classifier"
	"github.com/palemoky/chinese-genre-classifier/internal/config"
	"github.com/palemoky/chinese-genre-classifier/internal/database"
	"github.com/palemoky/chinese-genre-classifier/internal/loader"
	"github.com/palemoky/chinese-genre-classifier/internal/processor"
	"github.com/palemoky/chinese-genre-classifier/internal/search"
	"github.com/palemoky/chinese-genre-classifier/internal/service"
	"github.com/palemoky/chinese-genre-classifier/internal/testutil"
)

type testEnv struct {
	router *gin.Engine
	svc    *service.Service
	db     *database.DB
	repo   database.RepositoryInterface
}

// setupTestEnv wires the REST API, the service and the batch processor over
// one cached repository, the way the binaries do
func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Mode = "test"
	cfg.RateLimit.Enabled = false

	db, plain := testutil.SetupTestDB(t)
	repo, err := database.NewCachedRepository(plain, 64)
	require.NoError(t, err)

	c, err := classifier.New(cfg.Classifier.Options())
	require.NoError(t, err)
	svc, err := service.New(service.Options{Classifier: c, Repository: repo})
	require.NoError(t, err)

	router := rest.SetupRouter(cfg, rest.Dependencies{DB: db, Repository: repo, Service: svc})
	return testEnv{router: router, svc: svc, db: db, repo: repo}
}

type restResult struct {
	ID       string `json:"id"`
	Genre    string `json:"genre"`
	HitCount int    `json:"hit_count"`
}

func (e testEnv) classifyREST(t *testing.T, text string, persist bool) restResult {
	t.Helper()

	body, err := json.Marshal(map[string]any{"text": text, "persist": persist})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/classify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data restResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func documents() []loader.Document {
	return []loader.Document{
		{
			RawText: loader.RawText{Title: "静夜思", Author: "李白", Paragraphs: []string{"床前明月光，疑是地上霜。", "举头望明月，低头思故乡。"}},
			Dynasty: "唐",
		},
		{
			RawText: loader.RawText{Rhythmic: "水调歌头", Author: "苏轼", Paragraphs: []string{"明月几时有？把酒问青天。不知天上宫阙，今夕是何年。我欲乘风归去，又恐琼楼玉宇，高处不胜寒。起舞弄清影，何似在人间。"}},
			Dynasty: "宋",
		},
		{RawText: loader.RawText{Paragraphs: []string{testutil.LunYu}}},
		{RawText: loader.RawText{Paragraphs: []string{testutil.NewsReport}}},
	}
}

// TestClassifyConsistency verifies the REST API, the service and the bare
// classifier agree on genre and ID
func TestClassifyConsistency(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		name string
		text string
		want classifier.Genre
	}{
		{"poetry", testutil.JingYeSi, classifier.GenrePoetry},
		{"lyrics", testutil.ShuiDiaoGeTou, classifier.GenreLyrics},
		{"prose", testutil.LunYu, classifier.GenreProse},
		{"plain", testutil.NewsReport, classifier.GenrePlain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viaREST := env.classifyREST(t, tt.text, false)

			result, err := env.svc.Classify(context.Background(), tt.text, service.ClassifyOptions{Source: service.SourceCLI})
			require.NoError(t, err)

			direct := classifier.Classify(tt.text)

			assert.Equal(t, tt.want, direct.Genre)
			assert.Equal(t, direct.Genre, result.Analysis.Genre)
			assert.Equal(t, direct.Genre.String(), viaREST.Genre)
			assert.Equal(t, classifier.GenerateStableAnalysisID(tt.text), result.ID)
			assert.Equal(t, strconv.FormatInt(result.ID, 10), viaREST.ID)
		})
	}
}

// TestProcessorAndAPIShareRecords verifies texts stored by the batch processor
// are the records the API later finds and updates
func TestProcessorAndAPIShareRecords(t *testing.T) {
	env := setupTestEnv(t)
	docs := documents()

	proc, err := processor.NewProcessor(processor.Options{Repository: env.repo, Workers: 2})
	require.NoError(t, err)
	report, err := proc.Process(context.Background(), docs)
	require.NoError(t, err)
	require.Equal(t, len(docs), report.Total)

	for _, doc := range docs {
		stored := env.classifyREST(t, doc.Text(), true)
		assert.Equal(t, 2, stored.HitCount, "classifying a batch-loaded text again hits the same record")

		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+stored.ID, nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				Genre    string `json:"genre"`
				Source   string `json:"source"`
				HitCount int    `json:"hit_count"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, stored.Genre, resp.Data.Genre)
		assert.Equal(t, "loader", resp.Data.Source, "the first writer keeps the source")
		assert.Equal(t, 2, resp.Data.HitCount)
	}

	count, err := env.repo.CountAnalyses()
	require.NoError(t, err)
	assert.Equal(t, len(docs), count)
}

// TestSearchConsistency verifies REST search returns what the search engine returns
func TestSearchConsistency(t *testing.T) {
	env := setupTestEnv(t)
	testutil.SeedAnalyses(t, env.repo, testutil.JingYeSi, testutil.ShuiDiaoGeTou, testutil.LunYu, testutil.NewsReport)
	engine := search.NewEngine(env.db)

	tests := []struct {
		name       string
		query      string
		searchType search.SearchType
	}{
		{"search by title", "静夜思", search.SearchTypeTitle},
		{"search by author", "苏轼", search.SearchTypeAuthor},
		{"search content", "明月", search.SearchTypeContent},
		{"search pinyin", "jys", search.SearchTypeAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/api/v1/analyses/search?q=" + url.QueryEscape(tt.query) + "&type=" + string(tt.searchType)
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			require.Equal(t, http.StatusOK, w.Code)

			var restResp struct {
				Data []struct {
					ID string `json:"id"`
				} `json:"data"`
				Pagination struct {
					Total int `json:"total"`
				} `json:"pagination"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &restResp))

			direct, err := engine.Search(search.SearchParams{Query: tt.query, SearchType: tt.searchType, Page: 1, PageSize: 20})
			require.NoError(t, err)

			assert.Equal(t, direct.TotalCount, restResp.Pagination.Total)
			require.Len(t, restResp.Data, len(direct.Analyses))
			assert.NotEmpty(t, restResp.Data)
			for i := range direct.Analyses {
				assert.Equal(t, strconv.FormatInt(direct.Analyses[i].ID, 10), restResp.Data[i].ID, "position %d", i)
			}
		})
	}
}
