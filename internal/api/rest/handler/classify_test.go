package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/chinese-genre-classifier/internal/classifier"
	"github.com/palemoky/chinese-genre-classifier/internal/testutil"
)

func TestClassify(t *testing.T) {
	env := setupTestRouter(t)

	tests := []struct {
		name        string
		body        any
		wantStatus  int
		wantCode    string
		wantGenre   string
		wantForm    string
		wantStored  bool
		wantMessage string
	}{
		{
			name:       "poetry",
			body:       map[string]any{"text": testutil.JingYeSi},
			wantStatus: http.StatusOK,
			wantGenre:  "poetry",
			wantForm:   classifier.FormWuyanJueju,
			wantStored: true,
		},
		{
			name:       "lyrics",
			body:       map[string]any{"text": testutil.ShuiDiaoGeTou, "persist": false},
			wantStatus: http.StatusOK,
			wantGenre:  "lyrics",
			wantForm:   classifier.FormCi,
		},
		{
			name:       "plain text has no form",
			body:       map[string]any{"text": testutil.NewsReport},
			wantStatus: http.StatusOK,
			wantGenre:  "plain",
			wantStored: true,
		},
		{
			name:       "missing text",
			body:       map[string]any{"persist": true},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "malformed body",
			body:       `{"text":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "unknown expected genre",
			body:       map[string]any{"text": testutil.LunYu, "expected_genre": "novel"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:        "text too long",
			body:        map[string]any{"text": strings.Repeat("字", 201)},
			wantStatus:  http.StatusRequestEntityTooLarge,
			wantCode:    "TEXT_TOO_LONG",
			wantMessage: "Text has 201 characters, limit is 200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := env.do(t, http.MethodPost, "/classify", tt.body)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, resp))
				if tt.wantMessage != "" {
					assert.Equal(t, tt.wantMessage, resp["error"].(map[string]any)["message"])
				}
				return
			}

			data := dataObject(t, resp)
			assert.Equal(t, tt.wantGenre, data["genre"])
			assert.NotEmpty(t, data["id"])
			assert.Equal(t, tt.wantStored, data["stored"] == true)
			if tt.wantForm != "" {
				assert.Equal(t, tt.wantForm, data["form"].(map[string]any)["name"])
			} else {
				assert.NotContains(t, data, "form")
			}
		})
	}
}

func TestClassifyPersistsAndCountsHits(t *testing.T) {
	env := setupTestRouter(t)

	var id string
	for want := 1; want <= 2; want++ {
		w, resp := env.do(t, http.MethodPost, "/classify", map[string]any{"text": testutil.JingYeSi})
		require.Equal(t, http.StatusOK, w.Code)
		data := dataObject(t, resp)
		assert.EqualValues(t, want, data["hit_count"])
		id = data["id"].(string)
	}

	w, resp := env.do(t, http.MethodGet, "/analyses/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataObject(t, resp)
	assert.Equal(t, "静夜思", data["title"])
	assert.Equal(t, "李白", data["author"])
	assert.Equal(t, "唐", data["dynasty"])
	assert.EqualValues(t, 2, data["hit_count"])
}

func TestClassifyWithoutPersistence(t *testing.T) {
	env := setupTestRouter(t)

	w, resp := env.do(t, http.MethodPost, "/classify", map[string]any{"text": testutil.LunYu, "persist": false})
	require.Equal(t, http.StatusOK, w.Code)
	id := dataObject(t, resp)["id"].(string)

	w, _ = env.do(t, http.MethodGet, "/analyses/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClassifyBatch(t *testing.T) {
	env := setupTestRouter(t)

	t.Run("results keep request order", func(t *testing.T) {
		body := map[string]any{
			"texts": []string{testutil.JingYeSi, testutil.ShuiDiaoGeTou, testutil.LunYu, testutil.NewsReport},
		}
		w, resp := env.do(t, http.MethodPost, "/classify/batch", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		data := resp["data"].([]any)
		require.Len(t, data, 4)
		genres := make([]string, len(data))
		for i, item := range data {
			genres[i] = item.(map[string]any)["genre"].(string)
		}
		assert.Equal(t, []string{"poetry", "lyrics", "prose", "plain"}, genres)
	})

	t.Run("empty batch", func(t *testing.T) {
		w, resp := env.do(t, http.MethodPost, "/classify/batch", map[string]any{"texts": []string{}})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_REQUEST", errorCode(t, resp))
	})

	t.Run("too many texts", func(t *testing.T) {
		body := map[string]any{"texts": []string{"一", "二", "三", "四", "五"}}
		w, resp := env.do(t, http.MethodPost, "/classify/batch", body)
		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "BATCH_TOO_LARGE", errorCode(t, resp))
	})

	t.Run("one text too long", func(t *testing.T) {
		body := map[string]any{"texts": []string{testutil.LunYu, strings.Repeat("字", 201)}, "persist": false}
		w, resp := env.do(t, http.MethodPost, "/classify/batch", body)
		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "TEXT_TOO_LONG", errorCode(t, resp))
		assert.Equal(t, "text 1: Text has 201 characters, limit is 200", resp["error"].(map[string]any)["message"])
	})
}
