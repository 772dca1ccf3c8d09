package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveClassification(t *testing.T) {
	m := New()

	m.ObserveClassification("poetry", "api", 20, 2*time.Millisecond)
	m.ObserveClassification("poetry", "api", 28, time.Millisecond)
	m.ObserveClassification("prose", "cli", 30, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.classifications.WithLabelValues("poetry", "api")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.classifications.WithLabelValues("prose", "cli")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.classifyDuration))
}

func TestObserveRejectionAndEvaluation(t *testing.T) {
	m := New()

	m.ObserveRejection("text_too_long")
	m.ObserveEvaluation("poetry", true)
	m.ObserveEvaluation("poetry", false)
	m.ObserveEvaluation("poetry", true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("text_too_long")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.evaluated.WithLabelValues("poetry", "correct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.evaluated.WithLabelValues("poetry", "wrong")))
}

func TestObserveHTTPRequest(t *testing.T) {
	m := New()

	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/classify", http.StatusOK, time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/v1/classify", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestRegistriesAreIsolated(t *testing.T) {
	a, b := New(), New()

	a.ObserveRejection("batch_too_large")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.rejected.WithLabelValues("batch_too_large")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.rejected.WithLabelValues("batch_too_large")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveClassification("lyrics", "api", 48, time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	body := w.Body.String()
	for _, metric := range []string{
		"go_goroutines",
		"genre_classifier_classifications_total",
		"genre_classifier_classify_duration_seconds",
		`genre="lyrics"`,
	} {
		assert.Contains(t, body, metric)
	}
}
