package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxtract/internal/config"
	"rxtract/internal/corrector"
	"rxtract/internal/domain"
	"rxtract/internal/drugindex"
	"rxtract/internal/handler"
	"rxtract/internal/reconcile"
	"rxtract/internal/repository/memory"
	"rxtract/internal/router"
	"rxtract/internal/service"
	"rxtract/internal/strategy"
)

func newTestRouter(apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	c := corrector.New(drugindex.Default(), 0, 0)
	reconciler := reconcile.New(nil, strategy.NewPattern(c))
	extraction := service.NewExtractionService(nil, nil, reconciler, nil, service.ExtractionConfig{})
	jobs := service.NewJobService(memory.NewJobStore(), extraction, 1)

	cfg := &config.Config{}
	cfg.Auth.APIKey = apiKey

	return router.Setup(cfg,
		handler.NewPrescriptionHandler(extraction),
		handler.NewJobHandler(jobs),
		handler.NewHealthHandler(nil, nil),
	)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyzeText(t *testing.T) {
	r := newTestRouter("")

	body := `{"text":"1. Paracetamol 500 mg tablet. Take 1 tablet every 8 hours."}`
	w := doJSON(t, r, http.MethodPost, "/api/v1/prescriptions/analyze-text", body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                  `json:"success"`
		Data    domain.AnalysisResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data.Record)
	require.Len(t, resp.Data.Record.Medications, 1)
	assert.Equal(t, "Paracetamol", resp.Data.Record.Medications[0].Name)
}

func TestAnalyzeTextMissingBody(t *testing.T) {
	r := newTestRouter("")

	w := doJSON(t, r, http.MethodPost, "/api/v1/prescriptions/analyze-text", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
}

func TestCompareEndpoint(t *testing.T) {
	r := newTestRouter("")

	body := `{"text":"1. Paracetamol 500 mg tablet"}`
	w := doJSON(t, r, http.MethodPost, "/api/v1/prescriptions/compare", body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data domain.CompareReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.PatternCount)
	assert.Equal(t, 1, resp.Data.FinalCount)
}

func TestSampleEndpoint(t *testing.T) {
	r := newTestRouter("")

	w := doJSON(t, r, http.MethodGet, "/api/v1/prescriptions/sample", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data domain.AnalysisResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Record)
	assert.Len(t, resp.Data.Record.Medications, 2)
}

func TestAnalyzeRequiresMultipart(t *testing.T) {
	r := newTestRouter("")

	w := doJSON(t, r, http.MethodPost, "/api/v1/prescriptions/analyze", "{}", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIKeyEnforced(t *testing.T) {
	r := newTestRouter("secret")

	body := `{"text":"whatever"}`
	w := doJSON(t, r, http.MethodPost, "/api/v1/prescriptions/analyze-text", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/prescriptions/analyze-text", body,
		map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/prescriptions/analyze-text", body,
		map[string]string{"X-API-Key": "secret"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter("secret")

	// Health checks bypass API key auth.
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
