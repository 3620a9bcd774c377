package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/stocksentinel/internal/config"
	"github.com/seenimoa/stocksentinel/internal/logging"
	"github.com/seenimoa/stocksentinel/internal/pipeline"
	"github.com/seenimoa/stocksentinel/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

type fakeService struct {
	mu      sync.Mutex
	gotReq  pipeline.Request
	report  *models.Report
	err     error
	info    models.StockInfo
	infoErr error
}

func (f *fakeService) Analyze(_ context.Context, req pipeline.Request) (*models.Report, error) {
	f.mu.Lock()
	f.gotReq = req
	f.mu.Unlock()
	return f.report, f.err
}

func (f *fakeService) StockInfo(_ context.Context, ticker string) (models.StockInfo, error) {
	if f.infoErr != nil {
		return models.StockInfo{}, f.infoErr
	}
	info := f.info
	info.Ticker = strings.ToUpper(ticker)
	return info, nil
}

func (f *fakeService) Components() map[string]string {
	return map[string]string{"news_collector": "NewsAPI", "sentiment_analyzer": "lexicon"}
}

func testConfig() *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{DefaultDays: 7, DefaultMaxArticles: 50},
		API:      config.APIConfig{CORSOrigins: []string{"*"}},
	}
}

func testServer(t *testing.T, svc *fakeService) *Server {
	t.Helper()
	return NewServer(testConfig(), svc, logging.Nop(), "test")
}

func do(t *testing.T, srv *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp), "decode error response")
	return resp.Detail
}

func sampleReport() *models.Report {
	return &models.Report{
		Ticker:       "AAPL",
		AnalysisDate: "2024-03-15T12:00:00Z",
		StockInfo:    models.FallbackStockInfo("AAPL"),
		Scoring:      models.ScoringResult{OverallScore: 87.54, Recommendation: models.StrongBuy, Confidence: models.ConfidenceHigh},
		ArticleCount: 12,
		TopArticles:  []models.TopArticle{},
	}
}

// ════════════════════════════════════════════════════════════════════
// Descriptor handlers
// ════════════════════════════════════════════════════════════════════

func TestHandleRoot(t *testing.T) {
	rec := do(t, testServer(t, &fakeService{}), "GET", "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var info ServiceInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&info))
	assert.Equal(t, "StockSentinel API", info.Message)
	assert.Equal(t, "test", info.Version)
	assert.Equal(t, "/api/analyze/{ticker}", info.Endpoints["analyze"])
}

func TestHandleHealth(t *testing.T) {
	rec := do(t, testServer(t, &fakeService{}), "GET", "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	_, err := time.Parse(time.RFC3339, resp.Timestamp)
	assert.NoError(t, err, "timestamp %q is not RFC3339", resp.Timestamp)
	assert.Equal(t, "lexicon", resp.Components["sentiment_analyzer"])
}

// ════════════════════════════════════════════════════════════════════
// Analyze handler
// ════════════════════════════════════════════════════════════════════

func TestHandleAnalyze(t *testing.T) {
	svc := &fakeService{report: sampleReport()}
	rec := do(t, testServer(t, svc), "GET", "/api/analyze/aapl?days=3&max_articles=20")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, pipeline.Request{Ticker: "aapl", Days: 3, MaxArticles: 20}, svc.gotReq)

	// The report is returned bare, not wrapped in an envelope.
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	for _, key := range []string{"ticker", "analysis_date", "stock_info", "sentiment_analysis", "scoring", "article_count", "top_articles"} {
		assert.Contains(t, body, key)
	}
	assert.Equal(t, "AAPL", body["ticker"])
}

func TestHandleAnalyze_Defaults(t *testing.T) {
	svc := &fakeService{report: sampleReport()}
	srv := testServer(t, svc)
	do(t, srv, "GET", "/api/analyze/MSFT")

	assert.Equal(t, 7, svc.gotReq.Days)
	assert.Equal(t, 50, svc.gotReq.MaxArticles)

	// Zero config values fall back to the package defaults.
	srv = NewServer(&config.Config{}, svc, logging.Nop(), "test")
	do(t, srv, "GET", "/api/analyze/MSFT")
	assert.Equal(t, pipeline.DefaultDays, svc.gotReq.Days)
	assert.Equal(t, pipeline.DefaultMaxArticles, svc.gotReq.MaxArticles)
}

func TestHandleAnalyze_BadQuery(t *testing.T) {
	tests := []struct {
		name   string
		target string
		detail string
	}{
		{"days not int", "/api/analyze/AAPL?days=week", `days must be an integer, got "week"`},
		{"max_articles not int", "/api/analyze/AAPL?max_articles=1.5", `max_articles must be an integer, got "1.5"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, testServer(t, &fakeService{}), "GET", tt.target)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.detail, decodeDetail(t, rec))
		})
	}
}

func TestHandleAnalyze_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid input", fmt.Errorf("%w: invalid ticker symbol \"123\"", pipeline.ErrInvalidInput), http.StatusBadRequest},
		{"no articles", fmt.Errorf("%w for ticker ZZZZ", pipeline.ErrNoArticles), http.StatusNotFound},
		{"internal", errors.New("classifier exploded"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, testServer(t, &fakeService{err: tt.err}), "GET", "/api/analyze/AAPL")
			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.err.Error(), decodeDetail(t, rec))
		})
	}
}

// ════════════════════════════════════════════════════════════════════
// Stock info and config handlers
// ════════════════════════════════════════════════════════════════════

func TestHandleStockInfo(t *testing.T) {
	svc := &fakeService{info: models.StockInfo{CompanyName: "Apple Inc.", Sector: "Technology"}}
	rec := do(t, testServer(t, svc), "GET", "/api/stock-info/aapl")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "current_price", "nil prices should be omitted")

	var info models.StockInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&info))
	assert.Equal(t, "AAPL", info.Ticker)
	assert.Equal(t, "Apple Inc.", info.CompanyName)
}

func TestHandleStockInfo_Errors(t *testing.T) {
	rec := do(t, testServer(t, &fakeService{infoErr: pipeline.ErrInvalidInput}), "GET", "/api/stock-info/12345")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, testServer(t, &fakeService{infoErr: errors.New("boom")}), "GET", "/api/stock-info/AAPL")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleGetConfig(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "")
	t.Setenv("STOCKSENTINEL_PROVIDERS_NEWSAPI_KEY", "")

	cfg := testConfig()
	cfg.Providers.NewsAPIKey = "abcdef123456789"
	cfg.Classifier.Provider = "finbert"
	cfg.Classifier.APIToken = "hf_secret_token_value"
	srv := NewServer(cfg, &fakeService{}, logging.Nop(), "test")

	rec := do(t, srv, "GET", "/api/config")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.NotContains(t, body, "abcdef123456789", "secrets leaked")
	require.NotContains(t, body, "hf_secret_token_value", "secrets leaked")

	var resp ConfigResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, "finbert", resp.Classifier.Provider)
	assert.Equal(t, 7, resp.Analysis.DefaultDays)
	require.Len(t, resp.Keys, 3)
	assert.True(t, resp.Keys[0].IsSet)
	assert.Equal(t, "abc...789", resp.Keys[0].Masked)
}

// ════════════════════════════════════════════════════════════════════
// Routing and middleware
// ════════════════════════════════════════════════════════════════════

func TestNotFoundIsJSON(t *testing.T) {
	rec := do(t, testServer(t, &fakeService{}), "GET", "/api/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decodeDetail(t, rec))
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, testServer(t, &fakeService{}), "POST", "/health")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSHeaders(t *testing.T) {
	srv := testServer(t, &fakeService{})
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://localhost:8501")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovererReturns500(t *testing.T) {
	srv := testServer(t, &fakeService{})
	srv.Router().Get("/panic", func(w http.ResponseWriter, r *http.Request) { panic("boom") })

	rec := do(t, srv, "GET", "/panic")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv := testServer(t, &fakeService{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
