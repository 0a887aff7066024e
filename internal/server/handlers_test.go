package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/veracitylabs/veracity/internal/cache"
	"github.com/veracitylabs/veracity/internal/config"
	"github.com/veracitylabs/veracity/internal/engine"
	"github.com/veracitylabs/veracity/internal/logger"
	"github.com/veracitylabs/veracity/internal/store"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	return newTestServerWith(t, mutate, nil)
}

func newTestServerWith(t *testing.T, mutate func(*config.Config), st AnalysisStore) *Server {
	t.Helper()

	cfg := config.GetDefaults()
	cfg.Store.Enabled = false
	cfg.Cache.Backend = "none"
	if mutate != nil {
		mutate(cfg)
	}

	eng, err := engine.New(cfg.Engine, nil)
	require.NoError(t, err)

	srv := New(cfg, eng, st, nil, nil, &logger.Logger{Logger: zap.NewNop()})
	t.Cleanup(srv.limiter.Close)
	return srv
}

// fakeStore is an in-memory AnalysisStore for handler tests.
type fakeStore struct {
	mu     sync.Mutex
	byHash map[string]*engine.Result
	stats  *store.AggregateStats
	logged int
}

func newFakeStore() *fakeStore {
	return &fakeStore{byHash: make(map[string]*engine.Result)}
}

func (f *fakeStore) SaveAnalysis(_ context.Context, text string, result *engine.Result) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byHash[cache.Key(text)] = result
	return int64(len(f.byHash)), nil
}

func (f *fakeStore) GetAnalysis(_ context.Context, textHash string) (*engine.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byHash[textHash], nil
}

func (f *fakeStore) Statistics(context.Context) (*store.AggregateStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stats != nil {
		return f.stats, nil
	}
	return &store.AggregateStats{}, nil
}

func (f *fakeStore) LogRequest(context.Context, store.RequestLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logged++
	return nil
}

func doJSON(t *testing.T, srv *Server, method, path, apiKey string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeRequiresAPIKey(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/v1/analyze", "", analyzeRequest{Text: "hello"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/v1/analyze", "not_a_real_key", analyzeRequest{Text: "hello"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnalyzeAcceptsQueryParamKey(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/v1/analyze?api_key=vs_demo_key_12345", "",
		analyzeRequest{Text: "The data shows this works."})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyzeScoresText(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/v1/analyze", "vs_demo_key_12345",
		analyzeRequest{
			Text:    "This is absolutely the only solution that will definitely work!",
			Options: analyzeOptions{Detailed: true},
		})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 75, resp.Score)
	assert.Equal(t, engine.RiskHigh, resp.Risk)
	assert.False(t, resp.Cached)
	assert.Equal(t, "v1", resp.Meta.APIVersion)
	assert.Equal(t, "free", resp.Meta.Tier)
	assert.Contains(t, resp.CertaintyMarkers, "absolutely")
}

func TestAnalyzeRejectsEmptyText(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/v1/analyze", "vs_demo_key_12345",
		analyzeRequest{Text: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "empty")
}

func TestAnalyzeRejectsOversizedText(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.Engine.MaxTextLength = 10
	})

	rec := doJSON(t, srv, http.MethodPost, "/v1/analyze", "vs_demo_key_12345",
		analyzeRequest{Text: "this text is much longer than ten characters"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimitEnforced(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.Auth.Keys = []config.APIKey{
			{Key: "tiny_key", Name: "Tiny", Tier: "free", RateLimit: 1},
		}
	})

	body := analyzeRequest{Text: "Fine text here."}
	rec := doJSON(t, srv, http.MethodPost, "/v1/analyze", "tiny_key", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/v1/analyze", "tiny_key", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestBatchRespectsSizeLimit(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.MaxBatchSize = 2
	})

	rec := doJSON(t, srv, http.MethodPost, "/v1/batch", "vs_demo_key_12345",
		batchRequest{Texts: []string{"one.", "two.", "three."}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchReportsPerItemOutcomes(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/v1/batch", "vs_demo_key_12345",
		batchRequest{Texts: []string{
			"Research shows this method works.",
			"",
			"This will definitely succeed!",
		}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp batchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)

	assert.Equal(t, "ok", resp.Results[0].Status)
	assert.Equal(t, "error", resp.Results[1].Status)
	assert.NotEmpty(t, resp.Results[1].Error)
	assert.Equal(t, "ok", resp.Results[2].Status)
}

func TestExportRendersMarkdown(t *testing.T) {
	srv := newTestServer(t, nil)

	result, err := srv.engine.Analyze("This will definitely work!", true)
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodPost, "/v1/export", "vs_demo_key_12345",
		exportRequest{Result: result, Format: "markdown"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "veracity_result.md")
	assert.Contains(t, rec.Body.String(), "# Veracity Analysis Report")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	srv := newTestServer(t, nil)

	result, err := srv.engine.Analyze("Some text.", false)
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodPost, "/v1/export", "vs_demo_key_12345",
		exportRequest{Result: result, Format: "xml"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLimitsReflectTier(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/v1/limits", "vs_pro_key_67890", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp limitsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pro", resp.Tier)
	assert.Equal(t, 1000, resp.HourlyLimit)
	assert.Equal(t, 999, resp.Remaining) // this request consumed one
	assert.Equal(t, 100, resp.MaxBatchSize)
}

func TestHealthIsUnauthenticated(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/v1/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestAnalyzeReturnsStoredResultWithoutRecomputing(t *testing.T) {
	st := newFakeStore()
	srv := newTestServerWith(t, nil, st)

	text := "Previously analyzed statement."
	// A sentinel score the engine could never produce for this text.
	stored := &engine.Result{Version: engine.Version, Score: 99, Risk: engine.RiskHigh, Ratio: "9:0"}
	_, err := st.SaveAnalysis(context.Background(), text, stored)
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodPost, "/v1/analyze", "vs_demo_key_12345",
		analyzeRequest{Text: text})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Cached)
	assert.Equal(t, 99, resp.Score)
}

func TestAnalyzePersistsToStore(t *testing.T) {
	st := newFakeStore()
	srv := newTestServerWith(t, nil, st)

	text := "The data shows this approach works."
	rec := doJSON(t, srv, http.MethodPost, "/v1/analyze", "vs_demo_key_12345",
		analyzeRequest{Text: text})
	require.Equal(t, http.StatusOK, rec.Code)

	saved, err := st.GetAnalysis(context.Background(), cache.Key(text))
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, engine.RiskLow, saved.Risk)
}

func TestStatisticsReportsDistribution(t *testing.T) {
	st := newFakeStore()
	st.stats = &store.AggregateStats{
		TotalAnalyses:   10,
		AverageScore:    55.5,
		HighRiskCount:   2,
		MediumRiskCount: 3,
		LowRiskCount:    5,
	}
	srv := newTestServerWith(t, nil, st)

	rec := doJSON(t, srv, http.MethodGet, "/v1/statistics", "vs_demo_key_12345", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp statisticsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(10), resp.TotalAnalyses)
	assert.InDelta(t, 20.0, resp.Distribution.High, 0.01)
	assert.InDelta(t, 30.0, resp.Distribution.Medium, 0.01)
	assert.InDelta(t, 50.0, resp.Distribution.Low, 0.01)
}

func TestStatisticsUnavailableWithoutStore(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/v1/statistics", "vs_demo_key_12345", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/v1/nope", "vs_demo_key_12345", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
