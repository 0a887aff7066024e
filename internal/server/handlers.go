package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/veracitylabs/veracity/internal/cache"
	"github.com/veracitylabs/veracity/internal/engine"
	"github.com/veracitylabs/veracity/internal/export"
	"github.com/veracitylabs/veracity/internal/websocket"
	"github.com/veracitylabs/veracity/internal/worker"
)

func (s *Server) meta(tier string, start time.Time) responseMeta {
	return responseMeta{
		APIVersion:   apiVersion,
		Tier:         tier,
		ResponseTime: math.Round(time.Since(start).Seconds()*1000) / 1000,
	}
}

// handleAnalyze scores one text.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	key := keyFrom(r.Context())

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	textHash := cache.Key(req.Text)
	useCache := s.cache != nil && req.Options.cacheEnabled()

	if useCache {
		if result, found := s.cache.Get(r.Context(), textHash); found {
			s.broadcastAnalysis(r.Context(), result, true, start)
			writeJSON(w, http.StatusOK, analyzeResponse{
				Result: result,
				Cached: true,
				Meta:   s.meta(key.Tier, start),
			})
			return
		}
	}

	// The history store keeps results past cache TTLs; a hit there skips
	// re-analysis just like a cache hit.
	if s.store != nil && req.Options.cacheEnabled() {
		stored, err := s.store.GetAnalysis(r.Context(), textHash)
		if err != nil {
			s.logger.Warn("History lookup failed", zap.Error(err))
		} else if stored != nil {
			if useCache {
				if err := s.cache.Set(r.Context(), textHash, stored); err != nil {
					s.logger.Warn("Failed to cache result", zap.Error(err))
				}
			}
			s.broadcastAnalysis(r.Context(), stored, true, start)
			writeJSON(w, http.StatusOK, analyzeResponse{
				Result: stored,
				Cached: true,
				Meta:   s.meta(key.Tier, start),
			})
			return
		}
	}

	result, err := s.engine.Analyze(req.Text, req.Options.Detailed)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}

	if useCache {
		if err := s.cache.Set(r.Context(), textHash, result); err != nil {
			s.logger.Warn("Failed to cache result", zap.Error(err))
		}
	}

	if s.store != nil {
		if _, err := s.store.SaveAnalysis(r.Context(), req.Text, result); err != nil {
			s.logger.Warn("Failed to persist analysis", zap.Error(err))
		}
	}

	atomic.AddInt64(&s.totalAnalyses, 1)
	s.broadcastAnalysis(r.Context(), result, false, start)

	writeJSON(w, http.StatusOK, analyzeResponse{
		Result: result,
		Cached: false,
		Meta:   s.meta(key.Tier, start),
	})
}

// handleBatch scores up to MaxBatchSize texts concurrently.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	key := keyFrom(r.Context())

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	if len(req.Texts) == 0 {
		writeError(w, http.StatusBadRequest, "texts must not be empty")
		return
	}
	if len(req.Texts) > s.config.Server.MaxBatchSize {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("batch size %d exceeds maximum of %d", len(req.Texts), s.config.Server.MaxBatchSize))
		return
	}

	tasks := make([]worker.Task, len(req.Texts))
	for i, text := range req.Texts {
		tasks[i] = worker.Task{ID: fmt.Sprintf("item_%d", i), Text: text}
	}

	pool := worker.NewPool(s.engine, s.config.Server.BatchWorkers, req.Options.Detailed, s.logger.Logger)
	outcomes := pool.Run(r.Context(), tasks)

	resp := batchResponse{
		Total:   len(outcomes),
		Results: make([]batchItem, len(outcomes)),
	}
	for i, out := range outcomes {
		item := batchItem{Index: i}
		if out.Err != nil {
			item.Status = "error"
			item.Error = out.Err.Error()
			resp.Failed++
		} else {
			item.Status = "ok"
			item.Result = out.Result
			resp.Succeeded++
			atomic.AddInt64(&s.totalAnalyses, 1)

			if s.store != nil {
				if _, err := s.store.SaveAnalysis(r.Context(), req.Texts[i], out.Result); err != nil {
					s.logger.Warn("Failed to persist batch item", zap.Int("index", i), zap.Error(err))
				}
			}
		}
		resp.Results[i] = item
	}
	resp.Meta = s.meta(key.Tier, start)

	writeJSON(w, http.StatusOK, resp)
}

// handleStatistics reports aggregates over the stored analysis history.
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	key := keyFrom(r.Context())

	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis history is not enabled")
		return
	}

	stats, err := s.store.Statistics(r.Context())
	if err != nil {
		s.logger.Error("Failed to query statistics", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to query statistics")
		return
	}

	var dist riskDistribution
	if stats.TotalAnalyses > 0 {
		total := float64(stats.TotalAnalyses)
		dist.High = math.Round(float64(stats.HighRiskCount)/total*1000) / 10
		dist.Medium = math.Round(float64(stats.MediumRiskCount)/total*1000) / 10
		dist.Low = math.Round(float64(stats.LowRiskCount)/total*1000) / 10
	}

	writeJSON(w, http.StatusOK, statisticsResponse{
		AggregateStats: stats,
		Distribution:   dist,
		Meta:           s.meta(key.Tier, start),
	})
}

// handleExport renders a previously returned result in a download format.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Result == nil {
		writeError(w, http.StatusBadRequest, "result is required")
		return
	}

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := export.Render(req.Result, format)
	if err != nil {
		s.logger.Error("Export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render export")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleLimits reports the caller's tier limits.
func (s *Server) handleLimits(w http.ResponseWriter, r *http.Request) {
	key := keyFrom(r.Context())
	writeJSON(w, http.StatusOK, limitsResponse{
		Tier:          key.Tier,
		HourlyLimit:   key.RateLimit,
		Remaining:     s.limiter.Remaining(key.Key, key.RateLimit),
		MaxTextLength: s.config.Engine.MaxTextLength,
		MaxBatchSize:  s.config.Server.MaxBatchSize,
	})
}

// handleHealth is unauthenticated and reports component availability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":  "healthy",
		"version": engine.Version,
		"uptime":  time.Since(s.startTime).Round(time.Second).String(),
		"components": map[string]bool{
			"store":     s.store != nil,
			"cache":     s.cache != nil,
			"websocket": s.hub != nil,
		},
	}
	writeJSON(w, http.StatusOK, health)
}

// handleIndex describes the API surface.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "veracity",
		"version": engine.Version,
		"endpoints": map[string]string{
			"POST /v1/analyze":   "Analyze one text",
			"POST /v1/batch":     "Analyze up to " + fmt.Sprint(s.config.Server.MaxBatchSize) + " texts",
			"GET /v1/statistics": "Aggregate analysis statistics",
			"POST /v1/export":    "Export a result as json, csv, markdown or html",
			"GET /v1/limits":     "Caller tier and limits",
			"GET /v1/health":     "Health check",
			"GET /ws":            "Live analysis event stream",
		},
	})
}

func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, fmt.Sprintf("no such endpoint: %s %s", r.Method, r.URL.Path))
}

// writeAnalysisError maps engine errors to HTTP statuses. Invalid input is
// the caller's fault; everything else is ours.
func (s *Server) writeAnalysisError(w http.ResponseWriter, err error) {
	var emptyErr *engine.EmptyInputError
	var tooLargeErr *engine.InputTooLargeError
	switch {
	case errors.As(err, &emptyErr), errors.As(err, &tooLargeErr):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("Analysis failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "analysis failed")
	}
}

func (s *Server) broadcastAnalysis(ctx context.Context, result *engine.Result, cached bool, start time.Time) {
	if s.hub == nil {
		return
	}
	requestID := requestIDFrom(ctx)
	s.hub.BroadcastEvent(websocket.Event{
		Type:      websocket.EventTypeAnalysis,
		Timestamp: time.Now(),
		RequestID: requestID,
		Data: websocket.AnalysisEvent{
			RequestID:      requestID,
			Score:          result.Score,
			Risk:           string(result.Risk),
			Ratio:          result.Ratio,
			CertaintyCount: len(result.CertaintyMarkers),
			EvidenceCount:  len(result.EvidenceMarkers),
			ClaimCount:     len(result.Claims),
			Cached:         cached,
			DurationMS:     float64(time.Since(start).Microseconds()) / 1000,
		},
	})
}
