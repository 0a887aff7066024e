package server

import (
	"github.com/veracitylabs/veracity/internal/engine"
	"github.com/veracitylabs/veracity/internal/store"
)

const apiVersion = "v1"

// analyzeOptions controls per-request analysis behavior.
type analyzeOptions struct {
	Detailed bool  `json:"detailed"`
	Cache    *bool `json:"cache,omitempty"` // nil means enabled
}

func (o analyzeOptions) cacheEnabled() bool {
	return o.Cache == nil || *o.Cache
}

// analyzeRequest is the body of POST /v1/analyze.
type analyzeRequest struct {
	Text    string         `json:"text"`
	Options analyzeOptions `json:"options"`
}

// responseMeta is attached to every successful API response.
type responseMeta struct {
	APIVersion   string  `json:"api_version"`
	Tier         string  `json:"tier"`
	ResponseTime float64 `json:"response_time"` // seconds
}

// analyzeResponse wraps a result with request metadata.
type analyzeResponse struct {
	*engine.Result
	Cached bool         `json:"cached"`
	Meta   responseMeta `json:"meta"`
}

// batchRequest is the body of POST /v1/batch.
type batchRequest struct {
	Texts   []string       `json:"texts"`
	Options analyzeOptions `json:"options"`
}

// batchItem is one entry in a batch response. Failed items carry an error
// message instead of a result.
type batchItem struct {
	Index  int            `json:"index"`
	Status string         `json:"status"` // "ok" or "error"
	Result *engine.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// batchResponse is the body of a successful batch call.
type batchResponse struct {
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Results   []batchItem  `json:"results"`
	Meta      responseMeta `json:"meta"`
}

// riskDistribution expresses stored risk counts as percentages.
type riskDistribution struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
	Low    float64 `json:"low"`
}

// statisticsResponse is the body of GET /v1/statistics.
type statisticsResponse struct {
	*store.AggregateStats
	Distribution riskDistribution `json:"risk_distribution"`
	Meta         responseMeta     `json:"meta"`
}

// exportRequest is the body of POST /v1/export.
type exportRequest struct {
	Result *engine.Result `json:"result"`
	Format string         `json:"format"`
}

// limitsResponse is the body of GET /v1/limits.
type limitsResponse struct {
	Tier          string `json:"tier"`
	HourlyLimit   int    `json:"hourly_limit"` // 0 means unlimited
	Remaining     int    `json:"remaining"`    // -1 means unlimited
	MaxTextLength int    `json:"max_text_length"`
	MaxBatchSize  int    `json:"max_batch_size"`
}

// errorResponse is the body of every API error.
type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}
