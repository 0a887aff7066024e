package store

import "time"

// AnalysisRecord is one stored analysis row.
type AnalysisRecord struct {
	ID             int64     `db:"id"`
	TextHash       string    `db:"text_hash"`
	Text           string    `db:"text"`
	Score          int       `db:"score"`
	Risk           string    `db:"risk"`
	Ratio          string    `db:"ratio"`
	CertaintyCount int       `db:"certainty_count"`
	EvidenceCount  int       `db:"evidence_count"`
	ClaimCount     int       `db:"claim_count"`
	WordCount      int       `db:"word_count"`
	SentenceCount  int       `db:"sentence_count"`
	ResultJSON     []byte    `db:"result_json"`
	CreatedAt      time.Time `db:"created_at"`
}

// AggregateStats summarizes the stored analysis history.
type AggregateStats struct {
	TotalAnalyses   int64   `db:"total" json:"total_analyses"`
	AverageScore    float64 `db:"avg_score" json:"average_score"`
	HighRiskCount   int64   `db:"high_risk" json:"high_risk_count"`
	MediumRiskCount int64   `db:"medium_risk" json:"medium_risk_count"`
	LowRiskCount    int64   `db:"low_risk" json:"low_risk_count"`
}

// RequestLog records one API request for monitoring.
type RequestLog struct {
	APIKeyName   string
	Endpoint     string
	StatusCode   int
	ResponseTime float64 // seconds
}
