package engine

import "time"

// Version is reported in every analysis result.
const Version = "1.0.0"

// RiskLevel is the three-tier classification of a confidence score.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "HIGH RISK"
	RiskMedium RiskLevel = "MEDIUM RISK"
	RiskLow    RiskLevel = "LOW RISK"
)

// Statistics describes the analyzed text after tokenization and the
// minimum-sentence-length filter.
type Statistics struct {
	Words               int     `json:"words"`
	Sentences           int     `json:"sentences"`
	Characters          int     `json:"characters"`
	AvgWordsPerSentence float64 `json:"avg_words_per_sentence"`
	AvgCharsPerWord     float64 `json:"avg_chars_per_word"`
}

// ComponentScores are the three per-category scores in [0,100] before
// weighting.
type ComponentScores struct {
	Certainty float64 `json:"certainty"`
	Evidence  float64 `json:"evidence"`
	Claim     float64 `json:"claim"`
}

// Result is the engine's sole output. Marker slices are sorted and
// deduplicated, so two analyses of the same text with the same
// configuration produce identical results apart from Timestamp.
type Result struct {
	Version          string           `json:"version"`
	Score            int              `json:"score"`
	Risk             RiskLevel        `json:"risk"`
	Ratio            string           `json:"ratio"`
	Statistics       Statistics       `json:"statistics"`
	CertaintyMarkers []string         `json:"certainty_markers"`
	EvidenceMarkers  []string         `json:"evidence_markers"`
	Claims           []string         `json:"claims"`
	Scores           *ComponentScores `json:"scores,omitempty"`
	Interpretation   string           `json:"interpretation,omitempty"`
	Recommendations  []string         `json:"recommendations,omitempty"`
	Timestamp        time.Time        `json:"timestamp"`
}
