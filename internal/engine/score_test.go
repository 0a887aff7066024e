package engine

import "testing"

func TestComponentScoreCaps(t *testing.T) {
	if got := componentScore(10, 1, certaintyMultiplier); got != 100 {
		t.Errorf("expected capped score 100, got %v", got)
	}
	if got := componentScore(0, 5, certaintyMultiplier); got != 0 {
		t.Errorf("expected 0 for no markers, got %v", got)
	}
	if got := componentScore(3, 0, certaintyMultiplier); got != 0 {
		t.Errorf("expected 0 for zero sentences, got %v", got)
	}
}

func TestConfidenceScoreZeroSentences(t *testing.T) {
	cfg := DefaultConfig()
	scores := computeScores(0, 0, 0, 0)
	if got := confidenceScore(scores, 0, cfg); got != 0 {
		t.Errorf("expected 0 confidence for zero sentences, got %d", got)
	}
}

func TestConfidenceScoreWeighting(t *testing.T) {
	cfg := DefaultConfig()

	// 3 certainty markers in 1 sentence: 90*0.5 + 100*0.3 + 0 = 75.
	scores := computeScores(3, 0, 0, 1)
	if got := confidenceScore(scores, 1, cfg); got != 75 {
		t.Errorf("expected 75, got %d", got)
	}

	// 3 evidence markers in 1 sentence: 0 + (100-75)*0.3 + 0 = 7.5 -> 8.
	scores = computeScores(0, 3, 0, 1)
	if got := confidenceScore(scores, 1, cfg); got != 8 {
		t.Errorf("expected 8, got %d", got)
	}
}

func TestConfidenceScoreMonotonicInCertainty(t *testing.T) {
	cfg := DefaultConfig()
	prev := -1
	for count := 0; count <= 10; count++ {
		scores := computeScores(count, 2, 1, 4)
		score := confidenceScore(scores, 4, cfg)
		if score < prev {
			t.Fatalf("score decreased from %d to %d at certainty count %d", prev, score, count)
		}
		prev = score
	}
}

func TestConfidenceScoreAntimonotonicInEvidence(t *testing.T) {
	cfg := DefaultConfig()
	prev := 101
	for count := 0; count <= 10; count++ {
		scores := computeScores(3, count, 1, 4)
		score := confidenceScore(scores, 4, cfg)
		if score > prev {
			t.Fatalf("score increased from %d to %d at evidence count %d", prev, score, count)
		}
		prev = score
	}
}

func TestClassifyRiskBoundaries(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		score int
		want  RiskLevel
	}{
		{100, RiskHigh},
		{70, RiskHigh},
		{69, RiskMedium},
		{40, RiskMedium},
		{39, RiskLow},
		{0, RiskLow},
	}
	for _, tc := range cases {
		if got := classifyRisk(tc.score, cfg); got != tc.want {
			t.Errorf("score %d: expected %s, got %s", tc.score, tc.want, got)
		}
	}
}
