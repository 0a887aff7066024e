package engine

import "math"

// Density multipliers for the three component scores. These are fixed
// calibration constants of the scoring model, not configuration.
const (
	certaintyMultiplier = 30
	evidenceMultiplier  = 25
	claimMultiplier     = 15
)

// componentScore converts a marker count into a 0-100 score based on its
// per-sentence density.
func componentScore(count, sentences int, multiplier float64) float64 {
	if sentences == 0 {
		return 0
	}
	density := float64(count) / float64(sentences)
	return math.Min(100, density*multiplier)
}

// computeScores derives all three component scores.
func computeScores(certaintyCount, evidenceCount, claimCount, sentences int) ComponentScores {
	return ComponentScores{
		Certainty: componentScore(certaintyCount, sentences, certaintyMultiplier),
		Evidence:  componentScore(evidenceCount, sentences, evidenceMultiplier),
		Claim:     componentScore(claimCount, sentences, claimMultiplier),
	}
}

// confidenceScore combines the component scores into the weighted composite.
// The evidence term is inverted: more evidence per sentence lowers the
// score. A text with no qualifying sentences scores zero outright.
func confidenceScore(scores ComponentScores, sentences int, cfg Config) int {
	if sentences == 0 {
		return 0
	}
	raw := scores.Certainty*cfg.CertaintyWeight +
		(100-scores.Evidence)*cfg.EvidenceWeight +
		scores.Claim*cfg.ClaimWeight
	score := int(math.Round(raw))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
