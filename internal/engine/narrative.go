package engine

import "fmt"

// interpretation renders the tier-specific narrative paragraph. One fixed
// template per tier, parameterized by the counts and the score.
func interpretation(risk RiskLevel, score, certaintyCount, evidenceCount, claimCount int) string {
	switch risk {
	case RiskHigh:
		return fmt.Sprintf(
			"This text exhibits strong confidence without adequate evidence (score: %d/100). "+
				"It contains %d certainty markers but only %d evidence markers, "+
				"indicating a %d:%d ratio of assertive language to supporting citations. "+
				"Additionally, %d verifiable claims were detected. This pattern suggests the AI is "+
				"making claims with inappropriate confidence. Users should independently verify all assertions "+
				"before trusting this content.",
			score, certaintyCount, evidenceCount, certaintyCount, evidenceCount, claimCount)
	case RiskMedium:
		return fmt.Sprintf(
			"This text shows moderate confidence levels (score: %d/100). "+
				"While it contains %d certainty markers, there are %d "+
				"evidence markers providing some grounding. The text includes %d verifiable claims. "+
				"Critical assertions should be verified, especially those marked with certainty language. "+
				"The AI is expressing some appropriate hedging but could improve citation practices.",
			score, certaintyCount, evidenceCount, claimCount)
	default:
		return fmt.Sprintf(
			"This text demonstrates good epistemic humility (score: %d/100). "+
				"With %d certainty markers and %d evidence markers, "+
				"the text shows appropriate hedging and qualification. %d verifiable claims "+
				"were detected with proper context. The AI appears to be expressing appropriate uncertainty "+
				"about its claims. However, always verify important information independently.",
			score, certaintyCount, evidenceCount, claimCount)
	}
}

// recommendations returns the tier-specific action list, most cautious for
// HIGH. Callers receive a fresh slice.
func recommendations(risk RiskLevel) []string {
	switch risk {
	case RiskHigh:
		return []string{
			"Verify all claims independently before using this information",
			"Look for primary sources and peer-reviewed research",
			"Cross-reference with multiple authoritative sources",
			"Be especially cautious with numerical claims and predictions",
			"Consider consulting domain experts",
		}
	case RiskMedium:
		return []string{
			"Verify key claims, especially those affecting decisions",
			"Look for supporting evidence for main assertions",
			"Check if sources are cited and authoritative",
			"Be cautious with specific numbers and dates",
		}
	default:
		return []string{
			"Content shows good practices but always verify critical information",
			"Check that cited sources are reputable and current",
			"Verify any claims that will inform important decisions",
		}
	}
}
