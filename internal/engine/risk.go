package engine

// classifyRisk maps a confidence score onto a risk tier. Boundary values
// belong to the higher-severity tier.
func classifyRisk(score int, cfg Config) RiskLevel {
	switch {
	case score >= cfg.HighThreshold:
		return RiskHigh
	case score >= cfg.MediumThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}
