package engine

// Config holds the tunable scoring parameters. It is immutable after the
// engine is constructed; validation happens once, at construction.
type Config struct {
	CertaintyWeight   float64 `yaml:"certainty_weight" mapstructure:"certainty_weight"`
	EvidenceWeight    float64 `yaml:"evidence_weight" mapstructure:"evidence_weight"`
	ClaimWeight       float64 `yaml:"claim_weight" mapstructure:"claim_weight"`
	HighThreshold     int     `yaml:"high_threshold" mapstructure:"high_threshold"`
	MediumThreshold   int     `yaml:"medium_threshold" mapstructure:"medium_threshold"`
	MinSentenceLength int     `yaml:"min_sentence_length" mapstructure:"min_sentence_length"`
	MaxTextLength     int     `yaml:"max_text_length" mapstructure:"max_text_length"`
}

// DefaultConfig returns the reference calibration. The weights and
// thresholds are tuning parameters carried over unchanged; they are not
// derived from anything.
func DefaultConfig() Config {
	return Config{
		CertaintyWeight:   0.5,
		EvidenceWeight:    0.3,
		ClaimWeight:       0.2,
		HighThreshold:     70,
		MediumThreshold:   40,
		MinSentenceLength: 5,
		MaxTextLength:     1000000,
	}
}

// Validate checks the configuration invariants. Returned errors are
// *ConfigError values naming the offending field.
func (c Config) Validate() error {
	if c.CertaintyWeight < 0 {
		return &ConfigError{Field: "certainty_weight", Reason: "must not be negative"}
	}
	if c.EvidenceWeight < 0 {
		return &ConfigError{Field: "evidence_weight", Reason: "must not be negative"}
	}
	if c.ClaimWeight < 0 {
		return &ConfigError{Field: "claim_weight", Reason: "must not be negative"}
	}
	if c.HighThreshold < 0 || c.HighThreshold > 100 {
		return &ConfigError{Field: "high_threshold", Reason: "must be between 0 and 100"}
	}
	if c.MediumThreshold < 0 || c.MediumThreshold > 100 {
		return &ConfigError{Field: "medium_threshold", Reason: "must be between 0 and 100"}
	}
	if c.HighThreshold <= c.MediumThreshold {
		return &ConfigError{Field: "high_threshold", Reason: "must be greater than medium_threshold"}
	}
	if c.MinSentenceLength <= 0 {
		return &ConfigError{Field: "min_sentence_length", Reason: "must be positive"}
	}
	if c.MaxTextLength <= 0 {
		return &ConfigError{Field: "max_text_length", Reason: "must be positive"}
	}
	return nil
}
