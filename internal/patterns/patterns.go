package patterns

import "regexp"

// Category identifies which marker family a pattern belongs to.
type Category string

const (
	CategoryCertainty Category = "certainty"
	CategoryEvidence  Category = "evidence"
	CategoryClaim     Category = "claim"
)

// Pattern is a single compiled, case-insensitive matcher.
type Pattern struct {
	Category Category
	Regexp   *regexp.Regexp
}

// Library holds the fixed pattern collections for every marker category.
// It is read-only after construction and safe to share across goroutines.
type Library struct {
	certainty []Pattern
	evidence  []Pattern
	claim     []Pattern
}

// Absolutist and assertive language: the text sounds sure of itself.
var certaintyPatterns = []string{
	`\b(definitely|certainly|absolutely|undoubtedly|unquestionably)\b`,
	`\b(always|never|all|none|every|everyone|nobody|nothing|everywhere)\b`,
	`\b(clearly|obviously|evidently|manifestly|plainly|undeniably)\b`,
	`\b(proven|established|known|fact|indisputable|irrefutable)\b`,
	`\b(will|must|cannot|impossible|guaranteed|assured)\b`,
	`\b(universally|completely|entirely|totally|wholly|perfectly)\b`,
	`\b(inevitable|unavoidable|inescapable|certain to)\b`,
	`\b(without (question|doubt))\b`,
}

// Hedging, citation and attribution language: the text grounds itself.
var evidencePatterns = []string{
	`https?://[^\s]+`,
	`\[[\d]+\]`,
	`\([^)]*\d{4}[^)]*\)`,
	`\b(according to|source:|per|based on|research shows|studies? show|data suggests?)\b`,
	`\b(might|could|may|possibly|likely|probably|perhaps|potentially)\b`,
	`\b(appears?|seems?|suggests?|indicates?|implies?)\b`,
	`\b(approximately|roughly|around|about|estimate[sd]?|potential)\b`,
	`\b(some|many|several|various|numerous|multiple)\s+(researchers?|studies|experts?)\b`,
	`doi:\s*\d+\.\d+`,
	`\b[A-Z][a-z]+ et al\.\s*\(\d{4}\)\b`,
}

// Quantified or causal factual assertions that could be checked.
var claimPatterns = []string{
	`\d+(\.\d+)?\s*(percent|%|degrees?|times|years?|people|users|millions?|billions?)`,
	`\b\d{4}\b`,
	`\b(causes?|leads? to|results? in|due to|because of|triggered by)\b`,
	`\b(increase[sd]?|decrease[sd]?|rise[ns]?|f[ae]ll[s]?|grow[ns]?|decline[sd]?)\b.*\b(by|to)\b.*\d+`,
	`\b(correlation|causation|effect|impact|influence)\b.*\b(between|of)\b`,
	`\b\d+(\.\d+)?\s*times (more|less|higher|lower)\b`,
	`\bprove[sd]?\s+that\b`,
	`\bdemonstrate[sd]?\s+that\b`,
}

// Default returns the built-in pattern library. The pattern sets are fixed
// calibration inputs to the scoring model and are not user-configurable.
func Default() *Library {
	return &Library{
		certainty: compile(CategoryCertainty, certaintyPatterns),
		evidence:  compile(CategoryEvidence, evidencePatterns),
		claim:     compile(CategoryClaim, claimPatterns),
	}
}

func compile(category Category, exprs []string) []Pattern {
	compiled := make([]Pattern, 0, len(exprs))
	for _, expr := range exprs {
		compiled = append(compiled, Pattern{
			Category: category,
			Regexp:   regexp.MustCompile(`(?i)` + expr),
		})
	}
	return compiled
}

// ForCategory returns the ordered pattern collection for one category.
func (l *Library) ForCategory(category Category) []Pattern {
	switch category {
	case CategoryCertainty:
		return l.certainty
	case CategoryEvidence:
		return l.evidence
	case CategoryClaim:
		return l.claim
	default:
		return nil
	}
}

// Categories lists the marker categories in their canonical order.
func Categories() []Category {
	return []Category{CategoryCertainty, CategoryEvidence, CategoryClaim}
}
