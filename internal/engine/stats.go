package engine

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

var sentenceTerminators = regexp.MustCompile(`[.!?]+`)

// computeStatistics tokenizes the text into words and sentences and derives
// the count-based measures. Sentences shorter than minSentenceLength words
// are discarded before counting. Averages use a denominator floor of 1, so
// degenerate input yields zeros rather than a division fault.
func computeStatistics(text string, minSentenceLength int) Statistics {
	words := strings.Fields(text)

	var sentences int
	for _, candidate := range sentenceTerminators.Split(text, -1) {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if len(strings.Fields(candidate)) >= minSentenceLength {
			sentences++
		}
	}

	characters := utf8.RuneCountInString(text)
	nonSpace := utf8.RuneCountInString(strings.ReplaceAll(text, " ", ""))

	return Statistics{
		Words:               len(words),
		Sentences:           sentences,
		Characters:          characters,
		AvgWordsPerSentence: round1(float64(len(words)) / float64(max(sentences, 1))),
		AvgCharsPerWord:     round1(float64(nonSpace) / float64(max(len(words), 1))),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
