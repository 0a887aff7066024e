package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veracitylabs/veracity/internal/engine"
)

func sampleResult() *engine.Result {
	return &engine.Result{
		Version: engine.Version,
		Score:   75,
		Risk:    engine.RiskHigh,
		Ratio:   "3:0",
		Statistics: engine.Statistics{
			Words:               9,
			Sentences:           1,
			Characters:          58,
			AvgWordsPerSentence: 9,
			AvgCharsPerWord:     5.6,
		},
		CertaintyMarkers: []string{"absolutely", "definitely", "will"},
		Interpretation:   "High confidence, low evidence.",
		Recommendations:  []string{"Ask for sources", "Verify claims independently"},
		Timestamp:        time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"", FormatJSON, false},
		{"CSV", FormatCSV, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{" html ", FormatHTML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestToJSONRoundTrip(t *testing.T) {
	data, err := ToJSON(sampleResult(), true)
	require.NoError(t, err)

	var decoded engine.Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 75, decoded.Score)
	assert.Equal(t, engine.RiskHigh, decoded.Risk)
}

func TestToCSV(t *testing.T) {
	data, err := ToCSV(sampleResult())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Score")
	assert.True(t, strings.HasPrefix(lines[1], "75,HIGH RISK,3:0,3,0,0,9,1,"))
}

func TestToMarkdown(t *testing.T) {
	md := ToMarkdown(sampleResult())

	assert.Contains(t, md, "# Veracity Analysis Report")
	assert.Contains(t, md, "**Score:** 75/100")
	assert.Contains(t, md, "**Risk Level:** HIGH RISK")
	assert.Contains(t, md, "- absolutely")
	assert.Contains(t, md, "## Recommendations")
	// No evidence markers were found, so the section is omitted.
	assert.NotContains(t, md, "## Evidence Markers")
}

func TestToHTML(t *testing.T) {
	data, err := ToHTML(sampleResult())
	require.NoError(t, err)

	html := string(data)
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "HIGH RISK")
	assert.Contains(t, html, "#e63946") // high-risk color
	assert.Contains(t, html, "absolutely")
}

func TestRenderDispatch(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatHTML} {
		data, err := Render(sampleResult(), f)
		require.NoError(t, err, f)
		assert.NotEmpty(t, data, f)
	}
	_, err := Render(sampleResult(), Format("xml"))
	assert.Error(t, err)
}

func TestContentTypeAndFilename(t *testing.T) {
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "veracity_result.md", FormatMarkdown.Filename())
	assert.Equal(t, "veracity_result.html", FormatHTML.Filename())
}
