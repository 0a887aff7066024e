// Package export renders completed analysis results into downloadable
// formats. Formatters are read-only over the result: nothing is mutated or
// re-derived.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/veracitylabs/veracity/internal/engine"
)

// Format selects an output rendering.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat validates a format selector from user input.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("invalid format: %q (must be one of: json, csv, markdown, html)", s)
	}
}

// ContentType returns the MIME type for a format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatMarkdown:
		return "text/markdown"
	case FormatHTML:
		return "text/html"
	default:
		return "application/json"
	}
}

// Filename returns the attachment filename for a format.
func (f Format) Filename() string {
	ext := string(f)
	if f == FormatMarkdown {
		ext = "md"
	}
	return "veracity_result." + ext
}

// Render formats the result in the requested format.
func Render(result *engine.Result, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return ToJSON(result, true)
	case FormatCSV:
		return ToCSV(result)
	case FormatMarkdown:
		return []byte(ToMarkdown(result)), nil
	case FormatHTML:
		return ToHTML(result)
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}

// ToJSON exports the result as JSON.
func ToJSON(result *engine.Result, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(result, "", "  ")
	}
	return json.Marshal(result)
}

// ToCSV exports the result summary as a single CSV row with a header.
func ToCSV(result *engine.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"Score", "Risk", "Ratio", "Certainty Count", "Evidence Count",
		"Claim Count", "Words", "Sentences", "Timestamp",
	}
	row := []string{
		strconv.Itoa(result.Score),
		string(result.Risk),
		result.Ratio,
		strconv.Itoa(len(result.CertaintyMarkers)),
		strconv.Itoa(len(result.EvidenceMarkers)),
		strconv.Itoa(len(result.Claims)),
		strconv.Itoa(result.Statistics.Words),
		strconv.Itoa(result.Statistics.Sentences),
		result.Timestamp.Format(time.RFC3339),
	}

	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ToMarkdown exports the result as a Markdown report.
func ToMarkdown(result *engine.Result) string {
	var md strings.Builder

	md.WriteString("# Veracity Analysis Report\n\n")
	fmt.Fprintf(&md, "**Score:** %d/100\n\n", result.Score)
	fmt.Fprintf(&md, "**Risk Level:** %s\n\n", result.Risk)
	fmt.Fprintf(&md, "**Ratio:** %s (Certainty:Evidence)\n\n", result.Ratio)

	md.WriteString("## Statistics\n\n")
	fmt.Fprintf(&md, "- Words: %d\n", result.Statistics.Words)
	fmt.Fprintf(&md, "- Sentences: %d\n", result.Statistics.Sentences)
	fmt.Fprintf(&md, "- Avg words/sentence: %v\n\n", result.Statistics.AvgWordsPerSentence)

	writeMarkerSection(&md, "Certainty Markers", result.CertaintyMarkers)
	writeMarkerSection(&md, "Evidence Markers", result.EvidenceMarkers)
	writeMarkerSection(&md, "Verifiable Claims", result.Claims)

	if result.Interpretation != "" {
		md.WriteString("## Interpretation\n\n")
		md.WriteString(result.Interpretation + "\n\n")
	}

	if len(result.Recommendations) > 0 {
		md.WriteString("## Recommendations\n\n")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(&md, "- %s\n", rec)
		}
	}

	fmt.Fprintf(&md, "\n---\n\n*Generated: %s*\n", result.Timestamp.Format(time.RFC3339))
	return md.String()
}

func writeMarkerSection(md *strings.Builder, title string, markers []string) {
	if len(markers) == 0 {
		return
	}
	fmt.Fprintf(md, "## %s\n\n", title)
	for _, m := range markers {
		fmt.Fprintf(md, "- %s\n", m)
	}
	md.WriteString("\n")
}

// htmlReport is the standalone HTML report. Marker lists are capped to the
// first ten entries, matching the other renderers' summary intent.
var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"cap10": func(items []string) []string {
		if len(items) > 10 {
			return items[:10]
		}
		return items
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Veracity Report - {{.Result.Score}}/100</title>
<style>
body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; max-width: 900px; margin: 50px auto; padding: 20px; background: #f8f9fa; }
.header { text-align: center; background: white; padding: 40px; border-radius: 15px; margin-bottom: 30px; }
.score { font-size: 5em; font-weight: bold; color: {{.Color}}; margin: 20px 0; }
.risk-badge { display: inline-block; background: {{.Color}}; color: white; padding: 10px 30px; border-radius: 25px; font-weight: bold; }
.section { background: white; padding: 30px; margin-bottom: 20px; border-radius: 15px; }
.section h2 { color: #1e2761; border-bottom: 3px solid {{.Color}}; padding-bottom: 10px; }
.list { list-style: none; padding: 0; }
.list li { padding: 12px 15px; margin: 8px 0; background: #f8f9fa; border-radius: 8px; border-left: 4px solid {{.Color}}; }
.interpretation { background: #e7f6f2; padding: 20px; border-radius: 10px; line-height: 1.8; }
.footer { text-align: center; color: #666; margin-top: 40px; }
</style>
</head>
<body>
<div class="header">
<h1>Veracity</h1>
<div class="score">{{.Result.Score}}</div>
<div class="risk-badge">{{.Result.Risk}}</div>
<p>Confidence:Evidence Ratio = {{.Result.Ratio}}</p>
</div>
<div class="section">
<h2>Text Statistics</h2>
<ul class="list">
<li>Words: {{.Result.Statistics.Words}}</li>
<li>Sentences: {{.Result.Statistics.Sentences}}</li>
<li>Avg words/sentence: {{.Result.Statistics.AvgWordsPerSentence}}</li>
</ul>
</div>
<div class="section">
<h2>Certainty Markers ({{len .Result.CertaintyMarkers}})</h2>
<ul class="list">{{range cap10 .Result.CertaintyMarkers}}<li>{{.}}</li>{{end}}</ul>
</div>
<div class="section">
<h2>Evidence Markers ({{len .Result.EvidenceMarkers}})</h2>
<ul class="list">{{range cap10 .Result.EvidenceMarkers}}<li>{{.}}</li>{{end}}</ul>
</div>
<div class="section">
<h2>Verifiable Claims ({{len .Result.Claims}})</h2>
<ul class="list">{{range cap10 .Result.Claims}}<li>{{.}}</li>{{end}}</ul>
</div>
{{if .Result.Interpretation}}<div class="section">
<h2>Interpretation</h2>
<div class="interpretation">{{.Result.Interpretation}}</div>
</div>{{end}}
{{if .Result.Recommendations}}<div class="section">
<h2>Recommendations</h2>
<ul class="list">{{range .Result.Recommendations}}<li>{{.}}</li>{{end}}</ul>
</div>{{end}}
<div class="footer">
<p>Generated by <strong>Veracity v{{.Result.Version}}</strong></p>
<p>{{.Timestamp}}</p>
</div>
</body>
</html>`))

// ToHTML exports the result as a standalone HTML report.
func ToHTML(result *engine.Result) ([]byte, error) {
	color := "#06d6a0"
	switch result.Risk {
	case engine.RiskHigh:
		color = "#e63946"
	case engine.RiskMedium:
		color = "#f77f00"
	}

	data := struct {
		Result    *engine.Result
		Color     template.CSS
		Timestamp string
	}{
		Result:    result,
		Color:     template.CSS(color),
		Timestamp: result.Timestamp.Format(time.RFC3339),
	}

	var buf bytes.Buffer
	if err := htmlReport.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render HTML report: %w", err)
	}
	return buf.Bytes(), nil
}
