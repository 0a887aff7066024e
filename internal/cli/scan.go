package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/veracitylabs/veracity/internal/engine"
	"github.com/veracitylabs/veracity/internal/export"
)

var (
	scanFormat   string
	scanOutput   string
	scanDetailed bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Analyze a text file or stdin",
	Long: `Scan analyzes one text and prints the confidence score, risk level,
found markers, and recommendations. Reads from stdin when no file is
given.

Example:
  veracity scan statement.txt
  cat statement.txt | veracity scan
  veracity scan statement.txt --format html --output report.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanFormat, "format", "", "write the result in a format (json, csv, markdown, html)")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "output path (default: stdout)")
	scanCmd.Flags().BoolVarP(&scanDetailed, "detailed", "d", true, "include markers, component scores, and recommendations")
}

func runScan(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}

	eng, err := engine.New(engine.DefaultConfig(), nil)
	if err != nil {
		return err
	}

	result, err := eng.Analyze(text, scanDetailed)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if scanFormat != "" {
		return writeFormatted(result, scanFormat, scanOutput)
	}

	printResult(cmd.OutOrStdout(), result)
	return nil
}

func readInput(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func writeFormatted(result *engine.Result, format, output string) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	data, err := export.Render(result, f)
	if err != nil {
		return err
	}

	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", output)
	}
	return nil
}

func printResult(w io.Writer, result *engine.Result) {
	fmt.Fprintf(w, "\nConfidence score: %d/100  (%s)\n", result.Score, result.Risk)
	fmt.Fprintf(w, "Certainty:Evidence ratio: %s\n\n", result.Ratio)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetBorder(false)
	table.Append([]string{"Words", strconv.Itoa(result.Statistics.Words)})
	table.Append([]string{"Sentences", strconv.Itoa(result.Statistics.Sentences)})
	table.Append([]string{"Characters", strconv.Itoa(result.Statistics.Characters)})
	table.Append([]string{"Avg words/sentence", fmt.Sprintf("%v", result.Statistics.AvgWordsPerSentence)})
	table.Append([]string{"Certainty markers", strconv.Itoa(len(result.CertaintyMarkers))})
	table.Append([]string{"Evidence markers", strconv.Itoa(len(result.EvidenceMarkers))})
	table.Append([]string{"Verifiable claims", strconv.Itoa(len(result.Claims))})
	table.Render()

	printMarkers(w, "Certainty markers", result.CertaintyMarkers)
	printMarkers(w, "Evidence markers", result.EvidenceMarkers)
	printMarkers(w, "Verifiable claims", result.Claims)

	if result.Interpretation != "" {
		fmt.Fprintf(w, "\n%s\n", result.Interpretation)
	}
	if len(result.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}
}

func printMarkers(w io.Writer, title string, markers []string) {
	if len(markers) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, m := range markers {
		fmt.Fprintf(w, "  - %s\n", m)
	}
}
