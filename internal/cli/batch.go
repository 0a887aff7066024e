package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/veracitylabs/veracity/internal/engine"
	"github.com/veracitylabs/veracity/internal/worker"
)

var (
	batchWorkers int
	batchOutput  string
)

// batchResult is one entry in the batch summary file.
type batchResult struct {
	File   string         `json:"file"`
	Result *engine.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir|glob>",
	Short: "Analyze a directory of text files",
	Long: `Batch analyzes every .txt file in a directory (or every file matching
a glob pattern) concurrently and writes a JSON summary.

Example:
  veracity batch ./statements
  veracity batch './drafts/*.md' --workers 8 --output summary.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "number of concurrent workers")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "batch_results.json", "summary output path")
}

func runBatch(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args[0])
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files matched %q", args[0])
	}

	eng, err := engine.New(engine.DefaultConfig(), nil)
	if err != nil {
		return err
	}

	tasks := make([]worker.Task, 0, len(files))
	unreadable := make(map[string]error)
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			unreadable[file] = err
			continue
		}
		tasks = append(tasks, worker.Task{ID: file, Text: string(data)})
	}

	pool := worker.NewPool(eng, batchWorkers, true, nil)
	outcomes := pool.Run(context.Background(), tasks)

	summary := make([]batchResult, 0, len(files))
	failed := 0
	for _, out := range outcomes {
		entry := batchResult{File: out.ID, Result: out.Result}
		if out.Err != nil {
			entry.Error = out.Err.Error()
			failed++
		}
		summary = append(summary, entry)
	}
	for file, err := range unreadable {
		summary = append(summary, batchResult{File: file, Error: err.Error()})
		failed++
	}
	sort.Slice(summary, func(i, j int) bool { return summary[i].File < summary[j].File })

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(batchOutput, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", batchOutput, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Analyzed %d files (%d failed), summary written to %s\n",
		len(summary), failed, batchOutput)
	return nil
}

// collectFiles resolves a directory (all .txt files) or a glob pattern.
func collectFiles(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err == nil && info.IsDir() {
		return filepath.Glob(filepath.Join(target, "*.txt"))
	}

	files, err := filepath.Glob(target)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", target, err)
	}
	return files, nil
}
