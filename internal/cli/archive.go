package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/veracitylabs/veracity/internal/archive"
	"github.com/veracitylabs/veracity/internal/config"
	"github.com/veracitylabs/veracity/internal/logger"
	"github.com/veracitylabs/veracity/internal/store"
)

var (
	archiveLimit  int
	archiveOutput string
)

// archiveCmd represents the archive command
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Export stored analysis history to a Parquet file",
	Long: `Archive reads the most recent analyses from the history database and
writes them as a Parquet file for offline analytics. Requires the store
to be enabled in configuration.`,
	RunE: runArchive,
}

func init() {
	rootCmd.AddCommand(archiveCmd)

	archiveCmd.Flags().IntVar(&archiveLimit, "limit", 10000, "maximum number of analyses to export")
	archiveCmd.Flags().StringVarP(&archiveOutput, "output", "o", "analyses.parquet", "archive output path")
}

func runArchive(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if !cfg.Store.Enabled {
		return fmt.Errorf("analysis history store is not enabled in configuration")
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level, Format: "console"})
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := store.NewStore(&store.Config{
		DatabaseURL:     cfg.Store.DatabaseURL,
		MaxOpenConns:    cfg.Store.MaxOpenConns,
		MaxIdleConns:    cfg.Store.MaxIdleConns,
		ConnMaxLifetime: cfg.Store.ConnMaxLifetime,
	}, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to store: %w", err)
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	records, err := st.ListRecent(ctx, archiveLimit)
	if err != nil {
		return fmt.Errorf("failed to list analyses: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no stored analyses to archive")
	}

	if err := archive.WriteFile(archiveOutput, records, log.Logger); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Archived %d analyses to %s\n", len(records), archiveOutput)
	return nil
}
