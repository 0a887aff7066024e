// Package cli implements the veracity command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veracitylabs/veracity/internal/engine"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "veracity",
	Short: "Veracity - confidence-vs-evidence analysis for text",
	Long: `Veracity scores text for confidence expressed without supporting
evidence. It finds certainty markers, evidence markers, and verifiable
claims, and combines them into a 0-100 confidence score with a risk
classification.

A high score means the text asserts a lot and supports little. It is a
signal to verify, not a verdict on truth.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("veracity v" + engine.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}
