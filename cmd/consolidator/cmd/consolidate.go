package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"statement-consolidation-service/cmd/consolidator/config"
	"statement-consolidation-service/internal/consolidator"
	"statement-consolidation-service/internal/extracts"
	"statement-consolidation-service/internal/gate"
	"statement-consolidation-service/internal/reporter"
	"statement-consolidation-service/pkg/errors"
)

// Flags for the consolidate command
var (
	extractFiles       []string
	outputFormat       string
	outputFile         string
	autoMergeThreshold float64
	noMatchFloor       float64
	tolerance          float64
	strict             bool
)

// consolidateCmd represents the consolidate command
var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Consolidate statement extracts into multi-period statements",
	Long: `Consolidate merges statement extracts from multiple source documents
into one multi-period statement per statement type and validates the result.

Extract files are processed in the order given; that order is the ingestion
tiebreak when two sources start at the same period.

Examples:
  # Basic consolidation
  consolidator consolidate --extract-files fy2022.json,fy2023.json

  # JSON report written to a file
  consolidator consolidate --extract-files a.json,b.json \
    --output-format json --output-file report.json

  # Custom thresholds and tolerance
  consolidator consolidate --extract-files a.json,b.json \
    --auto-merge-threshold 0.95 --no-match-floor 0.80 --tolerance 0.5`,

	PreRunE: validateConsolidateFlags,
	RunE:    runConsolidate,
}

func init() {
	rootCmd.AddCommand(consolidateCmd)

	consolidateCmd.Flags().StringSliceVarP(&extractFiles, "extract-files", "e", []string{},
		"comma-separated paths to statement extract JSON files (required)")

	consolidateCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console",
		"output format: console, json, csv")
	consolidateCmd.Flags().StringVarP(&outputFile, "output-file", "o", "",
		"output file path (default: stdout)")

	consolidateCmd.Flags().Float64Var(&autoMergeThreshold, "auto-merge-threshold", 0.90,
		"confidence at or above which merges need no review")
	consolidateCmd.Flags().Float64Var(&noMatchFloor, "no-match-floor", 0.70,
		"confidence below which a candidate is treated as no match")
	consolidateCmd.Flags().Float64Var(&tolerance, "tolerance", 1.0,
		"absolute tolerance for accounting identities, in currency units")
	consolidateCmd.Flags().BoolVar(&strict, "strict", false,
		"use the strict scoring profile (overrides threshold flags)")

	consolidateCmd.MarkFlagRequired("extract-files")

	viper.BindPFlag("extract-files", consolidateCmd.Flags().Lookup("extract-files"))
	viper.BindPFlag("output-format", consolidateCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", consolidateCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("auto-merge-threshold", consolidateCmd.Flags().Lookup("auto-merge-threshold"))
	viper.BindPFlag("no-match-floor", consolidateCmd.Flags().Lookup("no-match-floor"))
	viper.BindPFlag("tolerance", consolidateCmd.Flags().Lookup("tolerance"))
}

// validateConsolidateFlags checks flag combinations before running.
func validateConsolidateFlags(cmd *cobra.Command, args []string) error {
	if len(extractFiles) == 0 {
		return errors.ConfigError("at least one extract file is required", nil)
	}
	if !reporter.OutputFormat(outputFormat).IsValid() {
		return errors.ConfigError("output format must be console, json, or csv", nil).
			WithContext("output_format", outputFormat)
	}
	return nil
}

// runConsolidate loads the extracts, runs the consolidation job, and
// renders the report. A FAILED or NEEDS_REVIEW verdict exits non-zero so
// orchestration scripts can hold results for review.
func runConsolidate(cmd *cobra.Command, args []string) error {
	handler := NewCLIErrorHandler()

	serviceConfig, err := config.BuildServiceConfig(config.Options{
		AutoMergeThreshold: autoMergeThreshold,
		NoMatchFloor:       noMatchFloor,
		Tolerance:          tolerance,
		Strict:             strict,
	})
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	loaded, err := extracts.LoadFiles(extractFiles)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	service := consolidator.NewService(serviceConfig)
	result, err := service.Run(cmd.Context(), &consolidator.JobRequest{Extracts: loaded})
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	out := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			os.Exit(handler.HandleError(errors.FileError(errors.CodeFilePermission, outputFile, err)))
		}
		defer f.Close()
		out = f
	}

	if err := reporter.Write(out, result, reporter.OutputFormat(outputFormat)); err != nil {
		os.Exit(handler.HandleError(err))
	}

	os.Exit(exitCodeForVerdict(result.Verdict))
	return nil
}

// exitCodeForVerdict maps the graduated verdict to a process exit code.
// Warnings still exit zero; review and failure do not.
func exitCodeForVerdict(verdict gate.Verdict) int {
	switch verdict {
	case gate.VerdictSuccess, gate.VerdictSuccessWithWarnings:
		return 0
	case gate.VerdictNeedsReview:
		return 10
	default:
		return 11
	}
}
