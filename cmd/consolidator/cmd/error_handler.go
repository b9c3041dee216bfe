package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"statement-consolidation-service/pkg/errors"
	"statement-consolidation-service/pkg/logger"
)

// CLIErrorHandler provides user-friendly error handling for CLI operations
type CLIErrorHandler struct {
	logger  logger.Logger
	verbose bool
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler() *CLIErrorHandler {
	return &CLIErrorHandler{
		logger:  logger.GetGlobalLogger().WithComponent("cli"),
		verbose: viper.GetBool("verbose"),
	}
}

// HandleError prints a user-friendly message and returns the exit code.
func (h *CLIErrorHandler) HandleError(err error) int {
	if err == nil {
		return 0
	}

	h.logger.WithError(err).Error("command failed")

	if consolidatorErr, ok := errors.AsConsolidatorError(err); ok {
		return h.handleConsolidatorError(consolidatorErr)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

func (h *CLIErrorHandler) handleConsolidatorError(err *errors.ConsolidatorError) int {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Message)

	if len(err.Context) > 0 {
		fmt.Fprintf(os.Stderr, "\nContext:\n")
		for key, value := range err.Context {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", key, value)
		}
	}

	if err.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "\nSuggestion: %s\n", err.Suggestion)
	}

	fmt.Fprintf(os.Stderr, "\n%s\n", categoryHelp(err.Category))

	if h.verbose && err.Cause != nil {
		fmt.Fprintf(os.Stderr, "\nUnderlying error: %+v\n", err.Cause)
	}

	return err.GetExitCode()
}

func categoryHelp(category errors.ErrorCategory) string {
	switch category {
	case errors.CategoryFile:
		return "Check that the extract file paths exist and are readable."
	case errors.CategoryParse:
		return "Extract files must be JSON statement-extract documents produced by the extraction pipeline."
	case errors.CategoryValidation:
		return "The extract is structurally malformed; re-run extraction for the affected source document."
	case errors.CategoryConfiguration:
		return "Run 'consolidator consolidate --help' for valid flags and ranges."
	case errors.CategoryConsolidation:
		return "Consolidation could not complete; inspect the extracts for mixed statement types."
	default:
		return "An unexpected error occurred. Re-run with --verbose for details."
	}
}
