// Package extracts loads statement-extract documents produced by the
// upstream extraction pipeline.
//
// Extracts arrive as JSON files, one per source document per statement
// type. Loading validates the structural preconditions the merge engine
// relies on (source id present, a supported statement type, at least one
// period) so malformed documents are rejected at the boundary with a
// descriptive error rather than partway through a fold.
package extracts

import (
	"encoding/json"
	"os"

	"statement-consolidation-service/internal/models"
	"statement-consolidation-service/pkg/errors"
	"statement-consolidation-service/pkg/logger"
)

// LoadFile reads and validates one statement extract from a JSON file.
func LoadFile(path string) (*models.StatementExtract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, path, err).
				WithSuggestion("check that the extract file path is correct")
		}
		if os.IsPermission(err) {
			return nil, errors.FileError(errors.CodeFilePermission, path, err)
		}
		return nil, errors.FileError(errors.CodeFileNotFound, path, err)
	}
	return Parse(data, path)
}

// LoadFiles reads and validates a set of extract files, preserving the
// given order as the ingestion order.
func LoadFiles(paths []string) ([]*models.StatementExtract, error) {
	log := logger.GetGlobalLogger().WithComponent("extract_loader")

	loaded := make([]*models.StatementExtract, 0, len(paths))
	for _, path := range paths {
		extract, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		log.Debugf("loaded extract %s (%s, %d line items) from %s",
			extract.SourceID, extract.StatementType, len(extract.LineItems), path)
		loaded = append(loaded, extract)
	}
	return loaded, nil
}

// Parse decodes and validates one statement extract from JSON bytes. The
// source argument names the document in error messages.
func Parse(data []byte, source string) (*models.StatementExtract, error) {
	var extract models.StatementExtract
	if err := json.Unmarshal(data, &extract); err != nil {
		return nil, errors.ParseError(errors.CodeInvalidFormat, source, err).
			WithSuggestion("extract files must be JSON statement-extract documents")
	}
	if err := extract.Validate(); err != nil {
		return nil, errors.ValidationError(errors.CodeMalformedExtract,
			"malformed statement extract", err).
			WithContext("source", source)
	}
	return &extract, nil
}
