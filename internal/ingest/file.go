package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/taxwise/internal/common"
)

// Format names an input file format.
type Format string

// Supported formats.
const (
	FormatCSV Format = "csv"
	FormatOFX Format = "ofx"
)

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".ofx", ".qfx":
		return FormatOFX, nil
	default:
		return "", common.NewValidationError("file", path, "unsupported file type (want .csv, .ofx or .qfx)")
	}
}

// ReadFile reads a statement from disk, choosing the reader by extension.
func ReadFile(path string) (Batch, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return Batch{}, err
	}

	f, err := os.Open(path) //nolint:gosec // user-supplied import path
	if err != nil {
		return Batch{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	source := filepath.Base(path)
	if format == FormatOFX {
		return ReadOFX(f, source)
	}
	return ReadCSV(f, source)
}
