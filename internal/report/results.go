package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"vllm-benchmark/internal/types"
)

// Result file formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Encode writes v (a SummaryReport or a slice of them) to w in format
func Encode(w io.Writer, v any, format string) error {
	switch format {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("error encoding results as json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("error encoding results as yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("error encoding results as yaml: %w", err)
		}
	default:
		return fmt.Errorf("unknown results format %q", format)
	}
	return nil
}

// WriteResults writes the full list of reports to path in one go
func WriteResults(path string, reports []types.SummaryReport, format string) error {
	if reports == nil {
		reports = []types.SummaryReport{}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating result file: %w", err)
	}

	if err := Encode(file, reports, format); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error writing result file: %w", err)
	}
	return nil
}

// ReadResults loads a JSON results file
func ReadResults(path string) ([]types.SummaryReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading result file: %w", err)
	}
	var reports []types.SummaryReport
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("error parsing result file: %w", err)
	}
	return reports, nil
}
