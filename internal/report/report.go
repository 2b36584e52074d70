// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes a machine-readable summary of a conversion run.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/qm9-simplify/internal/convert"
	"github.com/pdiddy/qm9-simplify/pkg/types"
)

// Summary holds the batch counts.
type Summary struct {
	Converted int `json:"converted" yaml:"converted"`
	Skipped   int `json:"skipped" yaml:"skipped"`
	Failed    int `json:"failed" yaml:"failed"`
	Total     int `json:"total" yaml:"total"`
}

// Report is the on-disk representation of a run.
type Report struct {
	Summary Summary            `json:"summary" yaml:"summary"`
	Files   []types.FileResult `json:"files" yaml:"files"`
}

// FromBatch builds a Report from a batch result.
func FromBatch(r convert.BatchResult) Report {
	files := r.Files
	if files == nil {
		files = []types.FileResult{}
	}
	return Report{
		Summary: Summary{
			Converted: r.Converted,
			Skipped:   r.Skipped,
			Failed:    r.Failed,
			Total:     r.Total(),
		},
		Files: files,
	}
}

// Write serializes r to path: YAML for .yaml and .yml, JSON otherwise.
func Write(path string, r convert.BatchResult) error {
	rep := FromBatch(r)

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(&rep)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	default:
		data, err = json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
