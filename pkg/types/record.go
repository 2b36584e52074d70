// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for qm9-simplify: the parsed
// XYZ record, per-file conversion outcomes, and configuration.
package types

// ConversionStatus indicates the outcome of simplifying one file.
type ConversionStatus string

const (
	ConversionDone    ConversionStatus = "converted"
	ConversionSkipped ConversionStatus = "skipped"
	ConversionFailed  ConversionStatus = "failed"
)

// Record is one extended XYZ file as read from disk. A Record is built per
// file, rendered, and discarded.
type Record struct {
	// CountLine is the first line of the file without its line terminator.
	// It is written back verbatim, never re-serialized from AtomCount.
	CountLine string `json:"count_line" yaml:"count_line"`

	// AtomCount is the integer parsed from CountLine.
	AtomCount int `json:"atom_count" yaml:"atom_count"`

	// Comment is the second line of the file (QM9 property block). It is
	// never written to the basic format.
	Comment string `json:"comment" yaml:"comment"`

	// AtomLines holds exactly AtomCount lines, trimmed, in source order.
	AtomLines []string `json:"atom_lines" yaml:"atom_lines"`
}

// FileResult is the outcome of converting one input file.
type FileResult struct {
	Input       string           `json:"input" yaml:"input"`
	Output      string           `json:"output" yaml:"output"`
	Status      ConversionStatus `json:"status" yaml:"status"`
	AtomCount   int              `json:"atom_count" yaml:"atom_count"`
	Err         string           `json:"error,omitempty" yaml:"error,omitempty"`
	InputSHA256 string           `json:"input_sha256,omitempty" yaml:"input_sha256,omitempty"`
}
