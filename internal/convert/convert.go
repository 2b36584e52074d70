// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs extended-to-basic XYZ conversion over a list of jobs.
// Each file is independent: a failure is reported and the batch moves on.
package convert

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pdiddy/qm9-simplify/pkg/types"
)

// Converter transforms one input file into basic-format text. The xyz
// package's Simplifier is the production implementation.
type Converter interface {
	// Convert reads the file at inputPath and returns the text to write.
	Convert(inputPath string) (string, error)
}

// Recorder persists the outcome of each file, e.g. to the conversion ledger.
type Recorder interface {
	Record(ctx context.Context, r types.FileResult) error
}

// Skipper decides whether an input was already converted to output with the
// same content digest.
type Skipper interface {
	Unchanged(ctx context.Context, input, output, sha string) (bool, error)
}

// Hooks carries the optional collaborators of a batch run. The zero value
// converts every job and records nothing.
type Hooks struct {
	Recorder Recorder
	Skipper  Skipper
	Logger   *slog.Logger
}

func (h Hooks) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Job pairs an input file with its destination.
type Job struct {
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output" yaml:"output"`
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int

	// Files lists per-file outcomes in job order.
	Files []types.FileResult
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertFile converts a single job, writing the destination only after the
// whole input was parsed. It prints one status line to w and returns the
// file's outcome.
func ConvertFile(ctx context.Context, c Converter, job Job, w io.Writer, h Hooks) types.FileResult {
	log := h.logger().With(slog.String("input", job.Input), slog.String("output", job.Output))
	res := types.FileResult{Input: job.Input, Output: job.Output}

	if h.Recorder != nil || h.Skipper != nil {
		sum, err := digestFile(job.Input)
		if err != nil {
			return fail(w, res, err)
		}
		res.InputSHA256 = sum
	}

	if h.Skipper != nil && exists(job.Output) {
		same, err := h.Skipper.Unchanged(ctx, job.Input, job.Output, res.InputSHA256)
		if err != nil {
			log.Warn("ledger lookup failed, converting anyway", slog.Any("error", err))
		}
		if same {
			res.Status = types.ConversionSkipped
			fmt.Fprintf(w, "skipped: %s (unchanged since last conversion)\n", job.Input)
			return res
		}
	}

	out, err := c.Convert(job.Input)
	if err != nil {
		return fail(w, res, err)
	}
	res.AtomCount = atomsIn(out)

	if err := os.WriteFile(job.Output, []byte(out), 0o644); err != nil {
		return fail(w, res, fmt.Errorf("writing %s: %w", job.Output, err))
	}

	res.Status = types.ConversionDone
	log.Debug("wrote basic xyz", slog.Int("atoms", res.AtomCount), slog.Int("bytes", len(out)))
	fmt.Fprintf(w, "converted: %s -> %s (%d atoms)\n", job.Input, job.Output, res.AtomCount)
	return res
}

// ConvertBatch processes jobs in order, printing per-file status to w and
// returning a summary. A failed job never stops the ones after it.
func ConvertBatch(ctx context.Context, c Converter, jobs []Job, w io.Writer, h Hooks) BatchResult {
	result := BatchResult{Files: make([]types.FileResult, 0, len(jobs))}
	for _, job := range jobs {
		res := ConvertFile(ctx, c, job, w, h)
		switch res.Status {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionSkipped:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
		}
		result.Files = append(result.Files, res)

		if h.Recorder != nil {
			if err := h.Recorder.Record(ctx, res); err != nil {
				fmt.Fprintf(w, "warning: could not record %s in ledger: %v\n", job.Input, err)
			}
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

func fail(w io.Writer, res types.FileResult, err error) types.FileResult {
	res.Status = types.ConversionFailed
	res.Err = err.Error()
	fmt.Fprintf(w, "failed:  %s (%v)\n", res.Input, err)
	return res
}

// atomsIn counts the atom lines of basic-format text: every line but the
// count line. Atom lines are trimmed, so none contains a newline.
func atomsIn(text string) int {
	n := strings.Count(text, "\n") - 1
	if n < 0 {
		return 0
	}
	return n
}

func digestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
