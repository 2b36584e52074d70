// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/qm9-simplify/pkg/types"
)

var (
	// ErrUsage reports an invalid combination of inputs. Nothing is converted.
	ErrUsage = errors.New("usage error")

	// ErrPathNotFound reports a missing input file or directory.
	ErrPathNotFound = errors.New("path not found")

	// ErrFilesFailed is returned by Run after all jobs ran and at least one failed.
	ErrFilesFailed = errors.New("conversion failed")
)

// Options selects what to convert. Set InputFile (and optionally OutputFile)
// for single-file mode, or both InputDir and OutputDir for batch mode.
type Options struct {
	InputFile  string
	OutputFile string
	InputDir   string
	OutputDir  string

	// Suffix and Extension name the default single-file output and select
	// batch inputs. Empty values fall back to the package defaults.
	Suffix    string
	Extension string
}

// BatchMode reports whether either directory option is set.
func (o Options) BatchMode() bool {
	return o.InputDir != "" || o.OutputDir != ""
}

func (o Options) suffix() string {
	if o.Suffix == "" {
		return types.DefaultSuffix
	}
	return o.Suffix
}

func (o Options) extension() string {
	if o.Extension == "" {
		return types.DefaultExtension
	}
	return o.Extension
}

// DefaultOutputPath derives the single-file destination by replacing the
// input's extension with suffix+ext: "foo.xyz" becomes "foo-simplified.xyz".
func DefaultOutputPath(input, suffix, ext string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + suffix + ext
}

// Validate checks the combination of options without touching the
// filesystem. Every error it returns wraps ErrUsage.
func (o Options) Validate() error {
	if o.BatchMode() {
		if o.InputDir == "" || o.OutputDir == "" {
			return fmt.Errorf("%w: both --input_dir and --output_dir must be provided for directory mode", ErrUsage)
		}
		if o.InputFile != "" || o.OutputFile != "" {
			return fmt.Errorf("%w: positional files cannot be combined with directory mode", ErrUsage)
		}
		return nil
	}
	if o.InputFile == "" {
		return fmt.Errorf("%w: provide an input file, or use directory mode with --input_dir and --output_dir", ErrUsage)
	}
	return nil
}

// Plan resolves opts into the list of jobs to run. It creates the batch
// output directory when it is missing, reporting that on w.
func Plan(opts Options, w io.Writer) ([]Job, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.BatchMode() {
		return planDir(opts, w)
	}
	return planFile(opts)
}

func planFile(opts Options) ([]Job, error) {
	info, err := os.Stat(opts.InputFile)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: input file %q does not exist; to process a directory use --input_dir and --output_dir",
			ErrPathNotFound, opts.InputFile)
	}

	out := opts.OutputFile
	if out == "" {
		out = DefaultOutputPath(opts.InputFile, opts.suffix(), opts.extension())
	}
	return []Job{{Input: opts.InputFile, Output: out}}, nil
}

func planDir(opts Options, w io.Writer) ([]Job, error) {
	info, err := os.Stat(opts.InputDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: input directory %q does not exist", ErrPathNotFound, opts.InputDir)
	}

	if _, err := os.Stat(opts.OutputDir); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(w, "Output directory '%s' does not exist. Creating it...\n", opts.OutputDir)
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", opts.OutputDir, err)
	}

	entries, err := os.ReadDir(opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", opts.InputDir, err)
	}

	ext := strings.ToLower(opts.extension())
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ext) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	jobs := make([]Job, len(names))
	for i, name := range names {
		jobs[i] = Job{
			Input:  filepath.Join(opts.InputDir, name),
			Output: filepath.Join(opts.OutputDir, name),
		}
	}
	return jobs, nil
}

// Run plans and converts. Plan errors are returned unchanged and nothing is
// converted. Otherwise every job runs, and ErrFilesFailed is returned when at
// least one of them failed.
func Run(ctx context.Context, c Converter, opts Options, w io.Writer, h Hooks) (BatchResult, error) {
	jobs, err := Plan(opts, w)
	if err != nil {
		return BatchResult{}, err
	}

	h.logger().Debug("planned conversion",
		slog.Bool("batch", opts.BatchMode()), slog.Int("jobs", len(jobs)))

	result := ConvertBatch(ctx, c, jobs, w, h)
	if result.HasFailures() {
		return result, fmt.Errorf("%w: %d of %d file(s) failed", ErrFilesFailed, result.Failed, result.Total())
	}
	return result, nil
}
