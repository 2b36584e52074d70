// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/qm9-simplify/internal/ledger"
)

const (
	wellFormed = "2\ngdb 7\t1.0\t2.0\n C  0.0 0.0 0.0 -0.1 \nH  1.0 1.0 1.0  0.1\n"
	simplified = "2\nC  0.0 0.0 0.0 -0.1\nH  1.0 1.0 1.0  0.1\n"
	truncated  = "5\ngdb 8\nC 0 0 0\n"
)

// runCLI executes the CLI with an isolated HOME and returns exit code, stdout and stderr.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestSingleFile_DefaultOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "foo.xyz")
	writeFile(t, in, wellFormed)

	code, stdout, stderr := runCLI(t, in)

	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Equal(t, simplified, readFile(t, filepath.Join(dir, "foo-simplified.xyz")))
	assert.Contains(t, stdout, "converted: "+in)
	assert.Contains(t, stdout, "(2 atoms)")
}

func TestSingleFile_ExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "foo.xyz")
	out := filepath.Join(dir, "basic.xyz")
	writeFile(t, in, wellFormed)
	writeFile(t, out, "stale content\nthat must disappear\nentirely\n")

	code, _, stderr := runCLI(t, in, out)

	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Equal(t, simplified, readFile(t, out))
}

func TestSingleFile_Idempotent(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "foo.xyz")
	out := filepath.Join(dir, "out.xyz")
	writeFile(t, in, wellFormed)

	code, _, _ := runCLI(t, in, out)
	require.Equal(t, 0, code)
	first := readFile(t, out)

	code, _, _ = runCLI(t, in, out)
	require.Equal(t, 0, code)
	assert.Equal(t, first, readFile(t, out))
}

func TestSingleFile_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.xyz")
	writeFile(t, bad, truncated)

	tests := []struct {
		name       string
		args       []string
		wantStderr string
		wantUsage  bool
	}{
		{
			name:       "missing input file",
			args:       []string{filepath.Join(dir, "nope.xyz")},
			wantStderr: "does not exist",
		},
		{
			name:       "no input at all",
			args:       []string{},
			wantStderr: "provide an input file",
			wantUsage:  true,
		},
		{
			name:       "short read",
			args:       []string{bad},
			wantStderr: "1 of 1 file(s) failed",
		},
		{
			name:       "too many positional arguments",
			args:       []string{"a.xyz", "b.xyz", "c.xyz"},
			wantStderr: "accepts at most 2 arg(s)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.wantStderr)
			if tt.wantUsage {
				assert.Contains(t, stdout, "Usage:")
			}
		})
	}

	_, err := os.Stat(filepath.Join(dir, "bad-simplified.xyz"))
	assert.True(t, os.IsNotExist(err), "a short read must not create an output file")
}

func TestBatch_Aliases(t *testing.T) {
	dir := t.TempDir()
	inDir := filepath.Join(dir, "in")
	outDir := filepath.Join(dir, "out")
	writeFile(t, filepath.Join(inDir, "good.xyz"), wellFormed)
	writeFile(t, filepath.Join(inDir, "bad.XYZ"), truncated)
	writeFile(t, filepath.Join(inDir, "readme.txt"), "not xyz")

	code, stdout, stderr := runCLI(t, "-id", inDir, "-od="+outDir)

	assert.Equal(t, 1, code, "a failed file makes the run fail")
	assert.Contains(t, stdout, "Creating it...")
	assert.Contains(t, stdout, "failed:  "+filepath.Join(inDir, "bad.XYZ"))
	assert.Contains(t, stdout, "Batch summary: 1 converted, 0 skipped, 1 failed (total: 2)")
	assert.Contains(t, stderr, "1 of 2 file(s) failed")
	assert.Equal(t, simplified, readFile(t, filepath.Join(outDir, "good.xyz")))
	assert.NoFileExists(t, filepath.Join(outDir, "bad.XYZ"))
	assert.NoFileExists(t, filepath.Join(outDir, "readme.txt"))
}

func TestBatch_LongFlags(t *testing.T) {
	dir := t.TempDir()
	inDir := filepath.Join(dir, "in")
	outDir := filepath.Join(dir, "out")
	writeFile(t, filepath.Join(inDir, "a.xyz"), wellFormed)

	code, _, stderr := runCLI(t, "--input-dir", inDir, "--output_dir", outDir)

	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.FileExists(t, filepath.Join(outDir, "a.xyz"))
}

func TestBatch_UsageErrors(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	tests := []struct {
		name string
		args []string
	}{
		{name: "only input dir", args: []string{"-id", dir}},
		{name: "only output dir", args: []string{"--output_dir", outDir}},
		{name: "positional with directories", args: []string{"a.xyz", "-id", dir, "-od", outDir}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stdout, "Usage:")
			assert.Contains(t, stderr, "usage error")
			assert.NoDirExists(t, outDir)
		})
	}
}

func TestBatch_MissingInputDir(t *testing.T) {
	dir := t.TempDir()
	code, _, stderr := runCLI(t, "-id", filepath.Join(dir, "nope"), "-od", filepath.Join(dir, "out"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "input directory")
}

func TestLedgerAndHistory(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "foo.xyz")
	db := filepath.Join(dir, "ledger.db")
	writeFile(t, in, wellFormed)

	code, stdout, _ := runCLI(t, in, "--ledger", db, "--skip-unchanged")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "converted:")

	code, stdout, _ = runCLI(t, in, "--ledger", db, "--skip-unchanged")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "skipped: "+in)

	writeFile(t, in, "1\nnew\nHe 0 0 0\n")
	code, stdout, _ = runCLI(t, in, "--ledger", db, "--skip-unchanged")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "converted:")
	assert.Equal(t, "1\nHe 0 0 0\n", readFile(t, filepath.Join(dir, "foo-simplified.xyz")))

	code, stdout, stderr := runCLI(t, "history", "--ledger", db, "--json")
	require.Equal(t, 0, code, "stderr: %s", stderr)
	var entries []ledger.Entry
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[0].AtomCount)
	assert.EqualValues(t, "skipped", entries[1].Status)

	code, stdout, _ = runCLI(t, "history", "--ledger", db, "--limit", "1")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "1 entries")
}

func TestHistory_NoLedger(t *testing.T) {
	code, _, stderr := runCLI(t, "history")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no ledger configured")
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	inDir := filepath.Join(dir, "in")
	writeFile(t, filepath.Join(inDir, "good.xyz"), wellFormed)
	writeFile(t, filepath.Join(inDir, "bad.xyz"), truncated)
	reportPath := filepath.Join(dir, "report.yaml")

	code, _, _ := runCLI(t, "-id", inDir, "-od", filepath.Join(dir, "out"), "--report", reportPath)
	assert.Equal(t, 1, code)

	var rep struct {
		Summary struct {
			Converted int `yaml:"converted"`
			Failed    int `yaml:"failed"`
			Total     int `yaml:"total"`
		} `yaml:"summary"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(readFile(t, reportPath)), &rep))
	assert.Equal(t, 1, rep.Summary.Converted)
	assert.Equal(t, 1, rep.Summary.Failed)
	assert.Equal(t, 2, rep.Summary.Total)
}

func TestConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "foo.xyz")
	writeFile(t, in, wellFormed)

	cfgPath := filepath.Join(dir, "qm9-simplify.yaml")
	writeFile(t, cfgPath, "suffix: -basic\n")

	code, _, stderr := runCLI(t, in, "--config", cfgPath)
	require.Equal(t, 0, code)
	assert.Contains(t, stderr, "Using config file:")
	assert.FileExists(t, filepath.Join(dir, "foo-basic.xyz"))

	t.Setenv("QM9_SIMPLIFY_SUFFIX", "-env")
	code, _, _ = runCLI(t, in)
	require.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(dir, "foo-env.xyz"))

	code, _, _ = runCLI(t, in, "--suffix", "-flag")
	require.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(dir, "foo-flag.xyz"), "flags override the environment")
}

func TestConfigFile_Missing(t *testing.T) {
	code, _, stderr := runCLI(t, "x.xyz", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "reading config file")
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "qm9-simplify dev\n", stdout)
}

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "aliases with separate values", in: []string{"-id", "a", "-od", "b"}, want: []string{"--input_dir", "a", "--output_dir", "b"}},
		{name: "aliases with equals", in: []string{"-id=a", "-od=b"}, want: []string{"--input_dir=a", "--output_dir=b"}},
		{name: "other args untouched", in: []string{"foo.xyz", "-v", "--ledger", "x.db"}, want: []string{"foo.xyz", "-v", "--ledger", "x.db"}},
		{name: "stops at double dash", in: []string{"-v", "--", "-id"}, want: []string{"-v", "--", "-id"}},
		{name: "empty", in: []string{}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeArgs(tt.in))
		})
	}
}
