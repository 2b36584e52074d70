// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/qm9-simplify/pkg/types"
)

func openTest(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(types.LedgerConfig{Path: filepath.Join(t.TempDir(), "state", "ledger.db")})
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	l.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return l
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(types.LedgerConfig{})
	assert.Error(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	l, err := Open(types.LedgerConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, l.Record(ctx, types.FileResult{Input: "a.xyz", Output: "b.xyz", Status: types.ConversionDone}))
	require.NoError(t, l.Close())

	l, err = Open(types.LedgerConfig{Path: path})
	require.NoError(t, err)
	defer l.Close()

	entries, err := l.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRecordAndRecent(t *testing.T) {
	l := openTest(t)
	ctx := context.Background()

	results := []types.FileResult{
		{Input: "in/a.xyz", Output: "out/a.xyz", Status: types.ConversionDone, AtomCount: 5, InputSHA256: "aaa"},
		{Input: "in/b.xyz", Output: "out/b.xyz", Status: types.ConversionFailed, Err: "premature end of file"},
		{Input: "in/c.xyz", Output: "out/c.xyz", Status: types.ConversionSkipped, InputSHA256: "ccc"},
	}
	for _, r := range results {
		require.NoError(t, l.Record(ctx, r))
	}

	entries, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "in/c.xyz", entries[0].Input, "newest first")
	assert.Equal(t, types.ConversionSkipped, entries[0].Status)
	assert.Equal(t, "premature end of file", entries[1].Err)
	assert.Equal(t, 5, entries[2].AtomCount)
	assert.Equal(t, "aaa", entries[2].InputSHA256)
	assert.True(t, entries[0].ConvertedAt.After(entries[2].ConvertedAt))

	limited, err := l.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestUnchanged(t *testing.T) {
	l := openTest(t)
	ctx := context.Background()

	same, err := l.Unchanged(ctx, "a.xyz", "out/a.xyz", "sha1")
	require.NoError(t, err)
	assert.False(t, same, "unknown input is never unchanged")

	require.NoError(t, l.Record(ctx, types.FileResult{
		Input: "a.xyz", Output: "out/a.xyz", Status: types.ConversionDone, InputSHA256: "sha1",
	}))

	tests := []struct {
		name   string
		output string
		sha    string
		want   bool
	}{
		{name: "same digest and output", output: "out/a.xyz", sha: "sha1", want: true},
		{name: "content changed", output: "out/a.xyz", sha: "sha2", want: false},
		{name: "different destination", output: "other/a.xyz", sha: "sha1", want: false},
		{name: "no digest", output: "out/a.xyz", sha: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Unchanged(ctx, "a.xyz", tt.output, tt.sha)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnchanged_IgnoresFailures(t *testing.T) {
	l := openTest(t)
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, types.FileResult{
		Input: "a.xyz", Output: "out/a.xyz", Status: types.ConversionDone, InputSHA256: "old",
	}))
	require.NoError(t, l.Record(ctx, types.FileResult{
		Input: "a.xyz", Output: "out/a.xyz", Status: types.ConversionFailed, InputSHA256: "new", Err: "bad",
	}))

	same, err := l.Unchanged(ctx, "a.xyz", "out/a.xyz", "old")
	require.NoError(t, err)
	assert.True(t, same, "the latest successful conversion decides")

	same, err = l.Unchanged(ctx, "a.xyz", "out/a.xyz", "new")
	require.NoError(t, err)
	assert.False(t, same)
}
