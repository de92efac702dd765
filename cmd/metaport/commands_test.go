package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/metaport/internal/export"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("bogus"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly-10", truncate("exactly-10", 10))
	assert.Equal(t, "a very ...", truncate("a very long title", 10))
}

func TestApplyExportFlags_OverridesOnlyChangedFlags(t *testing.T) {
	cmd := newExportCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--library", "3,7",
		"--dry-run",
		"--overwrite",
		"--parallel", "8",
	}))

	scope := export.Scope{ItemIDs: []int64{99}, LibraryIDs: []int64{1}}
	opts := export.Options{
		NFO:              export.NFOOptions{Enabled: true},
		Artwork:          export.ArtworkOptions{Enabled: true},
		CustomExportPath: "/mnt/export",
		MaxParallel:      4,
	}

	applyExportFlags(cmd, &scope, &opts)

	// --library replaces the configured scope entirely.
	assert.Equal(t, []int64{3, 7}, scope.LibraryIDs)
	assert.Empty(t, scope.ItemIDs)

	assert.True(t, opts.DryRun)
	assert.True(t, opts.NFO.Overwrite)
	assert.True(t, opts.Artwork.Overwrite)
	assert.Equal(t, 8, opts.MaxParallel)

	// Flags not given leave the configured values alone.
	assert.Equal(t, "/mnt/export", opts.CustomExportPath)
	assert.False(t, opts.UseHardlinks)
}

func TestApplyExportFlags_ItemScope(t *testing.T) {
	cmd := newExportCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--item", "42"}))

	scope := export.Scope{LibraryIDs: []int64{1}}
	opts := export.Options{}
	applyExportFlags(cmd, &scope, &opts)

	assert.Equal(t, []int64{42}, scope.ItemIDs)
	assert.Equal(t, []int64{1}, scope.LibraryIDs)
}
