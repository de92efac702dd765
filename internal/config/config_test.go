package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "./data/metaport.db", cfg.Database.Path)
	assert.Equal(t, 4, cfg.Export.MaxParallel)
}

func TestLoad_FullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
log_level = "debug"

[database]
path = "/var/lib/metaport/catalog.db"

[export]
libraries = [1, 2]
nfo = true
overwrite_nfo = true
artwork = true
poster = true
backdrop = true
nfo_plot = true
nfo_chapters = true
nfo_marker_kinds = true
custom_export_path = "/mnt/export"
use_hardlinks = true
max_parallel = 8

[markers]
backup_path = "/backups/markers.json"
series = [7]
overwrite_existing = true
fuzzy_series_names = true
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/lib/metaport/catalog.db", cfg.Database.Path)
	assert.Equal(t, []int64{1, 2}, cfg.Export.Libraries)
	assert.Equal(t, 8, cfg.Export.MaxParallel)
	assert.True(t, cfg.Export.UseHardlinks)
	assert.Equal(t, "/backups/markers.json", cfg.Markers.BackupPath)
	assert.Equal(t, []int64{7}, cfg.Markers.Series)
	assert.True(t, cfg.Markers.FuzzySeriesNames)
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("METAPORT_TEST_DB", "/custom/path.db")

	cfg, err := Load(writeConfig(t, `
[database]
path = "${METAPORT_TEST_DB}"

[export]
custom_export_path = "${METAPORT_TEST_UNSET_VAR}"
`))
	require.NoError(t, err)

	assert.Equal(t, "/custom/path.db", cfg.Database.Path)
	assert.Equal(t, "${METAPORT_TEST_UNSET_VAR}", cfg.Export.CustomExportPath,
		"unset variables are left unchanged")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Empty(t, cfg.Validate())

	cfg.LogLevel = "loud"
	cfg.Markers.BackupPath = "/backups/markers.txt"
	cfg.Export.UseHardlinks = true

	errs := cfg.Validate()
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], "log_level")
	assert.Contains(t, errs[1], "markers.backup_path")
	assert.Contains(t, errs[2], "use_hardlinks")
}

func TestValidate_PerEpisodeConflictsWithBackupPath(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Path: "x.db"},
		Markers:  MarkersConfig{PerEpisode: true, BackupPath: "/b.json"},
	}
	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "per_episode")
}

func TestWarnings_MissingCustomExportPath(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Path: "x.db"},
		Export:   ExportConfig{CustomExportPath: filepath.Join(t.TempDir(), "nope")},
	}
	assert.Empty(t, cfg.Validate(), "a missing export root is not fatal")

	warns := cfg.Warnings()
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "does not exist")

	cfg.Export.CustomExportPath = t.TempDir()
	assert.Empty(t, cfg.Warnings())
}

func TestExportOptions_Mapping(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[export]
items = [5]
nfo = true
nfo_titles = true
artwork = true
landscape = true
clearart = true
dry_run = true
max_parallel = 2
`))
	require.NoError(t, err)

	opts := cfg.ExportOptions()
	assert.True(t, opts.NFO.Enabled)
	assert.True(t, opts.NFO.IncludeTitles)
	assert.False(t, opts.NFO.IncludePlot)
	assert.True(t, opts.Artwork.Thumb, "landscape maps to the thumb slot")
	assert.True(t, opts.Artwork.Art, "clearart maps to the art slot")
	assert.True(t, opts.DryRun)
	assert.Equal(t, 2, opts.MaxParallel)

	scope := cfg.ExportScope()
	assert.Equal(t, []int64{5}, scope.ItemIDs)
}

func TestWriteDefault_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Validate(), "shipped default config validates clean")
	assert.True(t, cfg.Export.Nfo)
}

func TestConfigError_Format(t *testing.T) {
	e := &ConfigError{Path: "/etc/metaport/config.toml", Errors: []string{"database.path: required"}}
	assert.True(t, e.HasErrors())
	assert.Contains(t, e.Error(), "validation failed")
	assert.Contains(t, e.Error(), "database.path: required")

	assert.False(t, (&ConfigError{}).HasErrors())
}

func TestDiscover_EnvVar(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("METAPORT_CONFIG", path)

	found, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, path, found)

	t.Setenv("METAPORT_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	_, err = Discover()
	assert.Error(t, err)
}
