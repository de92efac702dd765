package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.LogLevel] {
		errs = append(errs, fmt.Sprintf("log_level: must be one of debug, info, warn, error; got %q", c.LogLevel))
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path: required")
	}

	if c.Export.MaxParallel < 0 {
		errs = append(errs, fmt.Sprintf("export.max_parallel: must be positive, got %d", c.Export.MaxParallel))
	}

	if c.Markers.BackupPath != "" && !strings.EqualFold(filepath.Ext(c.Markers.BackupPath), ".json") {
		errs = append(errs, fmt.Sprintf("markers.backup_path: must end in .json, got %q", c.Markers.BackupPath))
	}
	if c.Markers.PerEpisode && c.Markers.BackupPath != "" {
		errs = append(errs, "markers.backup_path: not used when per_episode is set; remove one")
	}

	if c.Export.UseHardlinks && c.Export.CustomExportPath == "" {
		errs = append(errs, "export.use_hardlinks: requires export.custom_export_path")
	}

	return errs
}

// Warnings reports non-fatal configuration issues, like paths that
// commonly go stale between runs.
func (c *Config) Warnings() []string {
	var warns []string

	if c.Export.CustomExportPath != "" {
		if _, err := os.Stat(c.Export.CustomExportPath); os.IsNotExist(err) {
			warns = append(warns, fmt.Sprintf("export.custom_export_path: directory %q does not exist", c.Export.CustomExportPath))
		}
	}

	return warns
}
