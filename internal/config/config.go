// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	LogLevel string         `toml:"log_level"`
	Database DatabaseConfig `toml:"database"`
	Export   ExportConfig   `toml:"export"`
	Markers  MarkersConfig  `toml:"markers"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ExportConfig controls the metadata export pipeline.
type ExportConfig struct {
	// Libraries and Items select the export scope. Items (individual mode)
	// takes precedence when both are set.
	Libraries []int64 `toml:"libraries"`
	Items     []int64 `toml:"items"`

	Nfo              bool `toml:"nfo"`
	OverwriteNfo     bool `toml:"overwrite_nfo"`
	Artwork          bool `toml:"artwork"`
	OverwriteArtwork bool `toml:"overwrite_artwork"`

	// Artwork slots.
	Poster    bool `toml:"poster"`
	Backdrop  bool `toml:"backdrop"`
	Logo      bool `toml:"logo"`
	Banner    bool `toml:"banner"`
	Landscape bool `toml:"landscape"`
	Clearart  bool `toml:"clearart"`
	Disc      bool `toml:"disc"`

	// NFO field set.
	NfoPlot        bool `toml:"nfo_plot"`
	NfoTitles      bool `toml:"nfo_titles"`
	NfoRating      bool `toml:"nfo_rating"`
	NfoYear        bool `toml:"nfo_year"`
	NfoMpaa        bool `toml:"nfo_mpaa"`
	NfoGenres      bool `toml:"nfo_genres"`
	NfoStudios     bool `toml:"nfo_studios"`
	NfoProviderIds bool `toml:"nfo_provider_ids"`
	NfoDates       bool `toml:"nfo_dates"`
	NfoRuntime     bool `toml:"nfo_runtime"`
	NfoChapters    bool `toml:"nfo_chapters"`
	NfoMarkerKinds bool `toml:"nfo_marker_kinds"`

	CustomExportPath   string `toml:"custom_export_path"`
	UseHardlinks       bool   `toml:"use_hardlinks"`
	DryRun             bool   `toml:"dry_run"`
	IncludeCollections bool   `toml:"include_collections"`
	MaxParallel        int    `toml:"max_parallel"`
}

// MarkersConfig controls intro-marker backup and restore.
type MarkersConfig struct {
	// BackupPath is the centralized backup document (.json).
	BackupPath string `toml:"backup_path"`
	// PerEpisode switches to one sidecar document per episode.
	PerEpisode bool `toml:"per_episode"`
	// SidecarRoot mirrors sidecars into a separate tree instead of placing
	// them next to the media files.
	SidecarRoot string `toml:"sidecar_root"`

	// Series and Libraries select the backup scope; series win. Empty scope
	// means every episode.
	Series    []int64 `toml:"series"`
	Libraries []int64 `toml:"libraries"`

	OverwriteExisting    bool `toml:"overwrite_existing"`
	UseProviderEpisodeID bool `toml:"use_provider_episode_id"`
	FuzzySeriesNames     bool `toml:"fuzzy_series_names"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Apply defaults
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/metaport.db"
	}
	if cfg.Export.MaxParallel == 0 {
		cfg.Export.MaxParallel = 4
	}

	return &cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
