package config

import (
	"github.com/vmunix/metaport/internal/export"
	"github.com/vmunix/metaport/internal/markers"
)

// ExportScope maps the configured selection onto an export scope.
func (c *Config) ExportScope() export.Scope {
	return export.Scope{
		ItemIDs:    c.Export.Items,
		LibraryIDs: c.Export.Libraries,
	}
}

// ExportOptions maps the export section onto pipeline options.
func (c *Config) ExportOptions() export.Options {
	e := c.Export
	return export.Options{
		NFO: export.NFOOptions{
			Enabled:            e.Nfo,
			Overwrite:          e.OverwriteNfo,
			IncludePlot:        e.NfoPlot,
			IncludeTitles:      e.NfoTitles,
			IncludeRating:      e.NfoRating,
			IncludeYear:        e.NfoYear,
			IncludeMpaa:        e.NfoMpaa,
			IncludeGenres:      e.NfoGenres,
			IncludeStudios:     e.NfoStudios,
			IncludeProviderIDs: e.NfoProviderIds,
			IncludeDates:       e.NfoDates,
			IncludeRuntime:     e.NfoRuntime,
			IncludeChapters:    e.NfoChapters,
			IncludeMarkerKinds: e.NfoMarkerKinds,
		},
		Artwork: export.ArtworkOptions{
			Enabled:   e.Artwork,
			Overwrite: e.OverwriteArtwork,
			Poster:    e.Poster,
			Backdrop:  e.Backdrop,
			Logo:      e.Logo,
			Banner:    e.Banner,
			Thumb:     e.Landscape,
			Art:       e.Clearart,
			Disc:      e.Disc,
		},
		CustomExportPath:   e.CustomExportPath,
		UseHardlinks:       e.UseHardlinks,
		DryRun:             e.DryRun,
		IncludeCollections: e.IncludeCollections,
		MaxParallel:        e.MaxParallel,
	}
}

// BackupOptions maps the markers section onto backup options.
func (c *Config) BackupOptions() markers.BackupOptions {
	m := c.Markers
	return markers.BackupOptions{
		SeriesIDs:       m.Series,
		LibraryIDs:      m.Libraries,
		DestinationPath: m.BackupPath,
		PerEpisode:      m.PerEpisode,
		SidecarRoot:     m.SidecarRoot,
	}
}

// MatchOptions maps the markers section onto the resolution cascade options.
func (c *Config) MatchOptions() markers.MatchOptions {
	return markers.MatchOptions{
		UseProviderEpisodeID: c.Markers.UseProviderEpisodeID,
		FuzzySeriesNames:     c.Markers.FuzzySeriesNames,
	}
}
