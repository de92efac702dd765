// Package markers implements intro-marker backup, restore, and migration over
// portable JSON documents.
package markers

import (
	"time"

	"github.com/vmunix/metaport/internal/catalog"
)

// Catalog is the item-store surface the marker engines need.
type Catalog interface {
	Item(id int64) (*catalog.Item, error)
	ItemByPath(path string) (*catalog.Item, error)
	EpisodeByProviderID(provider, value string) (*catalog.Item, error)
	EpisodesByNumber(season, episode int) ([]*catalog.Item, error)
	EpisodesUnder(ancestorID int64) ([]*catalog.Item, error)
	AllEpisodes() ([]*catalog.Item, error)
	Chapters(itemID int64) ([]catalog.Chapter, error)
	SaveChapters(itemID int64, chapters []catalog.Chapter) error
}

// Marker is one persisted intro boundary. StartOffset is milliseconds from
// the start of playback.
type Marker struct {
	Name        string `json:"name"`
	StartOffset int64  `json:"startOffset"`
	MarkerKind  string `json:"markerKind"`
}

// Start returns the marker offset as a duration.
func (m Marker) Start() time.Duration {
	return time.Duration(m.StartOffset) * time.Millisecond
}

// ExternalIDs carries series-level provider ids.
type ExternalIDs struct {
	Tvdb string `json:"tvdb,omitempty"`
	Tmdb string `json:"tmdb,omitempty"`
	Imdb string `json:"imdb,omitempty"`
}

// Empty reports whether no provider id is set.
func (e ExternalIDs) Empty() bool {
	return e.Tvdb == "" && e.Tmdb == "" && e.Imdb == ""
}

// Entry is the per-episode record of a backup document. Sidecar files hold a
// single Entry serialized on its own.
type Entry struct {
	SeriesName        string      `json:"seriesName"`
	SeriesID          int64       `json:"seriesId"`
	ExternalIDs       ExternalIDs `json:"externalIds"`
	ExternalEpisodeID string      `json:"externalEpisodeId,omitempty"`
	SeasonNumber      int         `json:"seasonNumber"`
	EpisodeNumber     int         `json:"episodeNumber"`
	EpisodeName       string      `json:"episodeName"`
	EpisodeID         int64       `json:"episodeId"`
	FilePath          string      `json:"filePath"`
	Markers           []Marker    `json:"markers"`
}

// Document is the centralized backup schema. Entries are unique per episode
// id and per non-empty file path.
type Document struct {
	SchemaVersion      string    `json:"schemaVersion"`
	CreatedAt          time.Time `json:"createdAt"`
	TotalEpisodeCount  int       `json:"totalEpisodeCount"`
	MarkedEpisodeCount int       `json:"markedEpisodeCount"`
	Entries            []Entry   `json:"entries"`
}

// MigrationRow is the reduced cross-instance transfer record: no internal
// ids, scalar offsets instead of a marker list. A nil offset means the
// marker was absent; zero is also treated as absent on import for
// compatibility with documents written by older exporters.
type MigrationRow struct {
	SeriesName        string      `json:"seriesName"`
	ExternalIDs       ExternalIDs `json:"externalIds"`
	ExternalEpisodeID string      `json:"externalEpisodeId,omitempty"`
	SeasonNumber      int         `json:"seasonNumber"`
	EpisodeNumber     int         `json:"episodeNumber"`
	IntroStart        *int64      `json:"introStart"`
	IntroEnd          *int64      `json:"introEnd"`
}

// MigrationDocument is the portable migration schema.
type MigrationDocument struct {
	SchemaVersion string         `json:"schemaVersion"`
	CreatedAt     time.Time      `json:"createdAt"`
	Rows          []MigrationRow `json:"rows"`
}

// SchemaVersion is written into every document this package produces.
const SchemaVersion = "1.0"

// SidecarSuffix is the filename suffix of per-episode sidecar documents.
const SidecarSuffix = ".intro.json"

// markerTolerance is the window within which an existing chapter is updated
// in place rather than a new one appended.
const markerTolerance = time.Second
