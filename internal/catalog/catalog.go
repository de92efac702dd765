// Package catalog manages the media library catalog (items, chapters, artwork).
package catalog

import (
	"time"
)

// Kind distinguishes the item types tracked in the catalog.
type Kind string

const (
	KindLibrary    Kind = "library"
	KindMovie      Kind = "movie"
	KindSeries     Kind = "series"
	KindSeason     Kind = "season"
	KindEpisode    Kind = "episode"
	KindCollection Kind = "collection"
)

// Collection type for a library that holds collections rather than media folders.
const CollectionTypeBoxSets = "boxsets"

// Item is a single catalog entity: a library root, movie, series, season,
// episode, or collection. Episodes and seasons carry SeriesID; everything but
// libraries and collections carries LibraryID.
type Item struct {
	ID              int64
	Kind            Kind
	LibraryID       *int64
	SeriesID        *int64
	Name            string
	OriginalTitle   string
	SortName        string
	Overview        string
	Year            int
	Premiered       *time.Time
	RuntimeMinutes  int
	CommunityRating *float64
	OfficialRating  string
	Genres          []string
	Studios         []string
	Status          string
	CollectionType  string
	Path            string
	Season          *int
	Episode         *int

	// ProviderIDs maps external catalog names ("Tvdb", "Tmdb", "Imdb", ...)
	// to their ids. Always non-nil on items read from the store.
	ProviderIDs map[string]string
}

// ProviderID returns the id for a provider, or "" if absent.
func (i *Item) ProviderID(provider string) string {
	if i.ProviderIDs == nil {
		return ""
	}
	return i.ProviderIDs[provider]
}

// MarkerKind tags a chapter as an intro/credits boundary.
type MarkerKind string

const (
	MarkerNone         MarkerKind = "None"
	MarkerIntroStart   MarkerKind = "IntroStart"
	MarkerIntroEnd     MarkerKind = "IntroEnd"
	MarkerCreditsStart MarkerKind = "CreditsStart"
)

// ParseMarkerKind maps a serialized marker kind name to its enum value.
// Returns false for unrecognized names.
func ParseMarkerKind(s string) (MarkerKind, bool) {
	switch MarkerKind(s) {
	case MarkerNone, MarkerIntroStart, MarkerIntroEnd, MarkerCreditsStart:
		return MarkerKind(s), true
	}
	return MarkerNone, false
}

// Chapter is a timestamped annotation on a video item.
type Chapter struct {
	Name   string
	Start  time.Duration
	Marker MarkerKind
}

// ImageKind names an artwork slot on an item.
type ImageKind string

const (
	ImagePrimary  ImageKind = "Primary"
	ImageBackdrop ImageKind = "Backdrop"
	ImageLogo     ImageKind = "Logo"
	ImageBanner   ImageKind = "Banner"
	ImageThumb    ImageKind = "Thumb"
	ImageArt      ImageKind = "Art"
	ImageDisc     ImageKind = "Disc"
)

// Image references an artwork file on disk for one item slot.
type Image struct {
	Kind  ImageKind
	Index int
	Path  string
}
