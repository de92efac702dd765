// Package export writes catalog metadata back to disk as NFO documents and
// artwork files, processing the selected scope with a bounded worker pool.
package export

import (
	"log/slog"
	"sync/atomic"

	"github.com/vmunix/metaport/internal/catalog"
	"github.com/vmunix/metaport/internal/progress"
)

// Catalog is the catalog surface the pipeline needs. *catalog.Store satisfies it.
type Catalog interface {
	Item(id int64) (*catalog.Item, error)
	ItemsUnder(libraryID int64, kinds []catalog.Kind) ([]*catalog.Item, error)
	DescendantsOf(seriesID int64) ([]*catalog.Item, error)
	CollectionItems(collectionID int64) ([]*catalog.Item, error)
	AllCollections() ([]*catalog.Item, error)
	Chapters(itemID int64) ([]catalog.Chapter, error)
	Images(itemID int64) ([]catalog.Image, error)
}

// Scope selects what to export. Non-empty ItemIDs puts the run in individual
// mode: each selected series expands to itself plus all seasons and episodes,
// each selected collection to itself plus its contained movies and series.
// Otherwise LibraryIDs selects whole libraries.
type Scope struct {
	ItemIDs    []int64
	LibraryIDs []int64
}

// NFOOptions gates NFO emission and its field set.
type NFOOptions struct {
	Enabled   bool
	Overwrite bool

	IncludePlot        bool
	IncludeTitles      bool
	IncludeRating      bool
	IncludeYear        bool
	IncludeMpaa        bool
	IncludeGenres      bool
	IncludeStudios     bool
	IncludeProviderIDs bool
	IncludeDates       bool
	IncludeRuntime     bool
	IncludeChapters    bool
	// IncludeMarkerKinds adds a markertype element to chapters carrying an
	// intro/credits marker.
	IncludeMarkerKinds bool
}

// ArtworkOptions gates artwork emission per slot.
type ArtworkOptions struct {
	Enabled   bool
	Overwrite bool

	Poster   bool
	Backdrop bool
	Logo     bool
	Banner   bool
	Thumb    bool
	Art      bool
	Disc     bool
}

// Options control one export run.
type Options struct {
	NFO     NFOOptions
	Artwork ArtworkOptions

	// CustomExportPath redirects output under this root, mirroring each
	// item's path relative to its library root.
	CustomExportPath string
	// UseHardlinks attempts hardlinks for artwork under a custom export path,
	// falling back to a copy where the filesystem refuses.
	UseHardlinks bool
	// DryRun logs every intended write without touching disk.
	DryRun bool
	// IncludeCollections adds collections to library-mode scope resolution.
	IncludeCollections bool
	// MaxParallel bounds worker concurrency. 0 means the default of 4;
	// values are clamped to [1, 16].
	MaxParallel int
}

// Result is the terminal outcome of one export run. Per-item failures are
// collected in Errors, never raised.
type Result struct {
	Success        bool
	Cancelled      bool
	Message        string
	TotalItems     int
	ItemsProcessed int
	ItemsExported  int
	Errors         []string
}

// Pipeline drives export runs. One run at a time; a second concurrent call
// returns ErrRunInProgress.
type Pipeline struct {
	catalog Catalog
	tracker *progress.Tracker
	log     *slog.Logger
	running atomic.Bool
}

// NewPipeline creates an export pipeline over the given catalog.
func NewPipeline(c Catalog, tracker *progress.Tracker, log *slog.Logger) *Pipeline {
	return &Pipeline{
		catalog: c,
		tracker: tracker,
		log:     log.With("component", "export"),
	}
}

// Tracker exposes the pipeline's progress tracker for pollers.
func (p *Pipeline) Tracker() *progress.Tracker {
	return p.tracker
}

func (p *Pipeline) acquire() error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}
	return nil
}

func (p *Pipeline) release() {
	p.running.Store(false)
}
