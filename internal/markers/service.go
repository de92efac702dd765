package markers

import (
	"log/slog"
	"sync/atomic"

	"github.com/vmunix/metaport/internal/progress"
)

// Service orchestrates marker backup, restore, and migration. One operation
// runs at a time; overlapping calls fail fast with ErrRunInProgress. The
// shared tracker stays readable by concurrent pollers across runs.
type Service struct {
	catalog  Catalog
	resolver *Resolver
	tracker  *progress.Tracker
	log      *slog.Logger
	running  atomic.Bool
}

// NewService creates the marker service. All marker operations report
// through the given tracker.
func NewService(c Catalog, tracker *progress.Tracker, log *slog.Logger) *Service {
	return &Service{
		catalog:  c,
		resolver: NewResolver(c, log),
		tracker:  tracker,
		log:      log,
	}
}

// Tracker exposes the progress tracker for pollers.
func (s *Service) Tracker() *progress.Tracker {
	return s.tracker
}

// acquire claims the single-run slot. Callers must release on every path.
func (s *Service) acquire() error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}
	return nil
}

func (s *Service) release() {
	s.running.Store(false)
}
