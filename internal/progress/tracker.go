// Package progress provides thread-safe run progress tracking for pollers.
package progress

import (
	"fmt"
	"sync"
	"time"
)

// State is an immutable snapshot of one run's progress. Counters only
// advance between snapshots of the same run; a new run resets them.
type State struct {
	Running          bool
	Operation        string
	TotalItems       int
	ProcessedItems   int
	SucceededItems   int
	FailedItems      int
	SkippedItems     int
	Percentage       int
	CurrentItem      string
	EstimatedTime    string
	StartedAt        time.Time
	Log              []string
	ValidationErrors []string
}

// Delta describes a progress advance. Zero fields leave their counter alone.
type Delta struct {
	Processed   int
	Succeeded   int
	Failed      int
	Skipped     int
	CurrentItem string
}

// Tracker holds mutable progress state behind a single mutex. All methods are
// safe for concurrent use; readers only ever see complete records via Snapshot.
type Tracker struct {
	mu     sync.Mutex
	state  State
	logCap int
	now    func() time.Time
}

// NewTracker creates a tracker whose rolling log keeps at most logCap entries.
func NewTracker(logCap int) *Tracker {
	return &Tracker{logCap: logCap, now: time.Now}
}

// Begin resets all state and marks a new run in progress.
func (t *Tracker) Begin(operation string, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = State{
		Running:    true,
		Operation:  operation,
		TotalItems: total,
		StartedAt:  t.now(),
	}
}

// SetTotal updates the expected item count after scope resolution.
func (t *Tracker) SetTotal(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.TotalItems = total
	t.recalculate()
}

// Advance applies a delta to the counters. ProcessedItems only increases.
func (t *Tracker) Advance(d Delta) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if d.Processed > 0 {
		t.state.ProcessedItems += d.Processed
	}
	t.state.SucceededItems += d.Succeeded
	t.state.FailedItems += d.Failed
	t.state.SkippedItems += d.Skipped
	if d.CurrentItem != "" {
		t.state.CurrentItem = d.CurrentItem
	}
	t.recalculate()
}

// SetProcessed forces the processed counter to a known value. Used by
// concurrent pipelines that batch their updates; the counter never moves
// backwards.
func (t *Tracker) SetProcessed(processed, succeeded int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if processed > t.state.ProcessedItems {
		t.state.ProcessedItems = processed
	}
	if succeeded > t.state.SucceededItems {
		t.state.SucceededItems = succeeded
	}
	t.recalculate()
}

// Log appends a timestamped line to the rolling log, evicting the oldest
// entry once the cap is reached.
func (t *Tracker) Log(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	line := fmt.Sprintf("[%s] %s", t.now().Format("15:04:05"), fmt.Sprintf(format, args...))
	t.state.Log = append(t.state.Log, line)
	if len(t.state.Log) > t.logCap {
		t.state.Log = t.state.Log[len(t.state.Log)-t.logCap:]
	}
}

// ValidationError records a non-fatal validation warning for the current run.
func (t *Tracker) ValidationError(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.ValidationErrors = append(t.state.ValidationErrors, fmt.Sprintf(format, args...))
}

// Finish freezes the run. State stays readable until the next Begin.
func (t *Tracker) Finish(currentItem string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Running = false
	if currentItem != "" {
		t.state.CurrentItem = currentItem
	}
}

// Snapshot returns a copy of the current state. Slices are copied so callers
// can hold the snapshot while the run continues.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.state
	s.Log = append([]string(nil), t.state.Log...)
	s.ValidationErrors = append([]string(nil), t.state.ValidationErrors...)
	return s
}

// recalculate derives percentage and the remaining-time estimate.
// Callers must hold t.mu.
func (t *Tracker) recalculate() {
	if t.state.TotalItems <= 0 {
		t.state.Percentage = 0
		t.state.EstimatedTime = ""
		return
	}
	t.state.Percentage = t.state.ProcessedItems * 100 / t.state.TotalItems

	if t.state.ProcessedItems == 0 || t.state.StartedAt.IsZero() {
		t.state.EstimatedTime = ""
		return
	}
	elapsed := t.now().Sub(t.state.StartedAt).Seconds()
	perItem := elapsed / float64(t.state.ProcessedItems)
	remaining := int(perItem * float64(t.state.TotalItems-t.state.ProcessedItems))
	t.state.EstimatedTime = formatETA(remaining)
}

func formatETA(seconds int) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	default:
		return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
	}
}
