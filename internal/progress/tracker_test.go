package progress

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_BeginResetsState(t *testing.T) {
	tr := NewTracker(10)
	tr.Begin("backup", 5)
	tr.Advance(Delta{Processed: 3, Succeeded: 3, CurrentItem: "ep3"})
	tr.ValidationError("old warning")
	tr.Finish("done")

	tr.Begin("restore", 7)
	s := tr.Snapshot()
	assert.True(t, s.Running)
	assert.Equal(t, "restore", s.Operation)
	assert.Equal(t, 7, s.TotalItems)
	assert.Zero(t, s.ProcessedItems)
	assert.Empty(t, s.ValidationErrors)
	assert.Empty(t, s.CurrentItem)
}

func TestTracker_PercentageFloors(t *testing.T) {
	tr := NewTracker(10)
	tr.Begin("export", 3)
	tr.Advance(Delta{Processed: 1})
	assert.Equal(t, 33, tr.Snapshot().Percentage)
	tr.Advance(Delta{Processed: 1})
	assert.Equal(t, 66, tr.Snapshot().Percentage)
	tr.Advance(Delta{Processed: 1})
	assert.Equal(t, 100, tr.Snapshot().Percentage)
}

func TestTracker_LogEviction(t *testing.T) {
	tr := NewTracker(3)
	tr.Begin("export", 1)
	for n := 1; n <= 5; n++ {
		tr.Log("entry %d", n)
	}
	s := tr.Snapshot()
	require.Len(t, s.Log, 3)
	assert.Contains(t, s.Log[0], "entry 3", "oldest entries are evicted first")
	assert.Contains(t, s.Log[2], "entry 5")
}

func TestTracker_SetProcessedNeverRegresses(t *testing.T) {
	tr := NewTracker(10)
	tr.Begin("export", 10)
	tr.SetProcessed(6, 4)
	tr.SetProcessed(3, 2) // stale batched update
	s := tr.Snapshot()
	assert.Equal(t, 6, s.ProcessedItems)
	assert.Equal(t, 4, s.SucceededItems)
}

func TestTracker_EstimatedTimeBuckets(t *testing.T) {
	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(10)
	clock := base
	tr.now = func() time.Time { return clock }

	tr.Begin("backup", 100)

	// 10 items in 10s leaves 90s, bucketed into minutes.
	clock = base.Add(10 * time.Second)
	tr.Advance(Delta{Processed: 10})
	assert.Equal(t, "1m 30s", tr.Snapshot().EstimatedTime)

	assert.Equal(t, "45s", formatETA(45))
	assert.Equal(t, "2h 5m", formatETA(2*3600+5*60+30))
}

func TestTracker_ConcurrentReadersAndWriters(t *testing.T) {
	tr := NewTracker(100)
	tr.Begin("export", 1000)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for n := 0; n < 125; n++ {
				tr.Advance(Delta{Processed: 1, Succeeded: 1, CurrentItem: fmt.Sprintf("w%d-%d", w, n)})
				tr.Log("worker %d item %d", w, n)
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 200; n++ {
				s := tr.Snapshot()
				assert.GreaterOrEqual(t, s.TotalItems, s.Percentage*0) // exercise the copy
				assert.LessOrEqual(t, s.ProcessedItems, 1000)
			}
		}()
	}
	wg.Wait()

	s := tr.Snapshot()
	assert.Equal(t, 1000, s.ProcessedItems)
	assert.Equal(t, 1000, s.SucceededItems)
	assert.Equal(t, 100, s.Percentage)
}
