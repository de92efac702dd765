package export

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/metaport/internal/catalog"
	"github.com/vmunix/metaport/internal/progress"
)

const defaultParallel = 4

// Export resolves the scope to a flat item list and processes it with a
// bounded worker pool. Per-item failures are collected; only a bad
// configuration or cancellation stops the run.
func (p *Pipeline) Export(ctx context.Context, scope Scope, opts Options) (*Result, error) {
	if err := p.acquire(); err != nil {
		return nil, err
	}
	defer p.release()

	p.tracker.Begin("export", 0)
	defer p.tracker.Finish("Export complete")

	if !opts.NFO.Enabled && !opts.Artwork.Enabled {
		return nil, ErrNothingEnabled
	}
	if len(scope.ItemIDs) == 0 && len(scope.LibraryIDs) == 0 {
		return nil, ErrEmptyScope
	}

	items, err := p.resolveScope(scope, opts)
	if err != nil {
		return nil, err
	}
	total := len(items)
	p.tracker.SetTotal(total)
	p.tracker.Log("Total items to process: %d", total)
	p.log.Info("export started", "items", total, "dry_run", opts.DryRun, "parallel", clampParallel(opts.MaxParallel))

	var (
		processed   atomic.Int64
		exported    atomic.Int64
		lastPercent atomic.Int64

		errsMu sync.Mutex
		errs   []string
	)
	lastPercent.Store(-1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(clampParallel(opts.MaxParallel))

	for _, item := range items {
		item := item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			didExport, err := p.exportItem(gctx, item, opts)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				errsMu.Lock()
				errs = append(errs, fmt.Sprintf("Failed to export %s: %v", item.Name, err))
				errsMu.Unlock()
				p.log.Warn("item export failed", "item", item.Name, "error", err)
			}
			if didExport {
				exported.Add(1)
			}

			// Progress updates are throttled: 5%-boundary crossings, every
			// 10th item, and the final item.
			n := processed.Add(1)
			percent := int64(n) * 100 / int64(total)
			if (percent != lastPercent.Load() && percent%5 == 0) || n%10 == 0 || n == int64(total) {
				lastPercent.Store(percent)
				p.tracker.SetProcessed(int(n), int(exported.Load()))
				p.tracker.Advance(progress.Delta{CurrentItem: item.Name})
			}
			return nil
		})
	}

	result := &Result{TotalItems: total}
	if err := g.Wait(); err != nil {
		p.tracker.SetProcessed(int(processed.Load()), int(exported.Load()))
		p.tracker.Finish("Export cancelled")
		p.log.Info("export cancelled", "processed", processed.Load())
		result.Cancelled = true
		result.ItemsProcessed = int(processed.Load())
		result.ItemsExported = int(exported.Load())
		result.Message = "Export cancelled"
		return result, nil
	}

	result.Success = true
	result.ItemsProcessed = int(processed.Load())
	result.ItemsExported = int(exported.Load())
	result.Errors = errs

	switch {
	case result.ItemsExported == 0:
		result.Message = fmt.Sprintf(
			"Processed %d item(s), but no files were exported. All files may already exist or items may have nothing to export.",
			result.ItemsProcessed)
	case result.ItemsExported < result.ItemsProcessed:
		result.Message = fmt.Sprintf(
			"Successfully exported metadata for %d out of %d item(s). %d item(s) were skipped (files already exist or no data to export).",
			result.ItemsExported, result.ItemsProcessed, result.ItemsProcessed-result.ItemsExported)
	default:
		result.Message = fmt.Sprintf("Successfully exported metadata for %d item(s).", result.ItemsExported)
	}
	p.tracker.Log("%s", result.Message)
	p.log.Info("export finished",
		"exported", result.ItemsExported, "processed", result.ItemsProcessed, "errors", len(errs))
	return result, nil
}

// resolveScope flattens the scope selection to the concrete item list, at
// selection time rather than write time.
func (p *Pipeline) resolveScope(scope Scope, opts Options) ([]*catalog.Item, error) {
	if len(scope.ItemIDs) > 0 {
		return p.resolveItems(scope.ItemIDs)
	}
	return p.resolveLibraries(scope.LibraryIDs, opts.IncludeCollections)
}

func (p *Pipeline) resolveItems(ids []int64) ([]*catalog.Item, error) {
	var items []*catalog.Item
	for _, id := range ids {
		item, err := p.catalog.Item(id)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				p.log.Warn("selected item not found", "id", id)
				continue
			}
			return nil, fmt.Errorf("load item %d: %w", id, err)
		}
		items = append(items, item)

		switch item.Kind {
		case catalog.KindSeries:
			children, err := p.catalog.DescendantsOf(item.ID)
			if err != nil {
				return nil, fmt.Errorf("expand series %q: %w", item.Name, err)
			}
			items = append(items, children...)
			p.tracker.Log("Added series '%s' with %d descendants", item.Name, len(children))
		case catalog.KindCollection:
			// Collections use containment, not parent/child ancestry.
			members, err := p.catalog.CollectionItems(item.ID)
			if err != nil {
				return nil, fmt.Errorf("expand collection %q: %w", item.Name, err)
			}
			items = append(items, members...)
			p.tracker.Log("Added collection '%s' with %d items", item.Name, len(members))
		}
	}
	return items, nil
}

func (p *Pipeline) resolveLibraries(ids []int64, includeCollections bool) ([]*catalog.Item, error) {
	kinds := []catalog.Kind{catalog.KindMovie, catalog.KindEpisode, catalog.KindSeries, catalog.KindSeason}
	if includeCollections {
		kinds = append(kinds, catalog.KindCollection)
	}

	var items []*catalog.Item
	for _, id := range ids {
		lib, err := p.catalog.Item(id)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				p.log.Warn("selected library not found", "id", id)
				continue
			}
			return nil, fmt.Errorf("load library %d: %w", id, err)
		}

		var libItems []*catalog.Item
		if lib.CollectionType == catalog.CollectionTypeBoxSets {
			// Collections live outside the ancestry tree; query them globally.
			libItems, err = p.catalog.AllCollections()
		} else {
			libItems, err = p.catalog.ItemsUnder(lib.ID, kinds)
		}
		if err != nil {
			return nil, fmt.Errorf("list library %q: %w", lib.Name, err)
		}
		p.tracker.Log("Found %d items in library '%s'", len(libItems), lib.Name)
		items = append(items, libItems...)
	}
	return items, nil
}

// exportItem emits artwork and/or an NFO for one item. The reported bool is
// true when at least one file was written (or would be, in dry-run).
func (p *Pipeline) exportItem(ctx context.Context, item *catalog.Item, opts Options) (bool, error) {
	dir := p.targetDirectory(item, opts)
	if dir == "" {
		p.tracker.Log("Skipped (no export directory): %s", item.Name)
		return false, nil
	}

	var itemErrs []error
	didExport := false

	if opts.Artwork.Enabled {
		ok, err := p.exportArtwork(ctx, item, dir, opts)
		didExport = didExport || ok
		if err != nil {
			itemErrs = append(itemErrs, err)
		}
	}

	if opts.NFO.Enabled {
		ok, err := p.exportNFO(item, dir, opts)
		didExport = didExport || ok
		if err != nil {
			itemErrs = append(itemErrs, err)
		}
	}

	if !didExport && len(itemErrs) == 0 {
		p.tracker.Log("Skipped (no metadata/artwork to export or all files exist): %s", item.Name)
	}
	return didExport, errors.Join(itemErrs...)
}

func clampParallel(n int) int {
	if n == 0 {
		n = defaultParallel
	}
	if n < 1 {
		return 1
	}
	if n > 16 {
		return 16
	}
	return n
}
