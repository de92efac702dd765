package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/vmunix/metaport/internal/catalog"
)

const (
	copyRetries    = 5
	copyRetryDelay = 100 * time.Millisecond
)

// artworkSlot maps an image kind to its on-disk base name.
type artworkSlot struct {
	kind catalog.ImageKind
	base string
}

func enabledSlots(opts ArtworkOptions) []artworkSlot {
	var slots []artworkSlot
	if opts.Poster {
		slots = append(slots, artworkSlot{catalog.ImagePrimary, "poster"})
	}
	if opts.Backdrop {
		slots = append(slots, artworkSlot{catalog.ImageBackdrop, "fanart"})
	}
	if opts.Logo {
		slots = append(slots, artworkSlot{catalog.ImageLogo, "clearlogo"})
	}
	if opts.Banner {
		slots = append(slots, artworkSlot{catalog.ImageBanner, "banner"})
	}
	if opts.Thumb {
		slots = append(slots, artworkSlot{catalog.ImageThumb, "landscape"})
	}
	if opts.Art {
		slots = append(slots, artworkSlot{catalog.ImageArt, "clearart"})
	}
	if opts.Disc {
		slots = append(slots, artworkSlot{catalog.ImageDisc, "disc"})
	}
	return slots
}

// exportArtwork emits one file per enabled slot. Backdrops are indexed:
// fanart, fanart1, fanart2, ...
func (p *Pipeline) exportArtwork(ctx context.Context, item *catalog.Item, dir string, opts Options) (bool, error) {
	images, err := p.catalog.Images(item.ID)
	if err != nil {
		return false, fmt.Errorf("load images for %s: %w", item.Name, err)
	}
	byKind := make(map[catalog.ImageKind][]catalog.Image)
	for _, img := range images {
		byKind[img.Kind] = append(byKind[img.Kind], img)
	}

	exported := false
	var slotErrs []error
	for _, slot := range enabledSlots(opts.Artwork) {
		kindImages := byKind[slot.kind]
		sort.Slice(kindImages, func(i, j int) bool { return kindImages[i].Index < kindImages[j].Index })

		for i, img := range kindImages {
			if err := ctx.Err(); err != nil {
				return exported, err
			}
			base := slot.base
			if i > 0 {
				base = fmt.Sprintf("%s%d", slot.base, i)
			}
			ok, err := p.exportImage(ctx, item, img, dir, base, opts)
			exported = exported || ok
			if err != nil {
				slotErrs = append(slotErrs, err)
			}
			// Only backdrops carry multiple files per slot.
			if slot.kind != catalog.ImageBackdrop {
				break
			}
		}
	}
	return exported, errors.Join(slotErrs...)
}

// exportImage places one artwork file, preferring a hardlink on the custom
// path + hardlink configuration and falling back to a retried copy.
func (p *Pipeline) exportImage(ctx context.Context, item *catalog.Item, img catalog.Image, dir, base string, opts Options) (bool, error) {
	if _, err := os.Stat(img.Path); err != nil {
		return false, nil // source image gone, nothing to do
	}

	target := filepath.Join(dir, base+filepath.Ext(img.Path))
	if _, err := os.Stat(target); err == nil && !opts.Artwork.Overwrite {
		p.tracker.Log("%s (skipped - already exists): %s", img.Kind, item.Name)
		return false, nil
	}

	if opts.DryRun {
		p.tracker.Log("[DRY RUN] %s: %s → %s", img.Kind, item.Name, target)
		return true, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("create directory %s: %w", dir, err)
	}

	if opts.CustomExportPath != "" && opts.UseHardlinks {
		if err := hardlink(img.Path, target); err == nil {
			p.tracker.Log("%s (hardlink): %s → %s", img.Kind, item.Name, target)
			return true, nil
		}
		p.log.Debug("hardlink failed, falling back to copy", "target", target)
	}

	if err := copyWithRetry(ctx, img.Path, target); err != nil {
		p.tracker.Log("Failed to export %s for %s: %v", img.Kind, item.Name, err)
		return false, fmt.Errorf("export %s for %s: %w", img.Kind, item.Name, err)
	}
	p.tracker.Log("%s: %s → %s", img.Kind, item.Name, target)
	return true, nil
}

// hardlink replaces target with a hard link to src. Errors cover both
// unsupported filesystems and cross-device links; callers fall back to copy.
func hardlink(src, target string) error {
	if _, err := os.Stat(target); err == nil {
		if err := os.Remove(target); err != nil {
			return err
		}
	}
	return os.Link(src, target)
}

// copyWithRetry streams src to target, retrying transient failures with a
// doubling delay starting at 100ms, up to 5 attempts.
func copyWithRetry(ctx context.Context, src, target string) error {
	delay := copyRetryDelay
	var lastErr error
	for attempt := 0; attempt < copyRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
		if lastErr = copyFile(src, target); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("after %d attempts: %w", copyRetries, lastErr)
}

func copyFile(src, target string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		_ = os.Remove(target)
		return err
	}
	return out.Sync()
}
