package export

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vmunix/metaport/internal/catalog"
)

// illegalChars are characters not allowed in filenames on common filesystems.
var illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00]`)

// multiSpace matches multiple consecutive spaces.
var multiSpace = regexp.MustCompile(`\s+`)

// sanitizeFileName replaces characters that are unsafe for filenames.
func sanitizeFileName(name string) string {
	name = illegalChars.ReplaceAllString(name, "_")
	name = multiSpace.ReplaceAllString(name, " ")
	name = strings.Trim(name, " .")
	if name == "" {
		return "Unknown"
	}
	return name
}

// targetDirectory computes where an item's files go. Movies and episodes use
// their file's directory, series and seasons their folder, collections a
// sanitized subfolder under the custom root or the owning library's root.
// An empty return means the item has no exportable location and is skipped.
func (p *Pipeline) targetDirectory(item *catalog.Item, opts Options) string {
	var dir string
	switch item.Kind {
	case catalog.KindSeries, catalog.KindSeason:
		dir = item.Path
	case catalog.KindCollection:
		return p.collectionDirectory(item, opts)
	default:
		if item.Path == "" {
			return ""
		}
		dir = filepath.Dir(item.Path)
	}
	if dir == "" {
		return ""
	}

	if opts.CustomExportPath != "" {
		if remapped := p.remapToCustomRoot(item, dir, opts.CustomExportPath); remapped != "" {
			return remapped
		}
		p.log.Debug("could not determine library root, using original directory", "item", item.Name)
	}
	return dir
}

// collectionDirectory places a collection under <root>/Collections/<Name>,
// where root is the custom export path when set, else the owning library.
func (p *Pipeline) collectionDirectory(item *catalog.Item, opts Options) string {
	if opts.CustomExportPath != "" {
		return filepath.Join(opts.CustomExportPath, "Collections", sanitizeFileName(item.Name))
	}
	root := p.libraryRoot(item)
	if root == "" {
		p.log.Debug("collection has no library path, cannot export", "collection", item.Name)
		return ""
	}
	return filepath.Join(root, "Collections", sanitizeFileName(item.Name))
}

// remapToCustomRoot rebases dir under the custom root using the item's path
// relative to its library root. Returns "" when no library root is known or
// the directory falls outside it.
func (p *Pipeline) remapToCustomRoot(item *catalog.Item, dir, customRoot string) string {
	root := p.libraryRoot(item)
	if root == "" {
		return ""
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.Join(customRoot, rel)
}

// libraryRoot returns the filesystem root of the item's owning library, or "".
func (p *Pipeline) libraryRoot(item *catalog.Item) string {
	if item.LibraryID == nil {
		return ""
	}
	lib, err := p.catalog.Item(*item.LibraryID)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			p.log.Warn("library lookup failed", "item", item.Name, "error", err)
		}
		return ""
	}
	return lib.Path
}
