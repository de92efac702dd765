package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vmunix/metaport/internal/catalog"
)

// exportNFO writes the item's NFO document via temp-file-then-rename so no
// reader ever observes a partial file.
func (p *Pipeline) exportNFO(item *catalog.Item, dir string, opts Options) (bool, error) {
	path := nfoPath(item, dir)
	if path == "" {
		return false, nil
	}

	if _, err := os.Stat(path); err == nil && !opts.NFO.Overwrite {
		p.tracker.Log("NFO (skipped - already exists): %s", item.Name)
		return false, nil
	}

	data, err := p.generateNFO(item, opts.NFO)
	if err != nil {
		return false, fmt.Errorf("generate nfo for %s: %w", item.Name, err)
	}

	if opts.DryRun {
		p.tracker.Log("[DRY RUN] NFO: %s → %s", item.Name, path)
		return true, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return false, fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("rename %s: %w", tmp, err)
	}

	p.tracker.Log("NFO: %s → %s", item.Name, path)
	return true, nil
}

// nfoPath follows the Kodi layout: tvshow.nfo for series, season.nfo for
// seasons, <video stem>.nfo otherwise. Collections use their sanitized name.
func nfoPath(item *catalog.Item, dir string) string {
	switch item.Kind {
	case catalog.KindSeries:
		return filepath.Join(dir, "tvshow.nfo")
	case catalog.KindSeason:
		return filepath.Join(dir, "season.nfo")
	case catalog.KindCollection:
		return filepath.Join(dir, sanitizeFileName(item.Name)+".nfo")
	}
	if item.Path == "" {
		return ""
	}
	stem := strings.TrimSuffix(filepath.Base(item.Path), filepath.Ext(item.Path))
	return filepath.Join(dir, stem+".nfo")
}

func rootElement(kind catalog.Kind) string {
	switch kind {
	case catalog.KindEpisode:
		return "episodedetails"
	case catalog.KindSeason:
		return "season"
	case catalog.KindSeries:
		return "tvshow"
	}
	return "movie"
}

// generateNFO renders the item as an NFO XML document, field inclusion gated
// by the options.
func (p *Pipeline) generateNFO(item *catalog.Item, opts NFOOptions) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	w := &nfoWriter{enc: enc}
	w.token(xml.Comment(fmt.Sprintf(" Written %s by metaport ", time.Now().Format("2006-01-02 15:04:05"))))

	root := xml.StartElement{Name: xml.Name{Local: rootElement(item.Kind)}}
	w.token(root)

	if opts.IncludePlot && item.Overview != "" {
		w.elem("plot", item.Overview)
		w.elem("outline", item.Overview)
	}
	w.elem("lockdata", "false")

	if opts.IncludeTitles {
		w.elem("title", item.Name)
		w.elem("originaltitle", fallback(item.OriginalTitle, item.Name))
		w.elem("sorttitle", fallback(item.SortName, item.Name))
	}
	if opts.IncludeRating && item.CommunityRating != nil {
		w.elem("rating", fmt.Sprintf("%.1f", *item.CommunityRating))
	}
	if opts.IncludeYear && item.Year > 0 {
		w.elem("year", fmt.Sprintf("%d", item.Year))
	}
	if opts.IncludeMpaa && item.OfficialRating != "" {
		w.elem("mpaa", item.OfficialRating)
	}
	if opts.IncludeProviderIDs {
		w.providerIDs(item)
		w.uniqueIDs(item)
	}
	if opts.IncludeDates && item.Premiered != nil {
		date := item.Premiered.Format("2006-01-02")
		if item.Kind == catalog.KindEpisode {
			w.elem("aired", date)
		} else {
			w.elem("premiered", date)
		}
	}
	if opts.IncludeRuntime && item.RuntimeMinutes > 0 {
		w.elem("runtime", fmt.Sprintf("%d", item.RuntimeMinutes))
	}
	if opts.IncludeGenres {
		for _, g := range item.Genres {
			w.elem("genre", g)
		}
	}
	if opts.IncludeStudios {
		for _, s := range item.Studios {
			w.elem("studio", s)
		}
	}

	switch item.Kind {
	case catalog.KindEpisode:
		p.writeEpisodeFields(w, item, opts)
	case catalog.KindSeries:
		w.seriesFields(item, opts)
	case catalog.KindSeason:
		if item.Season != nil {
			w.elem("seasonnumber", fmt.Sprintf("%d", *item.Season))
		}
	}

	if opts.IncludeChapters {
		p.writeChapters(w, item, opts)
	}

	w.token(root.End())
	if w.err != nil {
		return nil, w.err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

func (p *Pipeline) writeEpisodeFields(w *nfoWriter, item *catalog.Item, opts NFOOptions) {
	if opts.IncludeTitles && item.SeriesID != nil {
		if series, err := p.catalog.Item(*item.SeriesID); err == nil {
			w.elem("showtitle", series.Name)
		}
	}
	if item.Episode != nil {
		w.elem("episode", fmt.Sprintf("%d", *item.Episode))
	}
	if item.Season != nil {
		w.elem("season", fmt.Sprintf("%d", *item.Season))
	}
}

// writeChapters emits the item's chapter list, optionally tagging chapters
// that carry an intro/credits marker.
func (p *Pipeline) writeChapters(w *nfoWriter, item *catalog.Item, opts NFOOptions) {
	if item.Kind != catalog.KindMovie && item.Kind != catalog.KindEpisode {
		return
	}
	chapters, err := p.catalog.Chapters(item.ID)
	if err != nil || len(chapters) == 0 {
		if err != nil {
			p.log.Debug("could not read chapters", "item", item.Name, "error", err)
		}
		return
	}

	parent := xml.StartElement{Name: xml.Name{Local: "chapters"}}
	w.token(parent)
	for _, ch := range chapters {
		el := xml.StartElement{Name: xml.Name{Local: "chapter"}}
		w.token(el)
		if ch.Name != "" {
			w.elem("name", ch.Name)
		}
		w.elem("starttime", formatChapterTime(ch.Start))
		if opts.IncludeMarkerKinds && ch.Marker != catalog.MarkerNone {
			w.elem("markertype", string(ch.Marker))
		}
		w.token(el.End())
	}
	w.token(parent.End())
}

func formatChapterTime(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d",
		ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}

func fallback(s, alt string) string {
	if s == "" {
		return alt
	}
	return s
}

// nfoWriter wraps an xml.Encoder, remembering the first error so field
// emission code stays linear.
type nfoWriter struct {
	enc *xml.Encoder
	err error
}

func (w *nfoWriter) token(t xml.Token) {
	if w.err == nil {
		w.err = w.enc.EncodeToken(t)
	}
}

func (w *nfoWriter) elem(name, value string) {
	if w.err == nil {
		w.err = w.enc.EncodeElement(value, xml.StartElement{Name: xml.Name{Local: name}})
	}
}

func (w *nfoWriter) elemAttrs(name, value string, attrs []xml.Attr) {
	if w.err == nil {
		w.err = w.enc.EncodeElement(value, xml.StartElement{
			Name: xml.Name{Local: name},
			Attr: attrs,
		})
	}
}

// providerIDs writes the flat Kodi-style id elements.
func (w *nfoWriter) providerIDs(item *catalog.Item) {
	if imdb := item.ProviderID("Imdb"); imdb != "" {
		w.elem("imdbid", imdb)
		w.elem("id", imdb)
	}
	if tvdb := item.ProviderID("Tvdb"); tvdb != "" {
		w.elem("tvdbid", tvdb)
	}
	if tmdb := item.ProviderID("Tmdb"); tmdb != "" {
		w.elem("tmdbid", tmdb)
	}
}

// uniqueIDs writes one uniqueid element per provider. The default attribute
// goes to imdb, then tmdb, then tvdb, whichever is known first.
func (w *nfoWriter) uniqueIDs(item *catalog.Item) {
	if len(item.ProviderIDs) == 0 {
		return
	}
	providers := make([]string, 0, len(item.ProviderIDs))
	for provider := range item.ProviderIDs {
		providers = append(providers, provider)
	}
	sort.Strings(providers)

	hasImdb := item.ProviderID("Imdb") != ""
	hasTmdb := item.ProviderID("Tmdb") != ""

	for _, provider := range providers {
		lower := strings.ToLower(provider)
		attrs := []xml.Attr{{Name: xml.Name{Local: "type"}, Value: lower}}
		isDefault := lower == "imdb" ||
			(lower == "tmdb" && !hasImdb) ||
			(lower == "tvdb" && !hasImdb && !hasTmdb)
		if isDefault {
			attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "default"}, Value: "true"})
		}
		w.elemAttrs("uniqueid", item.ProviderIDs[provider], attrs)
	}
}

// seriesFields writes the tvshow-only elements: episodeguide, tvdb id,
// display order, status.
func (w *nfoWriter) seriesFields(item *catalog.Item, opts NFOOptions) {
	if opts.IncludeProviderIDs && len(item.ProviderIDs) > 0 {
		providers := make([]string, 0, len(item.ProviderIDs))
		for provider := range item.ProviderIDs {
			providers = append(providers, provider)
		}
		sort.Strings(providers)

		pairs := make([]string, 0, len(providers))
		for _, provider := range providers {
			pairs = append(pairs, fmt.Sprintf("%q:%q",
				strings.ToLower(provider), strings.ToLower(item.ProviderIDs[provider])))
		}
		w.elem("episodeguide", "{"+strings.Join(pairs, ",")+"}")

		if tvdb := item.ProviderID("Tvdb"); tvdb != "" {
			w.elem("id", tvdb)
		}
	}
	w.elem("season", "-1")
	w.elem("episode", "-1")
	w.elem("displayorder", "aired")
	if item.Status != "" {
		w.elem("status", item.Status)
	}
}
