package markers

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/vmunix/metaport/internal/catalog"
)

// MatchOptions controls which resolution strategies are attempted.
type MatchOptions struct {
	// UseProviderEpisodeID enables the episode-level external-id strategy.
	UseProviderEpisodeID bool
	// FuzzySeriesNames enables the name-similarity fallback for entries
	// carrying no external ids at all.
	FuzzySeriesNames bool
}

// fuzzyNameThreshold is the minimum Jaro-Winkler similarity between
// normalized series names for the fuzzy fallback to accept a candidate.
const fuzzyNameThreshold = 0.92

// Resolver locates catalog episodes for saved backup entries.
//
// External catalog ids are the most durable join key across server re-scans
// and migrations, so they are tried before internal ids and file paths.
type Resolver struct {
	catalog Catalog
	log     *slog.Logger
}

// NewResolver creates a resolver over the given catalog.
func NewResolver(c Catalog, log *slog.Logger) *Resolver {
	return &Resolver{catalog: c, log: log}
}

// Resolve runs the matching cascade for one entry, first hit wins:
// episode-level external id, internal id, file path, then
// (season,episode) number scoped by series-level external id.
// Returns ErrEpisodeNotFound when every strategy misses; a miss is never a
// batch-aborting error.
func (r *Resolver) Resolve(entry Entry, opts MatchOptions) (*catalog.Item, error) {
	if opts.UseProviderEpisodeID && entry.ExternalEpisodeID != "" {
		ep, err := r.catalog.EpisodeByProviderID("Tvdb", entry.ExternalEpisodeID)
		if err == nil {
			return ep, nil
		}
		if !errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("lookup by external episode id: %w", err)
		}
	}

	if entry.EpisodeID > 0 {
		item, err := r.catalog.Item(entry.EpisodeID)
		if err == nil && item.Kind == catalog.KindEpisode {
			return item, nil
		}
		if err != nil && !errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("lookup by internal id: %w", err)
		}
	}

	if entry.FilePath != "" {
		item, err := r.catalog.ItemByPath(entry.FilePath)
		if err == nil && item.Kind == catalog.KindEpisode {
			return item, nil
		}
		if err != nil && !errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("lookup by path: %w", err)
		}
	}

	return r.resolveByNumber(entry, opts)
}

// resolveByNumber matches (season,episode) candidates against the entry's
// series-level external ids, falling back to fuzzy series-name matching when
// the entry carries no ids at all.
func (r *Resolver) resolveByNumber(entry Entry, opts MatchOptions) (*catalog.Item, error) {
	candidates, err := r.catalog.EpisodesByNumber(entry.SeasonNumber, entry.EpisodeNumber)
	if err != nil {
		return nil, fmt.Errorf("lookup by season/episode: %w", err)
	}

	wantName := normalizeSeriesName(entry.SeriesName)
	for _, candidate := range candidates {
		if candidate.SeriesID == nil {
			continue
		}
		series, err := r.catalog.Item(*candidate.SeriesID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("load series %d: %w", *candidate.SeriesID, err)
		}

		if !entry.ExternalIDs.Empty() {
			if seriesMatchesExternalID(series, entry.ExternalIDs) {
				return candidate, nil
			}
			continue
		}

		if opts.FuzzySeriesNames && wantName != "" {
			got := normalizeSeriesName(series.Name)
			score := float64(edlib.JaroWinklerSimilarity(wantName, got))
			if score >= fuzzyNameThreshold {
				r.log.Debug("fuzzy series-name match",
					"entry", entry.SeriesName, "series", series.Name, "score", score)
				return candidate, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s S%02dE%02d",
		ErrEpisodeNotFound, entry.SeriesName, entry.SeasonNumber, entry.EpisodeNumber)
}

// seriesMatchesExternalID checks the entry's ids against the series in
// tvdb, tmdb, imdb order; the first non-empty entry id decides.
func seriesMatchesExternalID(series *catalog.Item, ids ExternalIDs) bool {
	checks := []struct {
		provider string
		want     string
	}{
		{"Tvdb", ids.Tvdb},
		{"Tmdb", ids.Tmdb},
		{"Imdb", ids.Imdb},
	}
	for _, c := range checks {
		if c.want == "" {
			continue
		}
		return series.ProviderID(c.provider) == c.want
	}
	return false
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeSeriesName lowercases, strips accents, and collapses whitespace
// and punctuation so name comparison survives catalog formatting differences.
func normalizeSeriesName(name string) string {
	s := strings.ToLower(name)
	if stripped, _, err := transform.String(accentStripper, s); err == nil {
		s = stripped
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
