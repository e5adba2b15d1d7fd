// Package resolver turns a raw user query into candidate taxa via an
// ordered fallback chain: direct id lookup, exact scientific-name search,
// fuzzy search, vernacular search, and encyclopedic mediation as a last
// resort. Stages run strictly in order and the first stage yielding at
// least one taxon is terminal.
package resolver

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/marinescope/marinescope/pkg/logging"
	"github.com/marinescope/marinescope/pkg/textmine"
	"github.com/marinescope/marinescope/pkg/wiki"
	"github.com/marinescope/marinescope/pkg/worms"
)

// Result caps per stage.
const (
	exactSearchLimit = 10
	fuzzySearchLimit = 15
	maxFuzzyResults  = 8
	maxVernacular    = 5

	// maxVernacularLookups bounds re-fetches in the vernacular stage; the
	// common-name index can return dozens of thin hits per query.
	maxVernacularLookups = 8

	// maxWikiCandidates bounds how many extracted scientific names the
	// encyclopedic stage will try; each costs registry round trips.
	maxWikiCandidates = 3
)

// Resolver is the name-resolution fallback chain.
type Resolver struct {
	registry *worms.Client
	wiki     *wiki.Client
	logger   zerolog.Logger
}

// New creates a resolver.
func New(registry *worms.Client, wikiClient *wiki.Client) *Resolver {
	return &Resolver{
		registry: registry,
		wiki:     wikiClient,
		logger:   logging.NewLogger("resolver"),
	}
}

// Resolve runs the fallback chain over a query. It returns the taxa of the
// first stage that produced any, or nil when every stage came up empty.
// Resolution exhaustion is a normal outcome, not an error.
func (r *Resolver) Resolve(ctx context.Context, query string) []worms.Taxon {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil
	}

	// Stage 1: numeric queries are taxon ids. Terminal either way; an id
	// that does not resolve gets no text fallback.
	if id, err := strconv.Atoi(query); err == nil && id > 0 {
		return r.byID(ctx, id)
	}

	// Stage 2: exact scientific-name search for canonical binomials.
	if textmine.IsScientificName(query) {
		if taxa := r.exactSearch(ctx, query); len(taxa) > 0 {
			r.logger.Debug().Str("query", query).Str("stage", "exact").Int("taxa", len(taxa)).Msg("Resolved")
			return taxa
		}
	}

	// Stage 3: fuzzy scientific-name search.
	if taxa := r.fuzzySearch(ctx, query); len(taxa) > 0 {
		r.logger.Debug().Str("query", query).Str("stage", "fuzzy").Int("taxa", len(taxa)).Msg("Resolved")
		return taxa
	}

	// Stage 4: vernacular search against the common-name index.
	if taxa := r.vernacularSearch(ctx, query); len(taxa) > 0 {
		r.logger.Debug().Str("query", query).Str("stage", "vernacular").Int("taxa", len(taxa)).Msg("Resolved")
		return taxa
	}

	// Stages 5 and 6: encyclopedic mediation. One summary fetch serves
	// both.
	summary, ok := r.wiki.SummaryFor(ctx, query)
	if !ok {
		r.logger.Debug().Str("query", query).Msg("Resolution exhausted")
		return nil
	}

	// Stage 5: scientific names mined from the summary prose, in
	// extraction priority order.
	names := textmine.ExtractScientificNames(summary.Extract)
	if len(names) > maxWikiCandidates {
		names = names[:maxWikiCandidates]
	}
	for _, name := range names {
		if taxa := r.exactOrFuzzy(ctx, name); len(taxa) > 0 {
			r.logger.Debug().Str("query", query).Str("stage", "wiki_extract").Str("candidate", name).Msg("Resolved")
			return taxa
		}
	}

	// Stage 6: the article's own title, first as a binomial candidate,
	// then as a raw fuzzy query.
	if textmine.IsScientificName(summary.Title) {
		if taxa := r.exactOrFuzzy(ctx, summary.Title); len(taxa) > 0 {
			r.logger.Debug().Str("query", query).Str("stage", "wiki_title").Msg("Resolved")
			return taxa
		}
	}
	if taxa := r.fuzzySearch(ctx, summary.Title); len(taxa) > 0 {
		r.logger.Debug().Str("query", query).Str("stage", "wiki_title_fuzzy").Msg("Resolved")
		return taxa
	}

	r.logger.Debug().Str("query", query).Msg("Resolution exhausted")
	return nil
}

// byID resolves a taxon id directly.
func (r *Resolver) byID(ctx context.Context, id int) []worms.Taxon {
	record, ok := r.registry.RecordByID(ctx, id)
	if !ok {
		return nil
	}
	taxon, ok := worms.TaxonFromRecord(record)
	if !ok {
		return nil
	}
	r.logger.Debug().Int("aphia_id", id).Str("stage", "id").Msg("Resolved")
	return []worms.Taxon{taxon}
}

// exactSearch matches the accepted scientific name case-insensitively.
func (r *Resolver) exactSearch(ctx context.Context, query string) []worms.Taxon {
	var taxa []worms.Taxon
	for _, record := range r.registry.RecordsByName(ctx, query, false, exactSearchLimit) {
		rec := record
		if !strings.EqualFold(strings.TrimSpace(rec.ScientificName), query) {
			continue
		}
		if taxon, ok := worms.TaxonFromRecord(&rec); ok {
			taxa = append(taxa, taxon)
		}
	}
	return taxa
}

// fuzzySearch accepts a "contains" match in either direction between query
// and candidate name. Short names can match as substrings of longer,
// unrelated ones; that is a known limitation of the heuristic, kept as-is.
func (r *Resolver) fuzzySearch(ctx context.Context, query string) []worms.Taxon {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" {
		return nil
	}

	var taxa []worms.Taxon
	seen := make(map[int]struct{})

	for _, record := range r.registry.RecordsByName(ctx, query, true, fuzzySearchLimit) {
		rec := record
		name := strings.ToLower(strings.TrimSpace(rec.ScientificName))
		if name == "" {
			continue
		}
		if !strings.Contains(name, queryLower) && !strings.Contains(queryLower, name) {
			continue
		}

		taxon, ok := worms.TaxonFromRecord(&rec)
		if !ok {
			continue
		}
		if _, dup := seen[taxon.ID]; dup {
			continue
		}
		seen[taxon.ID] = struct{}{}
		taxa = append(taxa, taxon)

		if len(taxa) >= maxFuzzyResults {
			break
		}
	}
	return taxa
}

// vernacularSearch resolves through the registry's common-name index,
// restricted to accepted marine records.
func (r *Resolver) vernacularSearch(ctx context.Context, query string) []worms.Taxon {
	var taxa []worms.Taxon
	seen := make(map[int]struct{})

	hits := r.registry.RecordsByVernacular(ctx, query)
	if len(hits) > maxVernacularLookups {
		hits = hits[:maxVernacularLookups]
	}
	for _, hit := range hits {
		if hit.AphiaID == 0 {
			continue
		}
		if _, dup := seen[hit.AphiaID]; dup {
			continue
		}

		// The vernacular index returns thin records; re-fetch for the
		// authoritative status and habitat flags. The fetch client caches
		// the lookup.
		record, ok := r.registry.RecordByID(ctx, hit.AphiaID)
		if !ok || !record.IsMarine.Bool() {
			continue
		}

		taxon, ok := worms.TaxonFromRecord(record)
		if !ok {
			continue
		}
		seen[taxon.ID] = struct{}{}
		taxa = append(taxa, taxon)

		if len(taxa) >= maxVernacular {
			break
		}
	}
	return taxa
}

// exactOrFuzzy re-enters the lexical stages for a mined candidate name.
func (r *Resolver) exactOrFuzzy(ctx context.Context, name string) []worms.Taxon {
	if textmine.IsScientificName(name) {
		if taxa := r.exactSearch(ctx, name); len(taxa) > 0 {
			return taxa
		}
	}
	return r.fuzzySearch(ctx, name)
}
