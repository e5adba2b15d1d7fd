// Package enrich assembles complete species records. Given a resolved
// taxon id it fans out to the taxonomic registry, the occurrence database,
// and the encyclopedia in parallel, then combines whatever came back
// through independent extraction routines. A failed or slow source
// degrades the affected fields; it never fails the whole record.
package enrich

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/marinescope/marinescope/pkg/logging"
	"github.com/marinescope/marinescope/pkg/obis"
	"github.com/marinescope/marinescope/pkg/species"
	"github.com/marinescope/marinescope/pkg/textmine"
	"github.com/marinescope/marinescope/pkg/wiki"
	"github.com/marinescope/marinescope/pkg/worms"
)

// taskTimeout bounds each parallel enrichment fetch individually, so one
// stalled upstream cannot hold the whole record hostage.
const taskTimeout = 10 * time.Second

// Aggregator builds species records from the three upstreams.
type Aggregator struct {
	registry    *worms.Client
	occurrences *obis.Client
	wiki        *wiki.Client
	logger      zerolog.Logger

	taskTimeout time.Duration
}

// New creates an aggregator.
func New(registry *worms.Client, occurrences *obis.Client, wikiClient *wiki.Client) *Aggregator {
	return &Aggregator{
		registry:    registry,
		occurrences: occurrences,
		wiki:        wikiClient,
		logger:      logging.NewLogger("enrich"),
		taskTimeout: taskTimeout,
	}
}

// sources collects the raw fan-out results. Any field may be nil.
type sources struct {
	classification *worms.ClassificationNode
	distributions  []worms.Distribution
	occurrences    *obis.Page
	summary        *wiki.Summary
}

// Enrich assembles the species record for a taxon id. The hint is the
// user's original query; it steers the encyclopedic lookup and the common
// name when the registry offers none. Enrich reports false only when the
// base record cannot be fetched or carries no usable name.
func (a *Aggregator) Enrich(ctx context.Context, aphiaID int, hint string) (*species.Record, bool) {
	if aphiaID == 0 {
		return nil, false
	}

	record, ok := a.registry.RecordByID(ctx, aphiaID)
	if !ok || record.DisplayName() == "" {
		return nil, false
	}
	scientificName := record.ScientificName

	src := a.fanOut(ctx, aphiaID, record, hint)

	depth := depthSummary(src.occurrences, record)
	habitat := habitatSummary(record, depth)
	distribution := distributionList(src.distributions, src.occurrences, record)
	basins := textmine.ClassifyBasins(occurrenceCoords(src.occurrences))
	stats := occurrenceStats(src.occurrences)
	taxonomy := flattenTaxonomy(src.classification)
	name := a.commonName(ctx, aphiaID, record, src.summary, hint, scientificName)

	imageURL, imageSource := a.imageFor(ctx, aphiaID, src.summary)

	rec := &species.Record{
		AphiaID:        aphiaID,
		Title:          record.DisplayName(),
		ScientificName: scientificName,
		CommonName:     name,
		Habitat:        habitat,
		Depth:          depth,
		Distribution:   distribution,
		OceanBasins:    basins,
		Occurrence:     stats,
		Taxonomy:       taxonomy,
		Description:    describe(name, scientificName, habitat, distribution, depth, src.summary),
		ImageURL:       imageURL,
		ImageSource:    imageSource,
		Provenance:     species.ProvenanceAggregated,
		Marine:         record.IsMarine.Bool(),
		Brackish:       record.IsBrackish.Bool(),
		Freshwater:     record.IsFreshwater.Bool(),
		Terrestrial:    record.IsTerrestrial.Bool(),
	}
	if src.summary != nil {
		rec.WikiURL = src.summary.URL
	}

	a.logger.Debug().Int("aphia_id", aphiaID).Str("scientific_name", scientificName).Msg("Assembled record")
	return rec, true
}

// fanOut runs the four enrichment fetches concurrently, each under its own
// timeout. All four are awaited before assembly begins.
func (a *Aggregator) fanOut(ctx context.Context, aphiaID int, record *worms.Record, hint string) *sources {
	src := &sources{}

	var wg sync.WaitGroup
	run := func(task func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tctx, cancel := context.WithTimeout(ctx, a.taskTimeout)
			defer cancel()
			task(tctx)
		}()
	}

	run(func(tctx context.Context) {
		src.classification, _ = a.registry.ClassificationByID(tctx, aphiaID)
	})
	run(func(tctx context.Context) {
		src.distributions = a.registry.DistributionsByID(tctx, aphiaID)
	})
	run(func(tctx context.Context) {
		if record.ScientificName == "" {
			return
		}
		src.occurrences, _ = a.occurrences.OccurrencesByName(tctx, record.ScientificName)
	})
	run(func(tctx context.Context) {
		src.summary = a.lookupSummary(tctx, record, hint)
	})

	wg.Wait()
	return src
}

// lookupSummary tries the encyclopedic lookup against the search hint, the
// valid name, and the scientific name, in that order. First non-empty
// prose wins.
func (a *Aggregator) lookupSummary(ctx context.Context, record *worms.Record, hint string) *wiki.Summary {
	terms := []string{hint, record.ValidName, record.ScientificName}
	tried := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if _, dup := tried[term]; dup {
			continue
		}
		tried[term] = struct{}{}

		if summary, ok := a.wiki.SummaryFor(ctx, term); ok && summary.Extract != "" {
			return summary
		}
	}
	return nil
}

// imageFor prefers the registry's curated image over the encyclopedic
// thumbnail. Both lookups ride the fetch-client cache.
func (a *Aggregator) imageFor(ctx context.Context, aphiaID int, summary *wiki.Summary) (string, string) {
	if u, ok := a.registry.BestImageURL(ctx, aphiaID); ok {
		return u, "WoRMS"
	}
	if summary != nil && summary.ThumbURL != "" {
		return summary.ThumbURL, "Wikipedia"
	}
	return "", ""
}

// commonName picks the best available common name: an English vernacular
// from the registry, the registry's valid vernacular, the encyclopedia's
// article title, the user's own search term, and finally the scientific
// name. Binomial-shaped titles and hints are not common names.
func (a *Aggregator) commonName(ctx context.Context, aphiaID int, record *worms.Record, summary *wiki.Summary, hint, scientificName string) string {
	fallback := ""
	vernaculars := a.registry.VernacularsByID(ctx, aphiaID)
	if len(vernaculars) > 2 {
		vernaculars = vernaculars[:2]
	}
	for _, v := range vernaculars {
		name := strings.TrimSpace(v.Vernacular)
		if name == "" {
			continue
		}
		if strings.EqualFold(v.Language, "English") {
			return name
		}
		if fallback == "" {
			fallback = name
		}
	}
	if fallback != "" {
		return fallback
	}

	if v := strings.TrimSpace(record.ValidVernacular); v != "" {
		return v
	}
	if summary != nil && summary.Title != "" && !textmine.IsScientificName(summary.Title) {
		return summary.Title
	}
	if hint = strings.TrimSpace(hint); hint != "" && !textmine.IsScientificName(hint) {
		return hint
	}
	return scientificName
}
