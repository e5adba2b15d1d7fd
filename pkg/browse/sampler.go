// Package browse produces pages of "interesting" species without a user
// query, by driving the resolution and enrichment chain over a shuffled
// catalog of popular seed terms.
package browse

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/marinescope/marinescope/pkg/logging"
	"github.com/marinescope/marinescope/pkg/ratelimit"
	"github.com/marinescope/marinescope/pkg/species"
	"github.com/marinescope/marinescope/pkg/worms"
)

// seedTerms mixes popular common-name groups with well-known binomials.
// The catalog is shuffled once per sampler for variety; within one sampler
// the order is stable so adjacent pages extend each other.
var seedTerms = []string{
	"whale", "dolphin", "shark", "ray", "turtle", "seal",
	"octopus", "crab", "jellyfish", "starfish", "coral",
	"Orcinus orca", "Delphinus delphis", "Carcharodon carcharias",
	"Chelonia mydas", "Phoca vitulina", "Octopus vulgaris",
}

// seedPaceInterval is the courtesy delay between seed terms, so a browse
// page does not hammer the upstreams with back-to-back searches.
const seedPaceInterval = 300 * time.Millisecond

// Resolver resolves a query to candidate taxa.
type Resolver interface {
	Resolve(ctx context.Context, query string) []worms.Taxon
}

// Enricher assembles the species record for a taxon id.
type Enricher interface {
	Enrich(ctx context.Context, aphiaID int, hint string) (*species.Record, bool)
}

// Sampler pages through species sampled from the seed catalog. The catalog
// order is fixed at construction, so successive windows from one sampler
// slice a single consistent sequence.
type Sampler struct {
	resolver Resolver
	enricher Enricher
	pacer    *ratelimit.Pacer
	terms    []string
	logger   zerolog.Logger
}

// NewSampler creates a sampler over the given resolution chain.
func NewSampler(resolver Resolver, enricher Enricher) *Sampler {
	terms := append([]string(nil), seedTerms...)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	rng.Shuffle(len(terms), func(i, j int) {
		terms[i], terms[j] = terms[j], terms[i]
	})

	return &Sampler{
		resolver: resolver,
		enricher: enricher,
		pacer:    ratelimit.NewPacer(seedPaceInterval),
		terms:    terms,
		logger:   logging.NewLogger("browse"),
	}
}

// Sample collects distinct species by running seed terms through the
// resolution chain until offset+limit species are found or the catalog is
// exhausted, then returns the [offset, offset+limit) slice. Taxa are
// deduplicated by id within one call; since the catalog order is stable,
// adjacent windows from the same sampler hold disjoint species. Cancelling
// ctx returns whatever was collected for the requested window so far.
func (s *Sampler) Sample(ctx context.Context, offset, limit int) []*species.Record {
	if offset < 0 || limit <= 0 {
		return nil
	}
	target := offset + limit

	var records []*species.Record
	seen := make(map[int]struct{})

	for _, term := range s.terms {
		if len(records) >= target {
			break
		}
		if err := s.pacer.Wait(ctx, "seeds"); err != nil {
			break
		}

		for _, taxon := range s.resolver.Resolve(ctx, term) {
			if len(records) >= target {
				break
			}
			if _, dup := seen[taxon.ID]; dup {
				continue
			}

			record, ok := s.enricher.Enrich(ctx, taxon.ID, term)
			if !ok {
				continue
			}
			seen[taxon.ID] = struct{}{}
			records = append(records, record)
		}
	}

	s.logger.Debug().Int("offset", offset).Int("limit", limit).Int("collected", len(records)).Msg("Browse sample")

	if offset >= len(records) {
		return nil
	}
	end := offset + limit
	if end > len(records) {
		end = len(records)
	}
	return records[offset:end]
}
