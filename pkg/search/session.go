// Package search drives the resolution and enrichment chain on behalf of
// a frontend: queries, browse pages, and the user's own species. Searches
// are cancellable through their context; a cancelled search yields
// nothing rather than a partial page.
package search

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/marinescope/marinescope/pkg/browse"
	"github.com/marinescope/marinescope/pkg/localstore"
	"github.com/marinescope/marinescope/pkg/logging"
	"github.com/marinescope/marinescope/pkg/species"
	"github.com/marinescope/marinescope/pkg/worms"
)

// maxResults caps one search; queries resolving to broad groups can match
// far more taxa than a result list usefully shows.
const maxResults = 10

// minQueryLen mirrors the resolver's own floor, enforced here too so a
// too-short query costs no progress callbacks.
const minQueryLen = 2

// Progress receives human-readable stage updates during a search. It is
// called from the searching goroutine; implementations hand off to their
// own event loop if needed. No calls are made after the context is
// cancelled.
type Progress func(stage string)

// Resolver resolves a query to candidate taxa.
type Resolver interface {
	Resolve(ctx context.Context, query string) []worms.Taxon
}

// Enricher assembles the species record for a taxon id.
type Enricher interface {
	Enrich(ctx context.Context, aphiaID int, hint string) (*species.Record, bool)
}

// Session is the frontend-facing entry point to the pipeline.
type Session struct {
	resolver Resolver
	enricher Enricher
	sampler  *browse.Sampler
	local    *localstore.Store
	logger   zerolog.Logger
}

// New creates a session. The local store may be nil when user-authored
// species are not wanted.
func New(resolver Resolver, enricher Enricher, sampler *browse.Sampler, local *localstore.Store) *Session {
	return &Session{
		resolver: resolver,
		enricher: enricher,
		sampler:  sampler,
		local:    local,
		logger:   logging.NewLogger("search"),
	}
}

// Search resolves and enriches a query. Progress may be nil.
func (s *Session) Search(ctx context.Context, query string, progress Progress) []*species.Record {
	query = strings.TrimSpace(query)
	if len(query) < minQueryLen {
		return nil
	}
	notify := func(stage string) {
		if progress != nil && ctx.Err() == nil {
			progress(stage)
		}
	}

	notify("Searching registry...")
	taxa := s.resolver.Resolve(ctx, query)
	if len(taxa) == 0 || ctx.Err() != nil {
		return nil
	}
	if len(taxa) > maxResults {
		taxa = taxa[:maxResults]
	}

	notify("Assembling species records...")
	var records []*species.Record
	seen := make(map[int]struct{}, len(taxa))
	for _, taxon := range taxa {
		if ctx.Err() != nil {
			return nil
		}
		if _, dup := seen[taxon.ID]; dup {
			continue
		}
		seen[taxon.ID] = struct{}{}
		if record, ok := s.enricher.Enrich(ctx, taxon.ID, query); ok {
			records = append(records, record)
		}
	}
	if ctx.Err() != nil {
		return nil
	}

	s.logger.Info().Str("query", query).Int("results", len(records)).Msg("Search complete")
	return records
}

// Browse returns one page of sampled species. Progress may be nil.
func (s *Session) Browse(ctx context.Context, offset, limit int, progress Progress) []*species.Record {
	if progress != nil && ctx.Err() == nil {
		progress("Browsing marine animals...")
	}
	records := s.sampler.Sample(ctx, offset, limit)
	if ctx.Err() != nil {
		return nil
	}
	return records
}

// Local returns the user-authored species.
func (s *Session) Local() ([]*species.Record, error) {
	if s.local == nil {
		return nil, nil
	}
	return s.local.Load()
}
