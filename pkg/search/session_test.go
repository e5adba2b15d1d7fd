package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/marinescope/marinescope/pkg/browse"
	"github.com/marinescope/marinescope/pkg/localstore"
	"github.com/marinescope/marinescope/pkg/species"
	"github.com/marinescope/marinescope/pkg/worms"
)

type stubChain struct {
	taxa     []worms.Taxon
	resolved []string
	enriched []int
}

func (s *stubChain) Resolve(_ context.Context, query string) []worms.Taxon {
	s.resolved = append(s.resolved, query)
	return s.taxa
}

func (s *stubChain) Enrich(_ context.Context, aphiaID int, hint string) (*species.Record, bool) {
	s.enriched = append(s.enriched, aphiaID)
	if aphiaID < 0 {
		return nil, false
	}
	return &species.Record{AphiaID: aphiaID, Title: hint}, true
}

func taxa(ids ...int) []worms.Taxon {
	out := make([]worms.Taxon, len(ids))
	for i, id := range ids {
		out[i] = worms.Taxon{ID: id, AcceptedScientificName: "x"}
	}
	return out
}

func TestSearch(t *testing.T) {
	chain := &stubChain{taxa: taxa(1, 2, 3)}
	session := New(chain, chain, nil, nil)

	var stages []string
	records := session.Search(context.Background(), " orca ", func(stage string) {
		stages = append(stages, stage)
	})

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if chain.resolved[0] != "orca" {
		t.Errorf("resolved query = %q, want trimmed", chain.resolved[0])
	}
	if len(stages) != 2 {
		t.Errorf("got %d progress stages, want 2", len(stages))
	}
}

func TestSearch_ShortQuery(t *testing.T) {
	chain := &stubChain{taxa: taxa(1)}
	session := New(chain, chain, nil, nil)

	if records := session.Search(context.Background(), " a ", nil); records != nil {
		t.Errorf("short query returned %d records", len(records))
	}
	if len(chain.resolved) != 0 {
		t.Error("short query reached the resolver")
	}
}

func TestSearch_ResultCap(t *testing.T) {
	chain := &stubChain{taxa: taxa(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)}
	session := New(chain, chain, nil, nil)

	records := session.Search(context.Background(), "fish", nil)
	if len(records) != maxResults {
		t.Errorf("got %d records, want %d", len(records), maxResults)
	}
	if len(chain.enriched) != maxResults {
		t.Errorf("enriched %d taxa, want %d (capped before enrichment)", len(chain.enriched), maxResults)
	}
}

func TestSearch_DeduplicatesTaxa(t *testing.T) {
	chain := &stubChain{taxa: taxa(7, 7, 8)}
	session := New(chain, chain, nil, nil)

	records := session.Search(context.Background(), "orca", nil)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if len(chain.enriched) != 2 {
		t.Errorf("enriched %d taxa, want 2 (duplicate skipped)", len(chain.enriched))
	}
}

func TestSearch_SkipsFailedEnrichment(t *testing.T) {
	chain := &stubChain{taxa: taxa(1, -2, 3)}
	session := New(chain, chain, nil, nil)

	records := session.Search(context.Background(), "orca", nil)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
}

func TestSearch_Cancelled(t *testing.T) {
	chain := &stubChain{taxa: taxa(1, 2)}
	session := New(chain, chain, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stages []string
	records := session.Search(ctx, "orca", func(stage string) {
		stages = append(stages, stage)
	})
	if records != nil {
		t.Errorf("cancelled search returned %d records", len(records))
	}
	if len(stages) != 0 {
		t.Errorf("cancelled search emitted %d progress callbacks", len(stages))
	}
}

func TestBrowse_Delegates(t *testing.T) {
	chain := &stubChain{taxa: taxa(42)}
	session := New(chain, chain, browse.NewSampler(chain, chain), nil)

	records := session.Browse(context.Background(), 0, 1, nil)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].AphiaID != 42 {
		t.Errorf("AphiaID = %d", records[0].AphiaID)
	}
}

func TestLocal_PassThrough(t *testing.T) {
	store := localstore.New(filepath.Join(t.TempDir(), "user_species.json"))
	if err := store.Add(&species.Record{Title: "My crab"}); err != nil {
		t.Fatal(err)
	}

	session := New(&stubChain{}, &stubChain{}, nil, store)
	records, err := session.Local()
	if err != nil {
		t.Fatalf("Local: %v", err)
	}
	if len(records) != 1 || records[0].Title != "My crab" {
		t.Errorf("records = %+v", records)
	}

	nilSession := New(&stubChain{}, &stubChain{}, nil, nil)
	if records, err := nilSession.Local(); err != nil || records != nil {
		t.Errorf("nil store: records=%v err=%v", records, err)
	}
}
