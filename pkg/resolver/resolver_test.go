package resolver

import (
	"context"
	"testing"

	"github.com/marinescope/marinescope/internal/testutil"
	"github.com/marinescope/marinescope/pkg/client"
	"github.com/marinescope/marinescope/pkg/wiki"
	"github.com/marinescope/marinescope/pkg/worms"
)

func newTestResolver(t *testing.T) (*Resolver, *testutil.MockUpstream) {
	t.Helper()

	mock := testutil.NewMockUpstream()
	t.Cleanup(mock.Close)

	fetch := client.New(client.DefaultConfig())
	registry := worms.NewClient(fetch, mock.URL())
	wikiClient := wiki.NewClient(fetch, mock.URL()+"/w/api.php")
	return New(registry, wikiClient), mock
}

func TestResolve_NumericID(t *testing.T) {
	resolver, mock := newTestResolver(t)
	mock.HandleJSON("/AphiaRecordByAphiaID/137065", 200,
		`{"AphiaID":137065,"scientificname":"Orcinus orca","valid_name":"Orcinus orca","status":"accepted","rank":"Species","isMarine":1}`)

	taxa := resolver.Resolve(context.Background(), "137065")
	if len(taxa) != 1 {
		t.Fatalf("got %d taxa, want 1", len(taxa))
	}
	if taxa[0].ID != 137065 || taxa[0].AcceptedScientificName != "Orcinus orca" {
		t.Errorf("taxon = %+v", taxa[0])
	}
	if mock.TotalRequests() != 1 {
		t.Errorf("numeric lookup made %d requests, want exactly 1", mock.TotalRequests())
	}
}

func TestResolve_NumericID_Terminal(t *testing.T) {
	// An unknown id must not fall through to the lexical stages.
	resolver, mock := newTestResolver(t)

	if taxa := resolver.Resolve(context.Background(), "999999999"); taxa != nil {
		t.Errorf("unknown id resolved to %+v", taxa)
	}
	if n := mock.Requests("/AphiaRecordsByName/999999999"); n != 0 {
		t.Errorf("unknown id triggered %d name searches, want 0", n)
	}
}

func TestResolve_ExactBinomial(t *testing.T) {
	resolver, mock := newTestResolver(t)
	mock.HandleJSON("/AphiaRecordsByName/Orcinus orca", 200,
		`[{"AphiaID":137065,"scientificname":"Orcinus orca","status":"accepted","rank":"Species","isMarine":1}]`)

	taxa := resolver.Resolve(context.Background(), "Orcinus orca")
	if len(taxa) != 1 {
		t.Fatalf("got %d taxa, want 1", len(taxa))
	}
	if taxa[0].ID != 137065 {
		t.Errorf("ID = %d", taxa[0].ID)
	}
	// A satisfied exact stage must not issue the fuzzy follow-up search.
	if n := mock.Requests("/AphiaRecordsByName/Orcinus orca"); n != 1 {
		t.Errorf("name endpoint hit %d times, want 1", n)
	}
}

func TestResolve_ExactMatchIsCaseInsensitive(t *testing.T) {
	resolver, mock := newTestResolver(t)
	mock.HandleJSON("/AphiaRecordsByName/Orcinus orca", 200,
		`[{"AphiaID":137065,"scientificname":"ORCINUS ORCA","status":"accepted","rank":"Species"}]`)

	taxa := resolver.Resolve(context.Background(), "Orcinus orca")
	if len(taxa) != 1 {
		t.Fatalf("got %d taxa, want 1", len(taxa))
	}
}

func TestResolve_ExactSkipsUnaccepted(t *testing.T) {
	// An unaccepted exact hit falls through to fuzzy, which applies the
	// same acceptance filter.
	resolver, mock := newTestResolver(t)
	mock.HandleJSON("/AphiaRecordsByName/Orcinus citoniensis", 200,
		`[{"AphiaID":383594,"scientificname":"Orcinus citoniensis","status":"unaccepted","rank":"Species"}]`)
	mock.HandleJSON("/AphiaRecordsByVernacular/Orcinus citoniensis", 404, "")
	mock.HandleJSON("/w/api.php", 404, "")

	if taxa := resolver.Resolve(context.Background(), "Orcinus citoniensis"); taxa != nil {
		t.Errorf("unaccepted record resolved to %+v", taxa)
	}
}

func TestResolve_FuzzyContainsEitherDirection(t *testing.T) {
	resolver, mock := newTestResolver(t)
	mock.HandleJSON("/AphiaRecordsByName/orca", 200,
		`[{"AphiaID":137065,"scientificname":"Orcinus orca","status":"accepted","rank":"Species"},
		  {"AphiaID":254978,"scientificname":"Grampus griseus","status":"accepted","rank":"Species"},
		  {"AphiaID":137065,"scientificname":"Orcinus orca","status":"accepted","rank":"Species"}]`)

	taxa := resolver.Resolve(context.Background(), "orca")
	if len(taxa) != 1 {
		t.Fatalf("got %d taxa, want 1 (contains filter plus dedup)", len(taxa))
	}
	if taxa[0].AcceptedScientificName != "Orcinus orca" {
		t.Errorf("AcceptedScientificName = %q", taxa[0].AcceptedScientificName)
	}
}

func TestResolve_Vernacular(t *testing.T) {
	resolver, mock := newTestResolver(t)
	// No lexical match for the query itself.
	mock.HandleJSON("/AphiaRecordsByName/killer whale", 404, "")
	mock.HandleJSON("/AphiaRecordsByVernacular/killer whale", 200,
		`[{"AphiaID":137065,"scientificname":"Orcinus orca","status":"accepted"},
		  {"AphiaID":137065,"scientificname":"Orcinus orca","status":"accepted"},
		  {"AphiaID":212,"scientificname":"Orcinus fossilis","status":"unaccepted"}]`)
	mock.HandleJSON("/AphiaRecordByAphiaID/137065", 200,
		`{"AphiaID":137065,"scientificname":"Orcinus orca","valid_name":"Orcinus orca","status":"accepted","rank":"Species","isMarine":1}`)
	mock.HandleJSON("/AphiaRecordByAphiaID/212", 200,
		`{"AphiaID":212,"scientificname":"Orcinus fossilis","status":"unaccepted","rank":"Species","isMarine":1}`)

	taxa := resolver.Resolve(context.Background(), "killer whale")
	if len(taxa) != 1 {
		t.Fatalf("got %d taxa, want 1", len(taxa))
	}
	if taxa[0].ID != 137065 {
		t.Errorf("ID = %d", taxa[0].ID)
	}
}

func TestResolve_VernacularRequiresMarine(t *testing.T) {
	resolver, mock := newTestResolver(t)
	mock.HandleJSON("/AphiaRecordsByName/brown trout", 404, "")
	mock.HandleJSON("/AphiaRecordsByVernacular/brown trout", 200,
		`[{"AphiaID":500,"scientificname":"Salmo fario","status":"accepted"}]`)
	mock.HandleJSON("/AphiaRecordByAphiaID/500", 200,
		`{"AphiaID":500,"scientificname":"Salmo fario","status":"accepted","rank":"Species","isMarine":0,"isFreshwater":1}`)
	mock.HandleJSON("/w/api.php", 404, "")

	if taxa := resolver.Resolve(context.Background(), "brown trout"); taxa != nil {
		t.Errorf("non-marine vernacular hit resolved to %+v", taxa)
	}
}

func TestResolve_WikiExtract(t *testing.T) {
	// Every lexical stage misses; the summary prose carries the binomial.
	resolver, mock := newTestResolver(t)
	mock.HandleJSON("/AphiaRecordsByName/sea panda", 404, "")
	mock.HandleJSON("/AphiaRecordsByVernacular/sea panda", 404, "")
	mock.HandleJSON("/w/api.php", 200,
		`{"query":{"pages":{"1":{"title":"Killer whale",
		  "extract":"The killer whale (Orcinus orca), sometimes called the sea panda, is a toothed whale."}}}}`)
	mock.HandleJSON("/AphiaRecordsByName/Orcinus orca", 200,
		`[{"AphiaID":137065,"scientificname":"Orcinus orca","status":"accepted","rank":"Species"}]`)

	taxa := resolver.Resolve(context.Background(), "sea panda")
	if len(taxa) != 1 {
		t.Fatalf("got %d taxa, want 1", len(taxa))
	}
	if taxa[0].ID != 137065 {
		t.Errorf("ID = %d", taxa[0].ID)
	}
}

func TestResolve_WikiTitleFallback(t *testing.T) {
	// The article prose mines nothing, but the title itself is a binomial.
	resolver, mock := newTestResolver(t)
	mock.HandleJSON("/AphiaRecordsByName/wolphin", 404, "")
	mock.HandleJSON("/AphiaRecordsByVernacular/wolphin", 404, "")
	mock.HandleJSON("/w/api.php", 200,
		`{"query":{"pages":{"1":{"title":"Tursiops truncatus",
		  "extract":"A well known coastal species found in temperate and tropical waters worldwide."}}}}`)
	mock.HandleJSON("/AphiaRecordsByName/Tursiops truncatus", 200,
		`[{"AphiaID":137111,"scientificname":"Tursiops truncatus","status":"accepted","rank":"Species"}]`)

	taxa := resolver.Resolve(context.Background(), "wolphin")
	if len(taxa) != 1 {
		t.Fatalf("got %d taxa, want 1", len(taxa))
	}
	if taxa[0].ID != 137111 {
		t.Errorf("ID = %d", taxa[0].ID)
	}
}

func TestResolve_Exhausted(t *testing.T) {
	resolver, mock := newTestResolver(t)

	if taxa := resolver.Resolve(context.Background(), "xyzzy plugh"); taxa != nil {
		t.Errorf("unresolvable query produced %+v", taxa)
	}
	if mock.TotalRequests() == 0 {
		t.Error("exhaustion should still have consulted the upstreams")
	}
}

func TestResolve_RejectsShortQueries(t *testing.T) {
	resolver, mock := newTestResolver(t)

	for _, query := range []string{"", " ", "a", " a "} {
		if taxa := resolver.Resolve(context.Background(), query); taxa != nil {
			t.Errorf("Resolve(%q) = %+v, want nil", query, taxa)
		}
	}
	if mock.TotalRequests() != 0 {
		t.Errorf("short queries made %d requests, want 0", mock.TotalRequests())
	}
}
