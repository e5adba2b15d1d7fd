package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marinescope/marinescope/internal/testutil"
	"github.com/marinescope/marinescope/pkg/species"
)

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()

	for _, name := range []string{"search", "browse", "lookup", "serve", "config"} {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

// newTestApp builds an app whose config points every upstream at the mock.
func newTestApp(t *testing.T) (*app, *testutil.MockUpstream) {
	t.Helper()

	mock := testutil.NewMockUpstream()
	t.Cleanup(mock.Close)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := fmt.Sprintf(`
[upstreams]
registry_base_url = %q
occurrence_base_url = %q
wiki_endpoint = %q

[local]
path = %q

[logging]
level = "error"
`, mock.URL(), mock.URL(), mock.URL()+"/w/api.php", filepath.Join(t.TempDir(), "user_species.json"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	app := newApp(&configPath)
	if err := app.ensure(); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	return app, mock
}

func TestServeMux_Health(t *testing.T) {
	app, _ := newTestApp(t)
	server := httptest.NewServer(newServeMux(app))
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestServeMux_Search(t *testing.T) {
	app, mock := newTestApp(t)
	mock.HandleJSON("/AphiaRecordByAphiaID/137065", 200,
		`{"AphiaID":137065,"scientificname":"Orcinus orca","valid_name":"Orcinus orca","status":"accepted","rank":"Species","isMarine":1}`)

	server := httptest.NewServer(newServeMux(app))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/search?q=137065")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var payload struct {
		Count   int               `json:"count"`
		Results []*species.Record `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatal(err)
	}
	if payload.Count != 1 || len(payload.Results) != 1 {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.Results[0].ScientificName != "Orcinus orca" {
		t.Errorf("ScientificName = %q", payload.Results[0].ScientificName)
	}
}

func TestServeMux_SearchRequiresQuery(t *testing.T) {
	app, _ := newTestApp(t)
	server := httptest.NewServer(newServeMux(app))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/search")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestServeMux_BrowseRejectsBadWindow(t *testing.T) {
	app, _ := newTestApp(t)
	server := httptest.NewServer(newServeMux(app))
	defer server.Close()

	for _, query := range []string{"limit=0", "limit=999", "offset=-1", "offset=abc"} {
		resp, err := http.Get(server.URL + "/api/browse?" + query)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", query, resp.StatusCode)
		}
	}
}

func TestRenderDetail(t *testing.T) {
	out := renderDetail(&species.Record{
		AphiaID:        137065,
		Title:          "Orcinus orca",
		ScientificName: "Orcinus orca",
		CommonName:     "killer whale",
		Habitat:        "Marine (Pelagic)",
		Depth:          &species.DepthSummary{Min: 10, Max: 200, Avg: 60, Source: "OBIS v3"},
		Distribution:   []string{"North Sea", "Tasman Sea"},
		Taxonomy:       map[string]string{"kingdom": "Animalia", "species": "Orcinus orca"},
		Provenance:     species.ProvenanceAggregated,
	})

	for _, want := range []string{"137065", "killer whale", "10-200 m", "Animalia > Orcinus orca", "North Sea; Tasman Sea"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail output missing %q:\n%s", want, out)
		}
	}
}
