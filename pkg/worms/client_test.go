package worms

import (
	"context"
	"testing"

	"github.com/marinescope/marinescope/internal/testutil"
	"github.com/marinescope/marinescope/pkg/client"
)

func newTestRegistry(t *testing.T) (*Client, *testutil.MockUpstream) {
	t.Helper()

	mock := testutil.NewMockUpstream()
	t.Cleanup(mock.Close)

	return NewClient(client.New(client.DefaultConfig()), mock.URL()), mock
}

func TestRecordByID(t *testing.T) {
	registry, mock := newTestRegistry(t)
	mock.HandleJSON("/AphiaRecordByAphiaID/137065", 200,
		`{"AphiaID":137065,"scientificname":"Orcinus orca","valid_name":"Orcinus orca","status":"accepted","rank":"Species","isMarine":1,"isBrackish":0,"isFreshwater":null,"isTerrestrial":0}`)

	record, ok := registry.RecordByID(context.Background(), 137065)
	if !ok {
		t.Fatal("RecordByID returned absent")
	}
	if record.ScientificName != "Orcinus orca" {
		t.Errorf("ScientificName = %q", record.ScientificName)
	}
	if !record.Accepted() {
		t.Error("record should be accepted")
	}
	if !record.IsMarine.Bool() {
		t.Error("isMarine=1 should decode to true")
	}
	if record.IsFreshwater.Bool() {
		t.Error("isFreshwater=null should decode to false")
	}
}

func TestRecordByID_NotFound(t *testing.T) {
	registry, _ := newTestRegistry(t)

	if _, ok := registry.RecordByID(context.Background(), 999999999); ok {
		t.Error("unknown id should be absent")
	}
}

func TestRecordsByName_ListPayload(t *testing.T) {
	registry, mock := newTestRegistry(t)
	mock.HandleJSON("/AphiaRecordsByName/Orcinus orca", 200,
		`[{"AphiaID":137065,"scientificname":"Orcinus orca","status":"accepted"},
		  {"AphiaID":254947,"scientificname":"Orcinus glacialis","status":"unaccepted"}]`)

	records := registry.RecordsByName(context.Background(), "Orcinus orca", false, 10)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if !records[0].Accepted() || records[1].Accepted() {
		t.Error("accepted flags decoded incorrectly")
	}
}

func TestRecordsByName_SingleObjectPayload(t *testing.T) {
	registry, mock := newTestRegistry(t)
	mock.HandleJSON("/AphiaRecordsByName/Orcinus orca", 200,
		`{"AphiaID":137065,"scientificname":"Orcinus orca","status":"accepted"}`)

	records := registry.RecordsByName(context.Background(), "Orcinus orca", false, 10)
	if len(records) != 1 || records[0].AphiaID != 137065 {
		t.Fatalf("single-object payload not tolerated: %+v", records)
	}
}

func TestEnglishVernacular(t *testing.T) {
	registry, mock := newTestRegistry(t)
	mock.HandleJSON("/AphiaVernacularsByAphiaID/137065", 200,
		`[{"vernacular":"orque","language":"French"},{"vernacular":"killer whale","language":"English"}]`)

	name, ok := registry.EnglishVernacular(context.Background(), 137065)
	if !ok || name != "killer whale" {
		t.Errorf("EnglishVernacular = %q ok=%v, want killer whale", name, ok)
	}
}

func TestBestImageURL_PrefersImageEndpoint(t *testing.T) {
	registry, mock := newTestRegistry(t)
	mock.HandleJSON("/AphiaImagesByAphiaID/137065", 200,
		`[{"url":"http://images.marinespecies.org/orca.jpg"}]`)

	u, ok := registry.BestImageURL(context.Background(), 137065)
	if !ok {
		t.Fatal("expected an image URL")
	}
	if u != "https://images.marinespecies.org/orca.jpg" {
		t.Errorf("URL = %q, want https upgrade", u)
	}
}

func TestBestImageURL_FallsBackToRecordPicture(t *testing.T) {
	registry, mock := newTestRegistry(t)
	mock.HandleJSON("/AphiaImagesByAphiaID/137065", 200, `[]`)
	mock.HandleJSON("/AphiaRecordByAphiaID/137065", 200,
		`{"AphiaID":137065,"scientificname":"Orcinus orca","picture_url":"https://images.marinespecies.org/thumb.jpg"}`)

	u, ok := registry.BestImageURL(context.Background(), 137065)
	if !ok || u != "https://images.marinespecies.org/thumb.jpg" {
		t.Errorf("URL = %q ok=%v, want record picture fallback", u, ok)
	}
}

func TestTaxonFromRecord(t *testing.T) {
	tests := []struct {
		name   string
		record *Record
		wantOK bool
	}{
		{
			name: "accepted record",
			record: &Record{
				AphiaID: 137065, ScientificName: "Orcinus orca",
				Status: "accepted", Rank: "Species", IsMarine: true,
			},
			wantOK: true,
		},
		{
			name: "synonym rejected",
			record: &Record{
				AphiaID: 254947, ScientificName: "Orcinus glacialis",
				Status: "unaccepted",
			},
			wantOK: false,
		},
		{
			name:   "missing name rejected",
			record: &Record{AphiaID: 1, Status: "accepted"},
			wantOK: false,
		},
		{
			name:   "nil record",
			record: nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taxon, ok := TaxonFromRecord(tt.record)
			if ok != tt.wantOK {
				t.Fatalf("TaxonFromRecord ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && taxon.ID != tt.record.AphiaID {
				t.Errorf("taxon ID = %d, want %d", taxon.ID, tt.record.AphiaID)
			}
		})
	}
}

func TestChildrenParallel(t *testing.T) {
	registry, mock := newTestRegistry(t)
	mock.HandleJSON("/AphiaChildrenByAphiaID/1837", 200,
		`[{"AphiaID":137065,"scientificname":"Orcinus orca","status":"accepted"}]`)
	mock.HandleJSON("/AphiaChildrenByAphiaID/10194", 200,
		`[{"AphiaID":127160,"scientificname":"Thunnus thynnus","status":"accepted"},
		  {"AphiaID":126436,"scientificname":"Gadus morhua","status":"accepted"}]`)

	results := registry.ChildrenParallel(context.Background(), []int{1837, 10194, 404404})

	if len(results) != 3 {
		t.Fatalf("got %d result entries, want 3", len(results))
	}
	if len(results[1837]) != 1 || len(results[10194]) != 2 {
		t.Errorf("children counts = %d/%d, want 1/2", len(results[1837]), len(results[10194]))
	}
	// A failed fetch still yields an entry with no children.
	if len(results[404404]) != 0 {
		t.Errorf("failed fetch should yield empty children, got %v", results[404404])
	}
}
