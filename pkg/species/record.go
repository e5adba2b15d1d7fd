// Package species defines the aggregate record types produced by the
// enrichment pipeline. Values are immutable after construction and safe to
// share by read.
package species

// Provenance values identifying which pipeline produced a record.
const (
	// ProvenanceAggregated marks records assembled from the taxonomic
	// registry, the occurrence database, and the encyclopedia.
	ProvenanceAggregated = "worms_obis"

	// ProvenanceLocal marks user-authored records loaded from the local
	// store. They carry no taxon id and are never enriched.
	ProvenanceLocal = "local"
)

// Placeholder values used when an enrichment source yields nothing.
const (
	// FallbackDistribution is reported when no distribution data exists.
	FallbackDistribution = "Global distribution"

	// FallbackBasins is reported when no coordinates are available for
	// basin classification.
	FallbackBasins = "Multiple ocean basins"
)

// DepthSummary describes the depth range of a species.
type DepthSummary struct {
	Min         float64 `json:"min_depth"`
	Max         float64 `json:"max_depth"`
	Avg         float64 `json:"avg_depth"`
	SampleCount int     `json:"record_count"`

	// Source names the dataset the summary was derived from
	// ("OBIS v3", "WoRMS", or "text").
	Source string `json:"source"`
}

// OccurrenceStats summarizes occurrence-database coverage for a species.
type OccurrenceStats struct {
	TotalRecords   int    `json:"total_records"`
	YearRange      string `json:"year_range,omitempty"`
	HasDepthData   bool   `json:"has_depth_data"`
	HasCoordinates bool   `json:"has_coordinates"`
}

// Record is the aggregate result of resolving and enriching one species.
// AphiaID is zero for user-authored records.
type Record struct {
	AphiaID        int               `json:"aphia_id,omitempty"`
	Title          string            `json:"title"`
	ScientificName string            `json:"latin_name"`
	CommonName     string            `json:"common_name,omitempty"`
	Habitat        string            `json:"habitat,omitempty"`
	Depth          *DepthSummary     `json:"depth_info,omitempty"`
	Distribution   []string          `json:"distribution,omitempty"`
	OceanBasins    []string          `json:"ocean_basins,omitempty"`
	Occurrence     *OccurrenceStats  `json:"occurrence_stats,omitempty"`
	Taxonomy       map[string]string `json:"taxonomy,omitempty"`
	Description    string            `json:"extract,omitempty"`
	ImageURL       string            `json:"thumb_url,omitempty"`
	ImageSource    string            `json:"image_source,omitempty"`
	WikiURL        string            `json:"wiki_url,omitempty"`
	Provenance     string            `json:"source"`

	Marine      bool `json:"is_marine"`
	Brackish    bool `json:"is_brackish"`
	Freshwater  bool `json:"is_freshwater"`
	Terrestrial bool `json:"is_terrestrial"`
}
