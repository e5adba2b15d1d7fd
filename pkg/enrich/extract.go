package enrich

import (
	"fmt"
	"strings"

	"github.com/marinescope/marinescope/pkg/obis"
	"github.com/marinescope/marinescope/pkg/species"
	"github.com/marinescope/marinescope/pkg/textmine"
	"github.com/marinescope/marinescope/pkg/wiki"
	"github.com/marinescope/marinescope/pkg/worms"
)

// Per-source row caps. Occurrence pages hold up to 50 rows; the summaries
// only ever need a prefix.
const (
	maxDepthRows        = 20
	maxBasinRows        = 20
	maxStatsRows        = 10
	maxDistributionRows = 5
	maxDistribution     = 4
	maxHabitatTypes     = 3
)

const (
	depthSourceOBIS = "OBIS v3"
	depthSourceText = "WoRMS"
)

// environmentKeywords maps registry environment prose to habitat labels,
// in match priority order.
var environmentKeywords = []struct {
	keyword string
	label   string
}{
	{"benthic", "Benthic"},
	{"pelagic", "Pelagic"},
	{"demersal", "Demersal"},
	{"reef", "Coral Reef"},
	{"coral", "Coral Reef"},
	{"intertidal", "Intertidal"},
	{"subtidal", "Subtidal"},
}

// habitatSummary builds the habitat string: the salinity class, then up to
// three qualifiers from the environment prose and the observed depth zone.
func habitatSummary(record *worms.Record, depth *species.DepthSummary) string {
	habitat := "Marine"
	if record.IsMarine.Bool() && record.IsBrackish.Bool() {
		habitat = "Marine/Brackish"
	}

	environment := strings.ToLower(record.Environment)
	var types []string
	for _, kw := range environmentKeywords {
		if !strings.Contains(environment, kw.keyword) {
			continue
		}
		if len(types) > 0 && types[len(types)-1] == kw.label {
			continue
		}
		types = append(types, kw.label)
	}

	if depth != nil && depth.Source == depthSourceOBIS {
		switch {
		case depth.Avg < 200:
			types = append(types, "Epipelagic")
		case depth.Avg < 1000:
			types = append(types, "Mesopelagic")
		default:
			types = append(types, "Deep Sea")
		}
	}

	if len(types) == 0 {
		return habitat
	}
	if len(types) > maxHabitatTypes {
		types = types[:maxHabitatTypes]
	}
	return habitat + " (" + strings.Join(types, ", ") + ")"
}

// depthSummary derives the depth range from occurrence rows, falling back
// to depth figures mined from the registry's environment prose.
func depthSummary(page *obis.Page, record *worms.Record) *species.DepthSummary {
	if page != nil {
		rows := page.Results
		if len(rows) > maxDepthRows {
			rows = rows[:maxDepthRows]
		}

		var depths []float64
		for _, row := range rows {
			if row.Depth != nil {
				depths = append(depths, *row.Depth)
			}
		}
		if len(depths) > 0 {
			summary := &species.DepthSummary{
				Min:         depths[0],
				Max:         depths[0],
				SampleCount: len(depths),
				Source:      depthSourceOBIS,
			}
			var sum float64
			for _, d := range depths {
				if d < summary.Min {
					summary.Min = d
				}
				if d > summary.Max {
					summary.Max = d
				}
				sum += d
			}
			summary.Avg = sum / float64(len(depths))
			return summary
		}
	}

	if mined, ok := textmine.ExtractDepth(record.Environment); ok {
		mined.Source = depthSourceText
		return &mined
	}
	return nil
}

// distributionList merges place names from the registry's distribution
// entries, the occurrence rows, and finally the record's own distribution
// field. Capped at four, with a global fallback.
func distributionList(dists []worms.Distribution, page *obis.Page, record *worms.Record) []string {
	var places []string
	seen := make(map[string]struct{})
	add := func(place string) {
		place = strings.TrimSpace(place)
		if place == "" {
			return
		}
		if _, dup := seen[place]; dup {
			return
		}
		seen[place] = struct{}{}
		places = append(places, place)
	}

	if len(dists) > maxDistributionRows {
		dists = dists[:maxDistributionRows]
	}
	for _, d := range dists {
		add(d.Locality)
	}

	if page != nil {
		rows := page.Results
		if len(rows) > maxDistributionRows {
			rows = rows[:maxDistributionRows]
		}
		for _, row := range rows {
			// One place per row; locality is the most specific.
			switch {
			case row.Locality != "":
				add(row.Locality)
			case row.WaterBody != "":
				add(row.WaterBody)
			case row.Country != "":
				add(row.Country)
			}
		}
	}

	if len(places) == 0 && record.Distribution != "" {
		add(firstSegment(record.Distribution))
	}

	if len(places) == 0 {
		return []string{species.FallbackDistribution}
	}
	if len(places) > maxDistribution {
		places = places[:maxDistribution]
	}
	return places
}

// firstSegment cuts a free-text distribution field at its first separator.
func firstSegment(text string) string {
	for _, sep := range []string{";", ",", "|"} {
		if head, _, found := strings.Cut(text, sep); found {
			return strings.TrimSpace(head)
		}
	}
	return strings.TrimSpace(text)
}

// occurrenceCoords collects the coordinates usable for basin
// classification.
func occurrenceCoords(page *obis.Page) []textmine.Coordinate {
	if page == nil {
		return nil
	}
	rows := page.Results
	if len(rows) > maxBasinRows {
		rows = rows[:maxBasinRows]
	}

	var coords []textmine.Coordinate
	for _, row := range rows {
		if row.Latitude == nil || row.Longitude == nil {
			continue
		}
		coords = append(coords, textmine.Coordinate{Lat: *row.Latitude, Lon: *row.Longitude})
	}
	return coords
}

// occurrenceStats scores the occurrence coverage: how many records exist
// and whether a row prefix carries depth, coordinates, and years.
func occurrenceStats(page *obis.Page) *species.OccurrenceStats {
	stats := &species.OccurrenceStats{}
	if page == nil {
		return stats
	}
	stats.TotalRecords = page.Total

	rows := page.Results
	if len(rows) > maxStatsRows {
		rows = rows[:maxStatsRows]
	}

	minYear, maxYear := 0, 0
	for _, row := range rows {
		if row.Depth != nil {
			stats.HasDepthData = true
		}
		if row.Latitude != nil && row.Longitude != nil {
			stats.HasCoordinates = true
		}
		if row.Year == nil || *row.Year == 0 {
			continue
		}
		if minYear == 0 || *row.Year < minYear {
			minYear = *row.Year
		}
		if *row.Year > maxYear {
			maxYear = *row.Year
		}
	}
	if minYear != 0 {
		stats.YearRange = fmt.Sprintf("%d-%d", minYear, maxYear)
	}
	return stats
}

// flattenTaxonomy walks the nested classification tree into a rank→name
// map. The first occurrence of a rank wins.
func flattenTaxonomy(node *worms.ClassificationNode) map[string]string {
	taxonomy := make(map[string]string)
	for ; node != nil; node = node.Child {
		rank := strings.ToLower(strings.TrimSpace(node.Rank))
		name := strings.TrimSpace(node.ScientificName)
		if rank == "" || name == "" {
			continue
		}
		if _, dup := taxonomy[rank]; dup {
			continue
		}
		taxonomy[rank] = name
	}
	return taxonomy
}

// describe prefers encyclopedic prose and otherwise composes a templated
// sentence from the extracted fields.
func describe(commonName, scientificName, habitat string, distribution []string, depth *species.DepthSummary, summary *wiki.Summary) string {
	if summary != nil && summary.Extract != "" {
		return summary.Extract
	}

	var parts []string
	if commonName != "" && commonName != scientificName {
		parts = append(parts, fmt.Sprintf("The %s (%s)", commonName, scientificName))
	} else {
		parts = append(parts, fmt.Sprintf("The marine species %s", scientificName))
	}

	if habitat != "" {
		simple := habitat
		if head, _, found := strings.Cut(habitat, "("); found {
			simple = strings.TrimSpace(head)
		}
		parts = append(parts, fmt.Sprintf("is a %s species.", strings.ToLower(simple)))
	} else {
		parts = append(parts, "is a marine species.")
	}

	if len(distribution) > 0 && distribution[0] != species.FallbackDistribution {
		head := distribution
		if len(head) > 2 {
			head = head[:2]
		}
		parts = append(parts, fmt.Sprintf("It is found in %s.", strings.Join(head, ", ")))
	}

	if depth != nil {
		zone := "deep ocean waters"
		switch {
		case depth.Avg < 200:
			zone = "shallow coastal waters"
		case depth.Avg < 1000:
			zone = "moderate depths"
		}
		parts = append(parts, fmt.Sprintf("This species inhabits %s.", zone))
	}

	return strings.Join(parts, " ")
}
