package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/marinescope/marinescope/pkg/species"
)

// renderRecords renders species records as a terminal table.
func renderRecords(records []*species.Record) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Scientific name", "Common name", "Habitat", "Distribution", "Source"})

	for _, r := range records {
		id := ""
		if r.AphiaID != 0 {
			id = strconv.Itoa(r.AphiaID)
		}
		tw.AppendRow(table.Row{
			id,
			r.ScientificName,
			r.CommonName,
			r.Habitat,
			strings.Join(r.Distribution, "; "),
			r.Provenance,
		})
	}
	return tw.Render()
}

// renderDetail renders one record as a field/value table.
func renderDetail(r *species.Record) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	add := func(field, value string) {
		if value != "" {
			tw.AppendRow(table.Row{field, value})
		}
	}

	if r.AphiaID != 0 {
		add("AphiaID", strconv.Itoa(r.AphiaID))
	}
	add("Title", r.Title)
	add("Scientific name", r.ScientificName)
	add("Common name", r.CommonName)
	add("Habitat", r.Habitat)
	if r.Depth != nil {
		add("Depth", formatDepth(r.Depth))
	}
	add("Distribution", strings.Join(r.Distribution, "; "))
	add("Ocean basins", strings.Join(r.OceanBasins, "; "))
	if r.Occurrence != nil && r.Occurrence.TotalRecords > 0 {
		add("Occurrences", formatOccurrence(r.Occurrence))
	}
	add("Taxonomy", formatTaxonomy(r.Taxonomy))
	add("Image", r.ImageURL)
	add("Article", r.WikiURL)
	add("Source", r.Provenance)
	add("Description", r.Description)

	return tw.Render()
}

func formatDepth(d *species.DepthSummary) string {
	return fmt.Sprintf("%.0f-%.0f m (avg %.0f m, %s)", d.Min, d.Max, d.Avg, d.Source)
}

func formatOccurrence(o *species.OccurrenceStats) string {
	s := strconv.Itoa(o.TotalRecords) + " records"
	if o.YearRange != "" {
		s += ", " + o.YearRange
	}
	return s
}

// taxonomyRanks is the display order for the classification summary.
var taxonomyRanks = []string{"kingdom", "phylum", "class", "order", "family", "genus", "species"}

func formatTaxonomy(taxonomy map[string]string) string {
	var parts []string
	for _, rank := range taxonomyRanks {
		if name, ok := taxonomy[rank]; ok {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, " > ")
}
