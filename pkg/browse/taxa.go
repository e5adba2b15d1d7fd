package browse

import (
	"context"
	"strings"

	"github.com/marinescope/marinescope/pkg/worms"
)

// TaxonGroup is one high-level browsing category.
type TaxonGroup struct {
	Name       string `json:"name"`
	AphiaID    int    `json:"aphia_id"`
	Rank       string `json:"rank"`
	Scientific string `json:"scientific"`
}

// animalGroups are the registry names probed for browsing categories.
var animalGroups = []string{
	"Cetacea", "Actinopterygii", "Elasmobranchii", "Chondrichthyes",
	"Mammalia", "Pinnipedia", "Sirenia", "Cephalopoda",
}

// defaultGroups backs the catalog when the registry yields too few usable
// groups.
var defaultGroups = []TaxonGroup{
	{Name: "Whales & Dolphins", AphiaID: 1837, Rank: "Order", Scientific: "Cetacea"},
	{Name: "Bony Fish", AphiaID: 10194, Rank: "Class", Scientific: "Actinopterygii"},
	{Name: "Sharks & Rays", AphiaID: 10215, Rank: "Class", Scientific: "Elasmobranchii"},
	{Name: "Squid & Octopus", AphiaID: 123084, Rank: "Class", Scientific: "Cephalopoda"},
	{Name: "Sea Turtles", AphiaID: 1840, Rank: "Order", Scientific: "Testudines"},
}

const (
	maxGroups        = 8
	minGroups        = 5
	groupSearchLimit = 5
)

// HighLevelGroups builds the browsing categories from the registry:
// marine classes, orders, and subclasses of the well-known animal groups,
// labeled with an English vernacular where one exists. Falls back to a
// static catalog when the registry yields too few.
func HighLevelGroups(ctx context.Context, registry *worms.Client) []TaxonGroup {
	var groups []TaxonGroup
	seen := make(map[int]struct{})

outer:
	for _, group := range animalGroups {
		for _, record := range registry.RecordsByName(ctx, group, false, groupSearchLimit) {
			rank := strings.ToLower(record.Rank)
			if record.AphiaID == 0 || !record.IsMarine.Bool() || record.ScientificName == "" {
				continue
			}
			if rank != "class" && rank != "order" && rank != "subclass" {
				continue
			}
			if _, dup := seen[record.AphiaID]; dup {
				continue
			}

			name := record.ScientificName
			if vernacular, ok := registry.EnglishVernacular(ctx, record.AphiaID); ok {
				name = vernacular
			}
			groups = append(groups, TaxonGroup{
				Name:       name,
				AphiaID:    record.AphiaID,
				Rank:       capitalize(rank),
				Scientific: record.ScientificName,
			})
			seen[record.AphiaID] = struct{}{}

			if len(groups) >= maxGroups {
				break outer
			}
		}
	}

	if len(groups) < minGroups {
		for _, group := range defaultGroups {
			if _, dup := seen[group.AphiaID]; dup {
				continue
			}
			groups = append(groups, group)
			seen[group.AphiaID] = struct{}{}
		}
	}

	if len(groups) > maxGroups {
		groups = groups[:maxGroups]
	}
	return groups
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
