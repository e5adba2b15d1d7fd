package textmine

import "github.com/marinescope/marinescope/pkg/species"

// maxBasins caps the number of distinct basins reported per species.
const maxBasins = 3

// Coordinate is one occurrence position in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Basin names produced by ClassifyBasins. Heuristic longitude binning, not
// hydrographic boundaries.
const (
	BasinNorthAtlantic    = "North Atlantic"
	BasinSouthAtlantic    = "South Atlantic"
	BasinTropicalAtlantic = "Tropical Atlantic"
	BasinNorthPacific     = "North Pacific"
	BasinSouthPacific     = "South Pacific"
	BasinEasternPacific   = "Eastern Pacific"
	BasinIndianOcean      = "Indian Ocean"
)

// ClassifyBasins bins coordinates into coarse ocean basins using fixed
// longitude thresholds, split by hemisphere where applicable. It returns
// the distinct basins in first-seen order, capped at three, or the
// "multiple basins" placeholder when no coordinates are available.
func ClassifyBasins(coords []Coordinate) []string {
	var basins []string
	seen := make(map[string]struct{})

	add := func(basin string) {
		if _, ok := seen[basin]; ok {
			return
		}
		seen[basin] = struct{}{}
		basins = append(basins, basin)
	}

	for _, c := range coords {
		switch {
		case c.Lon < -100:
			add(BasinEasternPacific)
		case c.Lon < -30:
			if c.Lat > 0 {
				add(BasinNorthAtlantic)
			} else {
				add(BasinSouthAtlantic)
			}
		case c.Lon <= 30:
			add(BasinTropicalAtlantic)
		case c.Lon < 100:
			add(BasinIndianOcean)
		case c.Lon < 180:
			if c.Lat > 0 {
				add(BasinNorthPacific)
			} else {
				add(BasinSouthPacific)
			}
		}

		if len(basins) >= maxBasins {
			break
		}
	}

	if len(basins) == 0 {
		return []string{species.FallbackBasins}
	}
	return basins
}
