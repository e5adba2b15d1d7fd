package textmine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/marinescope/marinescope/pkg/species"
)

// depthPatterns are tried in priority order; the first match wins and later
// patterns are not consulted.
var depthPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)depth[\s\w]{0,30}?(\d{1,5})\s*m`),
	regexp.MustCompile(`(?i)(\d{1,5})\s*m[\s\w]{0,20}depth`),
	regexp.MustCompile(`(?i)(\d{1,5})\s*-\s*(\d{1,5})\s*m`),
	regexp.MustCompile(`(?i)(\d{1,5})\s*meter`),
	regexp.MustCompile(`(?i)(\d{1,5})\s*to\s*(\d{1,5})\s*m`),
}

// ExtractDepth scans free text for a depth or depth range in meters.
// The returned summary carries sampleCount=1 and source "text"; the second
// return value reports whether any pattern matched.
func ExtractDepth(text string) (species.DepthSummary, bool) {
	if text == "" {
		return species.DepthSummary{}, false
	}

	for _, pattern := range depthPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		var values []float64
		for _, group := range match[1:] {
			group = strings.ReplaceAll(strings.TrimSpace(group), ",", "")
			if group == "" {
				continue
			}
			v, err := strconv.ParseFloat(group, 64)
			if err != nil {
				continue
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			continue
		}

		summary := species.DepthSummary{
			Min:         values[0],
			Max:         values[0],
			SampleCount: 1,
			Source:      "text",
		}
		var sum float64
		for _, v := range values {
			if v < summary.Min {
				summary.Min = v
			}
			if v > summary.Max {
				summary.Max = v
			}
			sum += v
		}
		summary.Avg = sum / float64(len(values))
		return summary, true
	}

	return species.DepthSummary{}, false
}
