// Package textmine contains the stateless text heuristics used by the
// pipeline: scientific-name extraction from prose, depth-range extraction
// from prose, and ocean-basin classification from coordinates.
package textmine

import (
	"regexp"
	"strings"
)

// binomialPattern matches the canonical "Genus species" shape.
var binomialPattern = regexp.MustCompile(`^[A-Z][a-z]+\s+[a-z]+$`)

// extractPatterns are tried in order over the whole text; every match is a
// candidate before filtering.
var extractPatterns = []*regexp.Regexp{
	// Plain two-word binomial.
	regexp.MustCompile(`\b([A-Z][a-z]+)\s+([a-z]{2,})\b`),
	// Parenthesized binomial, common in encyclopedic lead sentences.
	regexp.MustCompile(`\(([A-Z][a-z]+\s+[a-z]{2,})\)`),
	// Binomial following a taxonomic rank word.
	regexp.MustCompile(`\b(?:species|genus|family|order|class)\s+([A-Z][a-z]+\s+[a-z]{2,})\b`),
	// Abbreviated genus, e.g. "O. orca".
	regexp.MustCompile(`\b([A-Z])\.\s+([a-z]{2,})\b`),
}

// genusStopWords reject candidates whose first token is a plural or
// determiner masquerading as a genus.
var genusStopWords = map[string]struct{}{
	"sharks": {}, "turtles": {}, "fish": {}, "whales": {}, "dolphins": {},
	"modern": {}, "some": {}, "the": {}, "their": {}, "these": {}, "those": {},
	"many": {}, "most": {}, "all": {}, "few": {}, "several": {},
}

// speciesStopWords reject candidates whose second token is a common English
// function word.
var speciesStopWords = map[string]struct{}{
	"are": {}, "and": {}, "the": {}, "for": {}, "with": {}, "from": {},
	"that": {}, "which": {}, "have": {}, "has": {}, "had": {}, "can": {},
	"may": {}, "might": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "must": {}, "shall": {},
}

// falsePositives is an exact-match denylist of two-word phrases that pass
// the shape checks but are known prose, not names.
var falsePositives = map[string]struct{}{
	"sharks are": {}, "modern sharks": {}, "some sources": {},
	"the earliest": {}, "jurassic around": {}, "sharks range": {},
	"fish are": {}, "most fish": {}, "many fish": {}, "the study": {},
	"there are": {}, "the first": {}, "age of": {}, "bony fish": {},
	"fish have": {}, "commercial and": {}, "turtles are": {},
	"many turtles": {}, "sea turtles": {}, "turtles have": {},
	"some terrestrial": {}, "turtle habitats": {},
}

// IsScientificName reports whether the query has the canonical two-word
// capitalized binomial shape.
func IsScientificName(query string) bool {
	return binomialPattern.MatchString(strings.TrimSpace(query))
}

// ExtractScientificNames scans free text for candidate scientific names.
// Results are deduplicated preserving first-seen order; that order is the
// priority in which candidates should be tried downstream.
func ExtractScientificNames(text string) []string {
	if text == "" {
		return nil
	}

	var names []string
	seen := make(map[string]struct{})

	add := func(genus, sp string) {
		if len(genus) < 2 || len(sp) < 2 {
			return
		}
		if _, ok := genusStopWords[strings.ToLower(genus)]; ok {
			return
		}
		if _, ok := speciesStopWords[strings.ToLower(sp)]; ok {
			return
		}
		if genus[0] < 'A' || genus[0] > 'Z' || sp[0] < 'a' || sp[0] > 'z' {
			return
		}
		name := genus + " " + sp
		if _, ok := falsePositives[strings.ToLower(name)]; ok {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, pattern := range extractPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			switch len(match) {
			case 3:
				add(match[1], match[2])
			case 2:
				parts := strings.SplitN(match[1], " ", 2)
				if len(parts) == 2 {
					add(parts[0], parts[1])
				}
			}
		}
	}

	return names
}
