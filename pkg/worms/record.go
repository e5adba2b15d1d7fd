// Package worms wraps the taxonomic-registry REST endpoints with typed
// records. All lookups go through the shared fetch client, so caching,
// retry, and backoff behave the same as for every other upstream.
package worms

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Flag is a habitat flag as the registry encodes it: true/false, 0/1, or
// null all occur in the wild.
type Flag bool

// UnmarshalJSON accepts bool, number, and null encodings.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null", "0", "false":
		*f = false
	case "true":
		*f = true
	default:
		// Any other number is truthy; anything unparsable stays false.
		var n float64
		if err := json.Unmarshal(data, &n); err == nil && n != 0 {
			*f = true
		}
	}
	return nil
}

// Bool returns the flag as a plain bool.
func (f Flag) Bool() bool { return bool(f) }

// Record is one registry taxon record.
type Record struct {
	AphiaID         int    `json:"AphiaID"`
	ScientificName  string `json:"scientificname"`
	ValidName       string `json:"valid_name"`
	ValidVernacular string `json:"valid_vernacular"`
	Status          string `json:"status"`
	Rank            string `json:"rank"`
	Environment     string `json:"environment"`
	Distribution    string `json:"distribution"`
	PictureURL      string `json:"picture_url"`

	IsMarine      Flag `json:"isMarine"`
	IsBrackish    Flag `json:"isBrackish"`
	IsFreshwater  Flag `json:"isFreshwater"`
	IsTerrestrial Flag `json:"isTerrestrial"`
}

// Accepted reports whether the record is marked authoritative, as opposed
// to a synonym or unverified name.
func (r *Record) Accepted() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), "accepted")
}

// DisplayName prefers the valid name over the scientific name.
func (r *Record) DisplayName() string {
	if r.ValidName != "" {
		return r.ValidName
	}
	return r.ScientificName
}

// Taxon is the immutable resolution result produced from an accepted
// record.
type Taxon struct {
	ID                     int
	AcceptedScientificName string
	Rank                   string
	Marine                 bool
	Brackish               bool
	Freshwater             bool
	Terrestrial            bool
}

// TaxonFromRecord constructs a Taxon from a registry record. It returns
// false for synonym or unverified records and for records without a usable
// name.
func TaxonFromRecord(r *Record) (Taxon, bool) {
	if r == nil || !r.Accepted() || r.AphiaID == 0 {
		return Taxon{}, false
	}
	name := r.DisplayName()
	if name == "" {
		return Taxon{}, false
	}
	return Taxon{
		ID:                     r.AphiaID,
		AcceptedScientificName: name,
		Rank:                   r.Rank,
		Marine:                 r.IsMarine.Bool(),
		Brackish:               r.IsBrackish.Bool(),
		Freshwater:             r.IsFreshwater.Bool(),
		Terrestrial:            r.IsTerrestrial.Bool(),
	}, true
}

// ClassificationNode is one level of the classification tree. The registry
// nests each level under "child".
type ClassificationNode struct {
	AphiaID        int                 `json:"AphiaID"`
	Rank           string              `json:"rank"`
	ScientificName string              `json:"scientificname"`
	Child          *ClassificationNode `json:"child"`
}

// Distribution is one distribution entry for a taxon.
type Distribution struct {
	Locality      string `json:"locality"`
	LocationID    string `json:"locationID"`
	Establishment string `json:"establishmentMeans"`
}

// Vernacular is one common-name entry for a taxon.
type Vernacular struct {
	Vernacular string `json:"vernacular"`
	Language   string `json:"language"`
}

// Image is one image entry for a taxon. The registry is inconsistent about
// which URL field it populates.
type Image struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	ImageURL     string `json:"image_url"`
}

// BestURL returns the first populated URL field, upgraded to https.
// The second return value is false when no field is usable.
func (i *Image) BestURL() (string, bool) {
	for _, u := range []string{i.URL, i.ThumbnailURL, i.ImageURL} {
		if strings.HasPrefix(u, "http://") {
			return "https://" + strings.TrimPrefix(u, "http://"), true
		}
		if strings.HasPrefix(u, "https://") {
			return u, true
		}
	}
	return "", false
}
