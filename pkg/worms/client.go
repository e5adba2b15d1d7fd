package worms

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/marinescope/marinescope/pkg/client"
	"github.com/marinescope/marinescope/pkg/logging"
)

// DefaultBaseURL is the production registry endpoint.
const DefaultBaseURL = "https://www.marinespecies.org/rest"

// Client wraps the registry endpoints.
type Client struct {
	fetch   *client.Client
	baseURL string
	logger  zerolog.Logger
}

// NewClient creates a registry client on top of the shared fetch client.
// An empty baseURL selects the production registry.
func NewClient(fetch *client.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		fetch:   fetch,
		baseURL: baseURL,
		logger:  logging.NewLogger("worms"),
	}
}

// RecordsByName searches records by scientific name. With fuzzy set, the
// registry performs a "like" match; otherwise an exact one.
func (c *Client) RecordsByName(ctx context.Context, name string, fuzzy bool, limit int) []Record {
	endpoint := c.baseURL + "/AphiaRecordsByName/" + url.PathEscape(name)
	params := url.Values{
		"marine_only": []string{"true"},
		"like":        []string{strconv.FormatBool(fuzzy)},
		"offset":      []string{"1"},
		"limit":       []string{strconv.Itoa(limit)},
	}

	c.logger.Debug().Str("query", name).Bool("fuzzy", fuzzy).Msg("Registry name search")

	payload, ok := c.fetch.GetJSON(ctx, endpoint, params)
	if !ok {
		return nil
	}
	return decodeRecords(payload, c.logger)
}

// RecordsByVernacular searches the registry's common-name index.
func (c *Client) RecordsByVernacular(ctx context.Context, name string) []Record {
	endpoint := c.baseURL + "/AphiaRecordsByVernacular/" + url.PathEscape(name)

	payload, ok := c.fetch.GetJSON(ctx, endpoint, nil)
	if !ok {
		return nil
	}
	return decodeRecords(payload, c.logger)
}

// RecordByID fetches a single record by taxon id.
func (c *Client) RecordByID(ctx context.Context, aphiaID int) (*Record, bool) {
	endpoint := c.baseURL + "/AphiaRecordByAphiaID/" + strconv.Itoa(aphiaID)

	payload, ok := c.fetch.GetJSON(ctx, endpoint, nil)
	if !ok {
		return nil, false
	}

	var record Record
	if err := json.Unmarshal(payload, &record); err != nil {
		c.logger.Warn().Err(err).Int("aphia_id", aphiaID).Msg("Unparsable record payload")
		return nil, false
	}
	if record.AphiaID == 0 {
		return nil, false
	}
	return &record, true
}

// ClassificationByID fetches the classification tree for a taxon.
func (c *Client) ClassificationByID(ctx context.Context, aphiaID int) (*ClassificationNode, bool) {
	endpoint := c.baseURL + "/AphiaClassificationByAphiaID/" + strconv.Itoa(aphiaID)

	payload, ok := c.fetch.GetJSON(ctx, endpoint, nil)
	if !ok {
		return nil, false
	}

	var node ClassificationNode
	if err := json.Unmarshal(payload, &node); err != nil {
		c.logger.Warn().Err(err).Int("aphia_id", aphiaID).Msg("Unparsable classification payload")
		return nil, false
	}
	return &node, true
}

// ChildrenByID fetches the direct children taxa of a taxon.
func (c *Client) ChildrenByID(ctx context.Context, aphiaID int) []Record {
	endpoint := c.baseURL + "/AphiaChildrenByAphiaID/" + strconv.Itoa(aphiaID)

	payload, ok := c.fetch.GetJSON(ctx, endpoint, nil)
	if !ok {
		return nil
	}
	return decodeRecords(payload, c.logger)
}

// DistributionsByID fetches the distribution entries for a taxon.
func (c *Client) DistributionsByID(ctx context.Context, aphiaID int) []Distribution {
	endpoint := c.baseURL + "/AphiaDistributionsByAphiaID/" + strconv.Itoa(aphiaID)

	payload, ok := c.fetch.GetJSON(ctx, endpoint, nil)
	if !ok {
		return nil
	}

	var entries []Distribution
	if err := json.Unmarshal(payload, &entries); err != nil {
		c.logger.Warn().Err(err).Int("aphia_id", aphiaID).Msg("Unparsable distribution payload")
		return nil
	}
	return entries
}

// VernacularsByID fetches the common-name entries for a taxon.
func (c *Client) VernacularsByID(ctx context.Context, aphiaID int) []Vernacular {
	endpoint := c.baseURL + "/AphiaVernacularsByAphiaID/" + strconv.Itoa(aphiaID)

	payload, ok := c.fetch.GetJSON(ctx, endpoint, nil)
	if !ok {
		return nil
	}

	var entries []Vernacular
	if err := json.Unmarshal(payload, &entries); err != nil {
		c.logger.Warn().Err(err).Int("aphia_id", aphiaID).Msg("Unparsable vernaculars payload")
		return nil
	}
	return entries
}

// EnglishVernacular returns the first English common name for a taxon.
// Caching happens in the fetch client, so repeated lookups are cheap.
func (c *Client) EnglishVernacular(ctx context.Context, aphiaID int) (string, bool) {
	for _, v := range c.VernacularsByID(ctx, aphiaID) {
		if v.Language == "English" || v.Language == "english" {
			name := v.Vernacular
			if name != "" {
				return name, true
			}
		}
	}
	return "", false
}

// ImagesByID fetches the image entries for a taxon.
func (c *Client) ImagesByID(ctx context.Context, aphiaID int) []Image {
	endpoint := c.baseURL + "/AphiaImagesByAphiaID/" + strconv.Itoa(aphiaID)

	payload, ok := c.fetch.GetJSON(ctx, endpoint, nil)
	if !ok {
		return nil
	}

	var entries []Image
	if err := json.Unmarshal(payload, &entries); err != nil {
		c.logger.Warn().Err(err).Int("aphia_id", aphiaID).Msg("Unparsable images payload")
		return nil
	}
	return entries
}

// BestImageURL returns the preferred registry image for a taxon: the first
// usable entry from the image endpoint, falling back to the record's own
// picture URL.
func (c *Client) BestImageURL(ctx context.Context, aphiaID int) (string, bool) {
	for _, img := range c.ImagesByID(ctx, aphiaID) {
		if u, ok := img.BestURL(); ok {
			return u, true
		}
	}

	record, ok := c.RecordByID(ctx, aphiaID)
	if !ok || record.PictureURL == "" {
		return "", false
	}
	img := Image{URL: record.PictureURL}
	return img.BestURL()
}

// decodeRecords tolerates both list and single-object payload shapes; the
// registry returns either depending on the endpoint and match count.
func decodeRecords(payload json.RawMessage, logger zerolog.Logger) []Record {
	var records []Record
	if err := json.Unmarshal(payload, &records); err == nil {
		return records
	}

	var single Record
	if err := json.Unmarshal(payload, &single); err != nil {
		logger.Warn().Err(err).Msg("Unparsable record list payload")
		return nil
	}
	if single.AphiaID == 0 {
		return nil
	}
	return []Record{single}
}
