// Package obis wraps the occurrence-database query endpoint.
package obis

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/marinescope/marinescope/pkg/client"
	"github.com/marinescope/marinescope/pkg/logging"
)

// DefaultBaseURL is the production occurrence-database endpoint.
const DefaultBaseURL = "https://api.obis.org"

// pageLimit caps one occurrence query; deeper paging is never needed for
// the summaries the pipeline derives.
const pageLimit = 50

// Occurrence is one occurrence row. Only the fields consumed by the
// extraction routines are decoded.
type Occurrence struct {
	Depth     *float64 `json:"depth"`
	Latitude  *float64 `json:"decimalLatitude"`
	Longitude *float64 `json:"decimalLongitude"`
	Year      *int     `json:"year"`
	Locality  string   `json:"locality"`
	WaterBody string   `json:"waterBody"`
	Country   string   `json:"country"`
}

// Page is an occurrence result page.
type Page struct {
	Total   int          `json:"total"`
	Results []Occurrence `json:"results"`
}

// Client wraps the occurrence-database endpoint.
type Client struct {
	fetch   *client.Client
	baseURL string
	logger  zerolog.Logger
}

// NewClient creates an occurrence client on top of the shared fetch client.
// An empty baseURL selects the production service.
func NewClient(fetch *client.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		fetch:   fetch,
		baseURL: baseURL,
		logger:  logging.NewLogger("obis"),
	}
}

// OccurrencesByName fetches one page of occurrence rows for a scientific
// name.
func (c *Client) OccurrencesByName(ctx context.Context, scientificName string) (*Page, bool) {
	endpoint := c.baseURL + "/v3/occurrence"
	params := url.Values{
		"scientificname": []string{scientificName},
		"limit":          []string{strconv.Itoa(pageLimit)},
		"offset":         []string{"0"},
	}

	payload, ok := c.fetch.GetJSON(ctx, endpoint, params)
	if !ok {
		return nil, false
	}

	var page Page
	if err := json.Unmarshal(payload, &page); err != nil {
		c.logger.Warn().Err(err).Str("scientific_name", scientificName).Msg("Unparsable occurrence payload")
		return nil, false
	}
	return &page, true
}
