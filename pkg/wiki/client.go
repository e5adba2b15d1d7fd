// Package wiki wraps the encyclopedic-summary query endpoint (a MediaWiki
// API): intro extract, thumbnail, and resolved page title.
package wiki

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/marinescope/marinescope/pkg/client"
	"github.com/marinescope/marinescope/pkg/logging"
	"github.com/marinescope/marinescope/pkg/textmine"
)

// DefaultEndpoint is the production encyclopedia API endpoint.
const DefaultEndpoint = "https://en.wikipedia.org/w/api.php"

// minExtractLen is the minimum length for an extract to count as a usable
// description; shorter extracts are disambiguation stubs or redirects.
const minExtractLen = 30

// Summary is the usable part of one encyclopedia page.
type Summary struct {
	Title        string
	Extract      string
	ThumbURL     string
	URL          string
	IsCommonName bool
}

// Client wraps the encyclopedia endpoint.
type Client struct {
	fetch    *client.Client
	endpoint string
	logger   zerolog.Logger
}

// NewClient creates an encyclopedia client on top of the shared fetch
// client. An empty endpoint selects the production API.
func NewClient(fetch *client.Client, endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		fetch:    fetch,
		endpoint: endpoint,
		logger:   logging.NewLogger("wiki"),
	}
}

// response mirrors the MediaWiki query envelope.
type response struct {
	Query struct {
		Pages map[string]page `json:"pages"`
	} `json:"query"`
}

type page struct {
	Title     string `json:"title"`
	Extract   string `json:"extract"`
	FullURL   string `json:"fullurl"`
	Thumbnail struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
}

// SummaryFor fetches the intro extract and thumbnail for a search term.
// Pages without a meaningful extract are treated as absent.
func (c *Client) SummaryFor(ctx context.Context, term string) (*Summary, bool) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, false
	}

	params := url.Values{
		"action":      []string{"query"},
		"titles":      []string{term},
		"prop":        []string{"extracts|pageimages"},
		"exintro":     []string{"true"},
		"explaintext": []string{"true"},
		"pithumbsize": []string{"300"},
		"pilimit":     []string{"3"},
		"format":      []string{"json"},
		"utf8":        []string{"true"},
	}

	payload, ok := c.fetch.GetJSON(ctx, c.endpoint, params)
	if !ok {
		return nil, false
	}

	var decoded response
	if err := json.Unmarshal(payload, &decoded); err != nil {
		c.logger.Warn().Err(err).Str("term", term).Msg("Unparsable encyclopedia payload")
		return nil, false
	}

	for id, p := range decoded.Query.Pages {
		if id == "-1" {
			// Page not found marker.
			continue
		}

		extract := strings.TrimSpace(p.Extract)
		if len(extract) <= minExtractLen {
			continue
		}

		return &Summary{
			Title:        p.Title,
			Extract:      extract,
			ThumbURL:     p.Thumbnail.Source,
			URL:          p.FullURL,
			IsCommonName: !textmine.IsScientificName(p.Title),
		}, true
	}

	return nil, false
}
