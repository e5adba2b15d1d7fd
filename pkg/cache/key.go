package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached upstream response. The string form is derived from
// the endpoint URL and its query parameters only, never from time, so
// identical requests within the TTL always map to the same entry.
type Key struct {
	// Endpoint is the full request URL without query string
	// (e.g. "https://www.marinespecies.org/rest/AphiaRecordByAphiaID/137065").
	Endpoint string

	// Params are the query parameters.
	Params url.Values
}

// String generates a deterministic cache key string.
// Format: endpoint:param1=val1:param2=val2 with parameters sorted by name.
func (k Key) String() string {
	parts := []string{strings.TrimRight(k.Endpoint, "/")}

	if len(k.Params) > 0 {
		names := make([]string, 0, len(k.Params))
		for name := range k.Params {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", name, k.Params.Get(name)))
		}
	}

	return strings.Join(parts, ":")
}
