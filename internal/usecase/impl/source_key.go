package impl

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
)

// Query shapes recognized by the identifier-addressed plugins.
const (
	addressKeyPrefix  = "key:"
	fiasIDPrefix      = "fiasId:"
	placeIDPrefix     = "googlePlaceId:"
	injectionIDPrefix = "injectionId:"
)

// hasIdentifierShape reports whether a query addresses a specific record
// rather than free text. The free-text catch-all refuses such queries, so a
// failed identifier lookup stays a miss instead of degrading into a fuzzy
// provider search.
func hasIdentifierShape(query string) bool {
	for _, prefix := range []string{addressKeyPrefix, fiasIDPrefix, placeIDPrefix, injectionIDPrefix} {
		if strings.HasPrefix(query, prefix) {
			return true
		}
	}

	return false
}

// sourceCacheKey normalizes a raw search string for source-index identity:
// lowercased, trimmed, and suffixed with a deterministic hash of the helper
// parameters so the same address string under different helper context is a
// distinct cache entry. Write and read paths must agree on this value.
func sourceCacheKey(raw string, helpers map[string]string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if len(helpers) == 0 {
		return key
	}

	names := make([]string, 0, len(helpers))
	for name := range helpers {
		names = append(names, name)
	}
	sort.Strings(names)

	h := fnv.New64a()
	for _, name := range names {
		fmt.Fprintf(h, "%s=%s|", name, helpers[name])
	}

	return fmt.Sprintf("%s|h:%x", key, h.Sum64())
}
