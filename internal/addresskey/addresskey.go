// Package addresskey derives the canonical deduplication key of an address
// from its normalized components. The same physical address must fold to the
// same key no matter which provider or raw query described it, so the
// derivation uses only bare component names (never provider-specific typed
// forms) and is a pure function of its input.
package addresskey

import (
	"strings"

	"addrsvc/internal/domain/entity"

	"github.com/mozillazg/go-unidecode"
)

// Generate returns the canonical key for a normalized provider result.
// Missing components coarsen the key instead of failing: an input carrying
// only a city still yields a usable city-granularity key, and an input with
// no structured data at all falls back to folding the display value.
func Generate(n *entity.NormalizedResult) string {
	if n == nil {
		return ""
	}

	d := n.Data
	components := []string{
		d.Country,
		d.Region,
		d.Area,
		d.City,
		d.Settlement,
		d.Street,
		house(d),
	}

	parts := make([]string, 0, len(components))
	for _, c := range components {
		if strings.TrimSpace(c) != "" {
			parts = append(parts, c)
		}
	}

	if len(parts) == 0 {
		return Fold(n.Value)
	}

	return Fold(strings.Join(parts, " "))
}

func house(d entity.AddressData) string {
	if d.House == "" {
		return ""
	}
	if d.Block != "" {
		return d.House + " " + d.Block
	}

	return d.House
}

// Fold lowercases, transliterates to ASCII and collapses every run of
// non-alphanumeric characters into a single dash.
func Fold(s string) string {
	s = strings.ToLower(unidecode.Unidecode(s))

	var b strings.Builder
	b.Grow(len(s))
	dash := false
	for _, r := range s {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)

			continue
		}
		dash = true
	}

	return b.String()
}
