// Package usecase defines the application-facing contracts of the service.
package usecase

import (
	"context"

	"addrsvc/internal/domain/entity"
)

// SearchParams is the per-request context bound to every plugin before it
// runs.
type SearchParams struct {
	// Geo is the caller's geography hint, used for provider selection.
	Geo string

	// Context is an opaque search context forwarded to providers.
	Context string

	// Provider optionally forces a specific provider by name.
	Provider string

	// Helpers are auxiliary key/value parameters that disambiguate
	// otherwise identical address strings (e.g. different legal entities
	// at the same premises). They take part in source-cache identity.
	Helpers map[string]string

	// Provenance stamps every write performed on behalf of this request.
	Provenance entity.Provenance
}

// SearchUsecase resolves a raw search string into a canonical address.
type SearchUsecase interface {
	// Resolve returns the resolved address, or (nil, nil) when the query
	// legitimately has no match. Backend and provider failures are
	// returned as errors, never swallowed.
	Resolve(ctx context.Context, query string, params *SearchParams) (*entity.Address, error)
}
