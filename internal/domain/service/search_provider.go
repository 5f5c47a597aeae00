// Package service defines the ports to external collaborators.
package service

import (
	"context"
	"encoding/json"

	"addrsvc/internal/domain/entity"
	"addrsvc/internal/errors"
)

// ErrUnsupportedLookup is returned by providers asked for an identifier
// space they do not serve (e.g. a place-id lookup against DaData).
var ErrUnsupportedLookup = errors.New("lookup kind not supported by this provider")

// SearchQuery carries one free-text lookup and its request context.
type SearchQuery struct {
	Query   string
	Geo     string            // Caller geography hint ("ru", "us", ...).
	Context string            // Search context forwarded to the provider.
	Helpers map[string]string // Auxiliary disambiguation parameters.
}

// SearchProvider is the contract every geocoding backend implements.
//
// The raw payloads returned by the lookup operations are opaque to the
// pipeline; Normalize maps them onto the common shape and must keep
// positional correspondence, emitting a nil placeholder for any item it
// cannot normalize instead of failing the whole batch.
type SearchProvider interface {
	// ProviderName returns the stable identifier stored in meta.provider.name.
	ProviderName() string

	// Get performs a free-text lookup and returns raw provider payloads.
	Get(ctx context.Context, q SearchQuery) ([]json.RawMessage, error)

	// GetAddressByFiasID fetches one raw payload by FIAS id. Returns
	// (nil, nil) when the id resolves to nothing and ErrUnsupportedLookup
	// when the provider has no FIAS address space.
	GetAddressByFiasID(ctx context.Context, fiasID string) (json.RawMessage, error)

	// GetByPlaceID fetches one raw payload by place id, with the same
	// conventions as GetAddressByFiasID.
	GetByPlaceID(ctx context.Context, placeID string) (json.RawMessage, error)

	// SupportsFiasID reports whether GetAddressByFiasID is served.
	SupportsFiasID() bool

	// SupportsPlaceID reports whether GetByPlaceID is served.
	SupportsPlaceID() bool

	// Normalize maps raw payloads onto the common shape, index for index.
	Normalize(raw []json.RawMessage) []*entity.NormalizedResult
}

// ProviderSelector picks the provider for one request: an explicit override
// wins, then the geography hint, then the configured default. Returns nil
// when nothing is configured for the request.
type ProviderSelector interface {
	ForRequest(override, geo string) SearchProvider
}
