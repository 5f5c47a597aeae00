// Package constants holds shared identifier values used across layers.
package constants

// Provider names as stored in meta.provider.name.
const (
	DadataProvider     = "dadata"
	GoogleProvider     = "google"
	InjectionsProvider = "injections"
)

// Pub/Sub provider selectors.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)
