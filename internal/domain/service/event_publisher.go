package service

import (
	"context"
)

// AddressCreatedEvent is published whenever a previously-unknown canonical
// key produces a new address row. Appending a source to an existing address
// does not raise an event.
type AddressCreatedEvent struct {
	RequestID string `json:"request_id,omitempty"` // For distributed tracing
	AddressID string `json:"address_id"`
	Key       string `json:"key"`
	Address   string `json:"address"`
	Provider  string `json:"provider"`
	Source    string `json:"source"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishAddressCreated publishes an address-created audit event.
	PublishAddressCreated(ctx context.Context, event *AddressCreatedEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
