// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"addrsvc/internal/domain/entity"
	"addrsvc/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for address persistence.
var (
	// ErrAddressNotFound is returned when no non-deleted address matches a lookup.
	ErrAddressNotFound = errors.New("address not found")
	// ErrSourceNotFound is returned when no non-deleted address source matches a lookup.
	ErrSourceNotFound = errors.New("address source not found")
	// ErrInjectionNotFound is returned when no non-deleted injection row matches a lookup.
	ErrInjectionNotFound = errors.New("address injection not found")
	// ErrDuplicateAddressKey is returned when a create collides with the
	// unique constraint on the canonical key. Callers are expected to
	// re-read and treat the key as found.
	ErrDuplicateAddressKey = errors.New("address key already exists")
)

// AddressRepository defines the database operations for canonical addresses.
// All lookups exclude soft-deleted rows.
type AddressRepository interface {
	// Create persists a new address. A collision on the canonical key
	// yields ErrDuplicateAddressKey.
	Create(ctx context.Context, address *entity.Address) error

	// FindByID retrieves an address by its unique ID, sources included.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Address, error)

	// FindByKey retrieves an address by its canonical key, sources included.
	FindByKey(ctx context.Context, key string) (*entity.Address, error)

	// Update persists changes to an existing address record.
	Update(ctx context.Context, address *entity.Address) error
}

// AddressSourceRepository defines the database operations for the
// source-string cache index.
type AddressSourceRepository interface {
	// Create persists a new source row linking a search string to an address.
	Create(ctx context.Context, source *entity.AddressSource) error

	// FindBySource retrieves a source row by its normalized search string.
	FindBySource(ctx context.Context, source string) (*entity.AddressSource, error)
}

// AddressInjectionRepository reads pre-ingested raw address rows.
type AddressInjectionRepository interface {
	// FindByID retrieves an injection row by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.AddressInjection, error)
}
