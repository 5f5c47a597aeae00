package entity

import (
	"time"

	"github.com/google/uuid"
)

// AddressInjection is a pre-ingested raw address row, bulk-imported outside
// of any live provider call and addressable by its id through the
// `injectionId:<uuid>` query shape.
type AddressInjection struct {
	ID         uuid.UUID
	Country    string
	Region     string
	Area       string
	City       string
	Settlement string
	Street     string
	House      string
	Block      string
	Keywords   string // Free-form tokens attached at import time.
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}
