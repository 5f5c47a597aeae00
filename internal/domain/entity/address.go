// Package entity contains the core business objects of the project.
package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Address is the canonical record a search string resolves to.
// Key is the deduplication identity: two provider responses describing the
// same physical address carry the same Key, no matter which provider or raw
// query produced them.
type Address struct {
	ID        uuid.UUID       // The Global Unique Identifier (GUID) for the address.
	Address   string          // The provider's best human-readable form.
	Key       string          // Canonical key, unique among non-deleted addresses.
	Meta      AddressMeta     // Provider payload and normalized components. Not part of identity.
	Sources   []AddressSource // Raw search strings that resolved to this address.
	CreatedAt time.Time       // Timestamp of when this address was created.
	UpdatedAt time.Time       // Timestamp of the last modification.
	DeletedAt *time.Time      // Soft-delete marker; deleted rows never satisfy lookups.
}

// AddressSource maps one previously-seen search string to its address.
// The Source value is normalized for comparison (lowercased, optionally
// suffixed with a hash of the caller's helper parameters) and, once written,
// is never repointed to another address.
type AddressSource struct {
	ID        uuid.UUID
	Source    string
	AddressID uuid.UUID
	Dv        int    // Data-format version of the write.
	Sender    Sender // Originating caller, for audit.
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Sender identifies the caller that triggered a write.
type Sender struct {
	Dv          int    `json:"dv"`
	Fingerprint string `json:"fingerprint"`
}

// Provenance is the {dv, sender} stamp attached to every created or updated
// record.
type Provenance struct {
	Dv     int
	Sender Sender
}

// ProviderInfo records which backend produced an address and what it
// answered, verbatim.
type ProviderInfo struct {
	Name    string          `json:"name"`
	RawData json.RawMessage `json:"rawData,omitempty"`
}

// AddressMeta is the structured payload stored next to an address. It is
// written once on creation and deliberately never overwritten by later,
// possibly lower-quality, provider hits.
type AddressMeta struct {
	Provider          ProviderInfo `json:"provider"`
	Value             string       `json:"value"`
	UnrestrictedValue string       `json:"unrestricted_value,omitempty"`
	Data              AddressData  `json:"data"`
}
