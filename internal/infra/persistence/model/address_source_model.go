package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AddressSourceModel mirrors the 'address_sources' table. One row per raw
// query string ever resolved; the mapping to an address is append-only.
type AddressSourceModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Source    string         `gorm:"type:text;not null;uniqueIndex:uq_address_sources_source,where:deleted_at IS NULL"`
	AddressID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Dv        int            `gorm:"not null;default:1"`
	Sender    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (AddressSourceModel) TableName() string {
	return "address_sources"
}
