package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AddressModel mirrors the 'addresses' table. The canonical key is unique
// among live rows only, so a soft-deleted address frees its key for re-create.
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type AddressModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Address   string         `gorm:"type:text;not null"`
	Key       string         `gorm:"type:text;not null;uniqueIndex:uq_addresses_key,where:deleted_at IS NULL"`
	Meta      datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`

	Sources []AddressSourceModel `gorm:"foreignKey:AddressID"`
}

// TableName explicitly sets the table name for GORM.
func (AddressModel) TableName() string {
	return "addresses"
}
