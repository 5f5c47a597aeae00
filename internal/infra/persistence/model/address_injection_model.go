package model

import (
	"time"

	"github.com/google/uuid"
)

// AddressInjectionModel mirrors the 'address_injections' table. Injections
// are operator-curated addresses served ahead of any external provider.
type AddressInjectionModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Country    string    `gorm:"type:varchar(255)"`
	Region     string    `gorm:"type:varchar(255)"`
	Area       string    `gorm:"type:varchar(255)"`
	City       string    `gorm:"type:varchar(255)"`
	Settlement string    `gorm:"type:varchar(255)"`
	Street     string    `gorm:"type:varchar(255)"`
	House      string    `gorm:"type:varchar(64)"`
	Block      string    `gorm:"type:varchar(64)"`
	Keywords   string    `gorm:"type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (AddressInjectionModel) TableName() string {
	return "address_injections"
}
