package entity

import (
	"github.com/paulmach/orb"
)

// AddressData is the common structured-component shape every provider
// normalizes into. Field names follow the wire form stored in meta; an empty
// string means the provider did not report that component.
type AddressData struct {
	PostalCode     string `json:"postal_code,omitempty"`
	Country        string `json:"country,omitempty"`
	CountryISOCode string `json:"country_iso_code,omitempty"`

	Region         string `json:"region,omitempty"`
	RegionWithType string `json:"region_with_type,omitempty"`
	RegionType     string `json:"region_type,omitempty"`
	RegionFiasID   string `json:"region_fias_id,omitempty"`

	Area         string `json:"area,omitempty"`
	AreaWithType string `json:"area_with_type,omitempty"`
	AreaFiasID   string `json:"area_fias_id,omitempty"`

	City         string `json:"city,omitempty"`
	CityWithType string `json:"city_with_type,omitempty"`
	CityFiasID   string `json:"city_fias_id,omitempty"`
	CityDistrict string `json:"city_district,omitempty"`

	Settlement         string `json:"settlement,omitempty"`
	SettlementWithType string `json:"settlement_with_type,omitempty"`
	SettlementFiasID   string `json:"settlement_fias_id,omitempty"`

	Street         string `json:"street,omitempty"`
	StreetWithType string `json:"street_with_type,omitempty"`
	StreetType     string `json:"street_type,omitempty"`
	StreetFiasID   string `json:"street_fias_id,omitempty"`

	House      string `json:"house,omitempty"`
	HouseType  string `json:"house_type,omitempty"`
	HouseFiasID string `json:"house_fias_id,omitempty"`

	Block     string `json:"block,omitempty"`
	BlockType string `json:"block_type,omitempty"`

	Flat     string `json:"flat,omitempty"`
	FlatType string `json:"flat_type,omitempty"`

	FiasID    string `json:"fias_id,omitempty"`
	FiasLevel string `json:"fias_level,omitempty"`
	KladrID   string `json:"kladr_id,omitempty"`

	// PlaceID is the stable identifier for providers addressing places
	// rather than FIAS objects (Google).
	PlaceID string `json:"place_id,omitempty"`

	// Geo is the resolved point in lon/lat order.
	Geo *orb.Point `json:"geo,omitempty"`
}

// NormalizedResult is one provider answer mapped onto the common shape.
// Slices of NormalizedResult keep positional correspondence with the raw
// payloads they were produced from.
type NormalizedResult struct {
	Value             string      `json:"value"`
	UnrestrictedValue string      `json:"unrestricted_value,omitempty"`
	Data              AddressData `json:"data"`
}
