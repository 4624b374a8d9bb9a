package dto

import "github.com/shopspring/decimal"

type ImageInput struct {
	URL       string  `json:"url"`
	Caption   *string `json:"caption"`
	AltText   *string `json:"altText"`
	IsPrimary bool    `json:"isPrimary"`
	Order     *int    `json:"order"`
}

// CreatePropertyRequest is the body of POST /api/properties.
type CreatePropertyRequest struct {
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	PropertyType  string           `json:"propertyType"`
	RoomType      string           `json:"roomType"`
	MaxGuests     int              `json:"maxGuests"`
	Bedrooms      int              `json:"bedrooms"`
	Beds          int              `json:"beds"`
	Bathrooms     float64          `json:"bathrooms"`
	PricePerNight decimal.Decimal  `json:"pricePerNight"`
	CleaningFee   *decimal.Decimal `json:"cleaningFee"`
	ServiceFee    *decimal.Decimal `json:"serviceFee"`
	Address       *string          `json:"address"`
	City          string           `json:"city"`
	State         string           `json:"state"`
	Country       string           `json:"country"`
	Latitude      *float64         `json:"latitude"`
	Longitude     *float64         `json:"longitude"`
	MinimumStay   *int             `json:"minimumStay"`
	MaximumStay   *int             `json:"maximumStay"`
	Images        []ImageInput     `json:"images"`
	AmenityIDs    []string         `json:"amenityIds"`
}

// UpdatePropertyRequest is a partial update. Nil fields are left unchanged;
// a non-nil Images or AmenityIDs replaces the whole set.
type UpdatePropertyRequest struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	PropertyType  *string          `json:"propertyType"`
	RoomType      *string          `json:"roomType"`
	MaxGuests     *int             `json:"maxGuests"`
	Bedrooms      *int             `json:"bedrooms"`
	Beds          *int             `json:"beds"`
	Bathrooms     *float64         `json:"bathrooms"`
	PricePerNight *decimal.Decimal `json:"pricePerNight"`
	CleaningFee   *decimal.Decimal `json:"cleaningFee"`
	ServiceFee    *decimal.Decimal `json:"serviceFee"`
	Address       *string          `json:"address"`
	City          *string          `json:"city"`
	State         *string          `json:"state"`
	Country       *string          `json:"country"`
	Latitude      *float64         `json:"latitude"`
	Longitude     *float64         `json:"longitude"`
	MinimumStay   *int             `json:"minimumStay"`
	MaximumStay   *int             `json:"maximumStay"`
	IsActive      *bool            `json:"isActive"`
	Images        *[]ImageInput    `json:"images"`
	AmenityIDs    *[]string        `json:"amenityIds"`
}
