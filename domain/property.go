package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Property is a rentable listing owned by exactly one host.
type Property struct {
	ID            string              `gorm:"type:varchar(36);primaryKey" json:"id"`
	HostID        string              `gorm:"type:varchar(36);not null;index" json:"hostId"`
	Host          User                `gorm:"foreignKey:HostID" json:"host"`
	Title         string              `gorm:"type:varchar(255);not null" json:"title"`
	Description   string              `gorm:"type:text;not null" json:"description"`
	PropertyType  PropertyType        `gorm:"type:varchar(20);not null;index" json:"propertyType"`
	RoomType      RoomType            `gorm:"type:varchar(20);not null" json:"roomType"`
	MaxGuests     int                 `gorm:"not null" json:"maxGuests"`
	Bedrooms      int                 `gorm:"not null" json:"bedrooms"`
	Beds          int                 `gorm:"not null;default:1" json:"beds"`
	Bathrooms     float64             `gorm:"not null" json:"bathrooms"`
	PricePerNight decimal.Decimal     `gorm:"type:decimal(10,2);not null;index" json:"pricePerNight"`
	CleaningFee   decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"cleaningFee"`
	ServiceFee    decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"serviceFee"`
	Address       *string             `gorm:"type:varchar(255)" json:"address"`
	City          string              `gorm:"type:varchar(100);not null;index" json:"city"`
	State         string              `gorm:"type:varchar(100);not null" json:"state"`
	Country       string              `gorm:"type:varchar(100);not null" json:"country"`
	Latitude      *float64            `json:"latitude"`
	Longitude     *float64            `json:"longitude"`
	MinimumStay   int                 `gorm:"not null;default:1" json:"minimumStay"`
	MaximumStay   *int                `json:"maximumStay"`
	IsActive      bool                `gorm:"not null;default:true" json:"isActive"`
	Images        []PropertyImage     `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"images"`
	Amenities     []Amenity           `gorm:"many2many:property_amenities;constraint:OnDelete:CASCADE" json:"amenities"`
	CreatedAt     time.Time           `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

func (Property) TableName() string {
	return "properties"
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PropertyImage is one photo of a property. Order drives display order.
type PropertyImage struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PropertyID string    `gorm:"type:varchar(36);not null;index" json:"propertyId"`
	URL        string    `gorm:"not null" json:"url"`
	Caption    *string   `json:"caption"`
	AltText    *string   `json:"altText,omitempty"`
	IsPrimary  bool      `gorm:"not null;default:false" json:"isPrimary"`
	Order      int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (PropertyImage) TableName() string {
	return "property_images"
}

func (i *PropertyImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Amenity is a catalog entry shared by many properties.
type Amenity struct {
	ID        string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Icon      *string         `json:"icon"`
	Category  AmenityCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (Amenity) TableName() string {
	return "amenities"
}

func (a *Amenity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// PropertyAmenity is a row of the property_amenities join table.
type PropertyAmenity struct {
	PropertyID string `gorm:"type:varchar(36);primaryKey"`
	AmenityID  string `gorm:"type:varchar(36);primaryKey"`
}

func (PropertyAmenity) TableName() string {
	return "property_amenities"
}
