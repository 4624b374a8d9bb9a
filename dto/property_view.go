package dto

import "time"

// PropertyView is the list representation of a property returned by search.
type PropertyView struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	PropertyType  string        `json:"propertyType"`
	RoomType      string        `json:"roomType"`
	MaxGuests     int           `json:"maxGuests"`
	Bedrooms      int           `json:"bedrooms"`
	Beds          int           `json:"beds"`
	Bathrooms     float64       `json:"bathrooms"`
	PricePerNight float64       `json:"pricePerNight"`
	CleaningFee   float64       `json:"cleaningFee"`
	ServiceFee    float64       `json:"serviceFee"`
	Location      LocationView  `json:"location"`
	Host          HostView      `json:"host"`
	Images        []ImageView   `json:"images"`
	Amenities     []AmenityView `json:"amenities"`
	Rating        float64       `json:"rating"`
	ReviewCount   int64         `json:"reviewCount"`
	IsActive      bool          `json:"isActive"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// PropertyDetailView adds the stay limits and the extended host card shown
// on the single-property page.
type PropertyDetailView struct {
	PropertyView
	MinimumStay int            `json:"minimumStay"`
	MaximumStay *int           `json:"maximumStay"`
	Host        HostDetailView `json:"host"`
}

type LocationView struct {
	Address   *string  `json:"address"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type HostView struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Avatar     *string `json:"avatar"`
	IsVerified bool    `json:"isVerified"`
}

type HostDetailView struct {
	HostView
	Email      string    `json:"email"`
	IsHost     bool      `json:"isHost"`
	JoinedDate time.Time `json:"joinedDate"`
}

type ImageView struct {
	ID      string  `json:"id"`
	URL     string  `json:"url"`
	Caption *string `json:"caption"`
}

type AmenityView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Icon     *string `json:"icon"`
	Category string  `json:"category"`
}
