package services

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentals-api/domain"
	"rentals-api/dto"
)

func TestProjectProperty(t *testing.T) {
	host := newHost("h1")
	host.Avatar = strPtr("https://img.example.com/h1.png")
	host.Password = "secret-hash"

	p := newProperty("p1", host.ID, 120)
	p.Host = *host
	p.ServiceFee = decimal.NewNullDecimal(decimal.RequireFromString("15.50"))
	p.Address = strPtr("1 Main St")
	p.Images = []domain.PropertyImage{
		{ID: "i3", URL: "https://img.example.com/3.jpg", Order: 2},
		{ID: "i1", URL: "https://img.example.com/1.jpg", Order: 0, Caption: strPtr("front")},
		{ID: "i2", URL: "https://img.example.com/2.jpg", Order: 1},
	}
	p.Amenities = []domain.Amenity{{ID: "a1", Name: "Wifi", Category: domain.AmenityCategoryBasics}}

	got := ProjectProperty(&p, domain.RatingSummary{PropertyID: "p1", Average: 4.25, Count: 4})

	want := dto.PropertyView{
		ID:            "p1",
		Title:         "Listing p1",
		Description:   "A place to stay",
		PropertyType:  "HOUSE",
		RoomType:      "ENTIRE_PLACE",
		MaxGuests:     4,
		Bedrooms:      2,
		Beds:          2,
		Bathrooms:     1,
		PricePerNight: 120,
		CleaningFee:   0,
		ServiceFee:    15.5,
		Location: dto.LocationView{
			Address: strPtr("1 Main St"),
			City:    "Portland",
			State:   "Oregon",
			Country: "USA",
		},
		Host: dto.HostView{
			ID:         "h1",
			Name:       "Host h1",
			Avatar:     strPtr("https://img.example.com/h1.png"),
			IsVerified: true,
		},
		Images: []dto.ImageView{
			{ID: "i1", URL: "https://img.example.com/1.jpg", Caption: strPtr("front")},
			{ID: "i2", URL: "https://img.example.com/2.jpg"},
			{ID: "i3", URL: "https://img.example.com/3.jpg"},
		},
		Amenities:   []dto.AmenityView{{ID: "a1", Name: "Wifi", Category: "BASICS"}},
		Rating:      4.25,
		ReviewCount: 4,
		IsActive:    true,
		CreatedAt:   fixtureTime,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ProjectProperty mismatch (-want +got):\n%s", diff)
	}

	// source order is untouched
	assert.Equal(t, "i3", p.Images[0].ID)
}

func TestProjectProperty_EmptyCollectionsAndNoReviews(t *testing.T) {
	p := newProperty("p1", "h1", 80)

	got := ProjectProperty(&p, domain.RatingSummary{})
	require.NotNil(t, got.Images)
	require.NotNil(t, got.Amenities)
	assert.Zero(t, got.Rating)
	assert.Zero(t, got.ReviewCount)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"images":[]`)
	assert.Contains(t, string(raw), `"amenities":[]`)
	assert.Contains(t, string(raw), `"rating":0`)
	assert.Contains(t, string(raw), `"cleaningFee":0`)
}

func TestProjectPropertyDetail(t *testing.T) {
	host := newHost("h1")
	host.Password = "secret-hash"
	p := newProperty("p1", host.ID, 80)
	p.Host = *host
	p.MinimumStay = 2
	p.MaximumStay = intPtr(14)

	got := ProjectPropertyDetail(&p, domain.RatingSummary{})

	want := dto.HostDetailView{
		HostView:   dto.HostView{ID: "h1", Name: "Host h1", IsVerified: true},
		Email:      "h1@example.com",
		IsHost:     true,
		JoinedDate: host.CreatedAt,
	}
	if diff := cmp.Diff(want, got.Host); diff != "" {
		t.Errorf("host mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, got.MinimumStay)
	assert.Equal(t, 14, *got.MaximumStay)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"email":"h1@example.com"`)
	assert.NotContains(t, string(raw), "secret-hash")
}
