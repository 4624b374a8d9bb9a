package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"rentals-api/domain"
	"rentals-api/dto"
)

// ProjectProperty maps a loaded property and its review aggregate into the
// list view. Absent fees become 0 and a property without reviews reports 0/0.
func ProjectProperty(p *domain.Property, summary domain.RatingSummary) dto.PropertyView {
	return dto.PropertyView{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		PropertyType:  string(p.PropertyType),
		RoomType:      string(p.RoomType),
		MaxGuests:     p.MaxGuests,
		Bedrooms:      p.Bedrooms,
		Beds:          p.Beds,
		Bathrooms:     p.Bathrooms,
		PricePerNight: p.PricePerNight.InexactFloat64(),
		CleaningFee:   feeOrZero(p.CleaningFee),
		ServiceFee:    feeOrZero(p.ServiceFee),
		Location: dto.LocationView{
			Address:   p.Address,
			City:      p.City,
			State:     p.State,
			Country:   p.Country,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		},
		Host:        projectHost(&p.Host),
		Images:      projectImages(p.Images),
		Amenities:   dto.NewAmenityViews(p.Amenities),
		Rating:      summary.Average,
		ReviewCount: summary.Count,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProjectPropertyDetail is ProjectProperty plus the stay limits and the
// host's contact card.
func ProjectPropertyDetail(p *domain.Property, summary domain.RatingSummary) dto.PropertyDetailView {
	view := ProjectProperty(p, summary)
	return dto.PropertyDetailView{
		PropertyView: view,
		MinimumStay:  p.MinimumStay,
		MaximumStay:  p.MaximumStay,
		Host: dto.HostDetailView{
			HostView:   view.Host,
			Email:      p.Host.Email,
			IsHost:     p.Host.IsHost,
			JoinedDate: p.Host.CreatedAt,
		},
	}
}

func projectHost(u *domain.User) dto.HostView {
	return dto.HostView{
		ID:         u.ID,
		Name:       u.FullName(),
		Avatar:     u.Avatar,
		IsVerified: u.IsVerified,
	}
}

func projectImages(images []domain.PropertyImage) []dto.ImageView {
	sorted := make([]domain.PropertyImage, len(images))
	copy(sorted, images)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	out := make([]dto.ImageView, 0, len(sorted))
	for _, img := range sorted {
		out = append(out, dto.ImageView{ID: img.ID, URL: img.URL, Caption: img.Caption})
	}
	return out
}

func feeOrZero(fee decimal.NullDecimal) float64 {
	if !fee.Valid {
		return 0
	}
	return fee.Decimal.InexactFloat64()
}
