package dto

import "rentals-api/domain"

type CreateAmenityRequest struct {
	Name     string  `json:"name" binding:"required"`
	Icon     *string `json:"icon"`
	Category string  `json:"category" binding:"required"`
}

func NewAmenityView(a *domain.Amenity) AmenityView {
	return AmenityView{ID: a.ID, Name: a.Name, Icon: a.Icon, Category: string(a.Category)}
}

func NewAmenityViews(amenities []domain.Amenity) []AmenityView {
	out := make([]AmenityView, 0, len(amenities))
	for i := range amenities {
		out = append(out, NewAmenityView(&amenities[i]))
	}
	return out
}
