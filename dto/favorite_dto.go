package dto

type AddFavoriteRequest struct {
	PropertyID string `json:"propertyId" binding:"required"`
}
