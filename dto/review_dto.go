package dto

import (
	"time"

	"rentals-api/domain"
)

type CreateReviewRequest struct {
	BookingID string  `json:"bookingId" binding:"required"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment"`
}

type ReviewView struct {
	ID           string    `json:"id"`
	PropertyID   string    `json:"propertyId"`
	ReviewerID   string    `json:"reviewerId"`
	ReviewerName string    `json:"reviewerName,omitempty"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewReviewView(r *domain.Review) ReviewView {
	v := ReviewView{
		ID:         r.ID,
		PropertyID: r.PropertyID,
		ReviewerID: r.ReviewerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
	if r.Reviewer != nil {
		v.ReviewerName = r.Reviewer.FullName()
	}
	return v
}

func NewReviewViews(reviews []domain.Review) []ReviewView {
	out := make([]ReviewView, 0, len(reviews))
	for i := range reviews {
		out = append(out, NewReviewView(&reviews[i]))
	}
	return out
}
