package dto

import (
	"time"

	"rentals-api/domain"
)

// RegisterRequest is sent when someone signs up.
type RegisterRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	FirstName string  `json:"firstName" binding:"required"`
	LastName  string  `json:"lastName" binding:"required"`
	Phone     *string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries a fresh token and the user it was issued for.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse is the public view of an account. The password hash never
// leaves the service.
type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Phone      *string   `json:"phone,omitempty"`
	Bio        *string   `json:"bio,omitempty"`
	Avatar     *string   `json:"avatar,omitempty"`
	IsHost     bool      `json:"isHost"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Phone:      u.Phone,
		Bio:        u.Bio,
		Avatar:     u.Avatar,
		IsHost:     u.IsHost,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}
