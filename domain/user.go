package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account. A user with IsHost set may own properties.
type User struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"not null" json:"-"`
	FirstName  string    `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName   string    `gorm:"type:varchar(100);not null" json:"lastName"`
	Phone      *string   `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Bio        *string   `gorm:"type:text" json:"bio,omitempty"`
	Avatar     *string   `json:"avatar,omitempty"`
	IsHost     bool      `gorm:"not null;default:false" json:"isHost"`
	IsVerified bool      `gorm:"not null;default:false" json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID when the caller did not.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// FullName joins first and last name the way listings display the host.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
