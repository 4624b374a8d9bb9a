package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite is a property a user saved. A user saves a property at most once.
type Favorite struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorites_user_property" json:"userId"`
	PropertyID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorites_user_property;index" json:"propertyId"`
	Property   *Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"property,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Favorite) TableName() string {
	return "favorites"
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
