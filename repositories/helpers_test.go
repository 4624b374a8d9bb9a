package repositories

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rentals-api/domain"
)

var baseTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := OpenDatabase("sqlite", dsn, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, host bool) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, Password: "hash", FirstName: "Ada", LastName: "Lovelace", IsHost: host}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func newListing(hostID, title string, price int64, guests int, created time.Duration) *domain.Property {
	return &domain.Property{
		HostID:        hostID,
		Title:         title,
		Description:   "Bright and quiet",
		PropertyType:  domain.PropertyTypeApartment,
		RoomType:      domain.RoomTypeEntirePlace,
		MaxGuests:     guests,
		Bedrooms:      1,
		Beds:          1,
		Bathrooms:     1,
		PricePerNight: decimal.NewFromInt(price),
		City:          "Lisbon",
		State:         "Lisboa",
		Country:       "Portugal",
		MinimumStay:   1,
		IsActive:      true,
		CreatedAt:     baseTime.Add(created),
	}
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
