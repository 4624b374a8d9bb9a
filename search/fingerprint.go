package search

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// fingerprintKey is the canonical form hashed by Fingerprint. Encoding it as
// JSON quotes every field, so no value can spill into its neighbour.
type fingerprintKey struct {
	Search       string  `json:"search"`
	Location     string  `json:"location"`
	MinPrice     *string `json:"minPrice"`
	MaxPrice     *string `json:"maxPrice"`
	PropertyType string  `json:"propertyType"`
	RoomType     string  `json:"roomType"`
	Guests       *int    `json:"guests"`
	Bedrooms     *int    `json:"bedrooms"`
	Bathrooms    *string `json:"bathrooms"`
	Limit        int     `json:"limit"`
	Offset       int     `json:"offset"`
}

// Fingerprint identifies a filter and page for caching. Two requests that
// select the same window of the same result set share a fingerprint.
func Fingerprint(f Filter, p Page) string {
	key := fingerprintKey{
		Search:       strings.ToLower(f.Search),
		Location:     strings.ToLower(f.Location),
		MinPrice:     decimalKey(f.MinPrice),
		MaxPrice:     decimalKey(f.MaxPrice),
		PropertyType: f.PropertyType,
		RoomType:     f.RoomType,
		Guests:       f.Guests,
		Bedrooms:     f.Bedrooms,
		Bathrooms:    decimalKey(f.Bathrooms),
		Limit:        p.Limit,
		Offset:       p.Offset,
	}
	// Only strings, ints and nil pointers, so Marshal cannot fail.
	raw, _ := json.Marshal(key)
	return fmt.Sprintf("%x", md5.Sum(raw))
}

// decimalKey normalizes so that 150 and 150.00 share a key.
func decimalKey(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
