package dto

import (
	"strings"

	"github.com/shopspring/decimal"

	"rentals-api/search"
)

// PropertyFilters is the typed filter input used by GraphQL. Absent fields
// are nil.
type PropertyFilters struct {
	Search       *string
	Location     *string
	MinPrice     *float64
	MaxPrice     *float64
	PropertyType *string
	RoomType     *string
	Guests       *int32
	Bedrooms     *int32
	Bathrooms    *float64
	Limit        *int32
	Offset       *int32
}

// ToFilter converts the input into a validated filter and page, applying the
// same defaults and range checks as the query string parser.
func (f *PropertyFilters) ToFilter() (search.Filter, search.Page, error) {
	if f == nil {
		return search.Filter{}, search.DefaultPage(), nil
	}

	filter := search.Filter{
		Search:       str(f.Search),
		Location:     str(f.Location),
		PropertyType: str(f.PropertyType),
		RoomType:     str(f.RoomType),
		MinPrice:     dec(f.MinPrice),
		MaxPrice:     dec(f.MaxPrice),
		Bathrooms:    dec(f.Bathrooms),
		Guests:       num(f.Guests),
		Bedrooms:     num(f.Bedrooms),
	}
	if err := filter.Validate(); err != nil {
		return search.Filter{}, search.Page{}, err
	}

	page, err := search.NewPage(num(f.Limit), num(f.Offset))
	if err != nil {
		return search.Filter{}, search.Page{}, err
	}
	return filter, page, nil
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func dec(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	return &d
}

func num(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
