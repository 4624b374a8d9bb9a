package search

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"rentals-api/domain"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	maxAmountScale  = 6
	maxAmountDigits = 16
)

// MaxAmount bounds every decimal filter field.
var MaxAmount = decimal.New(1, 9)

// plainNumber admits digits with an optional fraction. Exponent notation is
// refused because the decimal would expand to the exponent's length.
var plainNumber = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// Filter is the typed form of the recognised filter fields. A nil pointer or
// an empty string means the field is absent and places no constraint.
type Filter struct {
	Search       string
	Location     string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	PropertyType string
	RoomType     string
	Guests       *int
	Bedrooms     *int
	Bathrooms    *decimal.Decimal
}

// Page is a limit/offset window over an ordered result set.
type Page struct {
	Limit  int
	Offset int
}

// DefaultPage returns the first page with the default size.
func DefaultPage() Page {
	return Page{Limit: DefaultLimit}
}

// NewPage applies defaults to optional limit and offset values and checks their range.
func NewPage(limit, offset *int) (Page, error) {
	page := DefaultPage()
	if limit != nil {
		page.Limit = *limit
	}
	if offset != nil {
		page.Offset = *offset
	}
	return page, page.Validate()
}

func (p Page) Validate() error {
	if p.Limit < 1 || p.Limit > MaxLimit {
		return domain.NewValidationError("limit", "must be between 1 and %d", MaxLimit)
	}
	if p.Offset < 0 {
		return domain.NewValidationError("offset", "must not be negative")
	}
	return nil
}

// Validate rejects negative or out-of-range bounds and an inverted price
// range.
func (f Filter) Validate() error {
	amounts := []struct {
		field string
		value *decimal.Decimal
	}{
		{"minPrice", f.MinPrice},
		{"maxPrice", f.MaxPrice},
		{"bathrooms", f.Bathrooms},
	}
	for _, a := range amounts {
		if err := checkAmount(a.field, a.value); err != nil {
			return err
		}
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return domain.NewValidationError("minPrice", "must not be greater than maxPrice")
	}
	if f.Guests != nil && *f.Guests < 0 {
		return domain.NewValidationError("guests", "must not be negative")
	}
	if f.Bedrooms != nil && *f.Bedrooms < 0 {
		return domain.NewValidationError("bedrooms", "must not be negative")
	}
	return nil
}

// checkAmount looks at sign, exponent and coefficient size before comparing
// against MaxAmount, so the comparison never rescales an unbounded value.
func checkAmount(field string, d *decimal.Decimal) error {
	if d == nil {
		return nil
	}
	if d.IsNegative() {
		return domain.NewValidationError(field, "must not be negative")
	}
	if d.Exponent() < -maxAmountScale || d.Exponent() > maxAmountDigits || d.NumDigits() > maxAmountDigits {
		return domain.NewValidationError(field, "must be at most %s with %d decimal places", MaxAmount, maxAmountScale)
	}
	if d.GreaterThan(MaxAmount) {
		return domain.NewValidationError(field, "must be at most %s", MaxAmount)
	}
	return nil
}

// ParseQuery reads the filter and paging fields from a query string.
// Malformed numbers are rejected with a ValidationError naming the parameter.
func ParseQuery(query url.Values) (Filter, Page, error) {
	get := func(key string) string {
		return strings.TrimSpace(query.Get(key))
	}

	filter := Filter{
		Search:       get("search"),
		Location:     get("location"),
		PropertyType: get("propertyType"),
		RoomType:     get("roomType"),
	}

	var err error
	if filter.MinPrice, err = parseDecimal("minPrice", get("minPrice")); err != nil {
		return Filter{}, Page{}, err
	}
	if filter.MaxPrice, err = parseDecimal("maxPrice", get("maxPrice")); err != nil {
		return Filter{}, Page{}, err
	}
	if filter.Guests, err = parseInt("guests", get("guests")); err != nil {
		return Filter{}, Page{}, err
	}
	if filter.Bedrooms, err = parseInt("bedrooms", get("bedrooms")); err != nil {
		return Filter{}, Page{}, err
	}
	if filter.Bathrooms, err = parseDecimal("bathrooms", get("bathrooms")); err != nil {
		return Filter{}, Page{}, err
	}
	if err := filter.Validate(); err != nil {
		return Filter{}, Page{}, err
	}

	limit, err := parseInt("limit", get("limit"))
	if err != nil {
		return Filter{}, Page{}, err
	}
	offset, err := parseInt("offset", get("offset"))
	if err != nil {
		return Filter{}, Page{}, err
	}
	page, err := NewPage(limit, offset)
	if err != nil {
		return Filter{}, Page{}, err
	}

	return filter, page, nil
}

func parseDecimal(field, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	if !plainNumber.MatchString(raw) {
		return nil, domain.NewValidationError(field, "must be a number, got %q", raw)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, domain.NewValidationError(field, "must be a number, got %q", raw)
	}
	return &d, nil
}

func parseInt(field, raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.NewValidationError(field, "must be an integer, got %q", raw)
	}
	return &n, nil
}
