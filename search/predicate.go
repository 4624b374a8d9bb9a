package search

import (
	"strings"

	"github.com/shopspring/decimal"

	"rentals-api/domain"
)

// Field names a filterable property attribute.
type Field string

const (
	FieldTitle         Field = "title"
	FieldDescription   Field = "description"
	FieldCity          Field = "city"
	FieldState         Field = "state"
	FieldCountry       Field = "country"
	FieldAddress       Field = "address"
	FieldPropertyType  Field = "propertyType"
	FieldRoomType      Field = "roomType"
	FieldPricePerNight Field = "pricePerNight"
	FieldMaxGuests     Field = "maxGuests"
	FieldBedrooms      Field = "bedrooms"
	FieldBathrooms     Field = "bathrooms"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindInt
	kindFloat
	kindMoney
)

type fieldInfo struct {
	column string
	kind   fieldKind
}

var fields = map[Field]fieldInfo{
	FieldTitle:         {"title", kindText},
	FieldDescription:   {"description", kindText},
	FieldCity:          {"city", kindText},
	FieldState:         {"state", kindText},
	FieldCountry:       {"country", kindText},
	FieldAddress:       {"address", kindText},
	FieldPropertyType:  {"property_type", kindText},
	FieldRoomType:      {"room_type", kindText},
	FieldPricePerNight: {"price_per_night", kindMoney},
	FieldMaxGuests:     {"max_guests", kindInt},
	FieldBedrooms:      {"bedrooms", kindInt},
	FieldBathrooms:     {"bathrooms", kindFloat},
}

var (
	searchFields   = []Field{FieldTitle, FieldDescription, FieldCity, FieldState, FieldCountry}
	locationFields = []Field{FieldCity, FieldState, FieldCountry, FieldAddress}
)

// Predicate is a boolean condition over a property. The same tree is
// evaluated in memory by Match and compiled by SQL and BSON.
type Predicate interface {
	Match(p *domain.Property) bool
}

// All is a conjunction. An empty All matches everything.
type All []Predicate

// Any is a disjunction. An empty Any matches nothing.
type Any []Predicate

// Contains is a case-insensitive substring test on a text field.
type Contains struct {
	Field Field
	Text  string
}

// Equals is an exact, case-sensitive comparison on a text field.
type Equals struct {
	Field Field
	Value string
}

// AtLeast is an inclusive lower bound on a numeric field.
type AtLeast struct {
	Field Field
	Value decimal.Decimal
}

// AtMost is an inclusive upper bound on a numeric field.
type AtMost struct {
	Field Field
	Value decimal.Decimal
}

func (a All) Match(p *domain.Property) bool {
	for _, q := range a {
		if !q.Match(p) {
			return false
		}
	}
	return true
}

func (a Any) Match(p *domain.Property) bool {
	for _, q := range a {
		if q.Match(p) {
			return true
		}
	}
	return false
}

func (c Contains) Match(p *domain.Property) bool {
	v, ok := textOf(p, c.Field)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(v), strings.ToLower(c.Text))
}

func (e Equals) Match(p *domain.Property) bool {
	v, ok := textOf(p, e.Field)
	return ok && v == e.Value
}

func (l AtLeast) Match(p *domain.Property) bool {
	v, ok := numberOf(p, l.Field)
	return ok && v.GreaterThanOrEqual(l.Value)
}

func (m AtMost) Match(p *domain.Property) bool {
	v, ok := numberOf(p, m.Field)
	return ok && v.LessThanOrEqual(m.Value)
}

// Build turns a filter into a conjunction of its active clauses. Search and
// location each become a disjunction over their fields; when both are given
// a property must satisfy both.
func Build(f Filter) Predicate {
	clauses := All{}
	if f.Search != "" {
		clauses = append(clauses, anyContains(f.Search, searchFields))
	}
	if f.Location != "" {
		clauses = append(clauses, anyContains(f.Location, locationFields))
	}
	if f.MinPrice != nil {
		clauses = append(clauses, AtLeast{Field: FieldPricePerNight, Value: *f.MinPrice})
	}
	if f.MaxPrice != nil {
		clauses = append(clauses, AtMost{Field: FieldPricePerNight, Value: *f.MaxPrice})
	}
	if f.PropertyType != "" {
		clauses = append(clauses, Equals{Field: FieldPropertyType, Value: f.PropertyType})
	}
	if f.RoomType != "" {
		clauses = append(clauses, Equals{Field: FieldRoomType, Value: f.RoomType})
	}
	if f.Guests != nil {
		clauses = append(clauses, AtLeast{Field: FieldMaxGuests, Value: decimal.NewFromInt(int64(*f.Guests))})
	}
	if f.Bedrooms != nil {
		clauses = append(clauses, AtLeast{Field: FieldBedrooms, Value: decimal.NewFromInt(int64(*f.Bedrooms))})
	}
	if f.Bathrooms != nil {
		clauses = append(clauses, AtLeast{Field: FieldBathrooms, Value: *f.Bathrooms})
	}
	return clauses
}

func anyContains(text string, over []Field) Any {
	out := make(Any, 0, len(over))
	for _, f := range over {
		out = append(out, Contains{Field: f, Text: text})
	}
	return out
}

func textOf(p *domain.Property, f Field) (string, bool) {
	switch f {
	case FieldTitle:
		return p.Title, true
	case FieldDescription:
		return p.Description, true
	case FieldCity:
		return p.City, true
	case FieldState:
		return p.State, true
	case FieldCountry:
		return p.Country, true
	case FieldAddress:
		if p.Address == nil {
			return "", false
		}
		return *p.Address, true
	case FieldPropertyType:
		return string(p.PropertyType), true
	case FieldRoomType:
		return string(p.RoomType), true
	}
	return "", false
}

func numberOf(p *domain.Property, f Field) (decimal.Decimal, bool) {
	switch f {
	case FieldPricePerNight:
		return p.PricePerNight, true
	case FieldMaxGuests:
		return decimal.NewFromInt(int64(p.MaxGuests)), true
	case FieldBedrooms:
		return decimal.NewFromInt(int64(p.Bedrooms)), true
	case FieldBathrooms:
		return decimal.NewFromFloat(p.Bathrooms), true
	}
	return decimal.Decimal{}, false
}
