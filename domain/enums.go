package domain

// PropertyType is the closed set of listing categories.
type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "HOUSE"
	PropertyTypeApartment  PropertyType = "APARTMENT"
	PropertyTypeCondo      PropertyType = "CONDO"
	PropertyTypeVilla      PropertyType = "VILLA"
	PropertyTypeCabin      PropertyType = "CABIN"
	PropertyTypeCottage    PropertyType = "COTTAGE"
	PropertyTypeLoft       PropertyType = "LOFT"
	PropertyTypeTownhouse  PropertyType = "TOWNHOUSE"
	PropertyTypeGuesthouse PropertyType = "GUESTHOUSE"
	PropertyTypeHotel      PropertyType = "HOTEL"
	PropertyTypeUnique     PropertyType = "UNIQUE"
)

var propertyTypes = map[PropertyType]struct{}{
	PropertyTypeHouse: {}, PropertyTypeApartment: {}, PropertyTypeCondo: {},
	PropertyTypeVilla: {}, PropertyTypeCabin: {}, PropertyTypeCottage: {},
	PropertyTypeLoft: {}, PropertyTypeTownhouse: {}, PropertyTypeGuesthouse: {},
	PropertyTypeHotel: {}, PropertyTypeUnique: {},
}

func (t PropertyType) Valid() bool {
	_, ok := propertyTypes[t]
	return ok
}

// RoomType describes how much of the property a guest gets.
type RoomType string

const (
	RoomTypeEntirePlace RoomType = "ENTIRE_PLACE"
	RoomTypePrivateRoom RoomType = "PRIVATE_ROOM"
	RoomTypeSharedRoom  RoomType = "SHARED_ROOM"
	RoomTypeHotelRoom   RoomType = "HOTEL_ROOM"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeEntirePlace, RoomTypePrivateRoom, RoomTypeSharedRoom, RoomTypeHotelRoom:
		return true
	}
	return false
}

// AmenityCategory groups catalog amenities.
type AmenityCategory string

const (
	AmenityCategoryBasics        AmenityCategory = "BASICS"
	AmenityCategoryFeatures      AmenityCategory = "FEATURES"
	AmenityCategoryLocation      AmenityCategory = "LOCATION"
	AmenityCategorySafety        AmenityCategory = "SAFETY"
	AmenityCategoryAccessibility AmenityCategory = "ACCESSIBILITY"
)

func (c AmenityCategory) Valid() bool {
	switch c {
	case AmenityCategoryBasics, AmenityCategoryFeatures, AmenityCategoryLocation,
		AmenityCategorySafety, AmenityCategoryAccessibility:
		return true
	}
	return false
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusRejected  BookingStatus = "REJECTED"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCancelled, BookingStatusCompleted},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled,
		BookingStatusCompleted, BookingStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a booking in state s may move to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Blocking reports whether a booking in this state holds its dates.
func (s BookingStatus) Blocking() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}
