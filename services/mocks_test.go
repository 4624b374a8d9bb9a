package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentals-api/domain"
	"rentals-api/dto"
	"rentals-api/search"
)

// ============================================
// In-memory repositories
// ============================================

type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository(users ...*domain.User) *mockUserRepository {
	m := &mockUserRepository{users: make(map[string]*domain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepository) Create(_ context.Context, user *domain.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrConflict
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now().UTC()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepository) Update(_ context.Context, user *domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	m.users[user.ID] = user
	return nil
}

type mockPropertyRepository struct {
	properties map[string]domain.Property
	amenities  map[string]domain.Amenity
	users      *mockUserRepository
	searches   int
}

func newMockPropertyRepository(users *mockUserRepository) *mockPropertyRepository {
	return &mockPropertyRepository{
		properties: make(map[string]domain.Property),
		amenities:  make(map[string]domain.Amenity),
		users:      users,
	}
}

func (m *mockPropertyRepository) put(p domain.Property) {
	m.properties[p.ID] = p
}

func (m *mockPropertyRepository) resolveAmenities(ids []string) ([]domain.Amenity, error) {
	out := []domain.Amenity{}
	for _, id := range ids {
		a, ok := m.amenities[id]
		if !ok {
			return nil, domain.NewValidationError("amenityIds", "references an unknown amenity")
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *mockPropertyRepository) Create(_ context.Context, p *domain.Property, amenityIDs []string) error {
	amenities, err := m.resolveAmenities(amenityIDs)
	if err != nil {
		return err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	p.Amenities = amenities
	for i := range p.Images {
		p.Images[i].ID = uuid.NewString()
		p.Images[i].PropertyID = p.ID
	}
	m.put(*p)
	return nil
}

func (m *mockPropertyRepository) Update(_ context.Context, p *domain.Property, images *[]domain.PropertyImage, amenityIDs *[]string) error {
	stored, ok := m.properties[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := *p
	updated.Images = stored.Images
	updated.Amenities = stored.Amenities
	if images != nil {
		updated.Images = *images
	}
	if amenityIDs != nil {
		amenities, err := m.resolveAmenities(*amenityIDs)
		if err != nil {
			return err
		}
		updated.Amenities = amenities
	}
	m.put(updated)
	return nil
}

func (m *mockPropertyRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.properties[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.properties, id)
	return nil
}

func (m *mockPropertyRepository) GetByID(_ context.Context, id string) (*domain.Property, error) {
	p, ok := m.properties[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if m.users != nil {
		if host, ok := m.users.users[p.HostID]; ok {
			p.Host = *host
		}
	}
	return &p, nil
}

func (m *mockPropertyRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Property, error) {
	out := []domain.Property{}
	for _, id := range ids {
		if p, err := m.GetByID(ctx, id); err == nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPropertyRepository) Search(_ context.Context, pred search.Predicate, page search.Page) ([]domain.Property, int64, error) {
	m.searches++
	all, _ := m.ListAll(context.Background())
	results, total := search.Execute(all, pred, page)
	return results, int64(total), nil
}

func (m *mockPropertyRepository) ListAll(_ context.Context) ([]domain.Property, error) {
	out := make([]domain.Property, 0, len(m.properties))
	for _, p := range m.properties {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return search.Less(&out[i], &out[j]) })
	return out, nil
}

type mockReviewRepository struct {
	reviews []domain.Review
}

func (m *mockReviewRepository) Create(_ context.Context, r *domain.Review) error {
	for _, existing := range m.reviews {
		if existing.BookingID == r.BookingID {
			return domain.ErrConflict
		}
	}
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()
	m.reviews = append(m.reviews, *r)
	return nil
}

func (m *mockReviewRepository) ExistsForBooking(_ context.Context, bookingID string) (bool, error) {
	for _, r := range m.reviews {
		if r.BookingID == bookingID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockReviewRepository) ListByProperty(_ context.Context, propertyID string) ([]domain.Review, error) {
	out := []domain.Review{}
	for _, r := range m.reviews {
		if r.PropertyID == propertyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReviewRepository) Summaries(_ context.Context, ids []string) (map[string]domain.RatingSummary, error) {
	out := make(map[string]domain.RatingSummary)
	for _, id := range ids {
		var sum, count int
		for _, r := range m.reviews {
			if r.PropertyID == id {
				sum += r.Rating
				count++
			}
		}
		if count > 0 {
			out[id] = domain.RatingSummary{PropertyID: id, Average: float64(sum) / float64(count), Count: int64(count)}
		}
	}
	return out, nil
}

type mockBookingRepository struct {
	bookings   map[string]*domain.Booking
	properties *mockPropertyRepository
	completed  time.Time
}

func newMockBookingRepository(properties *mockPropertyRepository) *mockBookingRepository {
	return &mockBookingRepository{bookings: make(map[string]*domain.Booking), properties: properties}
}

func (m *mockBookingRepository) CreateIfAvailable(_ context.Context, b *domain.Booking) error {
	if _, ok := m.properties.properties[b.PropertyID]; !ok {
		return domain.ErrNotFound
	}
	for _, other := range m.bookings {
		if other.PropertyID == b.PropertyID && other.Status.Blocking() &&
			other.CheckIn.Before(b.CheckOut) && other.CheckOut.After(b.CheckIn) {
			return domain.ErrConflict
		}
	}
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now().UTC()
	stored := *b
	stored.Property = nil
	m.bookings[b.ID] = &stored
	return nil
}

func (m *mockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *b
	if p, err := m.properties.GetByID(ctx, b.PropertyID); err == nil {
		out.Property = p
	}
	return &out, nil
}

func (m *mockBookingRepository) UpdateStatus(_ context.Context, id string, from, to domain.BookingStatus) error {
	b, ok := m.bookings[id]
	if !ok || b.Status != from {
		return domain.ErrConflict
	}
	b.Status = to
	return nil
}

func (m *mockBookingRepository) ListByGuest(_ context.Context, guestID string) ([]domain.Booking, error) {
	out := []domain.Booking{}
	for _, b := range m.bookings {
		if b.GuestID == guestID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBookingRepository) ListByHost(_ context.Context, hostID string) ([]domain.Booking, error) {
	out := []domain.Booking{}
	for _, b := range m.bookings {
		if m.properties.properties[b.PropertyID].HostID == hostID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBookingRepository) CompleteFinished(_ context.Context, now time.Time) (int64, error) {
	m.completed = now
	var n int64
	for _, b := range m.bookings {
		if b.Status == domain.BookingStatusConfirmed && !b.CheckOut.After(now) {
			b.Status = domain.BookingStatusCompleted
			n++
		}
	}
	return n, nil
}

type mockAmenityRepository struct {
	amenities []domain.Amenity
}

func (m *mockAmenityRepository) Create(_ context.Context, a *domain.Amenity) error {
	for _, existing := range m.amenities {
		if existing.Name == a.Name {
			return fmt.Errorf("%w: duplicate amenity", domain.ErrConflict)
		}
	}
	a.ID = uuid.NewString()
	m.amenities = append(m.amenities, *a)
	return nil
}

func (m *mockAmenityRepository) List(_ context.Context, category string) ([]domain.Amenity, error) {
	out := []domain.Amenity{}
	for _, a := range m.amenities {
		if category == "" || string(a.Category) == category {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type mockFavoriteRepository struct {
	favorites  []domain.Favorite
	properties *mockPropertyRepository
}

func (m *mockFavoriteRepository) Add(_ context.Context, userID, propertyID string) (*domain.Favorite, error) {
	if _, ok := m.properties.properties[propertyID]; !ok {
		return nil, domain.ErrNotFound
	}
	for _, f := range m.favorites {
		if f.UserID == userID && f.PropertyID == propertyID {
			return nil, fmt.Errorf("%w: property already saved", domain.ErrConflict)
		}
	}
	f := domain.Favorite{ID: uuid.NewString(), UserID: userID, PropertyID: propertyID, CreatedAt: time.Now().UTC()}
	m.favorites = append(m.favorites, f)
	return &f, nil
}

func (m *mockFavoriteRepository) Remove(_ context.Context, userID, propertyID string) error {
	for i, f := range m.favorites {
		if f.UserID == userID && f.PropertyID == propertyID {
			m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]domain.Property, error) {
	ids := []string{}
	for i := len(m.favorites) - 1; i >= 0; i-- {
		if m.favorites[i].UserID == userID {
			ids = append(ids, m.favorites[i].PropertyID)
		}
	}
	return m.properties.GetByIDs(ctx, ids)
}

// ============================================
// Collaborators
// ============================================

type recordingPublisher struct {
	mu     sync.Mutex
	events []dto.PropertyEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event dto.PropertyEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type countingSearcher struct {
	SearchService
	invalidations int
}

func (s *countingSearcher) Invalidate(context.Context) {
	s.invalidations++
}

// ============================================
// Fixtures
// ============================================

var fixtureTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newHost(id string) *domain.User {
	return &domain.User{
		ID:         id,
		Email:      id + "@example.com",
		FirstName:  "Host",
		LastName:   id,
		IsHost:     true,
		IsVerified: true,
		CreatedAt:  fixtureTime.Add(-48 * time.Hour),
	}
}

func newGuest(id string) *domain.User {
	return &domain.User{ID: id, Email: id + "@example.com", FirstName: "Guest", LastName: id}
}

func newProperty(id, hostID string, price int64) domain.Property {
	return domain.Property{
		ID:            id,
		HostID:        hostID,
		Title:         "Listing " + id,
		Description:   "A place to stay",
		PropertyType:  domain.PropertyTypeHouse,
		RoomType:      domain.RoomTypeEntirePlace,
		MaxGuests:     4,
		Bedrooms:      2,
		Beds:          2,
		Bathrooms:     1,
		PricePerNight: decimal.NewFromInt(price),
		City:          "Portland",
		State:         "Oregon",
		Country:       "USA",
		MinimumStay:   1,
		IsActive:      true,
		CreatedAt:     fixtureTime,
	}
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
