package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rentals-api/dto"
	"rentals-api/repositories"
	"rentals-api/services"
	"rentals-api/utils"
)

type testServer struct {
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repositories.OpenDatabase("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name), logger)
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	users := repositories.NewUserRepository(db)
	properties := repositories.NewPropertyRepository(db)
	bookings := repositories.NewBookingRepository(db)
	reviews := repositories.NewReviewRepository(db)
	amenities := repositories.NewAmenityRepository(db)
	cacheRepo := repositories.NewCacheRepository(nil, logger)
	t.Cleanup(cacheRepo.Close)
	tokens := utils.NewTokenManager("test-secret", time.Hour)

	searchService := services.NewSearchService(properties, properties, reviews, cacheRepo, time.Minute, logger)
	indexService := services.NewIndexService(nil, properties, searchService, logger)
	publisher := services.NewInlinePublisher(indexService)

	router := NewRouter(Handlers{
		Properties: NewPropertyController(searchService,
			services.NewPropertyService(properties, users, searchService, publisher, logger), logger),
		Users:     NewUserController(services.NewUserService(users, tokens, logger), logger),
		Amenities: NewAmenityController(services.NewAmenityService(amenities, logger), logger),
		Bookings:  NewBookingController(services.NewBookingService(bookings, properties, logger), logger),
		Reviews:   NewReviewController(services.NewReviewService(reviews, bookings, searchService, logger), logger),
		Favorites: NewFavoriteController(
			services.NewFavoriteService(repositories.NewFavoriteRepository(db), reviews, logger), logger),
	}, tokens, logger)

	return &testServer{router: router}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *testServer) register(t *testing.T, email string) dto.AuthResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email:     email,
		Password:  "password123",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp dto.AuthResponse
	decode(t, w, &resp)
	return resp
}

func (s *testServer) registerHost(t *testing.T, email string) dto.AuthResponse {
	t.Helper()
	user := s.register(t, email)
	w := s.do(t, http.MethodPost, "/api/users/me/host", user.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.AuthResponse
	decode(t, w, &resp)
	require.True(t, resp.User.IsHost)
	return resp
}

func (s *testServer) createProperty(t *testing.T, token string, body map[string]interface{}) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/properties", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Data dto.PropertyDetailView `json:"data"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Data.ID)
	return resp.Data.ID
}

func cabin(title, city string, price int) map[string]interface{} {
	return map[string]interface{}{
		"title":         title,
		"description":   "A quiet place",
		"propertyType":  "CABIN",
		"roomType":      "ENTIRE_PLACE",
		"maxGuests":     4,
		"bedrooms":      2,
		"beds":          2,
		"bathrooms":     1.5,
		"pricePerNight": price,
		"city":          city,
		"state":         "OR",
		"country":       "USA",
		"images": []map[string]interface{}{
			{"url": "https://img.example/2.jpg", "order": 2},
			{"url": "https://img.example/1.jpg", "order": 1, "isPrimary": true},
		},
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSearch_EmptyStore(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/properties", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SearchResponse
	decode(t, w, &resp)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
	assert.Equal(t, int64(0), resp.Total)
	assert.Equal(t, 20, resp.Limit)
	assert.Equal(t, 0, resp.Offset)
}

func TestSearch_RejectsBadQuery(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		query string
		field string
	}{
		{"non-numeric price", "minPrice=abc", "minPrice"},
		{"exponent price", "minPrice=1e50000000", "minPrice"},
		{"price above maximum", "maxPrice=99999999999", "maxPrice"},
		{"inverted price range", "minPrice=200&maxPrice=100", "minPrice"},
		{"limit too large", "limit=101", "limit"},
		{"negative offset", "offset=-1", "offset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/properties?"+tt.query, "", nil)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			var resp dto.ErrorResponse
			decode(t, w, &resp)
			assert.Equal(t, "validation_error", resp.Error)
			assert.Equal(t, tt.field, resp.Field)
		})
	}
}

func TestProperties_CreateSearchAndDetail(t *testing.T) {
	s := newTestServer(t)
	host := s.registerHost(t, "host@example.com")

	cabinID := s.createProperty(t, host.Token, cabin("Forest Cabin", "Portland", 150))
	s.createProperty(t, host.Token, cabin("Beach Cabin", "Seaside", 90))

	w := s.do(t, http.MethodGet, "/api/properties?location=portland&maxPrice=200", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.SearchResponse
	decode(t, w, &resp)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, int64(1), resp.Total)

	got := resp.Results[0]
	assert.Equal(t, cabinID, got.ID)
	assert.Equal(t, 150.0, got.PricePerNight)
	assert.Equal(t, "Jane Doe", got.Host.Name)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "https://img.example/1.jpg", got.Images[0].URL)
	assert.Equal(t, 0.0, got.Rating)

	w = s.do(t, http.MethodGet, "/api/properties/"+cabinID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail dto.PropertyDetailView
	decode(t, w, &detail)
	assert.Equal(t, "host@example.com", detail.Host.Email)
	assert.Equal(t, 1, detail.MinimumStay)

	w = s.do(t, http.MethodGet, "/api/properties/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProperties_WriteInvalidatesSearch(t *testing.T) {
	s := newTestServer(t)
	host := s.registerHost(t, "host@example.com")
	id := s.createProperty(t, host.Token, cabin("Forest Cabin", "Portland", 150))

	w := s.do(t, http.MethodGet, "/api/properties", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, "/api/properties/"+id, host.Token, map[string]interface{}{"title": "Renamed Cabin"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/properties", "", nil)
	var resp dto.SearchResponse
	decode(t, w, &resp)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Renamed Cabin", resp.Results[0].Title)

	w = s.do(t, http.MethodDelete, "/api/properties/"+id, host.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/properties", "", nil)
	decode(t, w, &resp)
	assert.Empty(t, resp.Results)
}

func TestProperties_Guards(t *testing.T) {
	s := newTestServer(t)
	host := s.registerHost(t, "host@example.com")
	guest := s.register(t, "guest@example.com")
	id := s.createProperty(t, host.Token, cabin("Forest Cabin", "Portland", 150))

	w := s.do(t, http.MethodPost, "/api/properties", "", cabin("x", "y", 1))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/properties", "not-a-token", cabin("x", "y", 1))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/properties", guest.Token, cabin("x", "y", 1))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, "/api/properties/"+id, guest.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProperties_CreateValidation(t *testing.T) {
	s := newTestServer(t)
	host := s.registerHost(t, "host@example.com")

	body := cabin("Forest Cabin", "Portland", 150)
	body["maxGuests"] = 0

	w := s.do(t, http.MethodPost, "/api/properties", host.Token, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, "maxGuests", resp.Field)
}

func TestUsers_RegisterLoginMe(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Jane@Example.com")

	w := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "jane@example.com", Password: "password123", FirstName: "J", LastName: "D",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "jane@example.com", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "jane@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	var auth dto.AuthResponse
	decode(t, w, &auth)
	require.NotEmpty(t, auth.Token)

	w = s.do(t, http.MethodGet, "/api/users/me", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me dto.UserResponse
	decode(t, w, &me)
	assert.Equal(t, "jane@example.com", me.Email)
	assert.False(t, me.IsHost)

	w = s.do(t, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookings_Lifecycle(t *testing.T) {
	s := newTestServer(t)
	host := s.registerHost(t, "host@example.com")
	guest := s.register(t, "guest@example.com")
	id := s.createProperty(t, host.Token, cabin("Forest Cabin", "Portland", 100))

	checkIn := time.Date(2030, 7, 1, 15, 0, 0, 0, time.UTC)
	w := s.do(t, http.MethodPost, "/api/bookings", guest.Token, map[string]interface{}{
		"propertyId": id,
		"checkIn":    checkIn,
		"checkOut":   checkIn.AddDate(0, 0, 3),
		"guests":     2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data dto.BookingView `json:"data"`
	}
	decode(t, w, &created)
	assert.Equal(t, 3, created.Data.Nights)
	assert.Equal(t, 300.0, created.Data.TotalPrice)
	assert.Equal(t, "PENDING", created.Data.Status)

	// Overlapping stay
	w = s.do(t, http.MethodPost, "/api/bookings", guest.Token, map[string]interface{}{
		"propertyId": id,
		"checkIn":    checkIn.AddDate(0, 0, 1),
		"checkOut":   checkIn.AddDate(0, 0, 4),
		"guests":     1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Hosts cannot book their own listing
	w = s.do(t, http.MethodPost, "/api/bookings", host.Token, map[string]interface{}{
		"propertyId": id,
		"checkIn":    checkIn.AddDate(0, 1, 0),
		"checkOut":   checkIn.AddDate(0, 1, 2),
		"guests":     1,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/bookings/hosting", guest.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/bookings/hosting", host.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var hosting []dto.BookingView
	decode(t, w, &hosting)
	require.Len(t, hosting, 1)

	path := "/api/bookings/" + created.Data.ID + "/status"
	w = s.do(t, http.MethodPatch, path, guest.Token, dto.UpdateBookingStatusRequest{Status: "CONFIRMED"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPatch, path, host.Token, dto.UpdateBookingStatusRequest{Status: "CONFIRMED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPatch, path, host.Token, dto.UpdateBookingStatusRequest{Status: "PENDING"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPatch, path, guest.Token, dto.UpdateBookingStatusRequest{Status: "CANCELLED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/bookings/mine", guest.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []dto.BookingView
	decode(t, w, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "CANCELLED", mine[0].Status)
	assert.Equal(t, "Forest Cabin", mine[0].PropertyTitle)
}

func TestReviews_RequireCompletedStay(t *testing.T) {
	s := newTestServer(t)
	host := s.registerHost(t, "host@example.com")
	guest := s.register(t, "guest@example.com")
	id := s.createProperty(t, host.Token, cabin("Forest Cabin", "Portland", 100))

	checkIn := time.Date(2030, 7, 1, 15, 0, 0, 0, time.UTC)
	w := s.do(t, http.MethodPost, "/api/bookings", guest.Token, map[string]interface{}{
		"propertyId": id,
		"checkIn":    checkIn,
		"checkOut":   checkIn.AddDate(0, 0, 2),
		"guests":     1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data dto.BookingView `json:"data"`
	}
	decode(t, w, &created)

	w = s.do(t, http.MethodPost, "/api/reviews", guest.Token, map[string]interface{}{
		"bookingId": created.Data.ID,
		"rating":    5,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, "bookingId", resp.Field)

	w = s.do(t, http.MethodGet, "/api/properties/"+id+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestAmenities_CreateAndList(t *testing.T) {
	s := newTestServer(t)
	user := s.register(t, "someone@example.com")

	w := s.do(t, http.MethodPost, "/api/amenities", user.Token, dto.CreateAmenityRequest{Name: "Wifi", Category: "BASICS"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/amenities", user.Token, dto.CreateAmenityRequest{Name: "Pool", Category: "FEATURES"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/amenities?category=basics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var amenities []dto.AmenityView
	decode(t, w, &amenities)
	require.Len(t, amenities, 1)
	assert.Equal(t, "Wifi", amenities[0].Name)

	w = s.do(t, http.MethodGet, "/api/amenities?category=SPACESHIP", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFavorites_AddListRemove(t *testing.T) {
	s := newTestServer(t)
	host := s.registerHost(t, "host@example.com")
	guest := s.register(t, "guest@example.com")
	first := s.createProperty(t, host.Token, cabin("Creek cabin", "Bend", 120))
	second := s.createProperty(t, host.Token, cabin("Ridge cabin", "Bend", 180))

	w := s.do(t, http.MethodGet, "/api/users/me/favorites", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	for _, id := range []string{first, second} {
		w = s.do(t, http.MethodPost, "/api/users/me/favorites", guest.Token, dto.AddFavoriteRequest{PropertyID: id})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodPost, "/api/users/me/favorites", guest.Token, dto.AddFavoriteRequest{PropertyID: first})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	w = s.do(t, http.MethodPost, "/api/users/me/favorites", guest.Token, dto.AddFavoriteRequest{PropertyID: "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	w = s.do(t, http.MethodPost, "/api/users/me/favorites", guest.Token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/users/me/favorites", guest.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var saved []dto.PropertyView
	decode(t, w, &saved)
	require.Len(t, saved, 2)
	ids := []string{saved[0].ID, saved[1].ID}
	assert.ElementsMatch(t, []string{first, second}, ids)
	assert.Equal(t, "Jane Doe", saved[0].Host.Name)

	w = s.do(t, http.MethodDelete, "/api/users/me/favorites/"+first, guest.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(t, http.MethodDelete, "/api/users/me/favorites/"+first, guest.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/api/properties/"+second, host.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/users/me/favorites", guest.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &saved)
	assert.Empty(t, saved)
}
