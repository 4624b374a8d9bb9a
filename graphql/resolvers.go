package graphql

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"time"

	graphqlgo "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"rentals-api/domain"
	"rentals-api/dto"
	"rentals-api/services"
)

//go:embed schema.graphql
var schemaSource string

// NewSchema parses the read-only catalog schema against the services.
func NewSchema(search services.SearchService, amenities services.AmenityService) (*graphqlgo.Schema, error) {
	return graphqlgo.ParseSchema(schemaSource, &Resolver{search: search, amenities: amenities})
}

// NewHandler serves the schema over HTTP POST.
func NewHandler(schema *graphqlgo.Schema) http.Handler {
	return &relay.Handler{Schema: schema}
}

// Resolver is the root Query resolver.
type Resolver struct {
	search    services.SearchService
	amenities services.AmenityService
}

type propertiesArgs struct {
	Filters *dto.PropertyFilters
}

func (r *Resolver) Properties(ctx context.Context, args propertiesArgs) (*searchResolver, error) {
	filter, page, err := args.Filters.ToFilter()
	if err != nil {
		return nil, wrapError(err)
	}

	resp, err := r.search.Search(ctx, filter, page)
	if err != nil {
		return nil, wrapError(err)
	}
	return &searchResolver{resp: resp}, nil
}

// Property returns null for an unknown id.
func (r *Resolver) Property(ctx context.Context, args struct{ ID graphqlgo.ID }) (*detailResolver, error) {
	view, err := r.search.GetProperty(ctx, string(args.ID))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError(err)
	}
	return &detailResolver{propertyResolver{&view.PropertyView}, view}, nil
}

func (r *Resolver) Amenities(ctx context.Context, args struct{ Category *string }) ([]*amenityResolver, error) {
	category := ""
	if args.Category != nil {
		category = *args.Category
	}
	views, err := r.amenities.List(ctx, category)
	if err != nil {
		return nil, wrapError(err)
	}
	return amenityResolvers(views), nil
}

type searchResolver struct {
	resp *dto.SearchResponse
}

func (r *searchResolver) Results() []*propertyResolver {
	out := make([]*propertyResolver, 0, len(r.resp.Results))
	for i := range r.resp.Results {
		out = append(out, &propertyResolver{&r.resp.Results[i]})
	}
	return out
}

func (r *searchResolver) Total() int32 { return int32(r.resp.Total) }
func (r *searchResolver) Limit() int32 { return int32(r.resp.Limit) }
func (r *searchResolver) Offset() int32 { return int32(r.resp.Offset) }

type propertyResolver struct {
	v *dto.PropertyView
}

func (r *propertyResolver) ID() graphqlgo.ID { return graphqlgo.ID(r.v.ID) }
func (r *propertyResolver) Title() string { return r.v.Title }
func (r *propertyResolver) Description() string { return r.v.Description }
func (r *propertyResolver) PropertyType() string { return r.v.PropertyType }
func (r *propertyResolver) RoomType() string { return r.v.RoomType }
func (r *propertyResolver) MaxGuests() int32 { return int32(r.v.MaxGuests) }
func (r *propertyResolver) Bedrooms() int32 { return int32(r.v.Bedrooms) }
func (r *propertyResolver) Beds() int32 { return int32(r.v.Beds) }
func (r *propertyResolver) Bathrooms() float64 { return r.v.Bathrooms }
func (r *propertyResolver) PricePerNight() float64 { return r.v.PricePerNight }
func (r *propertyResolver) CleaningFee() float64 { return r.v.CleaningFee }
func (r *propertyResolver) ServiceFee() float64 { return r.v.ServiceFee }
func (r *propertyResolver) Rating() float64 { return r.v.Rating }
func (r *propertyResolver) ReviewCount() int32 { return int32(r.v.ReviewCount) }
func (r *propertyResolver) IsActive() bool { return r.v.IsActive }
func (r *propertyResolver) CreatedAt() string { return r.v.CreatedAt.Format(time.RFC3339) }
func (r *propertyResolver) UpdatedAt() string { return r.v.UpdatedAt.Format(time.RFC3339) }
func (r *propertyResolver) Location() *locationResolver { return &locationResolver{&r.v.Location} }
func (r *propertyResolver) Host() *hostResolver { return &hostResolver{&r.v.Host} }

func (r *propertyResolver) Images() []*imageResolver {
	out := make([]*imageResolver, 0, len(r.v.Images))
	for i := range r.v.Images {
		out = append(out, &imageResolver{&r.v.Images[i]})
	}
	return out
}

func (r *propertyResolver) Amenities() []*amenityResolver {
	return amenityResolvers(r.v.Amenities)
}

// detailResolver shares every list field and replaces the host card.
type detailResolver struct {
	propertyResolver
	d *dto.PropertyDetailView
}

func (r *detailResolver) Host() *hostDetailResolver { return &hostDetailResolver{&r.d.Host} }
func (r *detailResolver) MinimumStay() int32 { return int32(r.d.MinimumStay) }

func (r *detailResolver) MaximumStay() *int32 {
	if r.d.MaximumStay == nil {
		return nil
	}
	n := int32(*r.d.MaximumStay)
	return &n
}

type locationResolver struct {
	v *dto.LocationView
}

func (r *locationResolver) Address() *string { return r.v.Address }
func (r *locationResolver) City() string { return r.v.City }
func (r *locationResolver) State() string { return r.v.State }
func (r *locationResolver) Country() string { return r.v.Country }
func (r *locationResolver) Latitude() *float64 { return r.v.Latitude }
func (r *locationResolver) Longitude() *float64 { return r.v.Longitude }

type hostResolver struct {
	v *dto.HostView
}

func (r *hostResolver) ID() graphqlgo.ID { return graphqlgo.ID(r.v.ID) }
func (r *hostResolver) Name() string { return r.v.Name }
func (r *hostResolver) Avatar() *string { return r.v.Avatar }
func (r *hostResolver) IsVerified() bool { return r.v.IsVerified }

type hostDetailResolver struct {
	v *dto.HostDetailView
}

func (r *hostDetailResolver) ID() graphqlgo.ID { return graphqlgo.ID(r.v.ID) }
func (r *hostDetailResolver) Name() string { return r.v.Name }
func (r *hostDetailResolver) Avatar() *string { return r.v.Avatar }
func (r *hostDetailResolver) IsVerified() bool { return r.v.IsVerified }
func (r *hostDetailResolver) Email() string { return r.v.Email }
func (r *hostDetailResolver) IsHost() bool { return r.v.IsHost }
func (r *hostDetailResolver) JoinedDate() string { return r.v.JoinedDate.Format(time.RFC3339) }

type imageResolver struct {
	v *dto.ImageView
}

func (r *imageResolver) ID() graphqlgo.ID { return graphqlgo.ID(r.v.ID) }
func (r *imageResolver) URL() string { return r.v.URL }
func (r *imageResolver) Caption() *string { return r.v.Caption }

type amenityResolver struct {
	v dto.AmenityView
}

func (r *amenityResolver) ID() graphqlgo.ID { return graphqlgo.ID(r.v.ID) }
func (r *amenityResolver) Name() string { return r.v.Name }
func (r *amenityResolver) Icon() *string { return r.v.Icon }
func (r *amenityResolver) Category() string { return r.v.Category }

func amenityResolvers(views []dto.AmenityView) []*amenityResolver {
	out := make([]*amenityResolver, 0, len(views))
	for _, v := range views {
		out = append(out, &amenityResolver{v})
	}
	return out
}
