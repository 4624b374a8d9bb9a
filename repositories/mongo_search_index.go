package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"rentals-api/domain"
	"rentals-api/search"
)

// indexDocument mirrors the filterable columns of a property. Keys match
// search.Field names so compiled BSON filters apply directly.
type indexDocument struct {
	ID            string    `bson:"_id"`
	HostID        string    `bson:"hostId"`
	Title         string    `bson:"title"`
	Description   string    `bson:"description"`
	City          string    `bson:"city"`
	State         string    `bson:"state"`
	Country       string    `bson:"country"`
	Address       *string   `bson:"address,omitempty"`
	PropertyType  string    `bson:"propertyType"`
	RoomType      string    `bson:"roomType"`
	MaxGuests     int       `bson:"maxGuests"`
	Bedrooms      int       `bson:"bedrooms"`
	Bathrooms     float64   `bson:"bathrooms"`
	PricePerNight float64   `bson:"pricePerNight"`
	CreatedAt     time.Time `bson:"createdAt"`
}

func newIndexDocument(p *domain.Property) indexDocument {
	return indexDocument{
		ID:            p.ID,
		HostID:        p.HostID,
		Title:         p.Title,
		Description:   p.Description,
		City:          p.City,
		State:         p.State,
		Country:       p.Country,
		Address:       p.Address,
		PropertyType:  string(p.PropertyType),
		RoomType:      string(p.RoomType),
		MaxGuests:     p.MaxGuests,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		PricePerNight: p.PricePerNight.InexactFloat64(),
		CreatedAt:     p.CreatedAt.UTC(),
	}
}

type mongoSearchIndex struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// ConnectMongo opens a client and verifies it with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

func NewMongoSearchIndex(collection *mongo.Collection, logger *zap.Logger) SearchIndex {
	return &mongoSearchIndex{collection: collection, logger: logger}
}

// EnsureSearchIndexes creates the sort and range indexes used by Search.
func EnsureSearchIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: search.SortBSON},
		{Keys: bson.D{{Key: "pricePerNight", Value: 1}}},
		{Keys: bson.D{{Key: "propertyType", Value: 1}, {Key: "roomType", Value: 1}}},
		{Keys: bson.D{{Key: "maxGuests", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create search indexes: %w", err)
	}
	return nil
}

func (m *mongoSearchIndex) Upsert(ctx context.Context, property *domain.Property) error {
	doc := newIndexDocument(property)
	_, err := m.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error indexing property %s: %w", property.ID, err)
	}
	m.logger.Debug("Property indexed", zap.String("property_id", property.ID))
	return nil
}

func (m *mongoSearchIndex) Delete(ctx context.Context, propertyID string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": propertyID}); err != nil {
		return fmt.Errorf("error removing property %s from index: %w", propertyID, err)
	}
	m.logger.Debug("Property removed from index", zap.String("property_id", propertyID))
	return nil
}

// Search compiles the predicate to BSON and returns one ordered page of ids.
func (m *mongoSearchIndex) Search(ctx context.Context, pred search.Predicate, page search.Page) ([]string, int64, error) {
	filter, err := search.BSON(pred)
	if err != nil {
		return nil, 0, err
	}

	total, err := m.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting indexed properties: %w", err)
	}

	opts := options.Find().
		SetSort(search.SortBSON).
		SetSkip(int64(page.Offset)).
		SetLimit(int64(page.Limit)).
		SetProjection(bson.M{"_id": 1})
	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error searching indexed properties: %w", err)
	}
	defer cursor.Close(ctx)

	ids := []string{}
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("error decoding indexed property: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}
	return ids, total, nil
}
