package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"auctiondesk-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoListingRepository implements ListingRepository using MongoDB,
// the closest analogue of the document store the system was designed
// around.
type MongoListingRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoListingRepository creates a new MongoDB listing repository.
func NewMongoListingRepository(uri, database, collection string) (*MongoListingRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10 * time.Second).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Printf("[MongoListingRepository] Initialized with collection: %s.%s", database, collection)
	return &MongoListingRepository{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// ListAll returns every listing ordered by creation time.
func (r *MongoListingRepository) ListAll(ctx context.Context) ([]*model.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*model.Listing
	for cursor.Next(ctx) {
		var l model.Listing
		if err := cursor.Decode(&l); err != nil {
			return nil, fmt.Errorf("failed to decode listing: %w", err)
		}
		out = append(out, &l)
	}
	return out, cursor.Err()
}

// Create persists a new listing and returns the assigned document id.
// Document ids are ObjectID hex strings so they stay opaque strings
// across every backend.
func (r *MongoListingRepository) Create(ctx context.Context, l *model.Listing) (string, error) {
	doc := *l
	if doc.DocumentID == "" {
		doc.DocumentID = primitive.NewObjectID().Hex()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, &doc); err != nil {
		return "", fmt.Errorf("failed to create listing: %w", err)
	}
	return doc.DocumentID, nil
}

// Patch updates exactly the given fields of one document via $set.
func (r *MongoListingRepository) Patch(ctx context.Context, documentID string, fields map[string]interface{}) error {
	set := bson.M{}
	for col, val := range fields {
		if !patchableColumns[col] {
			return fmt.Errorf("field %q is not patchable", col)
		}
		set[col] = val
	}
	if len(set) == 0 {
		return fmt.Errorf("patch of %s with no fields", documentID)
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": documentID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to patch listing %s: %w", documentID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one document.
func (r *MongoListingRepository) Delete(ctx context.Context, documentID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": documentID})
	if err != nil {
		return fmt.Errorf("failed to delete listing %s: %w", documentID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close disconnects the MongoDB client.
func (r *MongoListingRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

// Ensure MongoListingRepository implements ListingRepository
var _ ListingRepository = (*MongoListingRepository)(nil)
