package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Atomic996/Bougtobstore/internal/app/config"
	"github.com/Atomic996/Bougtobstore/internal/domain/entity"
	"github.com/Atomic996/Bougtobstore/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const listingCollectionName = "listings"

// listingDocument is the persisted row shape. ContactInfo is stored as the
// serialized JSON string the original table carried, so rows stay readable
// by anything else pointed at the collection.
type listingDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Category    string             `bson:"category"`
	ImageURL    string             `bson:"image_url"`
	SellerName  string             `bson:"seller_name"`
	SellerID    string             `bson:"seller_id"`
	ContactInfo string             `bson:"contact_info"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

type listingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.ListingRepository {
	return &listingRepository{
		collection: client.Database(cfg.Database).Collection(listingCollectionName),
	}
}

func (r *listingRepository) Create(ctx context.Context, listing *entity.Listing) (string, error) {
	doc, err := fromEntity(listing)
	if err != nil {
		return "", err
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create listing: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *listingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid listing ID format: %w", repository.ErrNotFound)
	}

	var doc listingDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing by ID %s: %w", id, err)
	}
	return toEntity(&doc), nil
}

func (r *listingRepository) FindActive(ctx context.Context) ([]*entity.Listing, error) {
	filter := bson.M{"status": bson.M{"$ne": string(entity.StatusDeleted)}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find active listings: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []*entity.Listing
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode listing document: %w", err)
		}
		listings = append(listings, toEntity(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}
	return listings, nil
}

func (r *listingRepository) UpdateStatus(ctx context.Context, params repository.UpdateListingStatusParams) error {
	objID, err := primitive.ObjectIDFromHex(params.ListingID)
	if err != nil {
		return fmt.Errorf("invalid listing ID format: %w", repository.ErrNotFound)
	}

	filter := bson.M{
		"_id":       objID,
		"seller_id": params.SellerID,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     string(params.Status),
			"updated_at": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update status for listing %s: %w", params.ListingID, err)
	}

	if result.MatchedCount == 0 {
		// Disambiguate: the row may not exist, or it may belong to
		// someone else.
		var existing listingDocument
		errFind := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing)
		if errors.Is(errFind, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		if errFind == nil && existing.SellerID != params.SellerID {
			return repository.ErrForbidden
		}
		return repository.ErrUpdateFailed
	}
	return nil
}

func fromEntity(l *entity.Listing) (*listingDocument, error) {
	contact, err := l.ContactInfo.Serialize()
	if err != nil {
		return nil, err
	}
	return &listingDocument{
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Category:    string(l.Category),
		ImageURL:    l.ImageURL,
		SellerName:  l.SellerName,
		SellerID:    l.SellerID,
		ContactInfo: contact,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}, nil
}

// toEntity maps a stored row back to the entity shape, defaulting absent
// optional fields instead of failing the whole read path.
func toEntity(doc *listingDocument) *entity.Listing {
	status, err := entity.ParseListingStatus(doc.Status)
	if err != nil {
		status = entity.StatusActive
	}

	contact, err := entity.ParseContactInfo(doc.ContactInfo)
	if err != nil {
		contact = entity.ContactInfo{}
	}

	category := entity.Category(doc.Category)
	if !category.IsValid() {
		category = entity.CategoryOther
	}

	return &entity.Listing{
		ID:          doc.ID.Hex(),
		Title:       doc.Title,
		Description: doc.Description,
		Price:       doc.Price,
		Category:    category,
		ImageURL:    doc.ImageURL,
		SellerName:  doc.SellerName,
		SellerID:    doc.SellerID,
		ContactInfo: contact,
		Status:      status,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}
