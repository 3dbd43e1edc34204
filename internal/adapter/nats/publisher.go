package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Atomic996/Bougtobstore/internal/domain/entity"
	"github.com/nats-io/nats.go"
)

const (
	subjectListingCreated       = "listing.created"
	subjectListingStatusUpdated = "listing.status.updated"
)

type listingCreatedEvent struct {
	ListingID string    `json:"listing_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	SellerID  string    `json:"seller_id"`
	CreatedAt time.Time `json:"created_at"`
}

type listingStatusUpdatedEvent struct {
	ListingID string    `json:"listing_id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(conn *nats.Conn) (*Publisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("NATS connection cannot be nil")
	}
	return &Publisher{conn: conn}, nil
}

func (p *Publisher) PublishListingCreated(ctx context.Context, listing *entity.Listing) error {
	event := listingCreatedEvent{
		ListingID: listing.ID,
		Title:     listing.Title,
		Category:  string(listing.Category),
		SellerID:  listing.SellerID,
		CreatedAt: listing.CreatedAt,
	}
	return p.publish(subjectListingCreated, event)
}

func (p *Publisher) PublishListingStatusUpdated(ctx context.Context, listingID string, status entity.ListingStatus) error {
	event := listingStatusUpdatedEvent{
		ListingID: listingID,
		Status:    string(status),
		UpdatedAt: time.Now().UTC(),
	}
	return p.publish(subjectListingStatusUpdated, event)
}

func (p *Publisher) publish(subject string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message for subject %s: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish message to NATS subject %s: %w", subject, err)
	}
	return nil
}

// NoopPublisher is used when no NATS URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishListingCreated(ctx context.Context, listing *entity.Listing) error {
	return nil
}

func (NoopPublisher) PublishListingStatusUpdated(ctx context.Context, listingID string, status entity.ListingStatus) error {
	return nil
}
