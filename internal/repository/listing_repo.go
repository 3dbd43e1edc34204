package repository

import (
	"context"
	"time"

	"github.com/Atomic996/Bougtobstore/internal/domain/entity"
)

type UpdateListingStatusParams struct {
	ListingID string
	SellerID  string
	Status    entity.ListingStatus
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	// FindActive returns every listing whose status is not deleted,
	// newest first.
	FindActive(ctx context.Context) ([]*entity.Listing, error)
	UpdateStatus(ctx context.Context, params UpdateListingStatusParams) error
}

// Cache is a byte-oriented cache. Get returns ErrNotFound on a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ImageStorage uploads an image and returns its publicly resolvable URL.
type ImageStorage interface {
	Upload(ctx context.Context, fileName string, data []byte, contentType string) (string, error)
}
