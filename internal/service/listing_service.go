package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Atomic996/Bougtobstore/internal/domain/entity"
	"github.com/Atomic996/Bougtobstore/internal/moderation"
	"github.com/Atomic996/Bougtobstore/internal/platform/logger"
	"github.com/Atomic996/Bougtobstore/internal/platform/metrics"
	"github.com/Atomic996/Bougtobstore/internal/repository"
	"github.com/Atomic996/Bougtobstore/internal/service/identity"
)

const activeListingsCacheKey = "listings:active"

const (
	gateValidation = "validation"
	gateProfanity  = "profanity"
	gateClassifier = "classifier"
)

type ProfanityFilter interface {
	Check(text string) moderation.CheckResult
}

type SafetyClassifier interface {
	Evaluate(ctx context.Context, title, description string, image []byte) moderation.Verdict
}

type EventPublisher interface {
	PublishListingCreated(ctx context.Context, listing *entity.Listing) error
	PublishListingStatusUpdated(ctx context.Context, listingID string, status entity.ListingStatus) error
}

// SubmitInput is one submission exactly as captured by the sell form. Image
// is the inline data-encoded representation the browser produced.
type SubmitInput struct {
	Title         string
	Description   string
	Price         float64
	Category      entity.Category
	Image         string
	ImageFilename string
	SellerID      string
	SellerName    string
	ContactType   string
	ContactValue  string
}

// ListFilter narrows the read path the way the storefront filters
// client-side: by category, title substring, and "mine only" seller scope.
type ListFilter struct {
	Category entity.Category
	Query    string
	SellerID string
}

// ListingService orchestrates the strict submission gates and the listing
// read path. No persistence happens unless both moderation gates pass, and a
// failed insert is never retried automatically.
type ListingService struct {
	repo       repository.ListingRepository
	cache      repository.Cache
	storage    repository.ImageStorage
	filter     ProfanityFilter
	classifier SafetyClassifier
	publisher  EventPublisher
	identity   identity.Provider
	metrics    *metrics.MetricsManager
	cacheTTL   time.Duration
	log        logger.Logger
}

func NewListingService(
	repo repository.ListingRepository,
	cache repository.Cache,
	storage repository.ImageStorage,
	filter ProfanityFilter,
	classifier SafetyClassifier,
	publisher EventPublisher,
	identityProvider identity.Provider,
	metricsManager *metrics.MetricsManager,
	cacheTTL time.Duration,
	log logger.Logger,
) *ListingService {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &ListingService{
		repo:       repo,
		cache:      cache,
		storage:    storage,
		filter:     filter,
		classifier: classifier,
		publisher:  publisher,
		identity:   identityProvider,
		metrics:    metricsManager,
		cacheTTL:   cacheTTL,
		log:        log,
	}
}

// Submit runs the pipeline: validation, profanity gate, remote safety gate,
// optional image upload, one insert. Validation and policy rejections return
// before any persistence is attempted.
func (s *ListingService) Submit(ctx context.Context, input SubmitInput) (*entity.Listing, error) {
	if err := s.validate(input); err != nil {
		s.reject(gateValidation)
		return nil, err
	}

	category := input.Category
	if category == "" {
		category = entity.CategoryOther
	}

	contact, err := entity.NewContactInfo(input.ContactType, input.ContactValue)
	if err != nil {
		s.reject(gateValidation)
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	mediaType, imageData, err := parseDataURL(input.Image)
	if err != nil {
		s.reject(gateValidation)
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if check := s.filter.Check(input.Title); !check.Clean {
		s.log.Infof("submission rejected by profanity filter: word=%q", check.MatchedWord)
		s.reject(gateProfanity)
		return nil, &PolicyRejectionError{Reason: fmt.Sprintf("title contains a forbidden word: %s", check.MatchedWord)}
	}

	verdict := s.classifier.Evaluate(ctx, input.Title, input.Description, imageData)
	if !verdict.Safe {
		s.log.Infof("submission rejected by safety classifier: reason=%q", verdict.Reason)
		s.reject(gateClassifier)
		return nil, &PolicyRejectionError{Reason: verdict.Reason}
	}

	sellerID := s.identity.EnsureSellerID(input.SellerID)
	sellerName := strings.TrimSpace(input.SellerName)
	if sellerName == "" {
		sellerName = "بائع جزائري"
	}

	// Upload before insert so the stored row carries the public URL. A
	// failed upload keeps the inline image so the submission still
	// completes.
	imageURL := input.Image
	if s.storage != nil {
		uploadedURL, uploadErr := s.storage.Upload(ctx, input.ImageFilename, imageData, mediaType)
		if uploadErr != nil {
			s.log.Warnf("image upload failed, keeping inline image: %v", uploadErr)
		} else {
			imageURL = uploadedURL
		}
	}

	listing, err := entity.NewListing(input.Title, input.Description, input.Price, category, imageURL, sellerName, sellerID, contact)
	if err != nil {
		s.reject(gateValidation)
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if s.repo == nil {
		s.log.Errorf("cannot persist listing: no backing store configured")
		if s.metrics != nil {
			s.metrics.SubmissionFailuresTotal.Inc()
		}
		return nil, fmt.Errorf("failed to persist listing: %w", repository.ErrConnectionFailed)
	}

	id, err := s.repo.Create(ctx, listing)
	if err != nil {
		s.log.Errorf("failed to persist listing: %v", err)
		if s.metrics != nil {
			s.metrics.SubmissionFailuresTotal.Inc()
		}
		return nil, fmt.Errorf("failed to persist listing: %w", err)
	}
	listing.ID = id

	s.invalidateCache(ctx)
	if pubErr := s.publisher.PublishListingCreated(ctx, listing); pubErr != nil {
		s.log.Warnf("failed to publish listing.created event: %v", pubErr)
	}
	if s.metrics != nil {
		s.metrics.ListingsPublishedTotal.Inc()
	}

	s.log.Infof("listing published: id=%s seller=%s category=%s", listing.ID, listing.SellerID, listing.Category)
	return listing, nil
}

// ActiveListings returns every non-deleted listing, newest first, narrowed
// by the filter. It never fails: backend errors fall back to the seed set so
// the storefront always has something to show.
func (s *ListingService) ActiveListings(ctx context.Context, filter ListFilter) []*entity.Listing {
	listings := s.loadActive(ctx)
	return applyFilter(listings, filter)
}

func (s *ListingService) loadActive(ctx context.Context) []*entity.Listing {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, activeListingsCacheKey); err == nil {
			var cached []*entity.Listing
			unmarshalErr := json.Unmarshal(data, &cached)
			if unmarshalErr == nil {
				return cached
			}
			s.log.Warnf("discarding corrupt listings cache entry: %v", unmarshalErr)
			_ = s.cache.Delete(ctx, activeListingsCacheKey)
		}
	}

	if s.repo == nil {
		return seedListings()
	}

	listings, err := s.repo.FindActive(ctx)
	if err != nil {
		s.log.Errorf("failed to fetch listings, falling back to seed data: %v", err)
		return seedListings()
	}

	if s.cache != nil {
		if data, err := json.Marshal(listings); err == nil {
			if err := s.cache.Set(ctx, activeListingsCacheKey, data, s.cacheTTL); err != nil {
				s.log.Warnf("failed to cache listings: %v", err)
			}
		}
	}
	return listings
}

func (s *ListingService) GetListing(ctx context.Context, id string) (*entity.Listing, error) {
	if s.repo == nil {
		return nil, repository.ErrNotFound
	}
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// MarkStatus applies an owner action: the active/sold toggle or the one-way
// soft delete. Ownership is advisory, enforced against the stored seller_id.
func (s *ListingService) MarkStatus(ctx context.Context, id, sellerID string, status entity.ListingStatus) error {
	if s.repo == nil {
		return repository.ErrNotFound
	}
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.SellerID != sellerID {
		return repository.ErrForbidden
	}
	if !listing.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, listing.Status, status)
	}

	err = s.repo.UpdateStatus(ctx, repository.UpdateListingStatusParams{
		ListingID: id,
		SellerID:  sellerID,
		Status:    status,
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ctx)
	if pubErr := s.publisher.PublishListingStatusUpdated(ctx, id, status); pubErr != nil {
		s.log.Warnf("failed to publish listing.status.updated event: %v", pubErr)
	}
	if s.metrics != nil {
		s.metrics.StatusUpdatesTotal.WithLabelValues(string(status)).Inc()
	}
	return nil
}

func (s *ListingService) validate(input SubmitInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if input.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if input.Image == "" {
		return fmt.Errorf("%w: image is required", ErrValidation)
	}
	if strings.TrimSpace(input.ContactValue) == "" {
		return fmt.Errorf("%w: contact value is required", ErrValidation)
	}
	if input.Category != "" && !input.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, input.Category)
	}
	return nil
}

func (s *ListingService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, activeListingsCacheKey); err != nil {
		s.log.Warnf("failed to invalidate listings cache: %v", err)
	}
}

func (s *ListingService) reject(gate string) {
	if s.metrics == nil {
		return
	}
	s.metrics.SubmissionsRejectedTotal.WithLabelValues(gate).Inc()
}

func applyFilter(listings []*entity.Listing, filter ListFilter) []*entity.Listing {
	if filter.Category == "" && filter.Query == "" && filter.SellerID == "" {
		return listings
	}
	query := strings.ToLower(filter.Query)
	filtered := make([]*entity.Listing, 0, len(listings))
	for _, l := range listings {
		if filter.Category != "" && l.Category != filter.Category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(l.Title), query) {
			continue
		}
		if filter.SellerID != "" && l.SellerID != filter.SellerID {
			continue
		}
		filtered = append(filtered, l)
	}
	return filtered
}
