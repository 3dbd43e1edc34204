package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

type ListingStatus string

const (
	StatusActive  ListingStatus = "active"
	StatusSold    ListingStatus = "sold"
	StatusDeleted ListingStatus = "deleted"
)

func ParseListingStatus(s string) (ListingStatus, error) {
	switch ListingStatus(s) {
	case StatusActive, StatusSold, StatusDeleted:
		return ListingStatus(s), nil
	}
	return "", fmt.Errorf("unknown listing status %q", s)
}

// CanTransitionTo encodes the lifecycle: active and sold toggle freely,
// deleted is terminal.
func (s ListingStatus) CanTransitionTo(next ListingStatus) bool {
	if s == StatusDeleted {
		return false
	}
	switch next {
	case StatusActive, StatusSold, StatusDeleted:
		return next != s
	}
	return false
}

type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryFurniture   Category = "furniture"
	CategoryVehicles    Category = "vehicles"
	CategoryFashion     Category = "fashion"
	CategoryBooks       Category = "books"
	CategoryOther       Category = "other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryElectronics, CategoryFurniture, CategoryVehicles,
		CategoryFashion, CategoryBooks, CategoryOther:
		return true
	}
	return false
}

type ContactMethod string

const (
	ContactPhone     ContactMethod = "phone"
	ContactMessenger ContactMethod = "messenger"
)

// ContactInfo is the tagged contact variant. It is validated once, when a
// listing is submitted; the read path only has to deserialize it.
type ContactInfo struct {
	Type  ContactMethod `json:"type"`
	Value string        `json:"value"`
}

func NewContactInfo(method, value string) (ContactInfo, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return ContactInfo{}, errors.New("contact value cannot be empty")
	}
	switch ContactMethod(method) {
	case ContactPhone:
		for _, r := range value {
			if !unicode.IsDigit(r) && r != '+' && r != ' ' {
				return ContactInfo{}, fmt.Errorf("phone contact contains non-numeric character %q", r)
			}
		}
		return ContactInfo{Type: ContactPhone, Value: value}, nil
	case ContactMessenger:
		return ContactInfo{Type: ContactMessenger, Value: value}, nil
	}
	return ContactInfo{}, fmt.Errorf("unknown contact method %q", method)
}

// Serialize returns the JSON document stored in the contact_info column.
func (c ContactInfo) Serialize() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to serialize contact info: %w", err)
	}
	return string(data), nil
}

func ParseContactInfo(raw string) (ContactInfo, error) {
	var c ContactInfo
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return ContactInfo{}, fmt.Errorf("failed to parse contact info: %w", err)
	}
	return c, nil
}

type Listing struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Category    Category      `json:"category"`
	ImageURL    string        `json:"image_url"`
	SellerName  string        `json:"seller_name"`
	SellerID    string        `json:"seller_id"`
	ContactInfo ContactInfo   `json:"contact_info"`
	Status      ListingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func NewListing(title, description string, price float64, category Category, imageURL, sellerName, sellerID string, contact ContactInfo) (*Listing, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("title cannot be empty")
	}
	if price <= 0 {
		return nil, errors.New("price must be positive")
	}
	if imageURL == "" {
		return nil, errors.New("image cannot be empty")
	}
	if !category.IsValid() {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	if sellerID == "" {
		return nil, errors.New("seller ID cannot be empty")
	}
	now := time.Now().UTC()
	return &Listing{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Price:       price,
		Category:    category,
		ImageURL:    imageURL,
		SellerName:  sellerName,
		SellerID:    sellerID,
		ContactInfo: contact,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
