package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    ListingStatus
		to      ListingStatus
		allowed bool
	}{
		{StatusActive, StatusSold, true},
		{StatusSold, StatusActive, true},
		{StatusActive, StatusDeleted, true},
		{StatusSold, StatusDeleted, true},
		{StatusDeleted, StatusActive, false},
		{StatusDeleted, StatusSold, false},
		{StatusDeleted, StatusDeleted, false},
		{StatusActive, StatusActive, false},
		{StatusActive, "archived", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestParseListingStatus(t *testing.T) {
	status, err := ParseListingStatus("sold")
	require.NoError(t, err)
	assert.Equal(t, StatusSold, status)

	_, err = ParseListingStatus("archived")
	assert.Error(t, err)
}

func TestNewContactInfo(t *testing.T) {
	t.Run("phone accepts digits plus and spaces", func(t *testing.T) {
		contact, err := NewContactInfo("phone", "+213 550 123 456")
		require.NoError(t, err)
		assert.Equal(t, ContactPhone, contact.Type)
		assert.Equal(t, "+213 550 123 456", contact.Value)
	})

	t.Run("phone rejects letters", func(t *testing.T) {
		_, err := NewContactInfo("phone", "call me")
		assert.Error(t, err)
	})

	t.Run("messenger accepts free-form handle", func(t *testing.T) {
		contact, err := NewContactInfo("messenger", "fb.com/ahmed.dz")
		require.NoError(t, err)
		assert.Equal(t, ContactMessenger, contact.Type)
	})

	t.Run("empty value rejected", func(t *testing.T) {
		_, err := NewContactInfo("phone", "   ")
		assert.Error(t, err)
	})

	t.Run("unknown method rejected", func(t *testing.T) {
		_, err := NewContactInfo("fax", "0550123456")
		assert.Error(t, err)
	})
}

func TestContactInfoSerializeRoundTrip(t *testing.T) {
	contact, err := NewContactInfo("messenger", "fb.com/seller")
	require.NoError(t, err)

	raw, err := contact.Serialize()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"messenger","value":"fb.com/seller"}`, raw)

	parsed, err := ParseContactInfo(raw)
	require.NoError(t, err)
	assert.Equal(t, contact, parsed)
}

func TestNewListing(t *testing.T) {
	contact := ContactInfo{Type: ContactPhone, Value: "0550123456"}

	t.Run("valid listing starts active", func(t *testing.T) {
		listing, err := NewListing("  قميص قطني  ", "جديد", 2500, CategoryFashion, "data:image/jpeg;base64,x", "أحمد", "seller_1", contact)
		require.NoError(t, err)
		assert.Equal(t, "قميص قطني", listing.Title, "title is trimmed")
		assert.Equal(t, StatusActive, listing.Status)
		assert.False(t, listing.CreatedAt.IsZero())
		assert.Equal(t, listing.CreatedAt, listing.UpdatedAt)
	})

	t.Run("rejections", func(t *testing.T) {
		cases := []struct {
			name     string
			title    string
			price    float64
			category Category
			image    string
			sellerID string
		}{
			{"empty title", " ", 100, CategoryOther, "img", "s"},
			{"zero price", "ok", 0, CategoryOther, "img", "s"},
			{"negative price", "ok", -5, CategoryOther, "img", "s"},
			{"missing image", "ok", 100, CategoryOther, "", "s"},
			{"bad category", "ok", 100, "antiques", "img", "s"},
			{"missing seller", "ok", 100, CategoryOther, "img", ""},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewListing(tc.title, "", tc.price, tc.category, tc.image, "name", tc.sellerID, contact)
				assert.Error(t, err)
			})
		}
	})
}
