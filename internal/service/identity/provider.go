package identity

import (
	"strings"

	"github.com/google/uuid"
)

// Provider resolves the pseudo seller identity attached to a submission.
// The id is not a security boundary: it scopes "my listings" filtering and
// advisory owner-only actions, nothing more.
type Provider interface {
	// EnsureSellerID returns the candidate id when the client supplied
	// one, otherwise mints a fresh id the client is expected to persist.
	EnsureSellerID(candidate string) string
}

type uuidProvider struct{}

func NewUUIDProvider() Provider {
	return uuidProvider{}
}

func (uuidProvider) EnsureSellerID(candidate string) string {
	if trimmed := strings.TrimSpace(candidate); trimmed != "" {
		return trimmed
	}
	return "seller_" + uuid.NewString()
}
