package service

import (
	"time"

	"github.com/Atomic996/Bougtobstore/internal/domain/entity"
)

// seedListings is the fixed fallback set shown when the backend is
// unreachable or unconfigured, so the storefront is never empty.
func seedListings() []*entity.Listing {
	now := time.Now().UTC()
	return []*entity.Listing{
		{
			ID:          "sample-1",
			Title:       "هاتف آيفون 15 برو ماكس",
			Description: "حالة ممتازة، سعة 256 جيجا، لون تيتانيوم طبيعي. مستعمل لمدة شهرين فقط.",
			Price:       215000,
			Category:    entity.CategoryElectronics,
			ImageURL:    "https://images.unsplash.com/photo-1696446701796-da61225697cc?q=80&w=500&auto=format&fit=crop",
			SellerName:  "أمين للهواتف",
			SellerID:    "system-sample-1",
			ContactInfo: entity.ContactInfo{Type: entity.ContactPhone, Value: "0555123456"},
			Status:      entity.StatusActive,
			CreatedAt:   now.Add(-1 * time.Hour),
			UpdatedAt:   now.Add(-1 * time.Hour),
		},
		{
			ID:          "sample-2",
			Title:       "طاولة خشبية عصرية",
			Description: "طاولة صالون من الخشب الرفيع، تصميم عصري يناسب المنازل الحديثة.",
			Price:       18000,
			Category:    entity.CategoryFurniture,
			ImageURL:    "https://images.unsplash.com/photo-1533090161767-e6ffed986c88?q=80&w=500&auto=format&fit=crop",
			SellerName:  "مفروشات الجزائر",
			SellerID:    "system-sample-2",
			ContactInfo: entity.ContactInfo{Type: entity.ContactPhone, Value: "0666987654"},
			Status:      entity.StatusActive,
			CreatedAt:   now.Add(-24 * time.Hour),
			UpdatedAt:   now.Add(-24 * time.Hour),
		},
	}
}
