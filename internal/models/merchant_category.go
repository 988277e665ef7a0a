package models

import "time"

// MerchantCategory caches the category assigned to a sanitized merchant
// description. Once a merchant text is cached, classification never calls the
// external service for that exact text again. Entries are upserted by the
// classifier and only removed by an explicit bulk clear.
type MerchantCategory struct {
	Merchant  string    `gorm:"primaryKey" json:"merchant"`
	Category  string    `gorm:"not null" json:"category"`
	UpdatedAt time.Time `json:"updated_at"`
}
