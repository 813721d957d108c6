// internal/domain/ledger/entity.go
package ledger

import "time"

// LeadTransaction is one completed sale. Rows are append-only: the split
// amounts are persisted as computed at sale time and never recomputed, so
// historical splits stay stable even if the split policy changes later.
type LeadTransaction struct {
	ID                   int64  `json:"id" db:"id"`
	TransactionReference string `json:"transaction_reference" db:"transaction_reference"`

	LeadID   int64 `json:"lead_id" db:"lead_id"`
	BuyerID  int64 `json:"buyer_id" db:"buyer_id"`
	PosterID int64 `json:"poster_id" db:"poster_id"`

	// Denormalized for reporting by service category
	SystemType string `json:"system_type" db:"system_type"`

	TotalAmount  float64 `json:"total_amount" db:"total_amount"`
	PlatformTake float64 `json:"platform_take" db:"platform_take"`
	PosterTake   float64 `json:"poster_take" db:"poster_take"`
	ServiceFee   float64 `json:"service_fee" db:"service_fee"`
	Currency     string  `json:"currency" db:"currency"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RevenueAggregate is the grouped sum used by reporting.
type RevenueAggregate struct {
	Total        float64 `json:"total"`
	PlatformTake float64 `json:"platform_take"`
	PosterTake   float64 `json:"poster_take"`
	ServiceFee   float64 `json:"service_fee"`
	Count        int64   `json:"count"`
}
