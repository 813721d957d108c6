// internal/domain/lead/entity.go
package lead

import (
	"database/sql"
	"time"
)

type RoutingChannel string

const (
	ChannelOpenMarket      RoutingChannel = "open_market"
	ChannelInternalNetwork RoutingChannel = "internal_network"
	ChannelExclusive       RoutingChannel = "exclusive"
)

func (c RoutingChannel) Valid() bool {
	switch c {
	case ChannelOpenMarket, ChannelInternalNetwork, ChannelExclusive:
		return true
	}
	return false
}

type Status string

const (
	StatusAvailable Status = "available"
	StatusPurchased Status = "purchased"
	StatusExpired   Status = "expired"
	StatusArchived  Status = "archived"
)

type AssignmentState string

const (
	AssignmentAssigned AssignmentState = "assigned"
)

// DefaultExpiryDays is how long a newly created or reactivated lead stays
// purchasable before read paths treat it as stale.
const DefaultExpiryDays = 30

// AllowedReleaseHours are the accepted staged-release windows for
// internal network leads. Nil release hours means no staged release.
var AllowedReleaseHours = []int{24, 48, 72}

type Lead struct {
	ID            int64  `json:"id" db:"id"`
	LeadReference string `json:"lead_reference" db:"lead_reference"`

	// Ownership
	PosterID int64         `json:"poster_id" db:"poster_id"`
	BuyerID  sql.NullInt64 `json:"buyer_id,omitempty" db:"buyer_id"`

	// Classification
	SystemType     string         `json:"system_type" db:"system_type"`
	RoutingChannel RoutingChannel `json:"routing_channel" db:"routing_channel"`

	// Commercial terms
	Price            float64 `json:"price" db:"price"`
	Currency         string  `json:"currency" db:"currency"`
	IsFreeAssignment bool    `json:"is_free_assignment" db:"is_free_assignment"`
	IsExclusive      bool    `json:"is_exclusive" db:"is_exclusive"`

	// Visibility and targeting
	ExclusiveContractorID sql.NullInt64 `json:"exclusive_contractor_id,omitempty" db:"exclusive_contractor_id"`
	NetworkReleaseAt      sql.NullTime  `json:"network_release_at,omitempty" db:"network_release_at"`
	ExpirationDate        sql.NullTime  `json:"expiration_date,omitempty" db:"expiration_date"`

	// Descriptive fields, opaque to the routing rules
	Title           string         `json:"title" db:"title"`
	Description     sql.NullString `json:"description,omitempty" db:"description"`
	PropertyAddress sql.NullString `json:"property_address,omitempty" db:"property_address"`
	PropertyCity    sql.NullString `json:"property_city,omitempty" db:"property_city"`
	PropertyState   sql.NullString `json:"property_state,omitempty" db:"property_state"`
	PropertyZip     sql.NullString `json:"property_zip,omitempty" db:"property_zip"`
	HomeownerName   sql.NullString `json:"homeowner_name,omitempty" db:"homeowner_name"`
	HomeownerPhone  sql.NullString `json:"homeowner_phone,omitempty" db:"homeowner_phone"`
	HomeownerEmail  sql.NullString `json:"homeowner_email,omitempty" db:"homeowner_email"`
	Tags            []string       `json:"tags,omitempty" db:"tags"`

	// Status
	Status        Status       `json:"status" db:"status"`
	PurchasedDate sql.NullTime `json:"purchased_date,omitempty" db:"purchased_date"`

	// Provenance
	IsSeedData bool `json:"is_seed_data" db:"is_seed_data"`

	// Timestamps
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
	DeletedAt sql.NullTime `json:"deleted_at,omitempty" db:"deleted_at"`
}

// IsStale reports whether the lead sits past its expiration date without
// having been flipped to expired. Expiration is lazy; nothing in the engine
// sweeps leads on a timer, so read paths use this to filter.
func (l *Lead) IsStale(now time.Time) bool {
	return l.Status == StatusAvailable && l.ExpirationDate.Valid && now.After(l.ExpirationDate.Time)
}

// Assignment links an exclusive lead to its contractor. One row is written
// alongside exclusive-channel creation, in the same database transaction.
type Assignment struct {
	ID           int64           `json:"id" db:"id"`
	LeadID       int64           `json:"lead_id" db:"lead_id"`
	ContractorID int64           `json:"contractor_id" db:"contractor_id"`
	State        AssignmentState `json:"state" db:"state"`
	AssignedAt   time.Time       `json:"assigned_at" db:"assigned_at"`
}
