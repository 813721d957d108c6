// internal/domain/lead/dto.go
package lead

import "leadflow-service/internal/domain/partner"

// CreateLeadInput is the raw creation request before channel normalization.
type CreateLeadInput struct {
	SystemType     string         `json:"system_type"`
	RoutingChannel RoutingChannel `json:"routing_channel"`
	Price          float64        `json:"price"`
	Currency       string         `json:"currency"`

	// Channel-specific, validated per channel
	ExclusiveContractorID *int64 `json:"exclusive_contractor_id,omitempty"`
	IsFreeAssignment      bool   `json:"is_free_assignment,omitempty"`
	NetworkReleaseHours   *int   `json:"network_release_hours,omitempty"`

	// Passthrough descriptive fields
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	PropertyAddress string   `json:"property_address,omitempty"`
	PropertyCity    string   `json:"property_city,omitempty"`
	PropertyState   string   `json:"property_state,omitempty"`
	PropertyZip     string   `json:"property_zip,omitempty"`
	HomeownerName   string   `json:"homeowner_name,omitempty"`
	HomeownerPhone  string   `json:"homeowner_phone,omitempty"`
	HomeownerEmail  string   `json:"homeowner_email,omitempty"`
	Tags            []string `json:"tags,omitempty"`

	IsSeedData bool `json:"is_seed_data,omitempty"`
}

// ListFilters narrows marketplace and administrative listings.
type ListFilters struct {
	Status         Status         `form:"status"`
	RoutingChannel RoutingChannel `form:"routing_channel"`
	SystemType     string         `form:"system_type"`
	PosterID       int64          `form:"poster_id"`
	IncludeExpired bool           `form:"include_expired"`
	IncludeDeleted bool           `form:"include_deleted"`

	// Viewer scoping, set by the service for contractor callers, never bound
	// from the request. Applies the channel visibility predicate inside the
	// query so page contents and the total count agree.
	ViewerID   int64               `form:"-"`
	ViewerTier partner.PartnerTier `form:"-"`

	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

func (f *ListFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
}

// PurchaseInput carries a confirmed sale. The amount is assumed to have been
// authorized by the external payment processor before this engine runs.
type PurchaseInput struct {
	Amount float64 `json:"amount"`
}

// CreatedLead pairs the persisted lead with the assignment row written for
// the exclusive channel, when there is one.
type CreatedLead struct {
	Lead       *Lead       `json:"lead"`
	Assignment *Assignment `json:"assignment,omitempty"`
}
