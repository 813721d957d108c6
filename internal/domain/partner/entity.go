// internal/domain/partner/entity.go
package partner

import (
	"context"
	"time"
)

type PartnerStatus string

const (
	PartnerStatusActive   PartnerStatus = "active"
	PartnerStatusInactive PartnerStatus = "inactive"
)

type PartnerTier string

const (
	TierNetwork PartnerTier = "network"
	TierGeneral PartnerTier = "general"
)

// NetworkPartner is an external contractor identity. The engine only reads
// partner records; it never mutates them.
type NetworkPartner struct {
	ID          int64         `json:"id" db:"id"`
	CompanyName string        `json:"company_name" db:"company_name"`
	Status      PartnerStatus `json:"status" db:"status"`
	Tier        PartnerTier   `json:"tier" db:"tier"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}

func (p *NetworkPartner) IsActive() bool {
	return p.Status == PartnerStatusActive
}

type Repository interface {
	FindByID(ctx context.Context, id int64) (*NetworkPartner, error)
}
