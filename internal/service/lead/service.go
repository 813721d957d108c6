// internal/service/lead/service.go
package lead

import (
	"context"
	"fmt"
	"time"

	"leadflow-service/internal/domain/lead"
	"leadflow-service/internal/domain/ledger"
	"leadflow-service/internal/domain/partner"
	"leadflow-service/internal/pkg/auth"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/service/revenue"

	"go.uber.org/zap"
)

// LeadService is the routing and lifecycle engine. Creation requests pass
// through channel normalization (routing.go), lifecycle transitions are
// guarded conditional writes (lifecycle.go), and network visibility is
// derived, never stored (release.go).
type LeadService struct {
	leadRepo    lead.Repository
	partnerRepo partner.Repository
	splitter    *revenue.Splitter
	logger      *zap.Logger

	expiryDays int
}

func NewLeadService(
	leadRepo lead.Repository,
	partnerRepo partner.Repository,
	splitter *revenue.Splitter,
	expiryDays int,
	logger *zap.Logger,
) *LeadService {
	if expiryDays <= 0 {
		expiryDays = lead.DefaultExpiryDays
	}
	return &LeadService{
		leadRepo:    leadRepo,
		partnerRepo: partnerRepo,
		splitter:    splitter,
		logger:      logger,
		expiryDays:  expiryDays,
	}
}

// PurchaseResult pairs the purchased lead with its ledger entry.
type PurchaseResult struct {
	Lead        *lead.Lead              `json:"lead"`
	Transaction *ledger.LeadTransaction `json:"transaction"`
}

// GetLead returns a lead by id. For posters, soft-deleted rows are still
// returned (direct lookup stays possible for audit); contractors go through
// the same visibility predicate as listings and read a hidden or deleted
// lead as missing.
func (s *LeadService) GetLead(ctx context.Context, principal auth.Principal, id int64) (*lead.Lead, error) {
	l, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	if principal.CanPost() {
		return l, nil
	}
	tier := s.viewerTier(ctx, principal.IdentityID)
	if l.DeletedAt.Valid || !VisibleTo(l, principal.IdentityID, tier, time.Now()) {
		return nil, xerrors.Wrap(xerrors.ErrNotFound, "lead not visible")
	}
	return l, nil
}

// GetLeadAssignment returns the assignment record for an exclusive lead.
func (s *LeadService) GetLeadAssignment(ctx context.Context, leadID int64) (*lead.Assignment, error) {
	a, err := s.leadRepo.FindAssignmentByLeadID(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, nil
}

// viewerTier resolves a contractor's partner tier. Unknown or inactive
// viewers read as general tier.
func (s *LeadService) viewerTier(ctx context.Context, viewerID int64) partner.PartnerTier {
	p, err := s.partnerRepo.FindByID(ctx, viewerID)
	if err != nil || !p.IsActive() {
		return partner.TierGeneral
	}
	return p.Tier
}

func (s *LeadService) lookupPartner(ctx context.Context, id int64) (*partner.NetworkPartner, error) {
	p, err := s.partnerRepo.FindByID(ctx, id)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to look up contractor: %w", err)
	}
	return p, nil
}
