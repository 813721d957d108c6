// internal/service/lead/release.go
package lead

import (
	"context"
	"fmt"
	"time"

	"leadflow-service/internal/domain/lead"
	"leadflow-service/internal/domain/partner"
	"leadflow-service/internal/pkg/auth"
	xerrors "leadflow-service/internal/pkg/errors"
)

// ComputeReleaseAt derives the staged-release boundary for an internal
// network lead. Only the enumerated windows are accepted; no window means no
// staged release.
func ComputeReleaseAt(now time.Time, hours int) (time.Time, error) {
	for _, allowed := range lead.AllowedReleaseHours {
		if hours == allowed {
			return now.Add(time.Duration(hours) * time.Hour), nil
		}
	}
	return time.Time{}, xerrors.Validationf("network release window must be one of %v hours", lead.AllowedReleaseHours)
}

// VisibleTo is the advisory visibility predicate applied by listing paths.
// Exclusive leads show only to their contractor. Internal network leads show
// to network-tier contractors from creation and to everyone once the release
// boundary passes (or immediately when no staged release was set). Open
// market leads show to everyone.
func VisibleTo(l *lead.Lead, viewerID int64, tier partner.PartnerTier, now time.Time) bool {
	switch l.RoutingChannel {
	case lead.ChannelExclusive:
		return l.ExclusiveContractorID.Valid && l.ExclusiveContractorID.Int64 == viewerID
	case lead.ChannelInternalNetwork:
		if tier == partner.TierNetwork {
			return true
		}
		if !l.NetworkReleaseAt.Valid {
			// Absence of a boundary reads as "no staged release".
			return true
		}
		return !now.Before(l.NetworkReleaseAt.Time)
	default:
		return true
	}
}

// ListLeads returns leads matching the filters. Admin and broker callers see
// everything the filters allow; contractor callers get the visibility
// predicate applied inside the listing query, so page contents, pagination,
// and the reported total all agree.
func (s *LeadService) ListLeads(ctx context.Context, principal auth.Principal, filters *lead.ListFilters) ([]lead.Lead, int64, error) {
	filters.Normalize()

	if principal.CanPost() {
		return s.leadRepo.List(ctx, filters)
	}

	// Contractor view: hide stale rows regardless of what was asked for,
	// and scope the query to what this viewer may see.
	filters.IncludeExpired = false
	filters.IncludeDeleted = false
	filters.ViewerID = principal.IdentityID
	filters.ViewerTier = s.viewerTier(ctx, principal.IdentityID)

	leads, total, err := s.leadRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, total, nil
}
