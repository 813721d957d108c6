// internal/service/lead/routing.go
package lead

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"leadflow-service/internal/domain/lead"
	"leadflow-service/internal/pkg/auth"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// CreateLead validates and normalizes a creation request into one of the
// three distribution channels and persists the resulting lead. Validation is
// ordered; the first failing rule wins and its message is surfaced verbatim.
func (s *LeadService) CreateLead(ctx context.Context, principal auth.Principal, input *lead.CreateLeadInput) (*lead.CreatedLead, error) {
	if !principal.CanPost() {
		return nil, xerrors.Wrap(xerrors.ErrForbidden, "only brokers and admins can post leads")
	}

	now := time.Now()

	plan, err := s.normalizeChannel(ctx, input, now)
	if err != nil {
		return nil, err
	}

	l := s.buildLead(principal.IdentityID, input, plan, now)

	switch p := plan.(type) {
	case lead.ExclusivePlan:
		// An exclusive assignment is a pre-consummated sale to a single
		// eligible buyer: the lead is created already targeted at, and
		// visible only to, that contractor. A companion assignment row is
		// written in the same transaction.
		a := &lead.Assignment{
			ContractorID: p.ContractorID,
			State:        lead.AssignmentAssigned,
			AssignedAt:   now,
		}
		if err := s.leadRepo.CreateWithAssignment(ctx, l, a); err != nil {
			return nil, fmt.Errorf("failed to create exclusive lead: %w", err)
		}
		s.logger.Info("lead created",
			zap.Int64("lead_id", l.ID),
			zap.String("channel", string(l.RoutingChannel)),
			zap.Int64("contractor_id", p.ContractorID),
			zap.Bool("free_assignment", p.Free),
		)
		return &lead.CreatedLead{Lead: l, Assignment: a}, nil

	default:
		if err := s.leadRepo.Create(ctx, l); err != nil {
			return nil, fmt.Errorf("failed to create lead: %w", err)
		}
		s.logger.Info("lead created",
			zap.Int64("lead_id", l.ID),
			zap.String("channel", string(l.RoutingChannel)),
			zap.Float64("price", l.Price),
		)
		return &lead.CreatedLead{Lead: l}, nil
	}
}

// normalizeChannel turns the flat request into a ChannelPlan, enforcing the
// channel rule table in order.
func (s *LeadService) normalizeChannel(ctx context.Context, input *lead.CreateLeadInput, now time.Time) (lead.ChannelPlan, error) {
	if input.SystemType == "" {
		return nil, xerrors.Validationf("service type required")
	}

	switch input.RoutingChannel {
	case lead.ChannelOpenMarket:
		if input.Price <= 0 {
			return nil, xerrors.Validationf("price required for open market")
		}
		return lead.OpenMarketPlan{}, nil

	case lead.ChannelInternalNetwork:
		if !input.IsFreeAssignment && input.Price <= 0 {
			return nil, xerrors.Validationf("price required for open market")
		}
		plan := lead.InternalNetworkPlan{}
		if input.NetworkReleaseHours != nil {
			releaseAt, err := ComputeReleaseAt(now, *input.NetworkReleaseHours)
			if err != nil {
				return nil, err
			}
			plan.ReleaseAt = releaseAt
		}
		return plan, nil

	case lead.ChannelExclusive:
		if input.ExclusiveContractorID == nil {
			return nil, xerrors.Validationf("contractor required for exclusive assignment")
		}
		p, err := s.lookupPartner(ctx, *input.ExclusiveContractorID)
		if err != nil {
			if xerrors.Is(err, xerrors.ErrNotFound) {
				return nil, xerrors.Validationf("contractor %d not found", *input.ExclusiveContractorID)
			}
			return nil, err
		}
		if !p.IsActive() {
			return nil, xerrors.Validationf("contractor %d is not active", p.ID)
		}
		if !input.IsFreeAssignment && input.Price <= 0 {
			return nil, xerrors.Validationf("price required for exclusive assignment")
		}
		return lead.ExclusivePlan{ContractorID: p.ID, Free: input.IsFreeAssignment}, nil

	default:
		return nil, xerrors.Validationf("unknown routing channel %q", input.RoutingChannel)
	}
}

// buildLead materializes the normalized plan into the initial persisted state.
func (s *LeadService) buildLead(posterID int64, input *lead.CreateLeadInput, plan lead.ChannelPlan, now time.Time) *lead.Lead {
	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	l := &lead.Lead{
		LeadReference:  "LD-" + ulid.Make().String(),
		PosterID:       posterID,
		SystemType:     input.SystemType,
		RoutingChannel: plan.Channel(),
		Price:          input.Price,
		Currency:       currency,
		Title:          input.Title,
		Tags:           input.Tags,
		Status:         lead.StatusAvailable,
		IsSeedData:     input.IsSeedData,
		ExpirationDate: sql.NullTime{Time: now.AddDate(0, 0, s.expiryDays), Valid: true},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	setNullString(&l.Description, input.Description)
	setNullString(&l.PropertyAddress, input.PropertyAddress)
	setNullString(&l.PropertyCity, input.PropertyCity)
	setNullString(&l.PropertyState, input.PropertyState)
	setNullString(&l.PropertyZip, input.PropertyZip)
	setNullString(&l.HomeownerName, input.HomeownerName)
	setNullString(&l.HomeownerPhone, input.HomeownerPhone)
	setNullString(&l.HomeownerEmail, input.HomeownerEmail)

	switch p := plan.(type) {
	case lead.InternalNetworkPlan:
		if !p.ReleaseAt.IsZero() {
			l.NetworkReleaseAt = sql.NullTime{Time: p.ReleaseAt, Valid: true}
		}
		if input.IsFreeAssignment {
			l.IsFreeAssignment = true
		}
	case lead.ExclusivePlan:
		l.IsExclusive = true
		l.ExclusiveContractorID = sql.NullInt64{Int64: p.ContractorID, Valid: true}
		// Pre-consummated: the assigned contractor is the buyer from day one.
		l.BuyerID = sql.NullInt64{Int64: p.ContractorID, Valid: true}
		if p.Free {
			l.IsFreeAssignment = true
			l.Price = 0
		}
	}

	return l
}

func setNullString(dst *sql.NullString, v string) {
	if v != "" {
		*dst = sql.NullString{String: v, Valid: true}
	}
}
