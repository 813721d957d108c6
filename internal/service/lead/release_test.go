package lead

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"leadflow-service/internal/domain/lead"
	"leadflow-service/internal/domain/partner"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestComputeReleaseAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, hours := range lead.AllowedReleaseHours {
		releaseAt, err := ComputeReleaseAt(now, hours)
		assert.NoError(t, err)
		assert.Equal(t, now.Add(time.Duration(hours)*time.Hour), releaseAt)
	}

	for _, hours := range []int{0, -24, 12, 36, 96} {
		_, err := ComputeReleaseAt(now, hours)
		assert.ErrorIs(t, err, xerrors.ErrValidation, "hours %d", hours)
	}
}

func TestVisibleTo(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	networkLead := func(releaseAt *time.Time) *lead.Lead {
		l := &lead.Lead{RoutingChannel: lead.ChannelInternalNetwork}
		if releaseAt != nil {
			l.NetworkReleaseAt = sql.NullTime{Time: *releaseAt, Valid: true}
		}
		return l
	}

	t.Run("Open Market Visible To All", func(t *testing.T) {
		l := &lead.Lead{RoutingChannel: lead.ChannelOpenMarket}
		assert.True(t, VisibleTo(l, 1, partner.TierNetwork, now))
		assert.True(t, VisibleTo(l, 1, partner.TierGeneral, now))
	})

	t.Run("Exclusive Visible Only To Contractor", func(t *testing.T) {
		l := &lead.Lead{
			RoutingChannel:        lead.ChannelExclusive,
			ExclusiveContractorID: sql.NullInt64{Int64: 9, Valid: true},
		}
		assert.True(t, VisibleTo(l, 9, partner.TierNetwork, now))
		assert.False(t, VisibleTo(l, 10, partner.TierNetwork, now))
		assert.False(t, VisibleTo(l, 10, partner.TierGeneral, now))
	})

	t.Run("Network Tier Sees Network Leads Immediately", func(t *testing.T) {
		future := now.Add(24 * time.Hour)
		assert.True(t, VisibleTo(networkLead(&future), 5, partner.TierNetwork, now))
	})

	t.Run("General Tier Waits For Release", func(t *testing.T) {
		future := now.Add(24 * time.Hour)
		past := now.Add(-time.Hour)

		assert.False(t, VisibleTo(networkLead(&future), 5, partner.TierGeneral, now))
		assert.True(t, VisibleTo(networkLead(&past), 5, partner.TierGeneral, now))
		// An exact boundary hit counts as released.
		assert.True(t, VisibleTo(networkLead(&now), 5, partner.TierGeneral, now))
	})

	t.Run("No Boundary Means No Staged Release", func(t *testing.T) {
		assert.True(t, VisibleTo(networkLead(nil), 5, partner.TierGeneral, now))
	})
}

func TestListLeads(t *testing.T) {
	t.Run("Posters See Repository Results Unscoped", func(t *testing.T) {
		leads := new(mockLeadRepo)
		rows := []lead.Lead{*availableLead(1), *availableLead(2)}
		leads.On("List", mock.Anything, mock.MatchedBy(func(f *lead.ListFilters) bool {
			return f.ViewerID == 0
		})).Return(rows, int64(2), nil)
		svc := newTestService(leads, new(mockPartnerRepo))

		got, total, err := svc.ListLeads(context.Background(), brokerPrincipal, &lead.ListFilters{})

		assert.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, int64(2), total)
		leads.AssertExpectations(t)
	})

	t.Run("Contractor Queries Carry Visibility Scope", func(t *testing.T) {
		leads := new(mockLeadRepo)
		partners := new(mockPartnerRepo)

		rows := []lead.Lead{*availableLead(1)}
		leads.On("List", mock.Anything, mock.MatchedBy(func(f *lead.ListFilters) bool {
			return !f.IncludeExpired && !f.IncludeDeleted &&
				f.ViewerID == contractorPrincipal.IdentityID &&
				f.ViewerTier == partner.TierGeneral
		})).Return(rows, int64(7), nil)
		partners.On("FindByID", mock.Anything, contractorPrincipal.IdentityID).
			Return(activePartner(contractorPrincipal.IdentityID, partner.TierGeneral), nil)

		svc := newTestService(leads, partners)

		got, total, err := svc.ListLeads(context.Background(), contractorPrincipal, &lead.ListFilters{
			IncludeExpired: true,
			IncludeDeleted: true,
		})

		assert.NoError(t, err)
		assert.Len(t, got, 1)
		// The total comes straight from the scoped count, never adjusted
		// from page contents.
		assert.Equal(t, int64(7), total)
		leads.AssertExpectations(t)
	})

	t.Run("Network Tier Resolved From Partner Record", func(t *testing.T) {
		leads := new(mockLeadRepo)
		partners := new(mockPartnerRepo)

		leads.On("List", mock.Anything, mock.MatchedBy(func(f *lead.ListFilters) bool {
			return f.ViewerTier == partner.TierNetwork
		})).Return([]lead.Lead{}, int64(0), nil)
		partners.On("FindByID", mock.Anything, contractorPrincipal.IdentityID).
			Return(activePartner(contractorPrincipal.IdentityID, partner.TierNetwork), nil)

		svc := newTestService(leads, partners)

		_, _, err := svc.ListLeads(context.Background(), contractorPrincipal, &lead.ListFilters{})

		assert.NoError(t, err)
		leads.AssertExpectations(t)
	})

	t.Run("Unknown Viewer Falls Back To General Tier", func(t *testing.T) {
		leads := new(mockLeadRepo)
		partners := new(mockPartnerRepo)

		leads.On("List", mock.Anything, mock.MatchedBy(func(f *lead.ListFilters) bool {
			return f.ViewerTier == partner.TierGeneral
		})).Return([]lead.Lead{}, int64(0), nil)
		partners.On("FindByID", mock.Anything, contractorPrincipal.IdentityID).
			Return(nil, xerrors.ErrNotFound)

		svc := newTestService(leads, partners)

		_, _, err := svc.ListLeads(context.Background(), contractorPrincipal, &lead.ListFilters{})

		assert.NoError(t, err)
		leads.AssertExpectations(t)
	})
}

func TestGetLeadVisibility(t *testing.T) {
	exclusiveFor := func(contractorID int64) *lead.Lead {
		l := availableLead(3)
		l.RoutingChannel = lead.ChannelExclusive
		l.IsExclusive = true
		l.ExclusiveContractorID = sql.NullInt64{Int64: contractorID, Valid: true}
		l.BuyerID = sql.NullInt64{Int64: contractorID, Valid: true}
		return l
	}

	t.Run("Contractor Cannot Fetch Foreign Exclusive", func(t *testing.T) {
		leads := new(mockLeadRepo)
		partners := new(mockPartnerRepo)
		leads.On("FindByID", mock.Anything, int64(3)).Return(exclusiveFor(999), nil)
		partners.On("FindByID", mock.Anything, contractorPrincipal.IdentityID).
			Return(activePartner(contractorPrincipal.IdentityID, partner.TierGeneral), nil)
		svc := newTestService(leads, partners)

		_, err := svc.GetLead(context.Background(), contractorPrincipal, 3)

		assert.ErrorIs(t, err, xerrors.ErrNotFound)
	})

	t.Run("Assigned Contractor Fetches Its Exclusive", func(t *testing.T) {
		leads := new(mockLeadRepo)
		partners := new(mockPartnerRepo)
		leads.On("FindByID", mock.Anything, int64(3)).Return(exclusiveFor(contractorPrincipal.IdentityID), nil)
		partners.On("FindByID", mock.Anything, contractorPrincipal.IdentityID).
			Return(activePartner(contractorPrincipal.IdentityID, partner.TierGeneral), nil)
		svc := newTestService(leads, partners)

		l, err := svc.GetLead(context.Background(), contractorPrincipal, 3)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), l.ID)
	})

	t.Run("Poster Fetches Anything Including Deleted", func(t *testing.T) {
		leads := new(mockLeadRepo)
		l := exclusiveFor(999)
		l.DeletedAt = sql.NullTime{Time: time.Now(), Valid: true}
		leads.On("FindByID", mock.Anything, int64(3)).Return(l, nil)
		svc := newTestService(leads, new(mockPartnerRepo))

		got, err := svc.GetLead(context.Background(), brokerPrincipal, 3)

		assert.NoError(t, err)
		assert.True(t, got.DeletedAt.Valid)
	})

	t.Run("Contractor Reads Deleted Lead As Missing", func(t *testing.T) {
		leads := new(mockLeadRepo)
		partners := new(mockPartnerRepo)
		l := availableLead(4)
		l.DeletedAt = sql.NullTime{Time: time.Now(), Valid: true}
		leads.On("FindByID", mock.Anything, int64(4)).Return(l, nil)
		partners.On("FindByID", mock.Anything, contractorPrincipal.IdentityID).
			Return(activePartner(contractorPrincipal.IdentityID, partner.TierGeneral), nil)
		svc := newTestService(leads, partners)

		_, err := svc.GetLead(context.Background(), contractorPrincipal, 4)

		assert.ErrorIs(t, err, xerrors.ErrNotFound)
	})
}
