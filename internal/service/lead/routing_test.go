package lead

import (
	"context"
	"testing"
	"time"

	"leadflow-service/internal/config"
	"leadflow-service/internal/domain/lead"
	"leadflow-service/internal/domain/partner"
	"leadflow-service/internal/pkg/auth"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/service/revenue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

var (
	brokerPrincipal     = auth.Principal{IdentityID: 7, Roles: []auth.Role{auth.RoleBroker}}
	adminPrincipal      = auth.Principal{IdentityID: 1, Roles: []auth.Role{auth.RoleAdmin}}
	contractorPrincipal = auth.Principal{IdentityID: 42, Roles: []auth.Role{auth.RoleContractor}}
)

func newTestService(leads *mockLeadRepo, partners *mockPartnerRepo) *LeadService {
	splitter := revenue.NewSplitter(config.SplitConfig{
		PlatformRate:   0.30,
		PosterRate:     0.686,
		ServiceFeeRate: 0.02,
	})
	return NewLeadService(leads, partners, splitter, 30, zap.NewNop())
}

func activePartner(id int64, tier partner.PartnerTier) *partner.NetworkPartner {
	return &partner.NetworkPartner{
		ID:          id,
		CompanyName: "Test Contractor",
		Status:      partner.PartnerStatusActive,
		Tier:        tier,
	}
}

func TestCreateLeadValidation(t *testing.T) {
	t.Run("Missing Service Type", func(t *testing.T) {
		svc := newTestService(new(mockLeadRepo), new(mockPartnerRepo))

		_, err := svc.CreateLead(context.Background(), brokerPrincipal, &lead.CreateLeadInput{
			RoutingChannel: lead.ChannelOpenMarket,
			Price:          100,
		})

		assert.ErrorIs(t, err, xerrors.ErrValidation)
		assert.Contains(t, err.Error(), "service type required")
	})

	t.Run("Open Market Requires Price", func(t *testing.T) {
		svc := newTestService(new(mockLeadRepo), new(mockPartnerRepo))

		_, err := svc.CreateLead(context.Background(), brokerPrincipal, &lead.CreateLeadInput{
			SystemType:     "solar",
			RoutingChannel: lead.ChannelOpenMarket,
			Price:          0,
		})

		assert.ErrorIs(t, err, xerrors.ErrValidation)
		assert.Contains(t, err.Error(), "price required for open market")
	})

	t.Run("Internal Network Requires Price Unless Free", func(t *testing.T) {
		svc := newTestService(new(mockLeadRepo), new(mockPartnerRepo))

		_, err := svc.CreateLead(context.Background(), brokerPrincipal, &lead.CreateLeadInput{
			SystemType:     "hvac",
			RoutingChannel: lead.ChannelInternalNetwork,
			Price:          0,
		})

		assert.ErrorIs(t, err, xerrors.ErrValidation)
	})

	t.Run("Exclusive Requires Contractor", func(t *testing.T) {
		svc := newTestService(new(mockLeadRepo), new(mockPartnerRepo))

		_, err := svc.CreateLead(context.Background(), brokerPrincipal, &lead.CreateLeadInput{
			SystemType:     "solar",
			RoutingChannel: lead.ChannelExclusive,
			Price:          100,
		})

		assert.ErrorIs(t, err, xerrors.ErrValidation)
		assert.Contains(t, err.Error(), "contractor required for exclusive assignment")
	})

	t.Run("Exclusive Rejects Inactive Contractor", func(t *testing.T) {
		partners := new(mockPartnerRepo)
		contractorID := int64(9)
		partners.On("FindByID", mock.Anything, contractorID).Return(&partner.NetworkPartner{
			ID:     contractorID,
			Status: partner.PartnerStatusInactive,
		}, nil)
		svc := newTestService(new(mockLeadRepo), partners)

		_, err := svc.CreateLead(context.Background(), brokerPrincipal, &lead.CreateLeadInput{
			SystemType:            "solar",
			RoutingChannel:        lead.ChannelExclusive,
			Price:                 100,
			ExclusiveContractorID: &contractorID,
		})

		assert.ErrorIs(t, err, xerrors.ErrValidation)
	})

	t.Run("Exclusive Rejects Unknown Contractor", func(t *testing.T) {
		partners := new(mockPartnerRepo)
		contractorID := int64(404)
		partners.On("FindByID", mock.Anything, contractorID).Return(nil, xerrors.ErrNotFound)
		svc := newTestService(new(mockLeadRepo), partners)

		_, err := svc.CreateLead(context.Background(), brokerPrincipal, &lead.CreateLeadInput{
			SystemType:            "solar",
			RoutingChannel:        lead.ChannelExclusive,
			Price:                 100,
			ExclusiveContractorID: &contractorID,
		})

		assert.ErrorIs(t, err, xerrors.ErrValidation)
	})

	t.Run("Unknown Channel", func(t *testing.T) {
		svc := newTestService(new(mockLeadRepo), new(mockPartnerRepo))

		_, err := svc.CreateLead(context.Background(), brokerPrincipal, &lead.CreateLeadInput{
			SystemType:     "solar",
			RoutingChannel: "auction",
			Price:          100,
		})

		assert.ErrorIs(t, err, xerrors.ErrValidation)
	})

	t.Run("Contractor Cannot Post", func(t *testing.T) {
		svc := newTestService(new(mockLeadRepo), new(mockPartnerRepo))

		_, err := svc.CreateLead(context.Background(), contractorPrincipal, &lead.CreateLeadInput{
			SystemType:     "solar",
			RoutingChannel: lead.ChannelOpenMarket,
			Price:          100,
		})

		assert.ErrorIs(t, err, xerrors.ErrForbidden)
	})
}

func TestCreateLeadOpenMarket(t *testing.T) {
	leads := new(mockLeadRepo)
	leads.On("Create", mock.Anything, mock.AnythingOfType("*lead.Lead")).Return(nil)
	svc := newTestService(leads, new(mockPartnerRepo))

	before := time.Now()
	created, err := svc.CreateLead(context.Background(), brokerPrincipal, &lead.CreateLeadInput{
		SystemType:     "solar",
		RoutingChannel: lead.ChannelOpenMarket,
		Price:          450,
		Title:          "Rooftop solar",
	})

	assert.NoError(t, err)
	l := created.Lead
	assert.Equal(t, lead.StatusAvailable, l.Status)
	assert.Equal(t, brokerPrincipal.IdentityID, l.PosterID)
	assert.False(t, l.BuyerID.Valid)
	assert.False(t, l.IsExclusive)
	assert.False(t, l.NetworkReleaseAt.Valid)
	assert.True(t, l.ExpirationDate.Valid)
	assert.WithinDuration(t, before.AddDate(0, 0, 30), l.ExpirationDate.Time, 5*time.Second)
	assert.Nil(t, created.Assignment)
	leads.AssertExpectations(t)
}

func TestCreateLeadInternalNetwork(t *testing.T) {
	t.Run("With Release Window", func(t *testing.T) {
		leads := new(mockLeadRepo)
		leads.On("Create", mock.Anything, mock.AnythingOfType("*lead.Lead")).Return(nil)
		svc := newTestService(leads, new(mockPartnerRepo))

		hours := 48
		before := time.Now()
		created, err := svc.CreateLead(context.Background(), adminPrincipal, &lead.CreateLeadInput{
			SystemType:          "hvac",
			RoutingChannel:      lead.ChannelInternalNetwork,
			Price:               200,
			NetworkReleaseHours: &hours,
		})

		assert.NoError(t, err)
		l := created.Lead
		assert.True(t, l.NetworkReleaseAt.Valid)
		assert.WithinDuration(t, before.Add(48*time.Hour), l.NetworkReleaseAt.Time, 5*time.Second)
		assert.False(t, l.BuyerID.Valid)
	})

	t.Run("Without Release Window", func(t *testing.T) {
		leads := new(mockLeadRepo)
		leads.On("Create", mock.Anything, mock.AnythingOfType("*lead.Lead")).Return(nil)
		svc := newTestService(leads, new(mockPartnerRepo))

		created, err := svc.CreateLead(context.Background(), adminPrincipal, &lead.CreateLeadInput{
			SystemType:     "hvac",
			RoutingChannel: lead.ChannelInternalNetwork,
			Price:          200,
		})

		assert.NoError(t, err)
		assert.False(t, created.Lead.NetworkReleaseAt.Valid)
	})

	t.Run("Rejects Unsupported Window", func(t *testing.T) {
		svc := newTestService(new(mockLeadRepo), new(mockPartnerRepo))

		hours := 36
		_, err := svc.CreateLead(context.Background(), adminPrincipal, &lead.CreateLeadInput{
			SystemType:          "hvac",
			RoutingChannel:      lead.ChannelInternalNetwork,
			Price:               200,
			NetworkReleaseHours: &hours,
		})

		assert.ErrorIs(t, err, xerrors.ErrValidation)
	})
}

func TestCreateLeadExclusive(t *testing.T) {
	contractorID := int64(9)

	t.Run("Free Assignment", func(t *testing.T) {
		leads := new(mockLeadRepo)
		partners := new(mockPartnerRepo)
		partners.On("FindByID", mock.Anything, contractorID).Return(activePartner(contractorID, partner.TierNetwork), nil)
		leads.On("CreateWithAssignment", mock.Anything, mock.AnythingOfType("*lead.Lead"), mock.AnythingOfType("*lead.Assignment")).Return(nil)
		svc := newTestService(leads, partners)

		created, err := svc.CreateLead(context.Background(), brokerPrincipal, &lead.CreateLeadInput{
			SystemType:            "solar",
			RoutingChannel:        lead.ChannelExclusive,
			Price:                 250, // forced to zero by the free flag
			IsFreeAssignment:      true,
			ExclusiveContractorID: &contractorID,
		})

		assert.NoError(t, err)
		l := created.Lead
		assert.Equal(t, 0.0, l.Price)
		assert.True(t, l.IsFreeAssignment)
		assert.True(t, l.IsExclusive)
		assert.Equal(t, lead.StatusAvailable, l.Status)
		// Pre-consummated: the contractor is the buyer from creation.
		assert.True(t, l.BuyerID.Valid)
		assert.Equal(t, contractorID, l.BuyerID.Int64)
		assert.Equal(t, contractorID, l.ExclusiveContractorID.Int64)

		assert.NotNil(t, created.Assignment)
		assert.Equal(t, lead.AssignmentAssigned, created.Assignment.State)
		assert.Equal(t, contractorID, created.Assignment.ContractorID)
		leads.AssertExpectations(t)
	})

	t.Run("Paid Assignment Keeps Price", func(t *testing.T) {
		leads := new(mockLeadRepo)
		partners := new(mockPartnerRepo)
		partners.On("FindByID", mock.Anything, contractorID).Return(activePartner(contractorID, partner.TierNetwork), nil)
		leads.On("CreateWithAssignment", mock.Anything, mock.AnythingOfType("*lead.Lead"), mock.AnythingOfType("*lead.Assignment")).Return(nil)
		svc := newTestService(leads, partners)

		created, err := svc.CreateLead(context.Background(), brokerPrincipal, &lead.CreateLeadInput{
			SystemType:            "solar",
			RoutingChannel:        lead.ChannelExclusive,
			Price:                 250,
			ExclusiveContractorID: &contractorID,
		})

		assert.NoError(t, err)
		assert.Equal(t, 250.0, created.Lead.Price)
		assert.False(t, created.Lead.IsFreeAssignment)
	})

	t.Run("Paid Assignment Requires Price", func(t *testing.T) {
		partners := new(mockPartnerRepo)
		partners.On("FindByID", mock.Anything, contractorID).Return(activePartner(contractorID, partner.TierNetwork), nil)
		svc := newTestService(new(mockLeadRepo), partners)

		_, err := svc.CreateLead(context.Background(), brokerPrincipal, &lead.CreateLeadInput{
			SystemType:            "solar",
			RoutingChannel:        lead.ChannelExclusive,
			Price:                 0,
			ExclusiveContractorID: &contractorID,
		})

		assert.ErrorIs(t, err, xerrors.ErrValidation)
	})
}
