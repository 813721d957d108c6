package lead

import (
	"context"
	"time"

	"leadflow-service/internal/domain/lead"
	"leadflow-service/internal/domain/ledger"
	"leadflow-service/internal/domain/partner"

	"github.com/stretchr/testify/mock"
)

type mockLeadRepo struct {
	mock.Mock
}

func (m *mockLeadRepo) Create(ctx context.Context, l *lead.Lead) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *mockLeadRepo) CreateWithAssignment(ctx context.Context, l *lead.Lead, a *lead.Assignment) error {
	args := m.Called(ctx, l, a)
	return args.Error(0)
}

func (m *mockLeadRepo) FindByID(ctx context.Context, id int64) (*lead.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lead.Lead), args.Error(1)
}

func (m *mockLeadRepo) FindByReference(ctx context.Context, ref string) (*lead.Lead, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lead.Lead), args.Error(1)
}

func (m *mockLeadRepo) List(ctx context.Context, filters *lead.ListFilters) ([]lead.Lead, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]lead.Lead), args.Get(1).(int64), args.Error(2)
}

func (m *mockLeadRepo) ConfirmPurchase(ctx context.Context, leadID, buyerID int64, entry *ledger.LeadTransaction) (*lead.Lead, error) {
	args := m.Called(ctx, leadID, buyerID, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lead.Lead), args.Error(1)
}

func (m *mockLeadRepo) Expire(ctx context.Context, id int64) (*lead.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lead.Lead), args.Error(1)
}

func (m *mockLeadRepo) Reactivate(ctx context.Context, id int64, newExpiration time.Time) (*lead.Lead, error) {
	args := m.Called(ctx, id, newExpiration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lead.Lead), args.Error(1)
}

func (m *mockLeadRepo) Archive(ctx context.Context, id int64) (*lead.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lead.Lead), args.Error(1)
}

func (m *mockLeadRepo) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockLeadRepo) HardDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockLeadRepo) FindAssignmentByLeadID(ctx context.Context, leadID int64) (*lead.Assignment, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lead.Assignment), args.Error(1)
}

type mockPartnerRepo struct {
	mock.Mock
}

func (m *mockPartnerRepo) FindByID(ctx context.Context, id int64) (*partner.NetworkPartner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.NetworkPartner), args.Error(1)
}
