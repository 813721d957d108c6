// internal/service/ledger/ledger_service.go
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"leadflow-service/internal/domain/ledger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LedgerService is the read side of the transaction ledger: listing and
// revenue aggregation for reporting. Entries are written by the purchase
// path; nothing here mutates them.
type LedgerService struct {
	repo     ledger.Repository
	cache    *redis.Client // nil disables caching
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewLedgerService(repo ledger.Repository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *LedgerService {
	if cacheTTL <= 0 {
		cacheTTL = 60 * time.Second
	}
	return &LedgerService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (s *LedgerService) GetTransaction(ctx context.Context, id int64) (*ledger.LeadTransaction, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *LedgerService) GetTransactionForLead(ctx context.Context, leadID int64) (*ledger.LeadTransaction, error) {
	return s.repo.FindByLeadID(ctx, leadID)
}

func (s *LedgerService) ListTransactions(ctx context.Context, filters *ledger.ListFilters) ([]ledger.LeadTransaction, int64, error) {
	filters.Normalize()
	return s.repo.List(ctx, filters)
}

// AggregateRevenue sums the persisted split amounts over the filtered set.
// Results are cached briefly; the ledger is append-only, so a stale window
// only ever undercounts the most recent sales.
func (s *LedgerService) AggregateRevenue(ctx context.Context, filters *ledger.ListFilters) (*ledger.RevenueAggregate, error) {
	key := aggregateCacheKey(filters)

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var agg ledger.RevenueAggregate
			if err := json.Unmarshal(raw, &agg); err == nil {
				return &agg, nil
			}
		}
	}

	agg, err := s.repo.Aggregate(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(agg); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("failed to cache revenue aggregate", zap.Error(err))
			}
		}
	}

	return agg, nil
}

func aggregateCacheKey(f *ledger.ListFilters) string {
	return fmt.Sprintf("ledger:agg:%d:%d:%s:%d:%d",
		f.PosterID, f.BuyerID, f.SystemType, f.From.Unix(), f.To.Unix())
}
