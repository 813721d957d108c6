// internal/repository/postgres/transaction_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"leadflow-service/internal/domain/ledger"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LeadTransactionRepository is read-only: ledger rows are inserted by the
// lead repository inside the purchase transaction and never touched again.
type LeadTransactionRepository struct {
	db *pgxpool.Pool
}

func NewLeadTransactionRepository(db *pgxpool.Pool) *LeadTransactionRepository {
	return &LeadTransactionRepository{db: db}
}

const transactionColumns = `
	id, transaction_reference, lead_id, buyer_id, poster_id, system_type,
	total_amount, platform_take, poster_take, service_fee, currency, created_at
`

func scanTransaction(row rowScanner) (*ledger.LeadTransaction, error) {
	var t ledger.LeadTransaction
	err := row.Scan(
		&t.ID, &t.TransactionReference, &t.LeadID, &t.BuyerID, &t.PosterID, &t.SystemType,
		&t.TotalAmount, &t.PlatformTake, &t.PosterTake, &t.ServiceFee, &t.Currency, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *LeadTransactionRepository) FindByID(ctx context.Context, id int64) (*ledger.LeadTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM lead_transactions WHERE id = $1`

	t, err := scanTransaction(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return t, nil
}

func (r *LeadTransactionRepository) FindByLeadID(ctx context.Context, leadID int64) (*ledger.LeadTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM lead_transactions WHERE lead_id = $1`

	t, err := scanTransaction(r.db.QueryRow(ctx, query, leadID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return t, nil
}

func (r *LeadTransactionRepository) List(ctx context.Context, filters *ledger.ListFilters) ([]ledger.LeadTransaction, int64, error) {
	where, args := buildTransactionFilter(filters)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM lead_transactions `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + ` FROM lead_transactions ` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []ledger.LeadTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, total, nil
}

// Aggregate sums the persisted split amounts over the filtered set. Plain
// grouping and summation; the amounts were fixed at sale time.
func (r *LeadTransactionRepository) Aggregate(ctx context.Context, filters *ledger.ListFilters) (*ledger.RevenueAggregate, error) {
	where, args := buildTransactionFilter(filters)

	query := `
		SELECT COALESCE(SUM(total_amount), 0),
		       COALESCE(SUM(platform_take), 0),
		       COALESCE(SUM(poster_take), 0),
		       COALESCE(SUM(service_fee), 0),
		       COUNT(*)
		FROM lead_transactions ` + where

	var agg ledger.RevenueAggregate
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&agg.Total, &agg.PlatformTake, &agg.PosterTake, &agg.ServiceFee, &agg.Count,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	return &agg, nil
}

func buildTransactionFilter(filters *ledger.ListFilters) (string, []any) {
	conditions := []string{"1=1"}
	var args []any

	if filters.PosterID != 0 {
		args = append(args, filters.PosterID)
		conditions = append(conditions, fmt.Sprintf("poster_id = $%d", len(args)))
	}
	if filters.BuyerID != 0 {
		args = append(args, filters.BuyerID)
		conditions = append(conditions, fmt.Sprintf("buyer_id = $%d", len(args)))
	}
	if filters.SystemType != "" {
		args = append(args, filters.SystemType)
		conditions = append(conditions, fmt.Sprintf("system_type = $%d", len(args)))
	}
	if !filters.From.IsZero() {
		args = append(args, filters.From)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !filters.To.IsZero() {
		args = append(args, filters.To)
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", len(args)))
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}
