// internal/repository/postgres/lead_repo.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadflow-service/internal/domain/lead"
	"leadflow-service/internal/domain/ledger"
	"leadflow-service/internal/domain/partner"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type LeadRepository struct {
	db *pgxpool.Pool
}

func NewLeadRepository(db *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{db: db}
}

const leadColumns = `
	id, lead_reference, poster_id, buyer_id, system_type, routing_channel,
	price, currency, is_free_assignment, is_exclusive,
	exclusive_contractor_id, network_release_at, expiration_date,
	title, description, property_address, property_city, property_state, property_zip,
	homeowner_name, homeowner_phone, homeowner_email, tags,
	status, purchased_date, is_seed_data, created_at, updated_at, deleted_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*lead.Lead, error) {
	var l lead.Lead
	var tags []string

	err := row.Scan(
		&l.ID, &l.LeadReference, &l.PosterID, &l.BuyerID, &l.SystemType, &l.RoutingChannel,
		&l.Price, &l.Currency, &l.IsFreeAssignment, &l.IsExclusive,
		&l.ExclusiveContractorID, &l.NetworkReleaseAt, &l.ExpirationDate,
		&l.Title, &l.Description, &l.PropertyAddress, &l.PropertyCity, &l.PropertyState, &l.PropertyZip,
		&l.HomeownerName, &l.HomeownerPhone, &l.HomeownerEmail, pq.Array(&tags),
		&l.Status, &l.PurchasedDate, &l.IsSeedData, &l.CreatedAt, &l.UpdatedAt, &l.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Tags = tags
	return &l, nil
}

// Create persists a non-exclusive lead.
func (r *LeadRepository) Create(ctx context.Context, l *lead.Lead) error {
	return r.insertLead(ctx, r.db, l)
}

// CreateWithAssignment persists an exclusive lead and its assignment row in
// one transaction.
func (r *LeadRepository) CreateWithAssignment(ctx context.Context, l *lead.Lead, a *lead.Assignment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.insertLead(ctx, tx, l); err != nil {
		return err
	}

	a.LeadID = l.ID
	query := `
		INSERT INTO lead_assignments (lead_id, contractor_id, state, assigned_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := tx.QueryRow(ctx, query, a.LeadID, a.ContractorID, a.State, a.AssignedAt).Scan(&a.ID); err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	return tx.Commit(ctx)
}

type execQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *LeadRepository) insertLead(ctx context.Context, q execQuerier, l *lead.Lead) error {
	query := `
		INSERT INTO leads (
			lead_reference, poster_id, buyer_id, system_type, routing_channel,
			price, currency, is_free_assignment, is_exclusive,
			exclusive_contractor_id, network_release_at, expiration_date,
			title, description, property_address, property_city, property_state, property_zip,
			homeowner_name, homeowner_phone, homeowner_email, tags,
			status, is_seed_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		          $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(
		ctx, query,
		l.LeadReference, l.PosterID, l.BuyerID, l.SystemType, l.RoutingChannel,
		l.Price, l.Currency, l.IsFreeAssignment, l.IsExclusive,
		l.ExclusiveContractorID, l.NetworkReleaseAt, l.ExpirationDate,
		l.Title, l.Description, l.PropertyAddress, l.PropertyCity, l.PropertyState, l.PropertyZip,
		l.HomeownerName, l.HomeownerPhone, l.HomeownerEmail, pq.Array(l.Tags),
		l.Status, l.IsSeedData,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

// FindByID returns the lead regardless of its deletion timestamp; callers
// decide how to treat soft-deleted rows.
func (r *LeadRepository) FindByID(ctx context.Context, id int64) (*lead.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	l, err := scanLead(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find lead: %w", err)
	}
	return l, nil
}

func (r *LeadRepository) FindByReference(ctx context.Context, ref string) (*lead.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE lead_reference = $1`

	l, err := scanLead(r.db.QueryRow(ctx, query, ref))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find lead: %w", err)
	}
	return l, nil
}

func (r *LeadRepository) List(ctx context.Context, filters *lead.ListFilters) ([]lead.Lead, int64, error) {
	where, args := buildLeadFilter(filters)

	countQuery := `SELECT COUNT(*) FROM leads ` + where
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	query := `SELECT ` + leadColumns + ` FROM leads ` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []lead.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate leads: %w", err)
	}

	return leads, total, nil
}

func buildLeadFilter(filters *lead.ListFilters) (string, []any) {
	conditions := []string{"1=1"}
	var args []any

	if !filters.IncludeDeleted {
		conditions = append(conditions, "deleted_at IS NULL")
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	} else if !filters.IncludeExpired {
		conditions = append(conditions, "status <> 'expired'")
	}
	if !filters.IncludeExpired {
		// Lazy staleness: available leads past their expiration date are
		// hidden even though nothing flipped their status.
		conditions = append(conditions, "(status <> 'available' OR expiration_date IS NULL OR expiration_date > NOW())")
	}
	if filters.RoutingChannel != "" {
		args = append(args, filters.RoutingChannel)
		conditions = append(conditions, fmt.Sprintf("routing_channel = $%d", len(args)))
	}
	if filters.SystemType != "" {
		args = append(args, filters.SystemType)
		conditions = append(conditions, fmt.Sprintf("system_type = $%d", len(args)))
	}
	if filters.PosterID != 0 {
		args = append(args, filters.PosterID)
		conditions = append(conditions, fmt.Sprintf("poster_id = $%d", len(args)))
	}
	if filters.ViewerID != 0 {
		// Channel visibility for contractor viewers, applied in the query so
		// the count and the page rows come from the same predicate.
		args = append(args, filters.ViewerID)
		viewer := len(args)
		if filters.ViewerTier == partner.TierNetwork {
			conditions = append(conditions,
				fmt.Sprintf("(routing_channel <> 'exclusive' OR exclusive_contractor_id = $%d)", viewer))
		} else {
			conditions = append(conditions, fmt.Sprintf(
				"(routing_channel = 'open_market'"+
					" OR (routing_channel = 'internal_network' AND (network_release_at IS NULL OR network_release_at <= NOW()))"+
					" OR (routing_channel = 'exclusive' AND exclusive_contractor_id = $%d))", viewer))
		}
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// ConfirmPurchase performs the available->purchased flip as a conditional
// write and appends the ledger entry in the same transaction. The WHERE
// clause is the single-sale guard: under concurrent attempts only one update
// matches a row. Exclusive leads carry their buyer from creation, so the
// pre-assigned contractor is allowed through the buyer condition.
func (r *LeadRepository) ConfirmPurchase(ctx context.Context, leadID, buyerID int64, entry *ledger.LeadTransaction) (*lead.Lead, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE leads
		SET status = 'purchased', buyer_id = $2, purchased_date = NOW(), updated_at = NOW()
		WHERE id = $1
		  AND deleted_at IS NULL
		  AND status = 'available'
		  AND is_free_assignment = FALSE
		  AND (buyer_id IS NULL OR buyer_id = $2)
		RETURNING ` + leadColumns

	l, err := scanLead(tx.QueryRow(ctx, query, leadID, buyerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.classifyPurchaseFailure(ctx, leadID, buyerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to purchase lead: %w", err)
	}

	insert := `
		INSERT INTO lead_transactions (
			transaction_reference, lead_id, buyer_id, poster_id, system_type,
			total_amount, platform_take, poster_take, service_fee, currency
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`
	err = tx.QueryRow(
		ctx, insert,
		entry.TransactionReference, entry.LeadID, entry.BuyerID, entry.PosterID, entry.SystemType,
		entry.TotalAmount, entry.PlatformTake, entry.PosterTake, entry.ServiceFee, entry.Currency,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	return l, nil
}

func (r *LeadRepository) classifyPurchaseFailure(ctx context.Context, leadID, buyerID int64) error {
	var status lead.Status
	var deleted, free bool
	var buyer sql.NullInt64
	err := r.db.QueryRow(ctx,
		`SELECT status, deleted_at IS NOT NULL, is_free_assignment, buyer_id FROM leads WHERE id = $1`, leadID,
	).Scan(&status, &deleted, &free, &buyer)
	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to inspect lead: %w", err)
	}
	if deleted {
		return xerrors.ErrNotFound
	}
	if status == lead.StatusAvailable {
		if free {
			return xerrors.Conflictf("lead %d is a free assignment and generates no revenue", leadID)
		}
		if buyer.Valid && buyer.Int64 != buyerID {
			// An available exclusive lead whose buyer slot names someone else.
			return xerrors.Conflictf("lead %d is reserved for another contractor", leadID)
		}
	}
	return xerrors.Conflictf("lead %d is not available for purchase (status %s)", leadID, status)
}

// Expire flips available -> expired. The buyer slot is cleared: the status
// guard excludes purchased leads, so a buyer here can only be an unconsummated
// exclusive pre-assignment, and expired leads carry no active buyer.
func (r *LeadRepository) Expire(ctx context.Context, id int64) (*lead.Lead, error) {
	query := `
		UPDATE leads
		SET status = 'expired', buyer_id = NULL, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL AND status = 'available'
		RETURNING ` + leadColumns

	return r.guardedTransition(ctx, query, "expire", id)
}

// Reactivate flips expired -> available with a fresh expiration window. A
// pre-assigned exclusive gets its reserved buyer back from the assignment
// column; other channels come back with an empty buyer slot.
func (r *LeadRepository) Reactivate(ctx context.Context, id int64, newExpiration time.Time) (*lead.Lead, error) {
	query := `
		UPDATE leads
		SET status = 'available', buyer_id = exclusive_contractor_id, expiration_date = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL AND status = 'expired'
		RETURNING ` + leadColumns

	l, err := scanLead(r.db.QueryRow(ctx, query, id, newExpiration))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.classifyTransitionFailure(ctx, "reactivate", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reactivate lead: %w", err)
	}
	return l, nil
}

// Archive retires an available or expired lead. Purchased leads are retained
// as sold, never archived. The buyer slot is cleared for the same reason as
// in Expire.
func (r *LeadRepository) Archive(ctx context.Context, id int64) (*lead.Lead, error) {
	query := `
		UPDATE leads
		SET status = 'archived', buyer_id = NULL, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL AND status IN ('available', 'expired')
		RETURNING ` + leadColumns

	return r.guardedTransition(ctx, query, "archive", id)
}

func (r *LeadRepository) guardedTransition(ctx context.Context, query, action string, id int64) (*lead.Lead, error) {
	l, err := scanLead(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.classifyTransitionFailure(ctx, action, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s lead: %w", action, err)
	}
	return l, nil
}

func (r *LeadRepository) classifyTransitionFailure(ctx context.Context, action string, id int64) error {
	var status lead.Status
	var deleted bool
	err := r.db.QueryRow(ctx,
		`SELECT status, deleted_at IS NOT NULL FROM leads WHERE id = $1`, id,
	).Scan(&status, &deleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to inspect lead: %w", err)
	}
	if deleted {
		return xerrors.ErrNotFound
	}
	return xerrors.Conflictf("cannot %s lead %d from status %s", action, id, status)
}

// SoftDelete stamps the deletion timestamp; the row and any transaction stay
// behind for audit.
func (r *LeadRepository) SoftDelete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx,
		`UPDATE leads SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to soft-delete lead: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// HardDelete removes a seed row entirely. Assignments go with it via FK
// cascade.
func (r *LeadRepository) HardDelete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *LeadRepository) FindAssignmentByLeadID(ctx context.Context, leadID int64) (*lead.Assignment, error) {
	query := `
		SELECT id, lead_id, contractor_id, state, assigned_at
		FROM lead_assignments
		WHERE lead_id = $1
	`

	var a lead.Assignment
	err := r.db.QueryRow(ctx, query, leadID).Scan(&a.ID, &a.LeadID, &a.ContractorID, &a.State, &a.AssignedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}
	return &a, nil
}
