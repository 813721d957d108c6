// internal/service/lead/lifecycle.go
package lead

import (
	"context"
	"fmt"
	"time"

	"leadflow-service/internal/domain/lead"
	"leadflow-service/internal/domain/ledger"
	"leadflow-service/internal/pkg/auth"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// ConfirmPurchase applies the available->purchased transition and records the
// sale in the ledger, both inside one storage transaction. The transition is
// a conditional write at the repository: two concurrent purchase attempts on
// the same lead resolve to exactly one winner, the loser gets ErrConflict.
//
// The amount is taken as already authorized by the external payment
// processor; this engine only splits and records it.
func (s *LeadService) ConfirmPurchase(ctx context.Context, principal auth.Principal, leadID int64, amount float64) (*PurchaseResult, error) {
	if amount <= 0 {
		return nil, xerrors.Validationf("sale amount must be positive")
	}

	l, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lead: %w", err)
	}
	if l.DeletedAt.Valid {
		return nil, xerrors.Wrap(xerrors.ErrNotFound, "lead deleted")
	}
	if l.Status != lead.StatusAvailable {
		return nil, xerrors.Conflictf("lead %d is %s, not available", leadID, l.Status)
	}
	if l.IsFreeAssignment {
		// A free assignment generates zero revenue; there is nothing to
		// split and no ledger entry to write.
		return nil, xerrors.Conflictf("lead %d is a free assignment and generates no revenue", leadID)
	}
	if l.BuyerID.Valid && l.BuyerID.Int64 != principal.IdentityID {
		return nil, xerrors.Conflictf("lead %d is reserved for another contractor", leadID)
	}

	buyerID := principal.IdentityID

	split := s.splitter.Split(amount)
	if imbalance := split.Imbalance(amount); imbalance != 0 {
		// Known policy quirk: the configured rates plus independent rounding
		// mean the components need not sum to the charged total. Recorded as
		// computed; flagged here, never corrected.
		s.logger.Warn("revenue split does not sum to sale amount",
			zap.Int64("lead_id", leadID),
			zap.Float64("total_amount", amount),
			zap.Float64("imbalance", imbalance),
		)
	}

	entry := &ledger.LeadTransaction{
		TransactionReference: "TXN-" + ulid.Make().String(),
		LeadID:               leadID,
		BuyerID:              buyerID,
		PosterID:             l.PosterID,
		SystemType:           l.SystemType,
		TotalAmount:          amount,
		PlatformTake:         split.PlatformTake,
		PosterTake:           split.PosterTake,
		ServiceFee:           split.ServiceFee,
		Currency:             l.Currency,
	}

	updated, err := s.leadRepo.ConfirmPurchase(ctx, leadID, buyerID, entry)
	if err != nil {
		return nil, err
	}

	s.logger.Info("lead purchased",
		zap.Int64("lead_id", leadID),
		zap.Int64("buyer_id", buyerID),
		zap.Float64("total_amount", amount),
		zap.String("transaction_reference", entry.TransactionReference),
	)

	return &PurchaseResult{Lead: updated, Transaction: entry}, nil
}

// checkTransition pre-validates a lifecycle flip so an illegal transition
// fails with a ConflictError before the row is touched. The repository
// repeats the guard as a conditional write; that is what settles races.
func (s *LeadService) checkTransition(ctx context.Context, id int64, action string, from ...lead.Status) error {
	l, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if l.DeletedAt.Valid {
		return xerrors.Wrap(xerrors.ErrNotFound, "lead deleted")
	}
	for _, status := range from {
		if l.Status == status {
			return nil
		}
	}
	return xerrors.Conflictf("cannot %s lead %d from status %s", action, id, l.Status)
}

// ExpireLead flips an available lead to expired. Expiration is otherwise
// lazy: nothing sweeps leads past their expiration date on a timer, read
// paths filter them instead.
func (s *LeadService) ExpireLead(ctx context.Context, id int64) (*lead.Lead, error) {
	if err := s.checkTransition(ctx, id, "expire", lead.StatusAvailable); err != nil {
		return nil, err
	}
	l, err := s.leadRepo.Expire(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("lead expired", zap.Int64("lead_id", id))
	return l, nil
}

// ReactivateLead returns an expired lead to the marketplace with a fresh
// expiration window. Only non-purchased leads ever reach expired; a
// pre-assigned exclusive gets its reserved buyer back from the assignment.
func (s *LeadService) ReactivateLead(ctx context.Context, id int64) (*lead.Lead, error) {
	if err := s.checkTransition(ctx, id, "reactivate", lead.StatusExpired); err != nil {
		return nil, err
	}
	newExpiration := time.Now().AddDate(0, 0, s.expiryDays)
	l, err := s.leadRepo.Reactivate(ctx, id, newExpiration)
	if err != nil {
		return nil, err
	}
	s.logger.Info("lead reactivated",
		zap.Int64("lead_id", id),
		zap.Time("expiration_date", newExpiration),
	)
	return l, nil
}

// ArchiveLead retires a lead from circulation. Legal from available or
// expired; a sold lead is retained, not archived.
func (s *LeadService) ArchiveLead(ctx context.Context, id int64) (*lead.Lead, error) {
	if err := s.checkTransition(ctx, id, "archive", lead.StatusAvailable, lead.StatusExpired); err != nil {
		return nil, err
	}
	l, err := s.leadRepo.Archive(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("lead archived", zap.Int64("lead_id", id))
	return l, nil
}

// DeleteLead removes a lead per its provenance: seed rows are hard-deleted,
// organic rows get a deletion timestamp and stay retrievable by id. Ledger
// entries are retained either way for audit.
func (s *LeadService) DeleteLead(ctx context.Context, id int64) error {
	l, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if l.DeletedAt.Valid {
		// Already soft-deleted; nothing to do.
		return nil
	}

	if l.IsSeedData {
		if err := s.leadRepo.HardDelete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete seed lead: %w", err)
		}
		s.logger.Info("seed lead removed", zap.Int64("lead_id", id))
		return nil
	}

	if err := s.leadRepo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	s.logger.Info("lead soft-deleted", zap.Int64("lead_id", id))
	return nil
}
