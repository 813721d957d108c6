// internal/domain/lead/repository.go
package lead

import (
	"context"
	"time"

	"leadflow-service/internal/domain/ledger"
)

type Repository interface {
	// Creation
	Create(ctx context.Context, l *Lead) error
	// CreateWithAssignment persists an exclusive lead and its assignment row
	// in a single database transaction.
	CreateWithAssignment(ctx context.Context, l *Lead, a *Assignment) error

	// Reads. FindByID returns soft-deleted rows (direct lookup stays possible
	// for audit); List excludes them unless the filter says otherwise.
	FindByID(ctx context.Context, id int64) (*Lead, error)
	FindByReference(ctx context.Context, ref string) (*Lead, error)
	List(ctx context.Context, filters *ListFilters) ([]Lead, int64, error)

	// ConfirmPurchase performs the available->purchased transition as a
	// conditional write (status must still be available and the buyer slot
	// empty or already holding this buyer, which is how a paid exclusive
	// lead gets consummated) and appends the ledger entry in the same
	// transaction. Returns ErrConflict when the lead was already sold or
	// otherwise not available, ErrNotFound when it does not exist.
	ConfirmPurchase(ctx context.Context, leadID, buyerID int64, entry *ledger.LeadTransaction) (*Lead, error)

	// Guarded transitions; each is a conditional write on current status.
	Expire(ctx context.Context, id int64) (*Lead, error)
	Reactivate(ctx context.Context, id int64, newExpiration time.Time) (*Lead, error)
	Archive(ctx context.Context, id int64) (*Lead, error)

	// Deletion per provenance: seed rows are removed, organic rows keep their
	// record (and any transaction) behind a deletion timestamp.
	SoftDelete(ctx context.Context, id int64) error
	HardDelete(ctx context.Context, id int64) error

	FindAssignmentByLeadID(ctx context.Context, leadID int64) (*Assignment, error)
}
