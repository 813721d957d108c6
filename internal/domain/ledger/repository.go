// internal/domain/ledger/repository.go
package ledger

import "context"

// Repository is the read side of the ledger. Entries are written by the lead
// repository inside the purchase transaction; nothing updates or deletes them.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*LeadTransaction, error)
	FindByLeadID(ctx context.Context, leadID int64) (*LeadTransaction, error)
	List(ctx context.Context, filters *ListFilters) ([]LeadTransaction, int64, error)
	Aggregate(ctx context.Context, filters *ListFilters) (*RevenueAggregate, error)
}
