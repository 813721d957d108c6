// internal/repository/postgres/partner_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"leadflow-service/internal/domain/partner"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NetworkPartnerRepository reads contractor identities. Partner records are
// owned by the identity service; this engine never writes them.
type NetworkPartnerRepository struct {
	db *pgxpool.Pool
}

func NewNetworkPartnerRepository(db *pgxpool.Pool) *NetworkPartnerRepository {
	return &NetworkPartnerRepository{db: db}
}

func (r *NetworkPartnerRepository) FindByID(ctx context.Context, id int64) (*partner.NetworkPartner, error) {
	query := `
		SELECT id, company_name, status, tier, created_at
		FROM network_partners
		WHERE id = $1
	`

	var p partner.NetworkPartner
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.CompanyName, &p.Status, &p.Tier, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find partner: %w", err)
	}
	return &p, nil
}
