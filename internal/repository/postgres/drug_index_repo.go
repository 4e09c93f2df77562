package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"rxtract/internal/port"
)

type drugIndexRepo struct {
	db *sqlx.DB
}

// NewDrugIndexRepo creates a new PostgreSQL-backed DrugIndexRepository.
func NewDrugIndexRepo(db *sqlx.DB) port.DrugIndexRepository {
	return &drugIndexRepo{db: db}
}

func (r *drugIndexRepo) List(ctx context.Context) ([]port.DrugEntry, error) {
	var entries []port.DrugEntry
	err := r.db.SelectContext(ctx, &entries,
		"SELECT category, name FROM drug_index ORDER BY category, name")
	if err != nil {
		return nil, fmt.Errorf("drugIndexRepo.List: %w", err)
	}
	return entries, nil
}
