package port

import "context"

// DrugEntry is a single canonical drug name with its category.
type DrugEntry struct {
	Category string `db:"category"`
	Name     string `db:"name"`
}

// DrugIndexRepository loads the canonical drug vocabulary from persistent
// storage. Implementations return entries grouped by category in a stable
// order.
type DrugIndexRepository interface {
	List(ctx context.Context) ([]DrugEntry, error)
}
