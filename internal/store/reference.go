package store

import (
	"context"

	"github.com/atakandgn/company-management-system/types"
	"github.com/jmoiron/sqlx"
)

// ReferenceRepository reads the seeded unit and category lists.
type ReferenceRepository struct {
	units      table[types.Unit]
	categories table[types.Category]
}

func NewReferenceRepository(db *sqlx.DB) *ReferenceRepository {
	return &ReferenceRepository{
		units:      table[types.Unit]{db: db, name: "units", from: "units", columns: "id, name", idColumn: "id", sort: "name ASC"},
		categories: table[types.Category]{db: db, name: "categories", from: "categories", columns: "id, name", idColumn: "id", sort: "name ASC"},
	}
}

func (r *ReferenceRepository) Units(ctx context.Context) ([]types.Unit, error) {
	return r.units.find(ctx, Filter{}, FindOptions{})
}

func (r *ReferenceRepository) Categories(ctx context.Context) ([]types.Category, error) {
	return r.categories.find(ctx, Filter{}, FindOptions{})
}
