package store

import (
	"context"

	"github.com/atakandgn/company-management-system/types"
	"github.com/jmoiron/sqlx"
)

const companyColumns = `id, name, legal_number, country, website, created_at, updated_at`

// CompanyRepository handles persistence for companies.
type CompanyRepository struct {
	db    *sqlx.DB
	table table[types.Company]
}

func NewCompanyRepository(db *sqlx.DB) *CompanyRepository {
	return &CompanyRepository{
		db: db,
		table: table[types.Company]{
			db:       db,
			name:     "companies",
			from:     "companies",
			columns:  companyColumns,
			idColumn: "id",
			sort:     "created_at ASC, id ASC",
		},
	}
}

func companyFilter(f types.CompanyFilter) Filter {
	return Filter{}.
		ContainsFold("name", f.Name).
		Eq("country", f.Country)
}

// List returns one window of the companies matching f and the total number
// of matches.
func (r *CompanyRepository) List(ctx context.Context, f types.CompanyFilter, offset, limit int) ([]types.Company, int, error) {
	filter := companyFilter(f)
	total, err := r.table.count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	companies, err := r.table.find(ctx, filter, FindOptions{Skip: offset, Limit: limit})
	if err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id string) (types.Company, error) {
	return r.table.findByID(ctx, id)
}

// HasDuplicate reports whether any company already uses name, legalNumber,
// or a non-empty website.
func (r *CompanyRepository) HasDuplicate(ctx context.Context, name, legalNumber, website string) (bool, error) {
	const query = `
		SELECT COUNT(1)
		FROM companies
		WHERE name = ? OR legal_number = ? OR (CAST(? AS TEXT) <> '' AND website = ?)`
	var n int
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(query), name, legalNumber, website, website); err != nil {
		return false, classify(err)
	}
	return n > 0, nil
}

func (r *CompanyRepository) Create(ctx context.Context, company types.Company) (types.Company, error) {
	const query = `
		INSERT INTO companies (id, name, legal_number, country, website, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(query),
		company.ID,
		company.Name,
		company.LegalNumber,
		company.Country,
		company.Website,
		company.CreatedAt,
		company.UpdatedAt,
	); err != nil {
		return types.Company{}, classify(err)
	}
	return company, nil
}

// Update overwrites the mutable fields of the company with company.ID.
func (r *CompanyRepository) Update(ctx context.Context, company types.Company) (types.Company, error) {
	const query = `
		UPDATE companies
		SET name = ?,
			legal_number = ?,
			country = ?,
			website = ?,
			updated_at = ?
		WHERE id = ?`
	if err := r.table.exec(
		ctx,
		query,
		company.Name,
		company.LegalNumber,
		company.Country,
		company.Website,
		company.UpdatedAt,
		company.ID,
	); err != nil {
		return types.Company{}, err
	}
	return r.GetByID(ctx, company.ID)
}

func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	return r.table.deleteByID(ctx, id)
}

// Recent returns the n most recently created companies, newest first.
func (r *CompanyRepository) Recent(ctx context.Context, n int) ([]types.Company, error) {
	return r.table.find(ctx, Filter{}, FindOptions{Limit: n, Sort: "created_at DESC, id DESC"})
}

// CountByCountry returns up to n countries with the most companies. Ties
// keep the order in which the countries first appeared.
func (r *CompanyRepository) CountByCountry(ctx context.Context, n int) ([]types.CountryCount, error) {
	const query = `
		SELECT country, COUNT(1) AS count
		FROM companies
		GROUP BY country
		ORDER BY COUNT(1) DESC, MIN(created_at) ASC, country ASC
		LIMIT ?`
	counts := []types.CountryCount{}
	if err := r.db.SelectContext(ctx, &counts, r.db.Rebind(query), n); err != nil {
		return nil, classify(err)
	}
	return counts, nil
}
