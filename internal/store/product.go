package store

import (
	"context"

	"github.com/atakandgn/company-management-system/types"
	"github.com/jmoiron/sqlx"
)

const productColumns = `
	p.id, p.name, p.category, p.amount, p.unit, p.company_id, p.created_at, p.updated_at,
	c.name AS company_name, c.country AS company_country,
	c.website AS company_website, c.legal_number AS company_legal_number`

// productRow is a product joined with its owning company.
type productRow struct {
	types.Product
	CompanyName        string `db:"company_name"`
	CompanyCountry     string `db:"company_country"`
	CompanyWebsite     string `db:"company_website"`
	CompanyLegalNumber string `db:"company_legal_number"`
}

func (row productRow) product() types.Product {
	p := row.Product
	p.Company = &types.CompanySummary{
		ID:          p.CompanyID,
		Name:        row.CompanyName,
		Country:     row.CompanyCountry,
		Website:     row.CompanyWebsite,
		LegalNumber: row.CompanyLegalNumber,
	}
	return p
}

func toProducts(rows []productRow) []types.Product {
	products := make([]types.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.product())
	}
	return products
}

// ProductRepository handles persistence for products. Reads join the owning
// company so every returned product carries its company summary.
type ProductRepository struct {
	db    *sqlx.DB
	table table[productRow]
}

func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{
		db: db,
		table: table[productRow]{
			db:       db,
			name:     "products",
			from:     "products p JOIN companies c ON c.id = p.company_id",
			columns:  productColumns,
			idColumn: "p.id",
			sort:     "p.created_at ASC, p.id ASC",
		},
	}
}

func productFilter(f types.ProductFilter) Filter {
	return Filter{}.
		ContainsFold("p.name", f.Name).
		Eq("p.company_id", f.CompanyID)
}

func (r *ProductRepository) List(ctx context.Context, f types.ProductFilter, offset, limit int) ([]types.Product, int, error) {
	filter := productFilter(f)
	total, err := r.table.count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.table.find(ctx, filter, FindOptions{Skip: offset, Limit: limit})
	if err != nil {
		return nil, 0, err
	}
	return toProducts(rows), total, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (types.Product, error) {
	row, err := r.table.findByID(ctx, id)
	if err != nil {
		return types.Product{}, err
	}
	return row.product(), nil
}

// Upsert inserts product, or adds its amount to the existing row with the
// same name, category and company. The boolean reports whether a new row
// was created. product.ID is the id used when a row is created.
func (r *ProductRepository) Upsert(ctx context.Context, product types.Product) (types.Product, bool, error) {
	const query = `
		INSERT INTO products (id, name, category, amount, unit, company_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name, category, company_id) DO UPDATE
		SET amount = products.amount + excluded.amount,
			updated_at = excluded.updated_at
		RETURNING id`
	var id string
	if err := r.db.GetContext(
		ctx,
		&id,
		r.db.Rebind(query),
		product.ID,
		product.Name,
		product.Category,
		product.Amount,
		product.Unit,
		product.CompanyID,
		product.CreatedAt,
		product.UpdatedAt,
	); err != nil {
		return types.Product{}, false, classify(err)
	}

	stored, err := r.GetByID(ctx, id)
	if err != nil {
		return types.Product{}, false, err
	}
	return stored, id == product.ID, nil
}

// Update overwrites name, category and amount of the product with
// product.ID.
func (r *ProductRepository) Update(ctx context.Context, product types.Product) (types.Product, error) {
	const query = `
		UPDATE products
		SET name = ?,
			category = ?,
			amount = ?,
			updated_at = ?
		WHERE id = ?`
	if err := r.table.exec(
		ctx,
		query,
		product.Name,
		product.Category,
		product.Amount,
		product.UpdatedAt,
		product.ID,
	); err != nil {
		return types.Product{}, err
	}
	return r.GetByID(ctx, product.ID)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.table.deleteByID(ctx, id)
}

// CountByCompany returns how many products reference companyID.
func (r *ProductRepository) CountByCompany(ctx context.Context, companyID string) (int, error) {
	if companyID == "" {
		return 0, nil
	}
	return r.table.count(ctx, Filter{}.Eq("p.company_id", companyID))
}

// Recent returns the n most recently created products, newest first.
func (r *ProductRepository) Recent(ctx context.Context, n int) ([]types.Product, error) {
	rows, err := r.table.find(ctx, Filter{}, FindOptions{Limit: n, Sort: "p.created_at DESC, p.id DESC"})
	if err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

// TotalsByCategory sums product amounts per category, ordered by when each
// category first appeared.
func (r *ProductRepository) TotalsByCategory(ctx context.Context) ([]types.CategoryAmount, error) {
	const query = `
		SELECT category, SUM(amount) AS amount
		FROM products
		GROUP BY category
		ORDER BY MIN(created_at) ASC, category ASC`
	totals := []types.CategoryAmount{}
	if err := r.db.SelectContext(ctx, &totals, query); err != nil {
		return nil, classify(err)
	}
	return totals, nil
}
