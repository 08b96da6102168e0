package types

import "time"

// Product is a stock row owned by a company. There is at most one product
// per (Name, Category, CompanyID); adding the same product again increases
// Amount instead of creating a second row.
type Product struct {
	// ID is the opaque unique identifier of the product row.
	ID string `json:"id" db:"id"`

	// Name is the product name.
	Name string `json:"name" db:"name"`

	// Category is drawn from the category reference list but is stored as
	// free text.
	Category string `json:"category" db:"category"`

	// Amount is the accumulated quantity in stock, expressed in Unit.
	Amount float64 `json:"amount" db:"amount"`

	// Unit is drawn from the unit reference list (e.g. "pcs", "kg").
	Unit string `json:"unit" db:"unit"`

	// CompanyID references the owning company.
	CompanyID string `json:"companyId" db:"company_id"`

	// Company is populated on listings with the owning company's summary.
	Company *CompanySummary `json:"company,omitempty" db:"-"`

	// CreatedAt is the timestamp at which the row was first added.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is refreshed on every update or merge.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CategoryAmount is the summed stock amount of one category.
type CategoryAmount struct {
	Category string  `json:"category" db:"category"`
	Amount   float64 `json:"amount" db:"amount"`
}

// ProductFilter narrows a product listing. Blank fields do not filter.
type ProductFilter struct {
	Name      string
	CompanyID string
}
