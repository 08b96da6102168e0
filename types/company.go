package types

import "time"

// Company represents a business registered in the inventory system.
// Products are always owned by exactly one company.
type Company struct {
	// ID is the opaque unique identifier of the company.
	ID string `json:"id" db:"id"`

	// Name is the unique display name of the company.
	Name string `json:"name" db:"name"`

	// LegalNumber is the unique legal registration number.
	LegalNumber string `json:"legalNumber" db:"legal_number"`

	// Country is the free-text country the company operates from.
	Country string `json:"country" db:"country"`

	// Website is optional. When set it is unique among companies.
	Website string `json:"website,omitempty" db:"website"`

	// CreatedAt is the timestamp at which the company was added.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the company.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CompanySummary is the subset of company fields joined into product
// listings at read time.
type CompanySummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	Website     string `json:"website,omitempty"`
	LegalNumber string `json:"legalNumber"`
}

// CountryCount is one entry of the company country distribution.
type CountryCount struct {
	Country string `json:"country" db:"country"`
	Count   int    `json:"count" db:"count"`
}

// CompanyFilter narrows a company listing. Blank fields do not filter.
type CompanyFilter struct {
	// ID short-circuits the listing to a single lookup.
	ID string
	// Name matches case-insensitively anywhere in the company name.
	Name string
	// Country matches exactly.
	Country string
}
