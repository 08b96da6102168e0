package types

// Unit is a measurement unit offered when adding products.
type Unit struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Category is a product category offered when adding products.
type Category struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Statics bundles the reference lists served to the dashboard.
type Statics struct {
	Units      []Unit     `json:"units"`
	Categories []Category `json:"categories"`
}
