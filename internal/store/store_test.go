package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/atakandgn/company-management-system/config"
	"github.com/atakandgn/company-management-system/internal/db"
	"github.com/atakandgn/company-management-system/types"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, config.DatabaseConfig{Driver: config.DriverSQLite, Path: db.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(ctx, conn))
	return conn
}

func seedCompany(t *testing.T, repo *CompanyRepository, i int, country string) types.Company {
	t.Helper()
	at := baseTime.Add(time.Duration(i) * time.Minute)
	company, err := repo.Create(context.Background(), types.Company{
		ID:          fmt.Sprintf("company-%02d", i),
		Name:        fmt.Sprintf("Company %02d", i),
		LegalNumber: fmt.Sprintf("LN-%02d", i),
		Country:     country,
		CreatedAt:   at,
		UpdatedAt:   at,
	})
	require.NoError(t, err)
	return company
}

func newProduct(id, name, category string, amount float64, companyID string, at time.Time) types.Product {
	return types.Product{
		ID:        id,
		Name:      name,
		Category:  category,
		Amount:    amount,
		Unit:      "pcs",
		CompanyID: companyID,
		CreatedAt: at,
		UpdatedAt: at,
	}
}
