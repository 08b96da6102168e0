package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/atakandgn/company-management-system/config"
	"github.com/atakandgn/company-management-system/internal/db"
	"github.com/atakandgn/company-management-system/internal/store"
	"github.com/atakandgn/company-management-system/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductConcurrentAddsMerge(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx, config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "inventory.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(ctx, conn))

	companies := store.NewCompanyRepository(conn)
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	company, err := companies.Create(ctx, types.Company{
		ID: "c1", Name: "Acme", LegalNumber: "LN-1", Country: "TR", CreatedAt: at, UpdatedAt: at,
	})
	require.NoError(t, err)

	svc := NewProductService(store.NewProductRepository(conn), companies, nil, zerolog.Nop())

	const workers = 50
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		errs    []error
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Add(ctx, AddProductInput{
				Name: "Bolt", Category: "HW", Amount: amount(1), Unit: "pcs", CompanyID: company.ID,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if res.Created {
				created++
			}
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Equal(t, 1, created)

	page, err := svc.List(ctx, types.ProductFilter{CompanyID: company.ID}, types.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, float64(workers), page.Items[0].Amount)
}
