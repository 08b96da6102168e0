package services

import (
	"context"
	"errors"
	"testing"

	"github.com/atakandgn/company-management-system/internal/mq"
	"github.com/atakandgn/company-management-system/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productFixture struct {
	svc       *ProductService
	products  *MockProductRepository
	companies *MockCompanyRepository
	events    *recordingPublisher
	company   types.Company
}

func newProductFixture() productFixture {
	f := productFixture{
		products:  NewMockProductRepository(),
		companies: NewMockCompanyRepository(),
		events:    &recordingPublisher{},
	}
	f.company = types.Company{ID: "c1", Name: "Acme", LegalNumber: "LN-1", Country: "TR"}
	f.companies.companies[f.company.ID] = f.company
	f.svc = NewProductService(f.products, f.companies, f.events, zerolog.Nop())
	f.svc.now = clock()
	f.svc.newID = sequence("product")
	return f
}

func amount(v float64) *float64 { return &v }

func (f productFixture) input(name, category string, qty float64) AddProductInput {
	return AddProductInput{Name: name, Category: category, Amount: amount(qty), Unit: "pcs", CompanyID: f.company.ID}
}

func TestProductAddMerges(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	first, err := f.svc.Add(ctx, f.input("Bolt", "Hardware", 5))
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, 5.0, first.Product.Amount)

	second, err := f.svc.Add(ctx, f.input("Bolt", "Hardware", 5))
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Product.ID, second.Product.ID)
	assert.Equal(t, 10.0, second.Product.Amount)

	page, err := f.svc.List(ctx, types.ProductFilter{}, types.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, []string{mq.ProductCreated, mq.ProductMerged}, f.events.kinds())
}

func TestProductAddValidation(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	missingAmount := f.input("Bolt", "Hardware", 0)
	missingAmount.Amount = nil

	inputs := []AddProductInput{
		missingAmount,
		f.input("", "Hardware", 1),
		f.input("Bolt", "", 1),
		{Name: "Bolt", Category: "Hardware", Amount: amount(1), CompanyID: "c1"},
		{Name: "Bolt", Category: "Hardware", Amount: amount(1), Unit: "pcs"},
		f.input("Bolt", "Hardware", -1),
	}
	for _, input := range inputs {
		_, err := f.svc.Add(ctx, input)
		assert.ErrorIs(t, err, ErrValidation)
	}

	// Zero is a present amount.
	result, err := f.svc.Add(ctx, f.input("Bolt", "Hardware", 0))
	require.NoError(t, err)
	assert.True(t, result.Created)
}

func TestProductAddUnknownCompany(t *testing.T) {
	f := newProductFixture()
	input := f.input("Bolt", "Hardware", 1)
	input.CompanyID = "missing"

	_, err := f.svc.Add(context.Background(), input)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.products.products)
}

func TestProductUpdateKeepsOmittedFields(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	added, err := f.svc.Add(ctx, f.input("Bolt", "Hardware", 5))
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, added.Product.ID, ProductUpdate{Name: "Screw"})
	require.NoError(t, err)
	assert.Equal(t, "Screw", updated.Name)
	assert.Equal(t, "Hardware", updated.Category)
	assert.Equal(t, 5.0, updated.Amount)

	updated, err = f.svc.Update(ctx, added.Product.ID, ProductUpdate{Amount: 7})
	require.NoError(t, err)
	assert.Equal(t, "Screw", updated.Name)
	assert.Equal(t, 7.0, updated.Amount)

	_, err = f.svc.Update(ctx, "missing", ProductUpdate{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductUpdateRejectsNegativeAmount(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	added, err := f.svc.Add(ctx, f.input("Bolt", "Hardware", 5))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, added.Product.ID, ProductUpdate{Amount: -3})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "amount must not be negative", Message(err))

	stored, err := f.products.GetByID(ctx, added.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, stored.Amount)
	assert.Equal(t, []string{mq.ProductCreated}, f.events.kinds())
}

func TestProductUpdateConflict(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	_, err := f.svc.Add(ctx, f.input("Bolt", "Hardware", 5))
	require.NoError(t, err)
	nut, err := f.svc.Add(ctx, f.input("Nut", "Hardware", 5))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, nut.Product.ID, ProductUpdate{Name: "Bolt"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestProductDelete(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	added, err := f.svc.Add(ctx, f.input("Bolt", "Hardware", 5))
	require.NoError(t, err)

	deleted, err := f.svc.Delete(ctx, added.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bolt", deleted.Name)

	_, err = f.svc.Delete(ctx, added.Product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductCategoryTotals(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	for _, in := range []AddProductInput{
		f.input("Chair", "Furniture", 3),
		f.input("Laptop", "Electronics", 2),
		f.input("Table", "Furniture", 4),
		f.input("Phone", "Electronics", 1.5),
	} {
		_, err := f.svc.Add(ctx, in)
		require.NoError(t, err)
	}

	totals, err := f.svc.CategoryTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.CategoryAmount{
		{Category: "Furniture", Amount: 7},
		{Category: "Electronics", Amount: 3.5},
	}, totals)

	recent, err := f.svc.RecentlyAdded(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "Phone", recent[0].Name)
}

func TestProductListRequiresPagination(t *testing.T) {
	f := newProductFixture()

	_, err := f.svc.List(context.Background(), types.ProductFilter{}, types.Pagination{Page: 1})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProductStoreFailure(t *testing.T) {
	f := newProductFixture()
	f.products.err = errors.New("disk full")

	_, err := f.svc.Add(context.Background(), f.input("Bolt", "Hardware", 1))
	assert.ErrorIs(t, err, ErrStore)
	assert.Equal(t, "internal server error", Message(err))
}
