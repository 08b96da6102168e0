package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/atakandgn/company-management-system/internal/mq"
	"github.com/atakandgn/company-management-system/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type companyFixture struct {
	svc       *CompanyService
	companies *MockCompanyRepository
	products  *MockProductRepository
	events    *recordingPublisher
}

func newCompanyFixture() companyFixture {
	f := companyFixture{
		companies: NewMockCompanyRepository(),
		products:  NewMockProductRepository(),
		events:    &recordingPublisher{},
	}
	f.svc = NewCompanyService(f.companies, f.products, f.events, zerolog.Nop())
	f.svc.now = clock()
	f.svc.newID = sequence("company")
	return f
}

func (f companyFixture) add(t *testing.T, name, legalNumber, country, website string) types.Company {
	t.Helper()
	c, err := f.svc.Add(context.Background(), AddCompanyInput{Name: name, LegalNumber: legalNumber, Country: country, Website: website})
	require.NoError(t, err)
	return c
}

func TestCompanyAdd(t *testing.T) {
	f := newCompanyFixture()

	c := f.add(t, "  Acme ", "LN-1", "TR", "")
	assert.Equal(t, "company-01", c.ID)
	assert.Equal(t, "Acme", c.Name)
	assert.False(t, c.CreatedAt.IsZero())
	assert.Equal(t, c.CreatedAt, c.UpdatedAt)
	assert.Equal(t, []string{mq.CompanyCreated}, f.events.kinds())
}

func TestCompanyAddValidation(t *testing.T) {
	f := newCompanyFixture()

	inputs := []AddCompanyInput{
		{LegalNumber: "LN", Country: "TR"},
		{Name: "Acme", Country: "TR"},
		{Name: "Acme", LegalNumber: "LN"},
		{Name: "  ", LegalNumber: "LN", Country: "TR"},
	}
	for _, input := range inputs {
		_, err := f.svc.Add(context.Background(), input)
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.Empty(t, f.companies.companies)
}

func TestCompanyAddUniqueness(t *testing.T) {
	f := newCompanyFixture()
	f.add(t, "Acme", "LN-1", "TR", "acme.example")

	dups := []AddCompanyInput{
		{Name: "Acme", LegalNumber: "LN-2", Country: "TR"},
		{Name: "Other", LegalNumber: "LN-1", Country: "TR"},
		{Name: "Other", LegalNumber: "LN-2", Country: "TR", Website: "acme.example"},
	}
	for _, input := range dups {
		_, err := f.svc.Add(context.Background(), input)
		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, "company already exists", Message(err))
	}

	// Empty websites never collide.
	f.add(t, "Other", "LN-2", "TR", "")
	f.add(t, "Third", "LN-3", "TR", "")
	assert.Len(t, f.companies.companies, 3)
}

func TestCompanyUpdateKeepsOmittedFields(t *testing.T) {
	f := newCompanyFixture()
	c := f.add(t, "Acme", "LN-1", "TR", "acme.example")

	updated, err := f.svc.Update(context.Background(), c.ID, CompanyUpdate{Country: "DE"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.Name)
	assert.Equal(t, "LN-1", updated.LegalNumber)
	assert.Equal(t, "acme.example", updated.Website)
	assert.Equal(t, "DE", updated.Country)
	assert.True(t, updated.UpdatedAt.After(c.UpdatedAt))
	assert.Equal(t, c.CreatedAt, updated.CreatedAt)

	_, err = f.svc.Update(context.Background(), "missing", CompanyUpdate{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompanyUpdateConflict(t *testing.T) {
	f := newCompanyFixture()
	f.add(t, "Acme", "LN-1", "TR", "")
	other := f.add(t, "Other", "LN-2", "TR", "")

	_, err := f.svc.Update(context.Background(), other.ID, CompanyUpdate{Name: "Acme"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCompanyDeleteGuard(t *testing.T) {
	f := newCompanyFixture()
	c := f.add(t, "Acme", "LN-1", "TR", "")
	f.products.products["p1"] = types.Product{ID: "p1", Name: "Bolt", CompanyID: c.ID}

	_, err := f.svc.Delete(context.Background(), c.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, f.companies.companies, c.ID)

	delete(f.products.products, "p1")
	deleted, err := f.svc.Delete(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, deleted.ID)
	assert.NotContains(t, f.companies.companies, c.ID)
	assert.Equal(t, []string{mq.CompanyCreated, mq.CompanyDeleted}, f.events.kinds())

	_, err = f.svc.Delete(context.Background(), c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompanyListPagination(t *testing.T) {
	f := newCompanyFixture()
	for i := 0; i < 25; i++ {
		f.add(t, fmt.Sprintf("Company %02d", i), fmt.Sprintf("LN-%02d", i), "TR", "")
	}

	result, err := f.svc.List(context.Background(), types.CompanyFilter{}, types.Pagination{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Nil(t, result.Company)
	assert.Equal(t, 25, result.Page.Total)
	assert.Equal(t, 3, result.Page.TotalPages)
	require.Len(t, result.Page.Items, 10)
	assert.Equal(t, "Company 10", result.Page.Items[0].Name)
	assert.Equal(t, "Company 19", result.Page.Items[9].Name)

	_, err = f.svc.List(context.Background(), types.CompanyFilter{}, types.Pagination{Page: 0, Limit: 10})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompanyListByID(t *testing.T) {
	f := newCompanyFixture()
	c := f.add(t, "Acme", "LN-1", "TR", "")

	// Pagination is ignored for an id lookup.
	result, err := f.svc.List(context.Background(), types.CompanyFilter{ID: c.ID}, types.Pagination{})
	require.NoError(t, err)
	require.NotNil(t, result.Company)
	assert.Equal(t, "Acme", result.Company.Name)

	_, err = f.svc.List(context.Background(), types.CompanyFilter{ID: "missing"}, types.Pagination{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompanyRecentAndDistribution(t *testing.T) {
	f := newCompanyFixture()
	for i, country := range []string{"FR", "TR", "TR", "DE", "US", "DE", "TR", "IT", "ES"} {
		f.add(t, fmt.Sprintf("C%d", i), fmt.Sprintf("LN%d", i), country, "")
	}

	recent, err := f.svc.RecentlyAdded(context.Background())
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "C8", recent[0].Name)

	counts, err := f.svc.CountryDistribution(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.CountryCount{
		{Country: "TR", Count: 3},
		{Country: "DE", Count: 2},
		{Country: "FR", Count: 1},
		{Country: "US", Count: 1},
		{Country: "IT", Count: 1},
	}, counts)
}

func TestCompanyStoreFailureIsOpaque(t *testing.T) {
	f := newCompanyFixture()
	f.companies.err = errors.New("connection refused")

	_, err := f.svc.List(context.Background(), types.CompanyFilter{}, types.Pagination{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, ErrStore)
	assert.Equal(t, "internal server error", Message(err))

	_, err = f.svc.Add(context.Background(), AddCompanyInput{Name: "Acme", LegalNumber: "LN", Country: "TR"})
	assert.ErrorIs(t, err, ErrStore)
}

func TestCompanyEventFailureDoesNotFailRequest(t *testing.T) {
	f := newCompanyFixture()
	f.events.err = errors.New("broker down")

	c := f.add(t, "Acme", "LN-1", "TR", "")
	assert.NotEmpty(t, c.ID)
}
