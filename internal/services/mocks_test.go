package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/atakandgn/company-management-system/internal/mq"
	"github.com/atakandgn/company-management-system/internal/store"
	"github.com/atakandgn/company-management-system/types"
)

// MockCompanyRepository is an in-memory CompanyRepository.
type MockCompanyRepository struct {
	companies map[string]types.Company
	err       error
}

func NewMockCompanyRepository() *MockCompanyRepository {
	return &MockCompanyRepository{companies: make(map[string]types.Company)}
}

func (m *MockCompanyRepository) sorted() []types.Company {
	out := make([]types.Company, 0, len(m.companies))
	for _, c := range m.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *MockCompanyRepository) List(_ context.Context, f types.CompanyFilter, offset, limit int) ([]types.Company, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	var matched []types.Company
	for _, c := range m.sorted() {
		if f.Name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Name)) {
			continue
		}
		if f.Country != "" && c.Country != f.Country {
			continue
		}
		matched = append(matched, c)
	}
	total := len(matched)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 {
		end = min(offset+limit, total)
	}
	return matched[offset:end], total, nil
}

func (m *MockCompanyRepository) GetByID(_ context.Context, id string) (types.Company, error) {
	if m.err != nil {
		return types.Company{}, m.err
	}
	c, ok := m.companies[id]
	if !ok {
		return types.Company{}, store.ErrNotFound
	}
	return c, nil
}

func (m *MockCompanyRepository) HasDuplicate(_ context.Context, name, legalNumber, website string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, c := range m.companies {
		if c.Name == name || c.LegalNumber == legalNumber || (website != "" && c.Website == website) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockCompanyRepository) conflicts(company types.Company) bool {
	for _, c := range m.companies {
		if c.ID == company.ID {
			continue
		}
		if c.Name == company.Name || c.LegalNumber == company.LegalNumber || (company.Website != "" && c.Website == company.Website) {
			return true
		}
	}
	return false
}

func (m *MockCompanyRepository) Create(_ context.Context, company types.Company) (types.Company, error) {
	if m.err != nil {
		return types.Company{}, m.err
	}
	if m.conflicts(company) {
		return types.Company{}, store.ErrConflict
	}
	m.companies[company.ID] = company
	return company, nil
}

func (m *MockCompanyRepository) Update(_ context.Context, company types.Company) (types.Company, error) {
	if m.err != nil {
		return types.Company{}, m.err
	}
	if _, ok := m.companies[company.ID]; !ok {
		return types.Company{}, store.ErrNotFound
	}
	if m.conflicts(company) {
		return types.Company{}, store.ErrConflict
	}
	m.companies[company.ID] = company
	return company, nil
}

func (m *MockCompanyRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.companies[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.companies, id)
	return nil
}

func (m *MockCompanyRepository) Recent(_ context.Context, n int) ([]types.Company, error) {
	all := m.sorted()
	out := make([]types.Company, 0, n)
	for i := len(all) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (m *MockCompanyRepository) CountByCountry(_ context.Context, n int) ([]types.CountryCount, error) {
	var counts []types.CountryCount
	index := map[string]int{}
	for _, c := range m.sorted() {
		i, ok := index[c.Country]
		if !ok {
			index[c.Country] = len(counts)
			counts = append(counts, types.CountryCount{Country: c.Country})
			i = len(counts) - 1
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts, nil
}

// MockProductRepository is an in-memory ProductRepository that merges adds
// on (name, category, companyId).
type MockProductRepository struct {
	mu       sync.Mutex
	products map[string]types.Product
	err      error
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{products: make(map[string]types.Product)}
}

func (m *MockProductRepository) sorted() []types.Product {
	out := make([]types.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *MockProductRepository) List(_ context.Context, f types.ProductFilter, offset, limit int) ([]types.Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	var matched []types.Product
	for _, p := range m.sorted() {
		if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
			continue
		}
		if f.CompanyID != "" && p.CompanyID != f.CompanyID {
			continue
		}
		matched = append(matched, p)
	}
	total := len(matched)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 {
		end = min(offset+limit, total)
	}
	return matched[offset:end], total, nil
}

func (m *MockProductRepository) GetByID(_ context.Context, id string) (types.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return types.Product{}, store.ErrNotFound
	}
	return p, nil
}

func (m *MockProductRepository) Upsert(_ context.Context, product types.Product) (types.Product, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return types.Product{}, false, m.err
	}
	for id, p := range m.products {
		if p.Name == product.Name && p.Category == product.Category && p.CompanyID == product.CompanyID {
			p.Amount += product.Amount
			p.UpdatedAt = product.UpdatedAt
			m.products[id] = p
			return p, false, nil
		}
	}
	m.products[product.ID] = product
	return product, true, nil
}

func (m *MockProductRepository) Update(_ context.Context, product types.Product) (types.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[product.ID]; !ok {
		return types.Product{}, store.ErrNotFound
	}
	for id, p := range m.products {
		if id != product.ID && p.Name == product.Name && p.Category == product.Category && p.CompanyID == product.CompanyID {
			return types.Product{}, store.ErrConflict
		}
	}
	m.products[product.ID] = product
	return product, nil
}

func (m *MockProductRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *MockProductRepository) CountByCompany(_ context.Context, companyID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.products {
		if p.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (m *MockProductRepository) Recent(_ context.Context, n int) ([]types.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted()
	out := make([]types.Product, 0, n)
	for i := len(all) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (m *MockProductRepository) TotalsByCategory(_ context.Context) ([]types.CategoryAmount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var totals []types.CategoryAmount
	for _, p := range m.sorted() {
		found := false
		for i := range totals {
			if totals[i].Category == p.Category {
				totals[i].Amount += p.Amount
				found = true
				break
			}
		}
		if !found {
			totals = append(totals, types.CategoryAmount{Category: p.Category, Amount: p.Amount})
		}
	}
	return totals, nil
}

// MockUserRepository is an in-memory UserRepository.
type MockUserRepository struct {
	users map[string]types.User
	err   error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]types.User)}
}

func (m *MockUserRepository) GetByID(_ context.Context, id string) (types.User, error) {
	if m.err != nil {
		return types.User{}, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return u, nil
}

func (m *MockUserRepository) GetByUsername(_ context.Context, username string) (types.User, error) {
	if m.err != nil {
		return types.User{}, m.err
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *MockUserRepository) taken(user types.User) bool {
	for _, u := range m.users {
		if u.ID != user.ID && (u.Username == user.Username || u.Email == user.Email) {
			return true
		}
	}
	return false
}

func (m *MockUserRepository) Create(_ context.Context, user types.User) (types.User, error) {
	if m.err != nil {
		return types.User{}, m.err
	}
	if m.taken(user) {
		return types.User{}, store.ErrConflict
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *MockUserRepository) Update(_ context.Context, user types.User) (types.User, error) {
	if _, ok := m.users[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	if m.taken(user) {
		return types.User{}, store.ErrConflict
	}
	m.users[user.ID] = user
	return user, nil
}

// plainHasher stores passwords with a visible prefix so tests stay fast.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Verify(hash, password string) bool { return hash == "hashed:"+password }

type stubTokens struct{}

func (stubTokens) Issue(userID string) (string, error) { return "token-for-" + userID, nil }

func (stubTokens) TTL() time.Duration { return 90 * time.Minute }

// recordingPublisher captures published events.
type recordingPublisher struct {
	events []mq.Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, event mq.Event) (string, error) {
	r.events = append(r.events, event)
	return "id", r.err
}

func (r *recordingPublisher) kinds() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// clock returns a now func that advances one second per call.
func clock() func() time.Time {
	t := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

// sequence returns an id generator yielding prefix-01, prefix-02, ...
func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%02d", prefix, n)
	}
}
