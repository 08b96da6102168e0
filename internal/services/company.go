package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atakandgn/company-management-system/internal/mq"
	"github.com/atakandgn/company-management-system/internal/store"
	"github.com/atakandgn/company-management-system/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	recentLimit       = 3
	topCountriesLimit = 5
)

// CompanyRepository defines persistence operations for companies.
type CompanyRepository interface {
	List(ctx context.Context, f types.CompanyFilter, offset, limit int) ([]types.Company, int, error)
	GetByID(ctx context.Context, id string) (types.Company, error)
	HasDuplicate(ctx context.Context, name, legalNumber, website string) (bool, error)
	Create(ctx context.Context, company types.Company) (types.Company, error)
	Update(ctx context.Context, company types.Company) (types.Company, error)
	Delete(ctx context.Context, id string) error
	Recent(ctx context.Context, n int) ([]types.Company, error)
	CountByCountry(ctx context.Context, n int) ([]types.CountryCount, error)
}

// ProductCounter reports how many products a company owns.
type ProductCounter interface {
	CountByCompany(ctx context.Context, companyID string) (int, error)
}

// CompanyService encapsulates company use-cases.
type CompanyService struct {
	repo     CompanyRepository
	products ProductCounter
	events   notifier
	logger   zerolog.Logger
	now      func() time.Time
	newID    func() string
}

func NewCompanyService(repo CompanyRepository, products ProductCounter, events EventPublisher, logger zerolog.Logger) *CompanyService {
	logger = logger.With().Str("service", "company").Logger()
	return &CompanyService{
		repo:     repo,
		products: products,
		events:   notifier{publisher: events, logger: logger},
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// CompanyListResult holds either a single company, when the listing was
// narrowed by id, or one page of companies.
type CompanyListResult struct {
	Company *types.Company
	Page    types.Page[types.Company]
}

// List returns the company with f.ID, or the page p of companies matching
// the remaining filters.
func (s *CompanyService) List(ctx context.Context, f types.CompanyFilter, p types.Pagination) (CompanyListResult, error) {
	if id := strings.TrimSpace(f.ID); id != "" {
		company, err := s.get(ctx, id)
		if err != nil {
			return CompanyListResult{}, err
		}
		return CompanyListResult{Company: &company}, nil
	}

	if !p.Valid() {
		return CompanyListResult{}, validationError("page and limit must be positive integers")
	}
	companies, total, err := s.repo.List(ctx, f, p.Skip(), p.Limit)
	if err != nil {
		return CompanyListResult{}, storeError(s.logger, "list companies", err)
	}
	return CompanyListResult{Page: types.NewPage(companies, total, p)}, nil
}

// AddCompanyInput contains the data needed to register a company.
type AddCompanyInput struct {
	Name        string
	LegalNumber string
	Country     string
	Website     string
}

// Add registers a new company. Name, legal number and a non-empty website
// must not be used by any other company.
func (s *CompanyService) Add(ctx context.Context, input AddCompanyInput) (types.Company, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.LegalNumber = strings.TrimSpace(input.LegalNumber)
	input.Country = strings.TrimSpace(input.Country)
	input.Website = strings.TrimSpace(input.Website)

	if input.Name == "" || input.LegalNumber == "" || input.Country == "" {
		return types.Company{}, validationError("please fill in all required fields")
	}

	exists, err := s.repo.HasDuplicate(ctx, input.Name, input.LegalNumber, input.Website)
	if err != nil {
		return types.Company{}, storeError(s.logger, "check company uniqueness", err)
	}
	if exists {
		return types.Company{}, conflictError("company already exists", nil)
	}

	now := s.now()
	company, err := s.repo.Create(ctx, types.Company{
		ID:          s.newID(),
		Name:        input.Name,
		LegalNumber: input.LegalNumber,
		Country:     input.Country,
		Website:     input.Website,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return types.Company{}, conflictError("company already exists", err)
		}
		return types.Company{}, storeError(s.logger, "create company", err)
	}

	s.logger.Info().Str("company_id", company.ID).Str("name", company.Name).Msg("company added")
	s.events.notify(ctx, mq.Event{Type: mq.CompanyCreated, OccurredAt: now, Company: &company})
	return company, nil
}

// CompanyUpdate carries the fields of a partial update. Empty fields keep
// the stored value.
type CompanyUpdate struct {
	Name        string
	LegalNumber string
	Country     string
	Website     string
}

func (s *CompanyService) Update(ctx context.Context, id string, update CompanyUpdate) (types.Company, error) {
	company, err := s.get(ctx, id)
	if err != nil {
		return types.Company{}, err
	}

	company.Name = orKeep(update.Name, company.Name)
	company.LegalNumber = orKeep(update.LegalNumber, company.LegalNumber)
	company.Country = orKeep(update.Country, company.Country)
	company.Website = orKeep(update.Website, company.Website)
	company.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, company)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return types.Company{}, notFoundError("company not found")
		case errors.Is(err, store.ErrConflict):
			return types.Company{}, conflictError("another company already uses this name, legal number or website", err)
		}
		return types.Company{}, storeError(s.logger, "update company", err)
	}

	s.events.notify(ctx, mq.Event{Type: mq.CompanyUpdated, OccurredAt: updated.UpdatedAt, Company: &updated})
	return updated, nil
}

// Delete removes a company that owns no products and returns it.
func (s *CompanyService) Delete(ctx context.Context, id string) (types.Company, error) {
	company, err := s.get(ctx, id)
	if err != nil {
		return types.Company{}, err
	}

	owned, err := s.products.CountByCompany(ctx, company.ID)
	if err != nil {
		return types.Company{}, storeError(s.logger, "count company products", err)
	}
	if owned > 0 {
		return types.Company{}, conflictError("cannot delete company with associated products", nil)
	}

	if err := s.repo.Delete(ctx, company.ID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return types.Company{}, notFoundError("company not found")
		case errors.Is(err, store.ErrConflict):
			return types.Company{}, conflictError("cannot delete company with associated products", err)
		}
		return types.Company{}, storeError(s.logger, "delete company", err)
	}

	s.logger.Info().Str("company_id", company.ID).Msg("company deleted")
	s.events.notify(ctx, mq.Event{Type: mq.CompanyDeleted, Company: &company})
	return company, nil
}

// RecentlyAdded returns the three newest companies, newest first.
func (s *CompanyService) RecentlyAdded(ctx context.Context) ([]types.Company, error) {
	companies, err := s.repo.Recent(ctx, recentLimit)
	if err != nil {
		return nil, storeError(s.logger, "recent companies", err)
	}
	return companies, nil
}

// CountryDistribution returns the five countries with the most companies.
func (s *CompanyService) CountryDistribution(ctx context.Context) ([]types.CountryCount, error) {
	counts, err := s.repo.CountByCountry(ctx, topCountriesLimit)
	if err != nil {
		return nil, storeError(s.logger, "company country distribution", err)
	}
	return counts, nil
}

func (s *CompanyService) get(ctx context.Context, id string) (types.Company, error) {
	company, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Company{}, notFoundError("company not found")
		}
		return types.Company{}, storeError(s.logger, "get company", err)
	}
	return company, nil
}

// orKeep returns value unless it is blank, in which case old is kept.
func orKeep(value, old string) string {
	if strings.TrimSpace(value) == "" {
		return old
	}
	return strings.TrimSpace(value)
}
