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

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	List(ctx context.Context, f types.ProductFilter, offset, limit int) ([]types.Product, int, error)
	GetByID(ctx context.Context, id string) (types.Product, error)
	Upsert(ctx context.Context, product types.Product) (types.Product, bool, error)
	Update(ctx context.Context, product types.Product) (types.Product, error)
	Delete(ctx context.Context, id string) error
	Recent(ctx context.Context, n int) ([]types.Product, error)
	TotalsByCategory(ctx context.Context) ([]types.CategoryAmount, error)
}

// CompanyLookup resolves the company a product is added to.
type CompanyLookup interface {
	GetByID(ctx context.Context, id string) (types.Company, error)
}

// ProductService encapsulates product use-cases.
type ProductService struct {
	repo      ProductRepository
	companies CompanyLookup
	events    notifier
	logger    zerolog.Logger
	now       func() time.Time
	newID     func() string
}

func NewProductService(repo ProductRepository, companies CompanyLookup, events EventPublisher, logger zerolog.Logger) *ProductService {
	logger = logger.With().Str("service", "product").Logger()
	return &ProductService{
		repo:      repo,
		companies: companies,
		events:    notifier{publisher: events, logger: logger},
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// List returns page p of the products matching f, each with its company.
func (s *ProductService) List(ctx context.Context, f types.ProductFilter, p types.Pagination) (types.Page[types.Product], error) {
	if !p.Valid() {
		return types.Page[types.Product]{}, validationError("page and limit must be positive integers")
	}
	products, total, err := s.repo.List(ctx, f, p.Skip(), p.Limit)
	if err != nil {
		return types.Page[types.Product]{}, storeError(s.logger, "list products", err)
	}
	return types.NewPage(products, total, p), nil
}

// AddProductInput contains the data needed to add stock. Amount is a
// pointer so that a missing amount can be told apart from zero.
type AddProductInput struct {
	Name      string
	Category  string
	Amount    *float64
	Unit      string
	CompanyID string
}

// AddProductResult reports the stored row and whether it was newly created
// rather than merged into an existing row.
type AddProductResult struct {
	Product types.Product
	Created bool
}

// Add stores a product. If the company already has a product with the same
// name and category, the amount is added to that row instead.
func (s *ProductService) Add(ctx context.Context, input AddProductInput) (AddProductResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Category = strings.TrimSpace(input.Category)
	input.Unit = strings.TrimSpace(input.Unit)
	input.CompanyID = strings.TrimSpace(input.CompanyID)

	if input.Name == "" || input.Category == "" || input.Unit == "" || input.CompanyID == "" || input.Amount == nil {
		return AddProductResult{}, validationError("please fill in all required fields")
	}
	if *input.Amount < 0 {
		return AddProductResult{}, validationError("amount must not be negative")
	}

	if _, err := s.companies.GetByID(ctx, input.CompanyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return AddProductResult{}, notFoundError("company not found")
		}
		return AddProductResult{}, storeError(s.logger, "get product company", err)
	}

	now := s.now()
	product, created, err := s.repo.Upsert(ctx, types.Product{
		ID:        s.newID(),
		Name:      input.Name,
		Category:  input.Category,
		Amount:    *input.Amount,
		Unit:      input.Unit,
		CompanyID: input.CompanyID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			// The company was removed between the lookup and the write.
			return AddProductResult{}, notFoundError("company not found")
		}
		return AddProductResult{}, storeError(s.logger, "upsert product", err)
	}

	eventType := mq.ProductMerged
	if created {
		eventType = mq.ProductCreated
	}
	s.logger.Info().
		Str("product_id", product.ID).
		Str("company_id", product.CompanyID).
		Bool("created", created).
		Float64("amount", product.Amount).
		Msg("product added")
	s.events.notify(ctx, mq.Event{Type: eventType, OccurredAt: now, Product: &product})

	return AddProductResult{Product: product, Created: created}, nil
}

// ProductUpdate carries the fields of a partial update. Empty strings and a
// zero amount keep the stored value.
type ProductUpdate struct {
	Name     string
	Category string
	Amount   float64
}

func (s *ProductService) Update(ctx context.Context, id string, update ProductUpdate) (types.Product, error) {
	if update.Amount < 0 {
		return types.Product{}, validationError("amount must not be negative")
	}

	product, err := s.get(ctx, id)
	if err != nil {
		return types.Product{}, err
	}

	product.Name = orKeep(update.Name, product.Name)
	product.Category = orKeep(update.Category, product.Category)
	if update.Amount != 0 {
		product.Amount = update.Amount
	}
	product.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return types.Product{}, notFoundError("product not found")
		case errors.Is(err, store.ErrConflict):
			return types.Product{}, conflictError("the company already has a product with this name and category", err)
		}
		return types.Product{}, storeError(s.logger, "update product", err)
	}

	s.events.notify(ctx, mq.Event{Type: mq.ProductUpdated, OccurredAt: updated.UpdatedAt, Product: &updated})
	return updated, nil
}

// Delete removes a product and returns it.
func (s *ProductService) Delete(ctx context.Context, id string) (types.Product, error) {
	product, err := s.get(ctx, id)
	if err != nil {
		return types.Product{}, err
	}
	if err := s.repo.Delete(ctx, product.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Product{}, notFoundError("product not found")
		}
		return types.Product{}, storeError(s.logger, "delete product", err)
	}

	s.logger.Info().Str("product_id", product.ID).Msg("product deleted")
	s.events.notify(ctx, mq.Event{Type: mq.ProductDeleted, Product: &product})
	return product, nil
}

// RecentlyAdded returns the three newest products, newest first.
func (s *ProductService) RecentlyAdded(ctx context.Context) ([]types.Product, error) {
	products, err := s.repo.Recent(ctx, recentLimit)
	if err != nil {
		return nil, storeError(s.logger, "recent products", err)
	}
	return products, nil
}

// CategoryTotals sums the stock of every category in first-seen order.
func (s *ProductService) CategoryTotals(ctx context.Context) ([]types.CategoryAmount, error) {
	totals, err := s.repo.TotalsByCategory(ctx)
	if err != nil {
		return nil, storeError(s.logger, "product category totals", err)
	}
	return totals, nil
}

func (s *ProductService) get(ctx context.Context, id string) (types.Product, error) {
	product, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Product{}, notFoundError("product not found")
		}
		return types.Product{}, storeError(s.logger, "get product", err)
	}
	return product, nil
}
