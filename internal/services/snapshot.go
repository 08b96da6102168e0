package services

import (
	"context"
	"errors"
	"time"

	"github.com/atakandgn/company-management-system/internal/storage"
	"github.com/atakandgn/company-management-system/types"
	"github.com/rs/zerolog"
)

// SnapshotArchive persists inventory snapshots.
type SnapshotArchive interface {
	Save(ctx context.Context, snap storage.Snapshot) (string, error)
	Load(ctx context.Context, key string) (storage.Snapshot, error)
}

// SnapshotService exports the whole inventory to object storage.
type SnapshotService struct {
	companies CompanyRepository
	products  ProductRepository
	archive   SnapshotArchive
	logger    zerolog.Logger
	now       func() time.Time
}

func NewSnapshotService(companies CompanyRepository, products ProductRepository, archive SnapshotArchive, logger zerolog.Logger) *SnapshotService {
	return &SnapshotService{
		companies: companies,
		products:  products,
		archive:   archive,
		logger:    logger.With().Str("service", "snapshot").Logger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Export reads every company and product and stores them as one snapshot.
// It returns the storage key of the snapshot.
func (s *SnapshotService) Export(ctx context.Context) (string, error) {
	companies, _, err := s.companies.List(ctx, types.CompanyFilter{}, 0, 0)
	if err != nil {
		return "", storeError(s.logger, "list companies for snapshot", err)
	}
	products, _, err := s.products.List(ctx, types.ProductFilter{}, 0, 0)
	if err != nil {
		return "", storeError(s.logger, "list products for snapshot", err)
	}
	if companies == nil {
		companies = []types.Company{}
	}
	if products == nil {
		products = []types.Product{}
	}

	key, err := s.archive.Save(ctx, storage.Snapshot{
		TakenAt:   s.now(),
		Companies: companies,
		Products:  products,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to save snapshot")
		return "", &Error{Kind: ErrStore, Message: "failed to save snapshot", Err: err}
	}

	s.logger.Info().
		Str("key", key).
		Int("companies", len(companies)).
		Int("products", len(products)).
		Msg("snapshot exported")
	return key, nil
}

// Show returns the snapshot stored under key.
func (s *SnapshotService) Show(ctx context.Context, key string) (storage.Snapshot, error) {
	snap, err := s.archive.Load(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Snapshot{}, notFoundError("snapshot not found")
		}
		s.logger.Error().Err(err).Str("key", key).Msg("failed to load snapshot")
		return storage.Snapshot{}, &Error{Kind: ErrStore, Message: "failed to load snapshot", Err: err}
	}
	return snap, nil
}
