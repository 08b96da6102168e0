package services

import (
	"context"

	"github.com/atakandgn/company-management-system/types"
	"github.com/rs/zerolog"
)

// ReferenceRepository reads the unit and category lists.
type ReferenceRepository interface {
	Units(ctx context.Context) ([]types.Unit, error)
	Categories(ctx context.Context) ([]types.Category, error)
}

// ReferenceService serves the read-only lists used by the product forms.
type ReferenceService struct {
	repo   ReferenceRepository
	logger zerolog.Logger
}

func NewReferenceService(repo ReferenceRepository, logger zerolog.Logger) *ReferenceService {
	return &ReferenceService{repo: repo, logger: logger.With().Str("service", "reference").Logger()}
}

func (s *ReferenceService) Statics(ctx context.Context) (types.Statics, error) {
	units, err := s.repo.Units(ctx)
	if err != nil {
		return types.Statics{}, storeError(s.logger, "list units", err)
	}
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return types.Statics{}, storeError(s.logger, "list categories", err)
	}
	return types.Statics{Units: units, Categories: categories}, nil
}
