package usecases_port

import (
	"context"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
)

// SuggestLocationsUseCase backs the interactive location autocomplete.
type SuggestLocationsUseCase interface {
	Execute(ctx context.Context, text string) ([]domain.LocationCandidate, *domain.LocationCandidate, error)
}

// FindSimilarPropertiesUseCase queries the persistent store for records close
// to a reference property.
type FindSimilarPropertiesUseCase interface {
	Execute(ctx context.Context, reference domain.Property, limit int) ([]domain.Property, error)
}
