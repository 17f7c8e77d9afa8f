package usecase

import (
	"context"

	"github.com/gonbooster/AIArriendo-sub000/internal/contextkeys"
	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
	"github.com/gonbooster/AIArriendo-sub000/internal/core/port"
)

// FindSimilarPropertiesUseCase queries the persistent store for records close
// to a reference property. The store holds already-scored records from past
// searches; the search core itself never reads it.
type FindSimilarPropertiesUseCase struct {
	store port.PropertyStorePort
}

func NewFindSimilarPropertiesUseCase(store port.PropertyStorePort) *FindSimilarPropertiesUseCase {
	return &FindSimilarPropertiesUseCase{store: store}
}

func (uc *FindSimilarPropertiesUseCase) Execute(ctx context.Context, reference domain.Property, limit int) ([]domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "FindSimilarProperties"})
	if limit < 1 || limit > 50 {
		limit = 10
	}

	query := port.SimilarQuery{
		City:         reference.Location.City,
		Neighborhood: reference.Location.Neighborhood,
		Coordinates:  reference.Location.Coordinates,
		PriceAround:  reference.TotalPrice(),
		AreaAround:   reference.Area,
		Limit:        limit,
	}
	similar, err := uc.store.FindSimilar(ctx, query)
	if err != nil {
		logger.Error("Similarity query failed", err, nil)
		return nil, err
	}
	logger.Info("Similarity query finished", port.Fields{"matches": len(similar)})
	return similar, nil
}
