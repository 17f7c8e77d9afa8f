package port

import (
	"context"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
)

// SimilarQuery narrows the similar-properties lookup.
type SimilarQuery struct {
	City         string
	Neighborhood string
	Coordinates  domain.Coordinates
	PriceAround  float64
	AreaAround   float64
	Limit        int
}

// PropertyStorePort is the persistent collaborator used for similarity and
// dashboard queries. The search core treats it as a best-effort sink of
// already-scored records; its failures never fail a search.
type PropertyStorePort interface {
	SaveBatch(ctx context.Context, properties []domain.Property) error
	FindSimilar(ctx context.Context, query SimilarQuery) ([]domain.Property, error)
}
