package usecases_port

import (
	"context"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
)

// SearchPropertiesUseCase runs one full scrape-and-rank search.
type SearchPropertiesUseCase interface {
	Execute(ctx context.Context, criteria domain.SearchCriteria, page, limit int) (*domain.SearchResult, error)
}
