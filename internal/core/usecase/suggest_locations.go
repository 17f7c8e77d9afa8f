package usecase

import (
	"context"

	"github.com/gonbooster/AIArriendo-sub000/internal/contextkeys"
	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
	"github.com/gonbooster/AIArriendo-sub000/internal/core/port"
)

const maxSuggestions = 10

// SuggestLocationsUseCase backs the interactive location autocomplete.
type SuggestLocationsUseCase struct {
	resolver *LocationResolver
}

func NewSuggestLocationsUseCase(resolver *LocationResolver) *SuggestLocationsUseCase {
	return &SuggestLocationsUseCase{resolver: resolver}
}

func (uc *SuggestLocationsUseCase) Execute(ctx context.Context, text string) ([]domain.LocationCandidate, *domain.LocationCandidate, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "SuggestLocations"})

	candidates, best := uc.resolver.SmartLocationSearch(text)
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	logger.Debug("Location suggestions computed", port.Fields{"query": text, "candidates": len(candidates)})
	return candidates, best, nil
}
