package rest

import "github.com/gonbooster/AIArriendo-sub000/internal/core/domain"

// SearchRequestDTO is the POST /api/v1/search body.
type SearchRequestDTO struct {
	Page     int                   `json:"page"`
	Limit    int                   `json:"limit"`
	Criteria domain.SearchCriteria `json:"criteria"`
}

// SuggestResponseDTO is the GET /api/v1/locations/suggest payload.
type SuggestResponseDTO struct {
	Query       string                     `json:"query"`
	Suggestions []domain.LocationCandidate `json:"suggestions"`
	Best        *domain.LocationCandidate  `json:"best,omitempty"`
}

// SimilarRequestDTO is the POST /api/v1/properties/similar body: a reference
// listing plus an optional result cap.
type SimilarRequestDTO struct {
	Reference domain.Property `json:"reference"`
	Limit     int             `json:"limit"`
}

// SimilarResponseDTO is the matching response payload.
type SimilarResponseDTO struct {
	Properties []domain.Property `json:"properties"`
	Total      int               `json:"total"`
}
