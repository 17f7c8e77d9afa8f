package domain

// LocationInfo is the resolver's verdict for a free-text location.
//
// Confidence ladder: 1.0 only on an exact canonical match, alias matches cap
// at 0.9, the unresolved fallback caps at 0.3.
type LocationInfo struct {
	City         string  `json:"city"`
	CityCode     string  `json:"cityCode,omitempty"`
	Neighborhood string  `json:"neighborhood,omitempty"`
	OriginalText string  `json:"originalText"`
	Confidence   float64 `json:"confidence"`
}

// LocationCandidate is one ranked hit of the fuzzy smart search.
type LocationCandidate struct {
	City         string  `json:"city"`
	Neighborhood string  `json:"neighborhood,omitempty"`
	Score        float64 `json:"score"`
}
