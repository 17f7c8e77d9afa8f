package domain

// PriceBucket is one bar of the price distribution histogram.
type PriceBucket struct {
	Label string  `json:"label"`
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Count int     `json:"count"`
}

// SearchSummary aggregates the full (pre-pagination) ranked set.
type SearchSummary struct {
	TotalFound            int                `json:"totalFound"`
	HardMatches           int                `json:"hardMatches"`
	AveragePrice          float64            `json:"averagePrice"`
	AveragePricePerM2     float64            `json:"averagePricePerM2"`
	AverageArea           float64            `json:"averageArea"`
	SourceBreakdown       map[string]int     `json:"sourceBreakdown"`
	NeighborhoodBreakdown map[string]int     `json:"neighborhoodBreakdown"`
	PriceDistribution     []PriceBucket      `json:"priceDistribution"`
}

// SearchResult is the paginated outcome of one search invocation. Criteria
// and the resolved location are echoed back so clients and downstream
// consumers see what the search actually ran against.
type SearchResult struct {
	Properties      []Property     `json:"properties"`
	Total           int            `json:"total"`
	Page            int            `json:"page"`
	Limit           int            `json:"limit"`
	Criteria        SearchCriteria `json:"criteria"`
	Location        LocationInfo   `json:"location"`
	Summary         SearchSummary  `json:"summary"`
	ExecutionTimeMs int64          `json:"executionTimeMs"`
}

// EmptySearchResult is the explicit zeroed result used when nothing could be
// salvaged. Mock data is never substituted for missing real data.
func EmptySearchResult(page, limit int) *SearchResult {
	return &SearchResult{
		Properties: []Property{},
		Page:       page,
		Limit:      limit,
		Summary: SearchSummary{
			SourceBreakdown:       map[string]int{},
			NeighborhoodBreakdown: map[string]int{},
			PriceDistribution:     []PriceBucket{},
		},
	}
}
