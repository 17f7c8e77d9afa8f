package port

import (
	"context"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
)

// SourceScraperPort is the per-site scrape contract. One instance serves one
// source and owns that source's rate limiter.
//
// Scrape walks pages 1..maxPages sequentially and returns every raw record it
// managed to extract. A per-page failure aborts only the remaining pages;
// already collected records are still returned together with the error.
type SourceScraperPort interface {
	SourceID() string
	Scrape(ctx context.Context, criteria domain.SearchCriteria, maxPages int) ([]domain.Property, error)
}

// RendererPort renders a URL in a headless browser and returns the resulting
// DOM snapshot as HTML. Used only as the Tier B extraction fallback.
type RendererPort interface {
	Render(ctx context.Context, url string) (string, error)
}
