// Package sitefetcher implements the per-source scrape contract once,
// parametrized by a site profile: selectors, URL templates and parsing
// overrides are data, the control flow is shared by every source.
package sitefetcher

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
	"github.com/gonbooster/AIArriendo-sub000/internal/core/port"
	"github.com/gonbooster/AIArriendo-sub000/internal/sources"
	"github.com/gonbooster/AIArriendo-sub000/pkg/ratelimit"
)

// URLBuilder builds one page URL for a source profile. Satisfied by the
// location resolver.
type URLBuilder interface {
	BuildScraperURL(profile *sources.Profile, criteria domain.SearchCriteria, page int) (string, error)
}

// Adapter scrapes one source. It owns that source's rate limiter; nothing is
// shared across sources.
type Adapter struct {
	profile   *sources.Profile
	collector *colly.Collector
	limiter   *ratelimit.Limiter
	urls      URLBuilder
	renderer  port.RendererPort // nil disables the Tier B fallback
}

// NewAdapter builds the parent collector for one source. Per-page requests
// run on clones so handlers never leak between pages.
func NewAdapter(profile *sources.Profile, urls URLBuilder, renderer port.RendererPort) (*Adapter, error) {
	base, err := url.Parse(profile.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("sitefetcher: profile %s has a broken base url: %w", profile.ID, err)
	}

	searchHost := base.Host
	if tu, err := url.Parse(templateProbe(profile.SearchURLTemplate)); err == nil && tu.Host != "" {
		searchHost = tu.Host
	}

	c := colly.NewCollector(
		colly.AllowedDomains(base.Host, searchHost),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(20 * time.Second)
	extensions.RandomUserAgent(c)
	extensions.Referer(c)

	return &Adapter{
		profile:   profile,
		collector: c,
		urls:      urls,
		renderer:  renderer,
		limiter: ratelimit.New(ratelimit.Config{
			RequestsPerMinute:     profile.RateLimit.RequestsPerMinute,
			DelayBetweenRequests:  time.Duration(profile.RateLimit.DelayBetweenRequestsMs) * time.Millisecond,
			MaxConcurrentRequests: profile.RateLimit.MaxConcurrentRequests,
		}),
	}, nil
}

// SourceID identifies the adapter inside the registry.
func (a *Adapter) SourceID() string {
	return a.profile.ID
}

// templateProbe substitutes dummy values so the template parses as a URL.
func templateProbe(template string) string {
	return strings.NewReplacer("{city}", "city", "{neighborhood}", "nb", "{page}", "1").Replace(template)
}
