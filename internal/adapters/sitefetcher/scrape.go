package sitefetcher

import (
	"context"
	"fmt"

	"github.com/gocolly/colly/v2"

	"github.com/gonbooster/AIArriendo-sub000/internal/contextkeys"
	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
	"github.com/gonbooster/AIArriendo-sub000/internal/core/port"
)

// Scrape walks pages 1..maxPages sequentially. A page that yields zero
// records by any tier ends the pagination (no further pages assumed); a
// per-page error aborts only the remaining pages and already collected
// records are still returned.
func (a *Adapter) Scrape(ctx context.Context, criteria domain.SearchCriteria, maxPages int) ([]domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "SiteFetcher", "source": a.profile.ID})

	var collected []domain.Property
	for page := 1; page <= maxPages; page++ {
		select {
		case <-ctx.Done():
			return collected, ctx.Err()
		default:
		}

		if err := a.limiter.Acquire(ctx); err != nil {
			return collected, err
		}

		pageURL, err := a.urls.BuildScraperURL(a.profile, criteria, page)
		if err != nil {
			return collected, fmt.Errorf("sitefetcher %s: %w", a.profile.ID, err)
		}

		pageLogger := logger.WithFields(port.Fields{"page": page, "url": pageURL})
		records, err := a.scrapePage(ctx, pageLogger, pageURL)
		if err != nil {
			pageLogger.Warn("Page failed, aborting pagination for this source", port.Fields{"error": err.Error()})
			return collected, fmt.Errorf("sitefetcher %s page %d: %w", a.profile.ID, page, err)
		}
		if len(records) == 0 {
			pageLogger.Debug("Empty page, assuming no further pages", nil)
			break
		}

		pageLogger.Debug("Page extracted", port.Fields{"records": len(records)})
		collected = append(collected, records...)
	}

	logger.Info("Scrape finished", port.Fields{"records": len(collected)})
	return collected, nil
}

// scrapePage runs the three-tier extraction strategy for one page:
// structured selectors over the fetched document, then over a headless
// render, then aggressive heuristics over whatever document we have.
func (a *Adapter) scrapePage(ctx context.Context, logger port.LoggerPort, pageURL string) ([]domain.Property, error) {
	html, fetchErr := a.fetch(pageURL)
	if fetchErr != nil {
		logger.Debug("Lightweight fetch failed", port.Fields{"error": fetchErr.Error()})
	}

	// Tier A: structured extraction over the raw document.
	if html != "" {
		if records := a.extractCards(html, pageURL); len(records) > 0 {
			return records, nil
		}
	}

	// Tier B: the site is likely client-rendered; extract from a browser
	// snapshot with the same selectors.
	if a.renderer != nil {
		rendered, err := a.renderer.Render(ctx, pageURL)
		if err != nil {
			logger.Debug("Headless render failed", port.Fields{"error": err.Error()})
		} else if rendered != "" {
			html = rendered
			if records := a.extractCards(rendered, pageURL); len(records) > 0 {
				return records, nil
			}
		}
	}

	// Tier C: heuristic mining, embedded bootstrap payloads first, then
	// anchors and surrounding text.
	if html != "" {
		if records := a.mineHeuristics(html, pageURL); len(records) > 0 {
			return records, nil
		}
		return nil, nil
	}

	return nil, fetchErr
}

// fetch performs the lightweight Tier A request on a clone of the parent
// collector (handlers stay scoped to this page, limits are inherited).
func (a *Adapter) fetch(pageURL string) (string, error) {
	collector := a.collector.Clone()

	var body string
	var responseErr error

	collector.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	collector.OnError(func(r *colly.Response, err error) {
		responseErr = fmt.Errorf("request to %s failed with status %d: %w", r.Request.URL, r.StatusCode, err)
	})

	if err := collector.Visit(pageURL); err != nil {
		return "", fmt.Errorf("failed to visit %s: %w", pageURL, err)
	}
	collector.Wait()

	if responseErr != nil {
		return "", responseErr
	}
	return body, nil
}
