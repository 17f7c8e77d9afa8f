package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gonbooster/AIArriendo-sub000/internal/contextkeys"
	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
	"github.com/gonbooster/AIArriendo-sub000/internal/core/port"
)

// SearchPropertiesUseCase fans out one scrape task per source, aggregates the
// raw records and drives the normalize -> dedup -> filter -> score pipeline.
// A broken source never degrades or blocks the whole search.
type SearchPropertiesUseCase struct {
	resolver    *LocationResolver
	scrapers    []port.SourceScraperPort
	sourceNames map[string]string
	store       port.PropertyStorePort
	exporters   []port.ResultExporterPort

	maxPages      int
	sourceTimeout time.Duration
}

// NewSearchPropertiesUseCase wires the orchestrator. store may be nil;
// exporters may be empty. Both are best-effort collaborators.
func NewSearchPropertiesUseCase(
	resolver *LocationResolver,
	scrapers []port.SourceScraperPort,
	sourceNames map[string]string,
	store port.PropertyStorePort,
	exporters []port.ResultExporterPort,
	maxPages int,
	sourceTimeout time.Duration,
) *SearchPropertiesUseCase {
	if maxPages < 1 {
		maxPages = 3
	}
	if sourceTimeout <= 0 {
		sourceTimeout = 45 * time.Second
	}
	return &SearchPropertiesUseCase{
		resolver:      resolver,
		scrapers:      scrapers,
		sourceNames:   sourceNames,
		store:         store,
		exporters:     exporters,
		maxPages:      maxPages,
		sourceTimeout: sourceTimeout,
	}
}

type sourceOutcome struct {
	index      int
	sourceID   string
	properties []domain.Property
	err        error
}

// Execute runs one full search. Only criteria validation and location
// resolution fail fast; everything inside the fan-out is fault-isolated per
// source.
func (uc *SearchPropertiesUseCase) Execute(ctx context.Context, criteria domain.SearchCriteria, page, limit int) (*domain.SearchResult, error) {
	started := time.Now()
	baseLogger := contextkeys.LoggerFromContext(ctx)
	searchID := uuid.New().String()
	ucLogger := baseLogger.WithFields(port.Fields{"use_case": "SearchProperties", "search_id": searchID})

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	if err := criteria.Validate(); err != nil {
		ucLogger.Warn("Rejecting invalid criteria", port.Fields{"error": err.Error()})
		return nil, err
	}

	location, err := uc.resolver.ResolveForSearch(criteria.LocationText())
	if err != nil {
		ucLogger.Warn("Refusing to search under an unresolved location", port.Fields{
			"text":       criteria.LocationText(),
			"confidence": location.Confidence,
		})
		return nil, err
	}
	ucLogger.Info("Location resolved", port.Fields{
		"city":         location.City,
		"neighborhood": location.Neighborhood,
		"confidence":   location.Confidence,
	})

	selected := uc.selectScrapers(criteria.OptionalFilters.Sources)
	if len(selected) == 0 {
		ucLogger.Warn("No sources match the requested subset", port.Fields{"requested": criteria.OptionalFilters.Sources})
		return domain.EmptySearchResult(page, limit), nil
	}

	raw := uc.fanOut(ctx, ucLogger, selected, criteria)
	ucLogger.Info("All sources settled", port.Fields{"raw_records": len(raw), "sources": len(selected)})

	// Pipeline: dedup -> validate -> hard filters -> optional filters -> rank.
	deduped := Deduplicate(raw)
	valid := make([]domain.Property, 0, len(deduped))
	for _, p := range deduped {
		if IsValidProperty(&p) {
			valid = append(valid, p)
		} else {
			ucLogger.Debug("Dropping implausible record", port.Fields{
				"source":  p.Source,
				"url":     p.URL,
				"reasons": ValidationErrors(&p),
			})
		}
	}
	hard := ApplyHardFilters(valid, criteria.HardRequirements, uc.resolver)
	narrowed := ApplyOptionalFilters(hard, criteria.OptionalFilters, uc.resolver, uc.sourceNames)
	ranked := RankByScore(narrowed, criteria.Preferences)

	result := &domain.SearchResult{
		Properties:      Paginate(ranked, page, limit),
		Total:           len(ranked),
		Page:            page,
		Limit:           limit,
		Criteria:        criteria,
		Location:        location,
		Summary:         BuildSummary(ranked, len(hard)),
		ExecutionTimeMs: time.Since(started).Milliseconds(),
	}

	uc.notifyCollaborators(ctx, ucLogger, searchID, ranked, result)

	ucLogger.Info("Search finished", port.Fields{
		"total":             result.Total,
		"page_items":        len(result.Properties),
		"execution_time_ms": result.ExecutionTimeMs,
	})
	return result, nil
}

// selectScrapers returns the caller-specified subset, or the full set.
// Matching is case-insensitive over id and display name, substring tolerant.
func (uc *SearchPropertiesUseCase) selectScrapers(requested []string) []port.SourceScraperPort {
	if len(requested) == 0 {
		return uc.scrapers
	}
	var out []port.SourceScraperPort
	for _, s := range uc.scrapers {
		if matchesSource(s.SourceID(), uc.sourceNames[s.SourceID()], requested) {
			out = append(out, s)
		}
	}
	return out
}

// fanOut launches every selected scraper concurrently, each under its own
// deadline. Results are flattened in source-launch order; a timed-out or
// failed source contributes whatever it had collected so far.
func (uc *SearchPropertiesUseCase) fanOut(ctx context.Context, logger port.LoggerPort, selected []port.SourceScraperPort, criteria domain.SearchCriteria) []domain.Property {
	outcomes := make([]sourceOutcome, len(selected))
	var wg sync.WaitGroup

	for i, scraper := range selected {
		wg.Add(1)
		go func(index int, s port.SourceScraperPort) {
			defer wg.Done()

			sourceLogger := logger.WithFields(port.Fields{"source": s.SourceID()})
			sourceCtx, cancel := context.WithTimeout(ctx, uc.sourceTimeout)
			defer cancel()
			sourceCtx = contextkeys.ContextWithLogger(sourceCtx, sourceLogger)

			properties, err := s.Scrape(sourceCtx, criteria, uc.maxPages)
			outcomes[index] = sourceOutcome{index: index, sourceID: s.SourceID(), properties: properties, err: err}

			if err != nil {
				// Isolated: the source still contributes its partial pages.
				sourceLogger.Warn("Source finished with an error", port.Fields{
					"error":     err.Error(),
					"salvaged":  len(properties),
					"timed_out": sourceCtx.Err() != nil,
				})
				return
			}
			sourceLogger.Info("Source finished", port.Fields{"records": len(properties)})
		}(i, scraper)
	}
	wg.Wait()

	var flattened []domain.Property
	for _, outcome := range outcomes {
		flattened = append(flattened, outcome.properties...)
	}
	return flattened
}

// notifyCollaborators pushes the scored set to the persistent store and the
// exporters. All of it is best effort: failures are logged, never surfaced.
func (uc *SearchPropertiesUseCase) notifyCollaborators(ctx context.Context, logger port.LoggerPort, searchID string, ranked []domain.Property, result *domain.SearchResult) {
	if uc.store != nil && len(ranked) > 0 {
		if err := uc.store.SaveBatch(ctx, ranked); err != nil {
			logger.Error("Property store rejected the batch", err, port.Fields{"records": len(ranked)})
		}
	}
	for _, exporter := range uc.exporters {
		if err := exporter.Export(ctx, searchID, result); err != nil {
			logger.Error("Result exporter failed", err, nil)
		}
	}
}
