package port

import (
	"context"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
)

// ResultExporterPort receives the final ranked result after scoring. Export is
// best effort: a failing exporter is logged and never fails the search.
type ResultExporterPort interface {
	Export(ctx context.Context, searchID string, result *domain.SearchResult) error
}
