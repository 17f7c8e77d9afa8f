package usecase

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
)

// CanonicalKey is the dedup identity of a record: its absolute URL when
// present and well-formed, otherwise lowercase(title)|totalPrice.
func CanonicalKey(p *domain.Property) string {
	if p.URL != "" {
		if u, err := url.Parse(p.URL); err == nil && u.IsAbs() {
			return u.String()
		}
	}
	return fmt.Sprintf("%s|%.0f", strings.ToLower(p.Title), p.TotalPrice())
}

// Deduplicate keeps the first occurrence of every canonical key, preserving
// input order. Applying it twice yields the same result.
func Deduplicate(properties []domain.Property) []domain.Property {
	seen := make(map[string]struct{}, len(properties))
	out := make([]domain.Property, 0, len(properties))
	for _, p := range properties {
		key := CanonicalKey(&p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}
