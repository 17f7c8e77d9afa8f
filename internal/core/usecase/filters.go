package usecase

import (
	"strings"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
)

var furnishedKeywords = []string{"amoblado", "amueblado", "furnished"}
var petsKeywords = []string{"mascotas", "pet friendly", "petfriendly", "se aceptan mascotas"}

// ApplyHardFilters keeps only properties satisfying every configured hard
// requirement. Each predicate is independently optional: an absent bound is
// skipped, so adding bounds only ever narrows the result.
func ApplyHardFilters(properties []domain.Property, h domain.HardRequirements, resolver *LocationResolver) []domain.Property {
	out := make([]domain.Property, 0, len(properties))
	for _, p := range properties {
		if matchesHard(&p, h, resolver) {
			out = append(out, p)
		}
	}
	return out
}

func matchesHard(p *domain.Property, h domain.HardRequirements, resolver *LocationResolver) bool {
	if !inIntRange(p.Rooms, h.MinRooms, h.MaxRooms) {
		return false
	}
	// Missing bathrooms/parking are treated as 0.
	if !inIntRange(p.Bathrooms, h.MinBathrooms, h.MaxBathrooms) {
		return false
	}
	if !inIntRange(p.Parking, h.MinParking, h.MaxParking) {
		return false
	}
	if !inFloatRange(p.Area, h.MinArea, h.MaxArea) {
		return false
	}
	// Price bounds apply to the total (rent + administration).
	if !inFloatRange(p.TotalPrice(), h.MinPrice, h.MaxPrice) {
		return false
	}
	// An unknown stratum (0) always passes; it must not count as out of range.
	if p.Stratum != 0 && !inIntRange(p.Stratum, h.MinStratum, h.MaxStratum) {
		return false
	}

	if len(h.PropertyTypes) > 0 && !matchesPropertyType(p, h.PropertyTypes) {
		return false
	}

	wanted := h.Location.Neighborhoods
	if len(wanted) > 0 && !matchesNeighborhoods(p, wanted, resolver) {
		return false
	}
	return true
}

func matchesPropertyType(p *domain.Property, types []string) bool {
	haystack := Normalize(p.Title + " " + p.Description)
	for _, t := range types {
		if t != "" && strings.Contains(haystack, Normalize(t)) {
			return true
		}
	}
	return false
}

// matchesNeighborhoods checks the property's address and neighborhood against
// the wanted list expanded through the variation table. Containment is
// bidirectional: "Usaquén" matches "Usaquén Centro" and vice versa.
func matchesNeighborhoods(p *domain.Property, wanted []string, resolver *LocationResolver) bool {
	fields := []string{Normalize(p.Location.Neighborhood), Normalize(p.Location.Address)}
	for _, w := range wanted {
		for _, variation := range resolver.NeighborhoodVariations(w) {
			for _, field := range fields {
				if field == "" || variation == "" {
					continue
				}
				if strings.Contains(field, variation) || strings.Contains(variation, field) {
					return true
				}
			}
		}
	}
	return false
}

// ApplyOptionalFilters applies the independently togglable narrowing filters.
// sourceNames maps source id -> display name for allowlist matching. The zero
// filter set is a no-op.
func ApplyOptionalFilters(properties []domain.Property, f domain.OptionalFilters, resolver *LocationResolver, sourceNames map[string]string) []domain.Property {
	out := make([]domain.Property, 0, len(properties))
	for _, p := range properties {
		if matchesOptional(&p, f, resolver, sourceNames) {
			out = append(out, p)
		}
	}
	return out
}

func matchesOptional(p *domain.Property, f domain.OptionalFilters, resolver *LocationResolver, sourceNames map[string]string) bool {
	if len(f.Sources) > 0 && !matchesSource(p.Source, sourceNames[p.Source], f.Sources) {
		return false
	}
	if len(f.Neighborhoods) > 0 && !matchesNeighborhoods(p, f.Neighborhoods, resolver) {
		return false
	}
	if f.PriceRange != nil && !inFloatRange(p.TotalPrice(), f.PriceRange.Min, f.PriceRange.Max) {
		return false
	}
	if f.Furnished != nil && containsAnyKeyword(p, furnishedKeywords) != *f.Furnished {
		return false
	}
	if f.Pets != nil && containsAnyKeyword(p, petsKeywords) != *f.Pets {
		return false
	}
	if f.Parking != nil && (p.Parking > 0) != *f.Parking {
		return false
	}
	return true
}

func matchesSource(id, displayName string, allow []string) bool {
	id = strings.ToLower(id)
	displayName = strings.ToLower(displayName)
	for _, a := range allow {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if strings.Contains(id, a) || (displayName != "" && strings.Contains(displayName, a)) {
			return true
		}
	}
	return false
}

func containsAnyKeyword(p *domain.Property, keywords []string) bool {
	haystack := Normalize(p.Title + " " + p.Description + " " + strings.Join(p.Amenities, " "))
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

func inIntRange(v int, min, max *int) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}

func inFloatRange(v float64, min, max *float64) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}
