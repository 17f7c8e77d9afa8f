package usecase

import (
	"sort"
	"strings"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
)

// Keyword vocabularies used to detect preference attributes in a record's
// title, description and amenity list.
var (
	wetAreaVocabulary = []string{"jacuzzi", "sauna", "turco", "piscina", "hidromasaje"}
	sportsVocabulary  = []string{"gimnasio", "gym", "cancha", "tenis", "squash", "padel", "futbol"}
)

// ScoreProperty computes the weighted preference score: every configured
// dimension contributes weight x matchFraction. A dimension with no preference
// list contributes weight x 1.0, so absent preferences never penalize.
func ScoreProperty(p *domain.Property, prefs domain.Preferences) float64 {
	score := 0.0
	if pref := prefs.WetAreas; pref != nil {
		score += pref.Weight * keywordFraction(p, pref.Preferred, wetAreaVocabulary)
	}
	if pref := prefs.Sports; pref != nil {
		score += pref.Weight * keywordFraction(p, pref.Preferred, sportsVocabulary)
	}
	if pref := prefs.Amenities; pref != nil {
		score += pref.Weight * keywordFraction(p, pref.Preferred, nil)
	}
	if pref := prefs.Location; pref != nil {
		score += pref.Weight * locationFraction(p, pref.Preferred)
	}
	if pref := prefs.PricePerM2; pref != nil {
		score += pref.Weight * pricePerM2Fraction(p, pref.Target)
	}
	return score
}

// RankByScore scores every property and sorts descending. Ties keep their
// pre-sort order so ranking is deterministic.
func RankByScore(properties []domain.Property, prefs domain.Preferences) []domain.Property {
	for i := range properties {
		properties[i].Score = ScoreProperty(&properties[i], prefs)
	}
	sort.SliceStable(properties, func(i, j int) bool {
		return properties[i].Score > properties[j].Score
	})
	return properties
}

// keywordFraction is |detected ∩ preferred| / |preferred|. The vocabulary
// widens detection for domain terms; 1.0 when no preference list is given.
func keywordFraction(p *domain.Property, preferred, vocabulary []string) float64 {
	if len(preferred) == 0 {
		return 1.0
	}
	haystack := Normalize(p.Title + " " + p.Description + " " + strings.Join(p.Amenities, " "))
	matched := 0
	for _, want := range preferred {
		w := Normalize(want)
		if w == "" {
			continue
		}
		if strings.Contains(haystack, w) || vocabularyHit(haystack, w, vocabulary) {
			matched++
		}
	}
	return float64(matched) / float64(len(preferred))
}

func vocabularyHit(haystack, want string, vocabulary []string) bool {
	for _, term := range vocabulary {
		if strings.Contains(want, term) && strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

// locationFraction is binary: 1.0 when the property's neighborhood or address
// matches any preferred location token (containment either way), else 0.
func locationFraction(p *domain.Property, preferred []string) float64 {
	if len(preferred) == 0 {
		return 1.0
	}
	fields := []string{Normalize(p.Location.Neighborhood), Normalize(p.Location.Address), Normalize(p.Location.City)}
	for _, want := range preferred {
		w := Normalize(want)
		if w == "" {
			continue
		}
		for _, field := range fields {
			if field == "" {
				continue
			}
			if strings.Contains(field, w) || strings.Contains(w, field) {
				return 1.0
			}
		}
	}
	return 0.0
}

// pricePerM2Fraction rewards cheap square meters: 1.0 at or below the target,
// decaying linearly to 0 at twice the target. Unknown values never penalize.
func pricePerM2Fraction(p *domain.Property, target *float64) float64 {
	if target == nil || *target <= 0 {
		return 1.0
	}
	ppm2 := p.PricePerM2()
	if ppm2 <= 0 {
		return 1.0
	}
	if ppm2 <= *target {
		return 1.0
	}
	if ppm2 >= 2**target {
		return 0.0
	}
	return (2**target - ppm2) / *target
}
