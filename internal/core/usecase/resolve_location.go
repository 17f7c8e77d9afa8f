package usecase

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
	"github.com/gonbooster/AIArriendo-sub000/internal/locations"
	"github.com/gonbooster/AIArriendo-sub000/internal/sources"
)

// MinSearchConfidence is the threshold below which a free-text location is
// rejected instead of searched under a guessed city.
const MinSearchConfidence = 0.6

const (
	confidenceExactCity    = 1.0
	confidenceAliasCity    = 0.9
	confidenceFallbackCity = 0.3
	confidenceNeighborhood = 0.9
	confidenceNbAlias      = 0.8
	confidenceRescueFloor  = 0.8
)

var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases and strips diacritics so "Usaquén" and "usaquen"
// compare equal.
func Normalize(s string) string {
	out, _, err := transform.String(stripDiacritics, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

type neighborhoodEntry struct {
	canonical  string
	normName   string
	aliases    []string
	variations []string
	city       string // canonical city name
	cityCode   string
}

type cityEntry struct {
	canonical string
	normName  string
	aliases   []string
	code      string
}

// LocationResolver turns free text into {city, neighborhood, confidence} and
// builds per-source target URLs. All lookup tables are normalized once at
// construction and never mutated.
type LocationResolver struct {
	cities        []cityEntry
	neighborhoods []neighborhoodEntry
	variations    map[string][]string
	fallback      cityEntry
}

// NewLocationResolver indexes the catalog.
func NewLocationResolver(catalog *locations.Catalog) *LocationResolver {
	r := &LocationResolver{variations: make(map[string][]string)}

	for _, c := range catalog.Cities {
		entry := cityEntry{canonical: c.Name, normName: Normalize(c.Name), code: c.Code}
		for _, a := range c.Aliases {
			entry.aliases = append(entry.aliases, Normalize(a))
		}
		r.cities = append(r.cities, entry)

		for _, n := range c.Neighborhoods {
			nb := neighborhoodEntry{
				canonical: n.Name,
				normName:  Normalize(n.Name),
				city:      c.Name,
				cityCode:  c.Code,
			}
			for _, a := range n.Aliases {
				nb.aliases = append(nb.aliases, Normalize(a))
			}
			for _, v := range n.Variations {
				nb.variations = append(nb.variations, Normalize(v))
			}
			r.neighborhoods = append(r.neighborhoods, nb)

			expansion := append([]string{nb.normName}, nb.variations...)
			r.variations[nb.normName] = expansion
			for _, a := range nb.aliases {
				r.variations[a] = expansion
			}
		}
	}

	if fb, ok := catalog.CityByName(catalog.FallbackCity); ok {
		r.fallback = cityEntry{canonical: fb.Name, normName: Normalize(fb.Name), code: fb.Code}
	} else {
		r.fallback = r.cities[0]
	}
	return r
}

// DetectLocation scans the city and neighborhood tables for the given free
// text. A neighborhood match under a different city than the one guessed wins
// the city: the neighborhood signal outranks a weak city guess.
func (r *LocationResolver) DetectLocation(text string) domain.LocationInfo {
	normText := Normalize(text)
	info := domain.LocationInfo{OriginalText: text}

	city := r.fallback
	cityConf := confidenceFallbackCity
	for _, c := range r.cities {
		if strings.Contains(normText, c.normName) {
			city, cityConf = c, confidenceExactCity
			break
		}
		for _, alias := range c.aliases {
			if strings.Contains(normText, alias) {
				city, cityConf = c, confidenceAliasCity
				break
			}
		}
		if cityConf == confidenceAliasCity {
			break
		}
	}

	// Neighborhood scan runs across every city, independently of the guess.
	var nbConf float64
	for _, nb := range r.neighborhoods {
		conf := 0.0
		if strings.Contains(normText, nb.normName) {
			conf = confidenceNeighborhood
		} else {
			for _, alias := range nb.aliases {
				if strings.Contains(normText, alias) {
					conf = confidenceNbAlias
					break
				}
			}
		}
		if conf <= nbConf {
			continue
		}
		nbConf = conf
		info.Neighborhood = nb.canonical
		if nb.city != city.canonical && cityConf < confidenceExactCity {
			city = cityEntry{canonical: nb.city, normName: Normalize(nb.city), code: nb.cityCode}
			cityConf = conf
		}
	}

	info.City = city.canonical
	info.CityCode = city.code
	info.Confidence = cityConf
	if nbConf > info.Confidence {
		info.Confidence = nbConf
	}
	// A strong neighborhood match rescues a weak city guess.
	if nbConf >= confidenceNbAlias && info.Confidence < confidenceRescueFloor {
		info.Confidence = confidenceRescueFloor
	}
	return info
}

// ResolveForSearch resolves the criteria's location text and refuses to search
// below the confidence threshold.
func (r *LocationResolver) ResolveForSearch(text string) (domain.LocationInfo, error) {
	info := r.DetectLocation(text)
	if info.Confidence < MinSearchConfidence {
		return info, fmt.Errorf("%w: %q resolved to %q with confidence %.2f",
			domain.ErrLocationUnresolved, text, info.City, info.Confidence)
	}
	return info, nil
}

// BuildScraperURL resolves the criteria's location through one source's own
// slug tables and substitutes it into that source's URL template. The
// neighborhood template is used only when the site actually maps the
// neighborhood.
func (r *LocationResolver) BuildScraperURL(profile *sources.Profile, criteria domain.SearchCriteria, page int) (string, error) {
	info := r.DetectLocation(criteria.LocationText())

	citySlug, ok := profile.CitySlugs[Normalize(info.City)]
	if !ok {
		return "", fmt.Errorf("source %s has no slug for city %q", profile.ID, info.City)
	}

	template := profile.SearchURLTemplate
	nbSlug := ""
	if info.Neighborhood != "" && profile.NeighborhoodURLTemplate != "" {
		if cityMap, ok := profile.NeighborhoodSlugs[Normalize(info.City)]; ok {
			if slug, ok := cityMap[Normalize(info.Neighborhood)]; ok {
				template = profile.NeighborhoodURLTemplate
				nbSlug = slug
			}
		}
	}

	return strings.NewReplacer(
		"{city}", citySlug,
		"{neighborhood}", nbSlug,
		"{page}", fmt.Sprintf("%d", page),
	).Replace(template), nil
}

// NeighborhoodVariations expands a neighborhood name to itself plus its
// constituent sub-neighborhoods, all normalized. Unknown names map to
// themselves.
func (r *LocationResolver) NeighborhoodVariations(name string) []string {
	key := Normalize(name)
	if exp, ok := r.variations[key]; ok {
		return exp
	}
	return []string{key}
}

// SmartLocationSearch fuzzily matches text against every city and
// neighborhood: exact = 1.0, containment = 0.9, otherwise proportional
// per-word overlap. Candidates come back ranked; the best one is returned
// separately (nil when nothing scored above zero).
func (r *LocationResolver) SmartLocationSearch(text string) ([]domain.LocationCandidate, *domain.LocationCandidate) {
	normText := Normalize(text)
	if normText == "" {
		return nil, nil
	}

	var candidates []domain.LocationCandidate
	for _, c := range r.cities {
		if score := fuzzyScore(normText, c.normName, c.aliases); score > 0 {
			candidates = append(candidates, domain.LocationCandidate{City: c.canonical, Score: score})
		}
	}
	for _, nb := range r.neighborhoods {
		if score := fuzzyScore(normText, nb.normName, nb.aliases); score > 0 {
			candidates = append(candidates, domain.LocationCandidate{City: nb.city, Neighborhood: nb.canonical, Score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })
	if len(candidates) == 0 {
		return nil, nil
	}
	best := candidates[0]
	return candidates, &best
}

func fuzzyScore(query, name string, aliases []string) float64 {
	score := matchScore(query, name)
	for _, alias := range aliases {
		if s := matchScore(query, alias); s > score {
			score = s
		}
	}
	return score
}

func matchScore(query, name string) float64 {
	if query == name {
		return 1.0
	}
	if strings.Contains(name, query) || strings.Contains(query, name) {
		return 0.9
	}

	queryWords := strings.Fields(query)
	nameWords := strings.Fields(name)
	if len(queryWords) == 0 || len(nameWords) == 0 {
		return 0
	}
	matched := 0
	for _, qw := range queryWords {
		for _, nw := range nameWords {
			if qw == nw {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(queryWords))
}
