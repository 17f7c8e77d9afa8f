package usecase

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
)

// Plausibility bounds for one scraped record. A record outside these is
// structurally or semantically broken, not merely unattractive.
const (
	minPlausiblePrice = 300_000
	maxPlausiblePrice = 50_000_000
	maxPlausibleArea  = 1000
	maxPlausibleRooms = 20
	minTitleLength    = 5
)

// IsValidProperty is the plausibility gate applied before filtering.
func IsValidProperty(p *domain.Property) bool {
	return len(ValidationErrors(p)) == 0
}

// ValidationErrors returns every failed check as a human-readable reason.
// Used for diagnostics; it has no side effects.
func ValidationErrors(p *domain.Property) []string {
	var reasons []string

	if p.ID == "" {
		reasons = append(reasons, "missing id")
	}
	if strings.TrimSpace(p.Title) == "" {
		reasons = append(reasons, "missing title")
	}
	if p.Source == "" {
		reasons = append(reasons, "missing source")
	}
	if p.Location.Address == "" && p.Location.Neighborhood == "" && p.Location.City == "" {
		reasons = append(reasons, "missing location")
	}

	if p.Price < minPlausiblePrice || p.Price > maxPlausiblePrice {
		reasons = append(reasons, fmt.Sprintf("price %.0f outside [%d, %d]", p.Price, minPlausiblePrice, maxPlausiblePrice))
	}
	if p.Area != 0 && (p.Area <= 0 || p.Area > maxPlausibleArea) {
		reasons = append(reasons, fmt.Sprintf("area %.1f outside (0, %d]", p.Area, maxPlausibleArea))
	}
	if p.Rooms < 0 || p.Rooms > maxPlausibleRooms {
		reasons = append(reasons, fmt.Sprintf("rooms %d outside [0, %d]", p.Rooms, maxPlausibleRooms))
	}

	if meaningfulLength(p.Title) < minTitleLength {
		reasons = append(reasons, "title too short")
	}

	return reasons
}

func meaningfulLength(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
