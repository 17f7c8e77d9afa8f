package domain

import (
	"fmt"
	"strings"
)

// LocationCriteria is the free-text / structured location part of a search.
type LocationCriteria struct {
	City          string   `json:"city"`
	Neighborhoods []string `json:"neighborhoods"`
	Zones         []string `json:"zones"`
}

// HardRequirements are the non-negotiable bounds of a search. A nil pointer
// means "no bound".
type HardRequirements struct {
	MinRooms     *int     `json:"minRooms"`
	MaxRooms     *int     `json:"maxRooms"`
	MinBathrooms *int     `json:"minBathrooms"`
	MaxBathrooms *int     `json:"maxBathrooms"`
	MinParking   *int     `json:"minParking"`
	MaxParking   *int     `json:"maxParking"`
	MinArea      *float64 `json:"minArea"`
	MaxArea      *float64 `json:"maxArea"`
	MinPrice     *float64 `json:"minPrice"`
	MaxPrice     *float64 `json:"maxPrice"`
	MinStratum   *int     `json:"minStratum"`
	MaxStratum   *int     `json:"maxStratum"`

	PropertyTypes []string         `json:"propertyTypes"`
	Operation     string           `json:"operation"`
	Location      LocationCriteria `json:"location"`
}

// WeightedPreference is one "nice to have" ranking dimension.
type WeightedPreference struct {
	Weight    float64  `json:"weight"`
	Preferred []string `json:"preferred"`
}

// PricePerM2Preference rewards cheap square meters instead of keyword matches.
type PricePerM2Preference struct {
	Weight float64  `json:"weight"`
	Target *float64 `json:"target"`
}

// Preferences never exclude a property, they only affect its score.
type Preferences struct {
	WetAreas   *WeightedPreference   `json:"wetAreas"`
	Sports     *WeightedPreference   `json:"sports"`
	Amenities  *WeightedPreference   `json:"amenities"`
	Location   *WeightedPreference   `json:"location"`
	PricePerM2 *PricePerM2Preference `json:"pricePerM2"`
}

// PriceBand is an inclusive [Min, Max] price interval.
type PriceBand struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// OptionalFilters are independently togglable narrowing filters applied after
// the hard requirements. Zero value is a no-op.
type OptionalFilters struct {
	Sources       []string   `json:"sources"`
	Neighborhoods []string   `json:"neighborhoods"`
	PriceRange    *PriceBand `json:"priceRange"`
	Furnished     *bool      `json:"furnished"`
	Parking       *bool      `json:"parking"`
	Pets          *bool      `json:"pets"`
}

// SearchCriteria is the full input of one search invocation.
type SearchCriteria struct {
	HardRequirements HardRequirements `json:"hardRequirements"`
	Preferences      Preferences      `json:"preferences"`
	OptionalFilters  OptionalFilters  `json:"optionalFilters"`
}

func checkOrder[T int | float64](name string, min, max *T) error {
	if min != nil && max != nil && *min > *max {
		return &ValidationError{Field: name, Reason: fmt.Sprintf("min %v is greater than max %v", *min, *max)}
	}
	return nil
}

// Validate enforces the min<=max invariant on every bounded pair.
func (c *SearchCriteria) Validate() error {
	h := c.HardRequirements
	checks := []error{
		checkOrder("rooms", h.MinRooms, h.MaxRooms),
		checkOrder("bathrooms", h.MinBathrooms, h.MaxBathrooms),
		checkOrder("parking", h.MinParking, h.MaxParking),
		checkOrder("area", h.MinArea, h.MaxArea),
		checkOrder("price", h.MinPrice, h.MaxPrice),
		checkOrder("stratum", h.MinStratum, h.MaxStratum),
	}
	if c.OptionalFilters.PriceRange != nil {
		checks = append(checks, checkOrder("optionalFilters.priceRange", c.OptionalFilters.PriceRange.Min, c.OptionalFilters.PriceRange.Max))
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(h.Location.City) == "" && len(h.Location.Neighborhoods) == 0 {
		return &ValidationError{Field: "location", Reason: "a city or at least one neighborhood is required"}
	}
	return nil
}

// LocationText flattens the location criteria into one free-text string for
// the resolver.
func (c *SearchCriteria) LocationText() string {
	parts := make([]string, 0, 3)
	if c.HardRequirements.Location.City != "" {
		parts = append(parts, c.HardRequirements.Location.City)
	}
	parts = append(parts, c.HardRequirements.Location.Neighborhoods...)
	return strings.Join(parts, " ")
}
