package locations

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed locations.yaml
var embeddedCatalog []byte

// Neighborhood is one canonical neighborhood with its aliases and, for
// city-wide area names, the constituent sub-neighborhoods it expands to in
// filters.
type Neighborhood struct {
	Name       string   `yaml:"name"`
	Aliases    []string `yaml:"aliases"`
	Variations []string `yaml:"variations"`
}

// City is one canonical city entry.
type City struct {
	Name          string         `yaml:"name"`
	Code          string         `yaml:"code"`
	Aliases       []string       `yaml:"aliases"`
	Neighborhoods []Neighborhood `yaml:"neighborhoods"`
}

// Catalog is the immutable city/neighborhood lookup table, loaded once at
// process start.
type Catalog struct {
	Cities       []City `yaml:"cities"`
	FallbackCity string `yaml:"fallbackCity"`
}

// Load parses the embedded default catalog.
func Load() (*Catalog, error) {
	return parse(embeddedCatalog)
}

// LoadFromFile reads a catalog override from disk.
func LoadFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("locations: failed to read catalog %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("locations: failed to parse catalog: %w", err)
	}
	if len(cat.Cities) == 0 {
		return nil, fmt.Errorf("locations: catalog contains no cities")
	}
	if cat.FallbackCity == "" {
		cat.FallbackCity = cat.Cities[0].Name
	}
	return &cat, nil
}

// CityByName returns the city entry whose canonical name equals name.
func (c *Catalog) CityByName(name string) (*City, bool) {
	for i := range c.Cities {
		if c.Cities[i].Name == name {
			return &c.Cities[i], true
		}
	}
	return nil, false
}
