package sources

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed sources.yaml
var embeddedProfiles []byte

// Registry maps source id -> profile, resolved once at startup.
type Registry struct {
	order    []string
	profiles map[string]*Profile
}

type profilesFile struct {
	Sources []*Profile `yaml:"sources"`
}

// Load parses the embedded default profile table.
func Load() (*Registry, error) {
	return parse(embeddedProfiles)
}

// LoadFromFile reads an override table from disk, for deployments that tune
// selectors without rebuilding.
func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sources: failed to read profile table %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Registry, error) {
	var file profilesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("sources: failed to parse profile table: %w", err)
	}
	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("sources: profile table contains no sources")
	}

	reg := &Registry{profiles: make(map[string]*Profile, len(file.Sources))}
	for _, p := range file.Sources {
		if p.ID == "" || p.SearchURLTemplate == "" || p.Selectors.Card == "" {
			return nil, fmt.Errorf("sources: profile %q is missing id, url template or card selector", p.ID)
		}
		if _, dup := reg.profiles[p.ID]; dup {
			return nil, fmt.Errorf("sources: duplicate profile id %q", p.ID)
		}
		if p.RateLimit.RequestsPerMinute <= 0 {
			p.RateLimit.RequestsPerMinute = 10
		}
		if p.RateLimit.MaxConcurrentRequests <= 0 {
			p.RateLimit.MaxConcurrentRequests = 1
		}
		reg.profiles[p.ID] = p
		reg.order = append(reg.order, p.ID)
	}
	return reg, nil
}

// Get returns the profile for a source id.
func (r *Registry) Get(id string) (*Profile, bool) {
	p, ok := r.profiles[strings.ToLower(strings.TrimSpace(id))]
	return p, ok
}

// IDs returns every registered source id in declaration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Select resolves a caller-specified subset, falling back to the full set.
// Unknown ids are skipped; matching is case-insensitive over id and display
// name, substring tolerant.
func (r *Registry) Select(requested []string) []*Profile {
	if len(requested) == 0 {
		out := make([]*Profile, 0, len(r.order))
		for _, id := range r.order {
			out = append(out, r.profiles[id])
		}
		return out
	}

	var out []*Profile
	for _, id := range r.order {
		p := r.profiles[id]
		for _, want := range requested {
			w := strings.ToLower(strings.TrimSpace(want))
			if w == "" {
				continue
			}
			if strings.Contains(p.ID, w) || strings.Contains(strings.ToLower(p.DisplayName), w) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
