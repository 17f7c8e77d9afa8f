package sources

// RateLimitConfig paces one source. Never shared across sources.
type RateLimitConfig struct {
	RequestsPerMinute      int `yaml:"requestsPerMinute"`
	DelayBetweenRequestsMs int `yaml:"delayBetweenRequestsMs"`
	MaxConcurrentRequests  int `yaml:"maxConcurrentRequests"`
}

// CardSelectors are the CSS selectors for the repeated listing "card" element
// and its fields. Empty selectors are simply skipped by the extractor.
type CardSelectors struct {
	Card      string `yaml:"card"`
	Title     string `yaml:"title"`
	Price     string `yaml:"price"`
	AdminFee  string `yaml:"adminFee"`
	Area      string `yaml:"area"`
	Rooms     string `yaml:"rooms"`
	Bathrooms string `yaml:"bathrooms"`
	Parking   string `yaml:"parking"`
	Location  string `yaml:"location"`
	Link      string `yaml:"link"`
	Image     string `yaml:"image"`
}

// ThumbnailRewrite turns a known thumbnail path pattern into its
// full-resolution equivalent.
type ThumbnailRewrite struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Profile is the capability record of one site: selectors, URL templates and
// slug maps. Profiles are configuration data, loaded once and never mutated.
type Profile struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"displayName"`
	BaseURL     string `yaml:"baseUrl"`

	// SearchURLTemplate is used when no neighborhood slug exists for the
	// resolved location; NeighborhoodURLTemplate when one does. Placeholders:
	// {city}, {neighborhood}, {page}.
	SearchURLTemplate       string `yaml:"searchUrlTemplate"`
	NeighborhoodURLTemplate string `yaml:"neighborhoodUrlTemplate"`

	// CitySlugs maps a canonical (normalized) city to this site's slug.
	CitySlugs map[string]string `yaml:"citySlugs"`
	// NeighborhoodSlugs maps canonical city -> canonical neighborhood -> slug.
	NeighborhoodSlugs map[string]map[string]string `yaml:"neighborhoodSlugs"`

	Selectors         CardSelectors      `yaml:"selectors"`
	BootstrapJSONKeys []string           `yaml:"bootstrapJsonKeys"`
	ThumbnailRewrites []ThumbnailRewrite `yaml:"thumbnailRewrites"`
	RateLimit         RateLimitConfig    `yaml:"rateLimit"`
}
