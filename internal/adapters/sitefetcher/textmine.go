package sitefetcher

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
)

// COP plausibility band for a monthly rent. Values outside it are admin fees,
// partial figures or garbage.
const (
	minPlausibleCOP = 500_000
	maxPlausibleCOP = 50_000_000

	// Admin fees sit well below the rent band.
	minPlausibleAdminCOP = 50_000
)

// Price patterns in priority order: symbol-prefixed, thousand-separated,
// bare 7-10 digit runs.
var (
	symbolPriceRe    = regexp.MustCompile(`\$\s*[0-9][0-9.,]*`)
	separatedPriceRe = regexp.MustCompile(`[0-9]{1,3}(?:[.,][0-9]{3})+`)
	barePriceRe      = regexp.MustCompile(`[0-9]{7,10}`)

	areaRe    = regexp.MustCompile(`([0-9]+(?:[.,][0-9]+)?)\s*(?:m2|m²|mts2?|metros)`)
	countRe   = regexp.MustCompile(`[0-9]+`)
	stratumRe = regexp.MustCompile(`(?i)estrato\s*([1-6])`)
	digitsRe  = regexp.MustCompile(`[^0-9]`)
)

var amenityVocabulary = []string{
	"piscina", "jacuzzi", "sauna", "turco", "gimnasio", "gym", "cancha",
	"tenis", "squash", "ascensor", "porteria", "portería", "terraza",
	"balcon", "balcón", "bbq", "parqueadero", "deposito", "depósito",
	"amoblado", "mascotas",
}

// ParseCOPPrice collects every numeric match from the configured patterns,
// keeps only values inside the COP plausibility band and returns the largest:
// the biggest candidate is usually the headline price, not an admin fee or a
// partial figure.
func ParseCOPPrice(text string) float64 {
	return parseMoney(text, minPlausibleCOP, maxPlausibleCOP)
}

// ParseAdminFee is ParseCOPPrice with the band shifted down: administration
// fees are a fraction of the rent but still capped by it.
func ParseAdminFee(text string) float64 {
	return parseMoney(text, minPlausibleAdminCOP, maxPlausibleCOP)
}

func parseMoney(text string, min, max float64) float64 {
	if text == "" {
		return 0
	}

	best := 0.0
	for _, re := range []*regexp.Regexp{symbolPriceRe, separatedPriceRe, barePriceRe} {
		for _, match := range re.FindAllString(text, -1) {
			digits := digitsRe.ReplaceAllString(match, "")
			if digits == "" {
				continue
			}
			value, err := strconv.ParseFloat(digits, 64)
			if err != nil {
				continue
			}
			if value < min || value > max {
				continue
			}
			if value > best {
				best = value
			}
		}
	}
	return best
}

// ParseArea extracts a square-meter figure, tolerant of "85 m2", "85m²" and
// "85,5 mts".
func ParseArea(text string) float64 {
	m := areaRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil || value <= 0 || value > 10_000 {
		return 0
	}
	return value
}

// ParseCount extracts a small cardinal (rooms, bathrooms, parking spots).
func ParseCount(text string) int {
	m := countRe.FindString(text)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 0 || n > 50 {
		return 0
	}
	return n
}

// ParseStratum extracts the Colombian socioeconomic stratum (1-6), 0 when
// not mentioned.
func ParseStratum(text string) int {
	m := stratumRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// DetectAmenities scans free text for known amenity keywords.
func DetectAmenities(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	seen := map[string]struct{}{}
	for _, kw := range amenityVocabulary {
		if strings.Contains(lower, kw) {
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			found = append(found, kw)
		}
	}
	return found
}

// mineHeuristics is the Tier C fallback: embedded bootstrap payloads are
// scanned first (most reliable when present), then anchors and their
// surrounding text. A record is only accepted with a plausible price.
func (a *Adapter) mineHeuristics(html, pageURL string) []domain.Property {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	if records := a.mineBootstrapPayloads(doc, pageURL); len(records) > 0 {
		return records
	}
	return a.mineAnchors(doc, pageURL)
}

// mineBootstrapPayloads looks for the page-bootstrap JSON blobs named in the
// profile (NEXT_DATA-style script tags or "window.X = {...}" assignments)
// and walks them for listing-shaped objects.
func (a *Adapter) mineBootstrapPayloads(doc *goquery.Document, pageURL string) []domain.Property {
	var records []domain.Property

	doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		text := script.Text()
		if text == "" {
			return true
		}
		for _, key := range a.profile.BootstrapJSONKeys {
			blob := ""
			if id, ok := script.Attr("id"); ok && "__"+strings.Trim(id, "_")+"__" == normalizeBootstrapKey(key) {
				blob = text
			} else if idx := strings.Index(text, key); idx >= 0 {
				blob = balancedJSON(text[idx:])
			}
			if blob == "" {
				continue
			}

			var payload interface{}
			if err := json.Unmarshal([]byte(blob), &payload); err != nil {
				continue
			}
			for _, raw := range collectListingObjects(payload, 0) {
				if p, ok := a.listingFromPayload(raw, pageURL); ok {
					records = append(records, p)
				}
			}
			if len(records) > 0 {
				return false
			}
		}
		return true
	})

	return records
}

func normalizeBootstrapKey(key string) string {
	key = strings.TrimPrefix(key, "window.")
	return "__" + strings.Trim(key, "_") + "__"
}

// balancedJSON returns the first brace-balanced object found after the key.
func balancedJSON(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = inString
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

var payloadPriceKeys = []string{"price", "precio", "salePrice", "rentPrice", "priceInfo", "amount", "value"}
var payloadTitleKeys = []string{"title", "titulo", "name", "nombre", "subject", "address", "direccion"}

// collectListingObjects walks arbitrary decoded JSON for objects that look
// like listings: a plausible price plus something title-shaped.
func collectListingObjects(v interface{}, depth int) []map[string]interface{} {
	if depth > 12 {
		return nil
	}

	var out []map[string]interface{}
	switch val := v.(type) {
	case map[string]interface{}:
		if payloadPrice(val) > 0 && payloadString(val, payloadTitleKeys) != "" {
			out = append(out, val)
			return out
		}
		for _, child := range val {
			out = append(out, collectListingObjects(child, depth+1)...)
		}
	case []interface{}:
		for _, child := range val {
			out = append(out, collectListingObjects(child, depth+1)...)
		}
	}
	return out
}

func payloadPrice(obj map[string]interface{}) float64 {
	for _, key := range payloadPriceKeys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case float64:
			if v >= minPlausibleCOP && v <= maxPlausibleCOP {
				return v
			}
		case string:
			if price := ParseCOPPrice(v); price > 0 {
				return price
			}
		case map[string]interface{}:
			if nested := payloadPrice(v); nested > 0 {
				return nested
			}
		}
	}
	return 0
}

func payloadString(obj map[string]interface{}, keys []string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func payloadNumber(obj map[string]interface{}, keys ...string) float64 {
	for _, key := range keys {
		switch v := obj[key].(type) {
		case float64:
			return v
		case string:
			if f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func (a *Adapter) listingFromPayload(obj map[string]interface{}, pageURL string) (domain.Property, bool) {
	price := payloadPrice(obj)
	title := payloadString(obj, payloadTitleKeys)
	if price == 0 || title == "" {
		return domain.Property{}, false
	}

	link := a.absoluteURL(payloadString(obj, []string{"url", "link", "href", "adLink", "slug"}), pageURL)
	locationText := payloadString(obj, []string{"location", "ubicacion", "neighborhood", "barrio", "sector", "address", "direccion"})

	p := domain.Property{
		ID:          a.recordID(link, title, price),
		Title:       title,
		Price:       price,
		Area:        payloadNumber(obj, "area", "m2", "surface", "totalArea"),
		Rooms:       int(payloadNumber(obj, "rooms", "bedrooms", "habitaciones", "alcobas")),
		Bathrooms:   int(payloadNumber(obj, "bathrooms", "banos", "baños")),
		Parking:     int(payloadNumber(obj, "parking", "garajes", "parqueaderos")),
		Stratum:     int(payloadNumber(obj, "stratum", "estrato")),
		URL:         link,
		Source:      a.profile.ID,
		ScrapedDate: time.Now().UTC(),
		IsActive:    true,
		Location: domain.PropertyLocation{
			Address:      locationText,
			Neighborhood: firstSegment(locationText),
		},
		Amenities: DetectAmenities(title + " " + payloadString(obj, []string{"description", "descripcion", "body"})),
	}
	if img := payloadString(obj, []string{"image", "imagen", "thumbnail", "picture"}); img != "" {
		p.Images = append(p.Images, a.normalizeImageURL(img, pageURL))
	}
	return p, true
}

// mineAnchors mines anchor tags and their surrounding text with regex. The
// anchor's closest block-level parent usually carries the price and specs.
func (a *Adapter) mineAnchors(doc *goquery.Document, pageURL string) []domain.Property {
	var records []domain.Property
	seen := map[string]struct{}{}

	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		link := a.absoluteURL(href, pageURL)
		if link == "" || !likelyListingPath(link) {
			return
		}
		if _, dup := seen[link]; dup {
			return
		}

		context := anchor.Text()
		if parent := anchor.ParentsFiltered("article, li, div").First(); parent.Length() > 0 {
			context = parent.Text()
		}

		price := ParseCOPPrice(context)
		if price == 0 {
			return
		}

		title := strings.TrimSpace(anchor.Text())
		if title == "" {
			title = strings.TrimSpace(anchor.AttrOr("title", ""))
		}

		seen[link] = struct{}{}
		records = append(records, domain.Property{
			ID:          a.recordID(link, title, price),
			Title:       title,
			Price:       price,
			Area:        ParseArea(context),
			Rooms:       ParseCount(roomFragment(context)),
			Bathrooms:   ParseCount(bathFragment(context)),
			Stratum:     ParseStratum(context),
			URL:         link,
			Source:      a.profile.ID,
			ScrapedDate: time.Now().UTC(),
			IsActive:    true,
			Location:    domain.PropertyLocation{Address: locationFragment(context)},
			Amenities:   DetectAmenities(context),
		})
	})

	return records
}

var listingPathHints = []string{"inmueble", "apartamento", "apartaestudio", "casa", "propiedad", "arriendo", "proyecto", "/MCO-", "/p/"}

func likelyListingPath(link string) bool {
	lower := strings.ToLower(link)
	for _, hint := range listingPathHints {
		if strings.Contains(lower, strings.ToLower(hint)) {
			return true
		}
	}
	return false
}

var roomsFragmentRe = regexp.MustCompile(`(?i)([0-9]+)\s*(?:hab|alcoba|cuarto|dormitorio)`)
var bathsFragmentRe = regexp.MustCompile(`(?i)([0-9]+)\s*(?:baño|bano)`)
var locationFragmentRe = regexp.MustCompile(`(?i)(?:en|barrio|sector)\s+([\p{L} ]{3,40})`)

func roomFragment(text string) string {
	if m := roomsFragmentRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func bathFragment(text string) string {
	if m := bathsFragmentRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func locationFragment(text string) string {
	if m := locationFragmentRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// absoluteURL resolves relative links against the page URL, falling back to
// the profile base.
func (a *Adapter) absoluteURL(raw, pageURL string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "javascript:") || strings.HasPrefix(raw, "#") {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return u.String()
	}
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		base, err = url.Parse(a.profile.BaseURL)
		if err != nil {
			return raw
		}
	}
	return base.ResolveReference(u).String()
}

// normalizeImageURL resolves relative paths and rewrites known thumbnail
// patterns to their full-resolution equivalents.
func (a *Adapter) normalizeImageURL(raw, pageURL string) string {
	resolved := a.absoluteURL(raw, pageURL)
	for _, rewrite := range a.profile.ThumbnailRewrites {
		resolved = strings.ReplaceAll(resolved, rewrite.From, rewrite.To)
	}
	return resolved
}
