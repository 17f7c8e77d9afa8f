package sitefetcher

import (
	"testing"

	"github.com/gonbooster/AIArriendo-sub000/internal/sources"
)

func testAdapter() *Adapter {
	return &Adapter{profile: &sources.Profile{
		ID:      "fincaraiz",
		BaseURL: "https://www.fincaraiz.com.co",
		Selectors: sources.CardSelectors{
			Card:      "article.card",
			Title:     "h2.title",
			Price:     "span.price",
			AdminFee:  "span.admin",
			Area:      "span.area",
			Rooms:     "span.rooms",
			Bathrooms: "span.baths",
			Location:  "p.location",
			Link:      "a.detail",
			Image:     "img.photo",
		},
		BootstrapJSONKeys: []string{"__NEXT_DATA__", "window.__INITIAL_STATE__"},
		ThumbnailRewrites: []sources.ThumbnailRewrite{{From: "/thumbs/", To: "/large/"}},
	}}
}

func TestParseCOPPriceLargestPlausibleWins(t *testing.T) {
	// The admin fee sits below the plausibility band, the rent wins.
	got := ParseCOPPrice("Arriendo $ 1.500.000 + administración $200.000")
	if got != 1_500_000 {
		t.Fatalf("expected 1500000, got %.0f", got)
	}

	// Two in-band figures: the headline price is the larger one.
	got = ParseCOPPrice("antes 2.100.000 ahora $2.300.000")
	if got != 2_300_000 {
		t.Fatalf("expected 2300000, got %.0f", got)
	}
}

func TestParseCOPPriceBandEdges(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"499.999", 0},
		{"500.000", 500_000},
		{"$50.000.000", 50_000_000},
		{"$50.000.001", 0},
		{"codigo interno 1800000", 1_800_000}, // bare digit run
		{"tel 3001234567891", 0},              // too many digits for a price
		{"", 0},
	}
	for _, tc := range cases {
		if got := ParseCOPPrice(tc.text); got != tc.want {
			t.Fatalf("%q: expected %.0f, got %.0f", tc.text, tc.want, got)
		}
	}
}

func TestParseAdminFeeAcceptsSubRentFigures(t *testing.T) {
	if got := ParseAdminFee("Administración $ 350.000"); got != 350_000 {
		t.Fatalf("expected 350000, got %.0f", got)
	}
	if got := ParseAdminFee("incluida $ 10.000"); got != 0 {
		t.Fatalf("below the admin floor, got %.0f", got)
	}
}

func TestParseArea(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"85 m2", 85},
		{"120m²", 120},
		{"85,5 mts", 85.5},
		{"Área: 64 metros", 64},
		{"20000 m2", 0}, // implausibly large
		{"sin datos", 0},
	}
	for _, tc := range cases {
		if got := ParseArea(tc.text); got != tc.want {
			t.Fatalf("%q: expected %.1f, got %.1f", tc.text, tc.want, got)
		}
	}
}

func TestParseCount(t *testing.T) {
	if got := ParseCount("3 habitaciones"); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := ParseCount(""); got != 0 {
		t.Fatalf("expected 0 for empty text, got %d", got)
	}
	if got := ParseCount("100"); got != 0 {
		t.Fatalf("a count over 50 is garbage, got %d", got)
	}
}

func TestParseStratum(t *testing.T) {
	if got := ParseStratum("Apartamento Estrato 4 en Cedritos"); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
	if got := ParseStratum("estrato 9"); got != 0 {
		t.Fatalf("stratum is 1-6 only, got %d", got)
	}
	if got := ParseStratum("sin estrato"); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestDetectAmenitiesDeduplicates(t *testing.T) {
	found := DetectAmenities("Conjunto con piscina, gimnasio y otra piscina en la terraza")
	want := map[string]bool{"piscina": true, "gimnasio": true, "terraza": true}
	if len(found) != len(want) {
		t.Fatalf("expected %d amenities, got %v", len(want), found)
	}
	for _, a := range found {
		if !want[a] {
			t.Fatalf("unexpected amenity %q in %v", a, found)
		}
	}
}

func TestBalancedJSONHonorsStringsAndEscapes(t *testing.T) {
	src := `window.__INITIAL_STATE__ = {"a": {"b": "}"}, "c": "\""}; console.log(1)`
	got := balancedJSON(src)
	want := `{"a": {"b": "}"}, "c": "\""}`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if got := balancedJSON("no object here"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := balancedJSON(`{"never": "closed"`); got != "" {
		t.Fatalf("unbalanced input must yield nothing, got %q", got)
	}
}

func TestMineBootstrapPayloadScriptTag(t *testing.T) {
	html := `<html><body>
		<script id="__NEXT_DATA__" type="application/json">
		{"props":{"pageProps":{"listings":[
			{"title":"Apartamento en Cedritos","price":2500000,"url":"/inmueble/apartamento-cedritos-123","rooms":3,"bathrooms":2,"area":80,"location":"Cedritos, Bogotá"},
			{"title":"Sin precio util","price":100}
		]}}}
		</script>
		</body></html>`

	a := testAdapter()
	records := a.mineHeuristics(html, "https://www.fincaraiz.com.co/arriendos")
	if len(records) != 1 {
		t.Fatalf("expected 1 listing from the bootstrap payload, got %d", len(records))
	}

	p := records[0]
	if p.Title != "Apartamento en Cedritos" || p.Price != 2_500_000 {
		t.Fatalf("unexpected listing: %+v", p)
	}
	if p.URL != "https://www.fincaraiz.com.co/inmueble/apartamento-cedritos-123" {
		t.Fatalf("relative url not resolved: %q", p.URL)
	}
	if p.Rooms != 3 || p.Bathrooms != 2 || p.Area != 80 {
		t.Fatalf("specs not carried over: %+v", p)
	}
	if p.Location.Neighborhood != "Cedritos" {
		t.Fatalf("expected first location segment, got %q", p.Location.Neighborhood)
	}
	if p.Source != "fincaraiz" || p.ID == "" {
		t.Fatalf("identity fields missing: %+v", p)
	}
}

func TestMineBootstrapPayloadWindowAssignment(t *testing.T) {
	html := `<html><body><script>
		window.__INITIAL_STATE__ = {"results":[{"titulo":"Casa en Chapinero","precio":"$ 3.200.000","link":"/inmueble/casa-chapinero-9"}]};
		</script></body></html>`

	a := testAdapter()
	records := a.mineHeuristics(html, "https://www.fincaraiz.com.co/arriendos")
	if len(records) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(records))
	}
	if records[0].Price != 3_200_000 {
		t.Fatalf("string price not parsed: %.0f", records[0].Price)
	}
}

func TestMineAnchorsFallback(t *testing.T) {
	html := `<html><body>
		<article>
			<a href="/inmueble/apartamento-cedritos-123">Apartamento en Cedritos</a>
			<p>$ 2.300.000 - 3 hab - 2 baños - 80 m2 - estrato 4</p>
		</article>
		<article>
			<a href="/inmueble/apartamento-cedritos-123">Apartamento en Cedritos</a>
			<p>$ 2.300.000</p>
		</article>
		<article>
			<a href="/inmueble/sin-precio-55">Aviso sin precio</a>
		</article>
		<a href="/ayuda">Centro de ayuda</a>
		</body></html>`

	a := testAdapter()
	records := a.mineHeuristics(html, "https://www.fincaraiz.com.co/arriendos")
	if len(records) != 1 {
		t.Fatalf("expected one deduplicated priced listing, got %d", len(records))
	}

	p := records[0]
	if p.Price != 2_300_000 || p.Rooms != 3 || p.Bathrooms != 2 || p.Area != 80 || p.Stratum != 4 {
		t.Fatalf("context not mined: %+v", p)
	}
	if p.URL != "https://www.fincaraiz.com.co/inmueble/apartamento-cedritos-123" {
		t.Fatalf("unexpected url %q", p.URL)
	}
}

func TestAbsoluteURL(t *testing.T) {
	a := testAdapter()
	page := "https://www.fincaraiz.com.co/arriendos/bogota"

	if got := a.absoluteURL("/inmueble/1", page); got != "https://www.fincaraiz.com.co/inmueble/1" {
		t.Fatalf("relative path not resolved: %q", got)
	}
	if got := a.absoluteURL("https://cdn.example.com/x.jpg", page); got != "https://cdn.example.com/x.jpg" {
		t.Fatalf("absolute url must pass through: %q", got)
	}
	if got := a.absoluteURL("#top", page); got != "" {
		t.Fatalf("fragment links are not listings: %q", got)
	}
	// No usable page URL: the profile base takes over.
	if got := a.absoluteURL("/inmueble/2", ""); got != "https://www.fincaraiz.com.co/inmueble/2" {
		t.Fatalf("base fallback failed: %q", got)
	}
}

func TestNormalizeImageURLRewritesThumbnails(t *testing.T) {
	a := testAdapter()
	got := a.normalizeImageURL("/thumbs/img1.jpg", "https://www.fincaraiz.com.co/arriendos")
	if got != "https://www.fincaraiz.com.co/large/img1.jpg" {
		t.Fatalf("thumbnail rewrite failed: %q", got)
	}
}
