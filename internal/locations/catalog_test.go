package locations

import (
	"testing"
)

func TestParseFallbackDefaultsToFirstCity(t *testing.T) {
	cat, err := parse([]byte(`
cities:
  - name: bogotá
    code: "11001"
  - name: medellín
    code: "05001"
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.FallbackCity != "bogotá" {
		t.Fatalf("expected fallback to default to the first city, got %q", cat.FallbackCity)
	}
}

func TestParseRejectsEmptyCatalog(t *testing.T) {
	if _, err := parse([]byte("cities: []")); err == nil {
		t.Fatal("an empty catalog must be rejected")
	}
}

func TestCityByName(t *testing.T) {
	cat, err := parse([]byte(`
fallbackCity: medellín
cities:
  - name: medellín
    code: "05001"
    neighborhoods:
      - name: el poblado
        aliases: [poblado]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	city, ok := cat.CityByName("medellín")
	if !ok || city.Code != "05001" || len(city.Neighborhoods) != 1 {
		t.Fatalf("unexpected city: %+v", city)
	}
	if _, ok := cat.CityByName("cali"); ok {
		t.Fatal("unknown city must not resolve")
	}
}

func TestEmbeddedCatalogLoads(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("embedded catalog must parse: %v", err)
	}
	if _, ok := cat.CityByName(cat.FallbackCity); !ok {
		t.Fatalf("fallback city %q must exist in the catalog", cat.FallbackCity)
	}
}
