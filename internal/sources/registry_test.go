package sources

import (
	"testing"
)

const profileTable = `
sources:
  - id: fincaraiz
    displayName: Fincaraíz
    baseUrl: https://www.fincaraiz.com.co
    searchUrlTemplate: https://www.fincaraiz.com.co/arriendos/{city}/pagina{page}
    selectors:
      card: article.card
  - id: metrocuadrado
    displayName: Metrocuadrado
    baseUrl: https://www.metrocuadrado.com
    searchUrlTemplate: https://www.metrocuadrado.com/arriendo/{city}?page={page}
    selectors:
      card: li.result
    rateLimit:
      requestsPerMinute: 20
      maxConcurrentRequests: 2
`

func TestParseAppliesRateLimitDefaults(t *testing.T) {
	reg, err := parse([]byte(profileTable))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, ok := reg.Get("fincaraiz")
	if !ok {
		t.Fatal("fincaraiz not registered")
	}
	if p.RateLimit.RequestsPerMinute != 10 || p.RateLimit.MaxConcurrentRequests != 1 {
		t.Fatalf("defaults not applied: %+v", p.RateLimit)
	}

	p, _ = reg.Get("metrocuadrado")
	if p.RateLimit.RequestsPerMinute != 20 {
		t.Fatalf("explicit rate limit overridden: %+v", p.RateLimit)
	}
}

func TestParseRejectsIncompleteProfiles(t *testing.T) {
	_, err := parse([]byte(`
sources:
  - id: broken
    searchUrlTemplate: https://example.com/{page}
`))
	if err == nil {
		t.Fatal("a profile without a card selector must be rejected")
	}

	_, err = parse([]byte("sources: []"))
	if err == nil {
		t.Fatal("an empty table must be rejected")
	}
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	_, err := parse([]byte(`
sources:
  - id: dup
    searchUrlTemplate: https://example.com/{page}
    selectors: {card: li}
  - id: dup
    searchUrlTemplate: https://example.com/{page}
    selectors: {card: li}
`))
	if err == nil {
		t.Fatal("duplicate profile ids must be rejected")
	}
}

func TestSelectSubset(t *testing.T) {
	reg, err := parse([]byte(profileTable))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := reg.Select(nil); len(got) != 2 || got[0].ID != "fincaraiz" {
		t.Fatalf("empty request must return all profiles in order, got %d", len(got))
	}

	// Case-insensitive over the display name, unknown names skipped.
	got := reg.Select([]string{"Metrocuadrado", "nope"})
	if len(got) != 1 || got[0].ID != "metrocuadrado" {
		t.Fatalf("unexpected selection: %+v", got)
	}
}

func TestEmbeddedTableLoads(t *testing.T) {
	reg, err := Load()
	if err != nil {
		t.Fatalf("embedded profile table must parse: %v", err)
	}
	if len(reg.IDs()) == 0 {
		t.Fatal("embedded profile table must register at least one source")
	}
}
