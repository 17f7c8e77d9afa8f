package sitefetcher

import (
	"testing"
)

const cardsFixture = `<html><body>
<article class="card">
	<h2 class="title">Apartamento en Cedritos</h2>
	<span class="price">$ 2.300.000</span>
	<span class="admin">Administración $ 350.000</span>
	<span class="area">80 m2</span>
	<span class="rooms">3 habitaciones</span>
	<span class="baths">2 baños</span>
	<p class="location">Cedritos, Bogotá</p>
	<a class="detail" href="/inmueble/apartamento-cedritos-123">Ver detalle</a>
	<img class="photo" data-src="/thumbs/cedritos.jpg"/>
	<span>Estrato 4, con piscina y gimnasio</span>
</article>
<article class="card">
	<h2 class="title">Publicidad sin precio</h2>
	<a class="detail" href="/promo/banner">Ver más</a>
</article>
</body></html>`

func TestExtractCardsSelectorFields(t *testing.T) {
	a := testAdapter()
	records := a.extractCards(cardsFixture, "https://www.fincaraiz.com.co/arriendos/bogota")

	// The priceless card is not a record: an ad or a skeleton element.
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	p := records[0]
	if p.Title != "Apartamento en Cedritos" {
		t.Fatalf("unexpected title %q", p.Title)
	}
	if p.Price != 2_300_000 || p.AdminFee != 350_000 {
		t.Fatalf("unexpected price/admin: %.0f / %.0f", p.Price, p.AdminFee)
	}
	if p.Area != 80 || p.Rooms != 3 || p.Bathrooms != 2 || p.Stratum != 4 {
		t.Fatalf("unexpected specs: %+v", p)
	}
	if p.URL != "https://www.fincaraiz.com.co/inmueble/apartamento-cedritos-123" {
		t.Fatalf("link not resolved: %q", p.URL)
	}
	if p.Location.Neighborhood != "Cedritos" || p.Location.Address != "Cedritos, Bogotá" {
		t.Fatalf("unexpected location: %+v", p.Location)
	}
	if p.Source != "fincaraiz" || !p.IsActive || p.ScrapedDate.IsZero() {
		t.Fatalf("bookkeeping fields missing: %+v", p)
	}
}

func TestExtractCardsLazyImageAndRewrite(t *testing.T) {
	a := testAdapter()
	records := a.extractCards(cardsFixture, "https://www.fincaraiz.com.co/arriendos/bogota")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	// data-src fallback plus the thumbnail rewrite.
	if len(records[0].Images) != 1 || records[0].Images[0] != "https://www.fincaraiz.com.co/large/cedritos.jpg" {
		t.Fatalf("unexpected images: %v", records[0].Images)
	}
}

func TestExtractCardsAmenities(t *testing.T) {
	a := testAdapter()
	records := a.extractCards(cardsFixture, "https://www.fincaraiz.com.co/arriendos/bogota")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	found := map[string]bool{}
	for _, amenity := range records[0].Amenities {
		found[amenity] = true
	}
	if !found["piscina"] || !found["gimnasio"] {
		t.Fatalf("card-level amenities not detected: %v", records[0].Amenities)
	}
}

func TestRecordIDIsStable(t *testing.T) {
	a := testAdapter()

	first := a.recordID("https://www.fincaraiz.com.co/inmueble/1", "Apartamento", 2_000_000)
	second := a.recordID("https://www.fincaraiz.com.co/inmueble/1", "Otro título, mismo aviso", 2_100_000)
	if first != second {
		t.Fatal("records with the same url must share an id")
	}

	// Without a url the id falls back to the title, case-insensitive.
	third := a.recordID("", "Apartamento en Cedritos", 2_000_000)
	fourth := a.recordID("", "APARTAMENTO EN CEDRITOS", 2_000_000)
	if third != fourth {
		t.Fatal("title-seeded ids must be case-insensitive")
	}

	if first == third {
		t.Fatal("different listings must not collide")
	}
}
