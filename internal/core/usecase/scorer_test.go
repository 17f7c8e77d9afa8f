package usecase

import (
	"math"
	"testing"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
)

func TestScorePropertySumsWeightedFractions(t *testing.T) {
	p := domain.Property{
		Title:       "Apartamento con piscina y gimnasio",
		Description: "conjunto con sauna",
		Price:       2_000_000,
		Area:        100,
		Location:    domain.PropertyLocation{Neighborhood: "cedritos"},
	}
	prefs := domain.Preferences{
		WetAreas: &domain.WeightedPreference{Weight: 10, Preferred: []string{"piscina", "sauna"}},
		Sports:   &domain.WeightedPreference{Weight: 4, Preferred: []string{"gimnasio", "cancha"}},
		Location: &domain.WeightedPreference{Weight: 6, Preferred: []string{"cedritos"}},
	}

	// wet areas 2/2, sports 1/2, location binary hit.
	want := 10*1.0 + 4*0.5 + 6*1.0
	got := ScoreProperty(&p, prefs)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected score %.2f, got %.2f", want, got)
	}
}

func TestScorePropertyAbsentPreferencesNeverPenalize(t *testing.T) {
	p := domain.Property{Title: "Apartamento sencillo", Price: 1_000_000}

	if got := ScoreProperty(&p, domain.Preferences{}); got != 0 {
		t.Fatalf("no preferences must score 0, got %.2f", got)
	}

	// A configured dimension with an empty preference list is a full match.
	prefs := domain.Preferences{Amenities: &domain.WeightedPreference{Weight: 5}}
	if got := ScoreProperty(&p, prefs); got != 5 {
		t.Fatalf("empty preference list must contribute full weight, got %.2f", got)
	}
}

func TestPricePerM2FractionDecaysLinearly(t *testing.T) {
	target := 25_000.0
	prefs := domain.Preferences{PricePerM2: &domain.PricePerM2Preference{Weight: 1, Target: &target}}

	cases := []struct {
		price float64
		area  float64
		want  float64
	}{
		{2_000_000, 100, 1.0},  // 20k/m2, under target
		{2_500_000, 100, 1.0},  // exactly on target
		{3_750_000, 100, 0.5},  // 37.5k/m2, halfway to 2x
		{5_000_000, 100, 0.0},  // 50k/m2, at 2x target
		{2_000_000, 0, 1.0},    // unknown area never penalizes
	}
	for _, tc := range cases {
		p := domain.Property{Title: "x", Price: tc.price, Area: tc.area}
		got := ScoreProperty(&p, prefs)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("price %.0f area %.0f: expected %.2f, got %.2f", tc.price, tc.area, tc.want, got)
		}
	}
}

func TestRankByScoreIsStableOnTies(t *testing.T) {
	properties := []domain.Property{
		{ID: "a", Title: "sin extras", Price: 1_000_000},
		{ID: "b", Title: "con piscina", Price: 1_000_000},
		{ID: "c", Title: "tambien sin extras", Price: 1_000_000},
	}
	prefs := domain.Preferences{
		WetAreas: &domain.WeightedPreference{Weight: 10, Preferred: []string{"piscina"}},
	}

	ranked := RankByScore(properties, prefs)
	if ranked[0].ID != "b" {
		t.Fatalf("expected b first, got %s", ranked[0].ID)
	}
	// a and c tie at zero and must keep their input order.
	if ranked[1].ID != "a" || ranked[2].ID != "c" {
		t.Fatalf("tie order not preserved: %v", ids(ranked))
	}
	if ranked[0].Score == 0 {
		t.Fatal("winner's score must be persisted on the property")
	}
}
