package usecase

import (
	"testing"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
)

func plausibleProperty() domain.Property {
	return domain.Property{
		ID:     "fincaraiz-1",
		Title:  "Apartamento en Usaquén",
		Price:  2_500_000,
		Area:   80,
		Rooms:  3,
		Source: "fincaraiz",
		Location: domain.PropertyLocation{
			Neighborhood: "usaquén",
			City:         "bogotá",
		},
	}
}

func TestIsValidPropertyAcceptsPlausibleRecord(t *testing.T) {
	p := plausibleProperty()
	if !IsValidProperty(&p) {
		t.Fatalf("expected valid, got reasons %v", ValidationErrors(&p))
	}
}

func TestValidatePriceBounds(t *testing.T) {
	p := plausibleProperty()

	p.Price = 299_999
	if IsValidProperty(&p) {
		t.Fatal("price just below the lower bound must be rejected")
	}

	p.Price = 300_000
	if !IsValidProperty(&p) {
		t.Fatalf("price at the lower bound must be accepted, reasons %v", ValidationErrors(&p))
	}

	p.Price = 50_000_001
	if IsValidProperty(&p) {
		t.Fatal("price above the upper bound must be rejected")
	}
}

func TestValidateAreaIsOptionalButBounded(t *testing.T) {
	p := plausibleProperty()

	p.Area = 0
	if !IsValidProperty(&p) {
		t.Fatalf("missing area must be tolerated, reasons %v", ValidationErrors(&p))
	}

	p.Area = 1001
	if IsValidProperty(&p) {
		t.Fatal("implausible area must be rejected")
	}
}

func TestValidateRoomsBounds(t *testing.T) {
	p := plausibleProperty()

	p.Rooms = 21
	if IsValidProperty(&p) {
		t.Fatal("more than 20 rooms must be rejected")
	}

	p.Rooms = 0
	if !IsValidProperty(&p) {
		t.Fatalf("unknown room count must be tolerated, reasons %v", ValidationErrors(&p))
	}
}

func TestValidateRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.Property)
	}{
		{"missing id", func(p *domain.Property) { p.ID = "" }},
		{"missing title", func(p *domain.Property) { p.Title = "  " }},
		{"missing source", func(p *domain.Property) { p.Source = "" }},
		{"missing location", func(p *domain.Property) { p.Location = domain.PropertyLocation{} }},
		{"short title", func(p *domain.Property) { p.Title = "a-1!" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := plausibleProperty()
			tc.mutate(&p)
			if IsValidProperty(&p) {
				t.Fatalf("expected rejection for %s", tc.name)
			}
		})
	}
}
