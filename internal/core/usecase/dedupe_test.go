package usecase

import (
	"testing"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
)

func TestDeduplicatePrefersURLIdentity(t *testing.T) {
	a := domain.Property{ID: "a", Title: "Apto 1", Price: 1_000_000, URL: "https://example.com/ad/1"}
	b := domain.Property{ID: "b", Title: "Apto 1 republished", Price: 1_200_000, URL: "https://example.com/ad/1"}
	c := domain.Property{ID: "c", Title: "Apto 2", Price: 1_000_000, URL: "https://example.com/ad/2"}

	out := Deduplicate([]domain.Property{a, b, c})
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	// First occurrence wins.
	if out[0].ID != "a" || out[1].ID != "c" {
		t.Fatalf("expected first-wins order [a c], got [%s %s]", out[0].ID, out[1].ID)
	}
}

func TestDeduplicateFallsBackToTitleAndPrice(t *testing.T) {
	a := domain.Property{ID: "a", Title: "Lindo Apartamento", Price: 1_500_000}
	b := domain.Property{ID: "b", Title: "lindo apartamento", Price: 1_500_000}
	c := domain.Property{ID: "c", Title: "lindo apartamento", Price: 1_600_000}

	out := Deduplicate([]domain.Property{a, b, c})
	if len(out) != 2 {
		t.Fatalf("expected case-insensitive title|price dedup to keep 2, got %d", len(out))
	}
}

func TestDeduplicateAdminFeeChangesIdentity(t *testing.T) {
	a := domain.Property{ID: "a", Title: "Apto", Price: 1_500_000}
	b := domain.Property{ID: "b", Title: "Apto", Price: 1_400_000, AdminFee: 100_000}

	// Same total price, so without URLs the two collapse.
	out := Deduplicate([]domain.Property{a, b})
	if len(out) != 1 {
		t.Fatalf("expected identical totals to collapse, got %d", len(out))
	}
}

func TestDeduplicateIsIdempotent(t *testing.T) {
	in := []domain.Property{
		{ID: "a", Title: "Apto 1", Price: 1_000_000, URL: "https://example.com/ad/1"},
		{ID: "b", Title: "Apto 1", Price: 1_000_000, URL: "https://example.com/ad/1"},
		{ID: "c", Title: "Apto 2", Price: 2_000_000},
	}

	once := Deduplicate(in)
	twice := Deduplicate(once)
	if len(once) != len(twice) {
		t.Fatalf("deduplicate is not idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("order changed on second pass at %d", i)
		}
	}
}
