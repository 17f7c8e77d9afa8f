package usecase

import (
	"math"
	"testing"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
)

func TestBuildSummaryAggregates(t *testing.T) {
	ranked := []domain.Property{
		{ID: "1", Price: 1_500_000, AdminFee: 500_000, Area: 100, Source: "fincaraiz",
			Location: domain.PropertyLocation{Neighborhood: "cedritos"}},
		{ID: "2", Price: 900_000, Source: "metrocuadrado",
			Location: domain.PropertyLocation{Neighborhood: "cedritos"}},
		{ID: "3", Price: 4_000_000, Area: 200, Source: "fincaraiz"},
	}

	s := BuildSummary(ranked, 5)

	if s.TotalFound != 3 || s.HardMatches != 5 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.SourceBreakdown["fincaraiz"] != 2 || s.SourceBreakdown["metrocuadrado"] != 1 {
		t.Fatalf("unexpected source breakdown: %v", s.SourceBreakdown)
	}
	if s.NeighborhoodBreakdown["cedritos"] != 2 {
		t.Fatalf("unexpected neighborhood breakdown: %v", s.NeighborhoodBreakdown)
	}

	// (2.0M + 0.9M + 4.0M) / 3
	if math.Abs(s.AveragePrice-2_300_000) > 1 {
		t.Fatalf("unexpected average price %.0f", s.AveragePrice)
	}
	// Only the two records with area: (20000 + 20000) / 2.
	if math.Abs(s.AveragePricePerM2-20_000) > 1 {
		t.Fatalf("unexpected average price per m2 %.0f", s.AveragePricePerM2)
	}
	if math.Abs(s.AverageArea-150) > 0.1 {
		t.Fatalf("unexpected average area %.1f", s.AverageArea)
	}
}

func TestPriceDistributionBuckets(t *testing.T) {
	ranked := []domain.Property{
		{Price: 900_000},
		{Price: 1_000_000},
		{Price: 9_000_000},
	}

	s := BuildSummary(ranked, 3)
	var counted int
	for _, b := range s.PriceDistribution {
		counted += b.Count
	}
	if counted != len(ranked) {
		t.Fatalf("every property must land in exactly one bucket, counted %d", counted)
	}

	// 1.0M sits on a bucket edge and belongs to the upper bucket.
	if s.PriceDistribution[0].Count != 1 || s.PriceDistribution[1].Count != 1 {
		t.Fatalf("unexpected distribution: %+v", s.PriceDistribution)
	}
}

func TestPaginate(t *testing.T) {
	ranked := make([]domain.Property, 5)
	for i := range ranked {
		ranked[i].ID = string(rune('a' + i))
	}

	page2 := Paginate(ranked, 2, 2)
	if len(page2) != 2 || page2[0].ID != "c" || page2[1].ID != "d" {
		t.Fatalf("unexpected page 2: %v", ids(page2))
	}

	lastPage := Paginate(ranked, 3, 2)
	if len(lastPage) != 1 || lastPage[0].ID != "e" {
		t.Fatalf("unexpected last page: %v", ids(lastPage))
	}

	beyond := Paginate(ranked, 4, 2)
	if len(beyond) != 0 {
		t.Fatalf("page beyond the end must be empty, got %v", ids(beyond))
	}

	// The page is a copy, mutating it must not touch the ranked slice.
	page1 := Paginate(ranked, 1, 2)
	page1[0].ID = "mutated"
	if ranked[0].ID == "mutated" {
		t.Fatal("paginate must copy, not alias")
	}
}
