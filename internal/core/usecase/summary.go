package usecase

import (
	"fmt"
	"math"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
)

var priceBucketEdges = []float64{0, 1_000_000, 2_000_000, 3_000_000, 5_000_000, 8_000_000, math.Inf(1)}

// BuildSummary aggregates the full ranked (pre-pagination) set.
// hardMatches is the count after the hard stage, before optional filters.
func BuildSummary(ranked []domain.Property, hardMatches int) domain.SearchSummary {
	summary := domain.SearchSummary{
		TotalFound:            len(ranked),
		HardMatches:           hardMatches,
		SourceBreakdown:       map[string]int{},
		NeighborhoodBreakdown: map[string]int{},
		PriceDistribution:     priceDistribution(ranked),
	}

	var priceSum, ppm2Sum, areaSum float64
	ppm2Count, areaCount := 0, 0
	for i := range ranked {
		p := &ranked[i]
		summary.SourceBreakdown[p.Source]++
		if p.Location.Neighborhood != "" {
			summary.NeighborhoodBreakdown[p.Location.Neighborhood]++
		}
		priceSum += p.TotalPrice()
		if ppm2 := p.PricePerM2(); ppm2 > 0 {
			ppm2Sum += ppm2
			ppm2Count++
		}
		if p.Area > 0 {
			areaSum += p.Area
			areaCount++
		}
	}

	if len(ranked) > 0 {
		summary.AveragePrice = math.Round(priceSum / float64(len(ranked)))
	}
	if ppm2Count > 0 {
		summary.AveragePricePerM2 = math.Round(ppm2Sum / float64(ppm2Count))
	}
	if areaCount > 0 {
		summary.AverageArea = math.Round(areaSum/float64(areaCount)*10) / 10
	}
	return summary
}

func priceDistribution(properties []domain.Property) []domain.PriceBucket {
	buckets := make([]domain.PriceBucket, 0, len(priceBucketEdges)-1)
	for i := 0; i < len(priceBucketEdges)-1; i++ {
		from, to := priceBucketEdges[i], priceBucketEdges[i+1]
		label := fmt.Sprintf("%.1fM-%.1fM", from/1_000_000, to/1_000_000)
		if math.IsInf(to, 1) {
			label = fmt.Sprintf(">%.1fM", from/1_000_000)
		}
		buckets = append(buckets, domain.PriceBucket{Label: label, From: from, To: to})
	}
	for i := range properties {
		price := properties[i].TotalPrice()
		for b := range buckets {
			if price >= buckets[b].From && (math.IsInf(buckets[b].To, 1) || price < buckets[b].To) {
				buckets[b].Count++
				break
			}
		}
	}
	return buckets
}

// Paginate slices the ranked list for a 1-based page.
func Paginate(ranked []domain.Property, page, limit int) []domain.Property {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(ranked) {
		return []domain.Property{}
	}
	end := start + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	out := make([]domain.Property, end-start)
	copy(out, ranked[start:end])
	return out
}
