package domain

import (
	"math"
	"time"
)

// Coordinates in WGS84. Zero value means "unknown".
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PropertyLocation is the location block of one scraped record.
type PropertyLocation struct {
	Address      string      `json:"address"`
	Neighborhood string      `json:"neighborhood"`
	City         string      `json:"city"`
	Coordinates  Coordinates `json:"coordinates"`
}

// Property is one scraped rental listing. Records are created inside a source
// adapter, flow through the pipeline in memory and are discarded after the
// response is produced; persistence is a best-effort collaborator.
type Property struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	AdminFee    float64          `json:"adminFee"`
	Area        float64          `json:"area"`
	Rooms       int              `json:"rooms"`
	Bathrooms   int              `json:"bathrooms"`
	Parking     int              `json:"parking"`
	Stratum     int              `json:"stratum"` // 1..6, 0 = unknown
	Location    PropertyLocation `json:"location"`
	Amenities   []string         `json:"amenities"`
	Images      []string         `json:"images"`
	URL         string           `json:"url"`
	Source      string           `json:"source"`
	ScrapedDate time.Time        `json:"scrapedDate"`
	Score       float64          `json:"score"`
	IsActive    bool             `json:"isActive"`
}

// TotalPrice is rent plus administration fee.
func (p *Property) TotalPrice() float64 {
	return p.Price + p.AdminFee
}

// PricePerM2 returns the rounded price per square meter, or 0 when the area
// is unknown.
func (p *Property) PricePerM2() float64 {
	if p.Area <= 0 {
		return 0
	}
	return math.Round(p.TotalPrice() / p.Area)
}
