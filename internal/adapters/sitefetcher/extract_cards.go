package sitefetcher

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
)

// extractCards runs the structured-selector extraction over repeated card
// elements. Shared by Tier A (raw fetch) and Tier B (rendered snapshot).
// Only cards with a plausible price count as records, so an empty result
// reliably triggers the next tier.
func (a *Adapter) extractCards(html, pageURL string) []domain.Property {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	sel := a.profile.Selectors
	var records []domain.Property

	doc.Find(sel.Card).Each(func(_ int, card *goquery.Selection) {
		price := ParseCOPPrice(selectionText(card, sel.Price))
		if price == 0 {
			return
		}

		title := selectionText(card, sel.Title)
		if title == "" {
			title = strings.TrimSpace(card.Find("a").First().Text())
		}

		link := a.absoluteURL(selectionAttr(card, sel.Link, "href"), pageURL)
		locationText := selectionText(card, sel.Location)

		p := domain.Property{
			ID:          a.recordID(link, title, price),
			Title:       title,
			Price:       price,
			AdminFee:    ParseAdminFee(selectionText(card, sel.AdminFee)),
			Area:        ParseArea(selectionText(card, sel.Area)),
			Rooms:       ParseCount(selectionText(card, sel.Rooms)),
			Bathrooms:   ParseCount(selectionText(card, sel.Bathrooms)),
			Parking:     ParseCount(selectionText(card, sel.Parking)),
			Stratum:     ParseStratum(card.Text()),
			URL:         link,
			Source:      a.profile.ID,
			ScrapedDate: time.Now().UTC(),
			IsActive:    true,
			Location: domain.PropertyLocation{
				Address:      locationText,
				Neighborhood: firstSegment(locationText),
			},
			Amenities: DetectAmenities(card.Text()),
		}

		if img := selectionAttr(card, sel.Image, "src"); img != "" {
			p.Images = append(p.Images, a.normalizeImageURL(img, pageURL))
		}

		records = append(records, p)
	})

	return records
}

func selectionText(card *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(card.Find(selector).First().Text())
}

func selectionAttr(card *goquery.Selection, selector, attr string) string {
	if selector == "" {
		return ""
	}
	node := card.Find(selector).First()
	if val, ok := node.Attr(attr); ok {
		return strings.TrimSpace(val)
	}
	// Lazy-loaded images keep the real URL in data-src.
	if attr == "src" {
		if val, ok := node.Attr("data-src"); ok {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// recordID is stable for the same listing across pages and searches.
func (a *Adapter) recordID(link, title string, price float64) string {
	seed := link
	if seed == "" {
		seed = strings.ToLower(title) + "|" + a.profile.ID
	}
	return a.profile.ID + "-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String()
}

func firstSegment(locationText string) string {
	for _, sep := range []string{",", " - ", "|"} {
		if idx := strings.Index(locationText, sep); idx > 0 {
			return strings.TrimSpace(locationText[:idx])
		}
	}
	return strings.TrimSpace(locationText)
}
