// Package postgres persists scored search results for similarity and
// dashboard queries.
package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mmcloughlin/geohash"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/domain"
	"github.com/gonbooster/AIArriendo-sub000/internal/core/port"
)

// geohashPrecision of 6 is a ~1.2km cell, enough to group a neighborhood.
const geohashPrecision = 6

type PropertyStoreAdapter struct {
	pool   *pgxpool.Pool
	logger port.LoggerPort
}

func NewPropertyStoreAdapter(pool *pgxpool.Pool, logger port.LoggerPort) *PropertyStoreAdapter {
	return &PropertyStoreAdapter{pool: pool, logger: logger}
}

var propertyColumns = []string{
	"id", "title", "description", "price", "admin_fee", "area", "rooms",
	"bathrooms", "parking", "stratum", "address", "neighborhood", "city",
	"latitude", "longitude", "geohash", "amenities", "images", "url",
	"source", "scraped_at", "score", "is_active",
}

// SaveBatch upserts a batch through a temp table and a single merge, so a
// re-scrape of the same listings updates prices instead of duplicating rows.
func (a *PropertyStoreAdapter) SaveBatch(ctx context.Context, properties []domain.Property) error {
	if len(properties) == 0 {
		return nil
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `CREATE TEMP TABLE temp_properties (LIKE properties) ON COMMIT DROP;`)
	if err != nil {
		return fmt.Errorf("failed to create temp table for properties: %w", err)
	}

	rows := make([][]interface{}, 0, len(properties))
	seen := make(map[string]struct{}, len(properties))
	for i := range properties {
		p := &properties[i]
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		rows = append(rows, []interface{}{
			p.ID, p.Title, p.Description, p.Price, p.AdminFee, p.Area, p.Rooms,
			p.Bathrooms, p.Parking, p.Stratum,
			p.Location.Address, p.Location.Neighborhood, p.Location.City,
			p.Location.Coordinates.Lat, p.Location.Coordinates.Lng, cellOf(p.Location.Coordinates),
			p.Amenities, p.Images, p.URL,
			p.Source, p.ScrapedDate, p.Score, p.IsActive,
		})
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"temp_properties"}, propertyColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy to temp_properties: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO properties SELECT * FROM temp_properties
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			admin_fee = EXCLUDED.admin_fee,
			area = EXCLUDED.area,
			rooms = EXCLUDED.rooms,
			bathrooms = EXCLUDED.bathrooms,
			parking = EXCLUDED.parking,
			stratum = EXCLUDED.stratum,
			address = EXCLUDED.address,
			neighborhood = EXCLUDED.neighborhood,
			city = EXCLUDED.city,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			geohash = EXCLUDED.geohash,
			amenities = EXCLUDED.amenities,
			images = EXCLUDED.images,
			scraped_at = EXCLUDED.scraped_at,
			score = EXCLUDED.score,
			is_active = EXCLUDED.is_active;
	`)
	if err != nil {
		return fmt.Errorf("failed to merge from temp_properties: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit property batch: %w", err)
	}

	a.logger.Debug("Property batch saved", port.Fields{"records": len(rows)})
	return nil
}

// FindSimilar builds the lookup dynamically: geohash cell prefix when the
// reference has coordinates, otherwise neighborhood/city text match, always
// bounded by a price band around the reference.
func (a *PropertyStoreAdapter) FindSimilar(ctx context.Context, query port.SimilarQuery) ([]domain.Property, error) {
	builder := sq.Select(propertyColumns...).
		From("properties").
		Where(sq.Eq{"is_active": true}).
		PlaceholderFormat(sq.Dollar)

	if cell := cellOf(query.Coordinates); cell != "" {
		builder = builder.Where(sq.Like{"geohash": cell[:geohashPrecision-1] + "%"})
	} else if query.Neighborhood != "" {
		builder = builder.Where(sq.ILike{"neighborhood": "%" + query.Neighborhood + "%"})
	} else if query.City != "" {
		builder = builder.Where(sq.ILike{"city": query.City})
	}

	if query.PriceAround > 0 {
		builder = builder.Where(sq.And{
			sq.GtOrEq{"price + admin_fee": query.PriceAround * 0.7},
			sq.LtOrEq{"price + admin_fee": query.PriceAround * 1.3},
		})
	}
	if query.AreaAround > 0 {
		builder = builder.Where(sq.And{
			sq.GtOrEq{"area": query.AreaAround * 0.6},
			sq.LtOrEq{"area": query.AreaAround * 1.4},
		})
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}
	builder = builder.OrderBy("score DESC, scraped_at DESC").Limit(uint64(limit))

	sqlText, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build similarity query: %w", err)
	}

	rows, err := a.pool.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar properties: %w", err)
	}
	defer rows.Close()

	var out []domain.Property
	for rows.Next() {
		var p domain.Property
		var cell string
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Price, &p.AdminFee, &p.Area, &p.Rooms,
			&p.Bathrooms, &p.Parking, &p.Stratum,
			&p.Location.Address, &p.Location.Neighborhood, &p.Location.City,
			&p.Location.Coordinates.Lat, &p.Location.Coordinates.Lng, &cell,
			&p.Amenities, &p.Images, &p.URL,
			&p.Source, &p.ScrapedDate, &p.Score, &p.IsActive,
		); err != nil {
			return nil, fmt.Errorf("failed to scan similar property: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during similar rows iteration: %w", err)
	}
	return out, nil
}

func cellOf(c domain.Coordinates) string {
	if c.Lat == 0 && c.Lng == 0 {
		return ""
	}
	return geohash.EncodeWithPrecision(c.Lat, c.Lng, geohashPrecision)
}
