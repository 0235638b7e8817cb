package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/propertypilot/backend/internal/model/property"
)

// PostgresStore persists analyzed properties to PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection, verifies it, and runs schema
// migrations before returning a ready store.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS properties (
			property_id   VARCHAR(64) PRIMARY KEY,
			address       TEXT         NOT NULL,
			price         NUMERIC(12,2) NOT NULL DEFAULT 0,
			property_type VARCHAR(50)  NOT NULL DEFAULT '',
			bedrooms      INT          NOT NULL DEFAULT 0,
			bathrooms     NUMERIC(4,1) NOT NULL DEFAULT 0,
			square_feet   INT          NOT NULL DEFAULT 0,
			lot_size      NUMERIC(10,2) NOT NULL DEFAULT 0,
			year_built    INT          NOT NULL DEFAULT 0,
			listing_date  VARCHAR(32)  NOT NULL DEFAULT '',
			mls_number    VARCHAR(64)  NOT NULL DEFAULT '',
			zillow_url    TEXT         NOT NULL DEFAULT '',
			description   TEXT         NOT NULL DEFAULT '',
			lat           NUMERIC(9,6) NOT NULL DEFAULT 0,
			lng           NUMERIC(9,6) NOT NULL DEFAULT 0,
			status        VARCHAR(20)  NOT NULL DEFAULT 'Active',
			created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_properties_price   ON properties(price);
		CREATE INDEX IF NOT EXISTS idx_properties_address ON properties(address);
	`)
	return err
}

// SaveProperty upserts one property and returns its generated ID.
func (s *PostgresStore) SaveProperty(ctx context.Context, p property.Property) (string, error) {
	id := p.PropertyID
	if id == "" {
		id = PropertyID(p, time.Now())
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO properties (
			property_id, address, price, property_type, bedrooms, bathrooms,
			square_feet, lot_size, year_built, listing_date, mls_number,
			zillow_url, description, lat, lng
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (property_id) DO UPDATE SET
			price      = EXCLUDED.price,
			updated_at = NOW()
	`,
		id, p.Address, p.Price, p.PropertyType, p.Bedrooms, p.Bathrooms,
		p.SquareFeet, p.LotSize, p.YearBuilt, p.ListingDate, p.MLSNumber,
		p.ZillowURL, p.Description, p.Coordinates.Lat, p.Coordinates.Lng,
	)
	if err != nil {
		return "", fmt.Errorf("postgres: save property: %w", err)
	}
	return id, nil
}

// FetchRecent returns the most recently captured properties.
func (s *PostgresStore) FetchRecent(ctx context.Context, limit int) ([]property.Property, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT property_id, address, price, property_type, bedrooms, bathrooms,
		       square_feet, lot_size, year_built, listing_date, mls_number,
		       zillow_url, description, lat, lng
		FROM properties
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch recent: %w", err)
	}
	defer rows.Close()

	var properties []property.Property
	for rows.Next() {
		var p property.Property
		if err := rows.Scan(
			&p.PropertyID, &p.Address, &p.Price, &p.PropertyType, &p.Bedrooms,
			&p.Bathrooms, &p.SquareFeet, &p.LotSize, &p.YearBuilt, &p.ListingDate,
			&p.MLSNumber, &p.ZillowURL, &p.Description, &p.Coordinates.Lat, &p.Coordinates.Lng,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
