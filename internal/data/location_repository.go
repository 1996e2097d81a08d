package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLLocationRepository handles database operations for locations.
type SQLLocationRepository struct {
	db *sqlx.DB
}

// NewSQLLocationRepository creates a new SQLLocationRepository.
func NewSQLLocationRepository(db *sqlx.DB) *SQLLocationRepository {
	return &SQLLocationRepository{db: db}
}

// GetLocationByID finds a location by its ID.
func (r *SQLLocationRepository) GetLocationByID(ctx context.Context, id int64) (*Location, error) {
	var location Location
	err := r.db.GetContext(ctx, &location, `SELECT id, name, is_published, created_at FROM locations WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("location %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get location by id: %w", err)
	}
	return &location, nil
}

// ListLocations retrieves all published locations, ordered by name. Used to
// populate the location picker on the post form.
func (r *SQLLocationRepository) ListLocations(ctx context.Context) ([]*Location, error) {
	var locations []*Location
	err := r.db.SelectContext(ctx, &locations, `SELECT id, name, is_published, created_at FROM locations WHERE is_published = true ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}
