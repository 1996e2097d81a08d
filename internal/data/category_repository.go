package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLCategoryRepository handles database operations for categories.
type SQLCategoryRepository struct {
	db *sqlx.DB
}

// NewSQLCategoryRepository creates a new SQLCategoryRepository.
func NewSQLCategoryRepository(db *sqlx.DB) *SQLCategoryRepository {
	return &SQLCategoryRepository{db: db}
}

// GetCategoryByID finds a category by its ID.
func (r *SQLCategoryRepository) GetCategoryByID(ctx context.Context, id int64) (*Category, error) {
	var category Category
	err := r.db.GetContext(ctx, &category, `SELECT id, title, description, slug, is_published, created_at FROM categories WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}
	return &category, nil
}

// GetCategoryBySlug finds a category by its slug, the external identifier
// carried in URLs.
func (r *SQLCategoryRepository) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var category Category
	err := r.db.GetContext(ctx, &category, `SELECT id, title, description, slug, is_published, created_at FROM categories WHERE slug = ?`, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %q: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}
	return &category, nil
}

// ListCategories retrieves all published categories, ordered by title.
func (r *SQLCategoryRepository) ListCategories(ctx context.Context) ([]*Category, error) {
	var categories []*Category
	err := r.db.SelectContext(ctx, &categories, `SELECT id, title, description, slug, is_published, created_at FROM categories WHERE is_published = true ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
