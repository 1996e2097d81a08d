package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// PostFilter narrows post listing queries. The zero value matches every post.
type PostFilter struct {
	// VisibleOnly restricts the result to posts visible to the general
	// public at the Now instant: published, pub_date passed, and the
	// category (if any) published. This mirrors the read-time visibility
	// predicate so feeds can be filtered in SQL instead of in memory.
	VisibleOnly bool
	Now         time.Time

	// CategorySlug restricts to posts filed under the category with this slug.
	CategorySlug string

	// AuthorSubject restricts to posts written by this identity.
	AuthorSubject string
}

// SQLPostRepository is a concrete implementation of the PostRepository
// interface using sqlx.
type SQLPostRepository struct {
	db *sqlx.DB
}

// NewSQLPostRepository creates a new SQLPostRepository.
func NewSQLPostRepository(db *sqlx.DB) *SQLPostRepository {
	return &SQLPostRepository{db: db}
}

const postColumns = `p.id, p.title, p.text, p.pub_date, p.author_id, p.location_id, p.category_id, p.is_published, p.image_url, p.created_at`

// CreatePost inserts a new post and fills in its generated ID.
func (r *SQLPostRepository) CreatePost(ctx context.Context, post *Post) error {
	query := `INSERT INTO posts (title, text, pub_date, author_id, location_id, category_id, is_published, image_url)
	          VALUES (:title, :text, :pub_date, :author_id, :location_id, :category_id, :is_published, :image_url)`
	res, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("failed to execute create post query: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted post id: %w", err)
	}
	post.ID = id
	return nil
}

// GetPostByID retrieves a single post by its ID, with the author's username
// joined in. Callers that need the category or location resolve them through
// their own repositories.
func (r *SQLPostRepository) GetPostByID(ctx context.Context, id int64) (*Post, error) {
	var post Post
	query := `SELECT ` + postColumns + `, COALESCE(u.username, '') AS author_username
	          FROM posts p
	          LEFT JOIN users u ON u.subject = p.author_id
	          WHERE p.id = ?`
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return &post, nil
}

// UpdatePost updates the mutable fields of an existing post.
func (r *SQLPostRepository) UpdatePost(ctx context.Context, post *Post) error {
	query := `UPDATE posts SET title = :title, text = :text, pub_date = :pub_date, location_id = :location_id,
	          category_id = :category_id, is_published = :is_published, image_url = :image_url
	          WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("post %d: %w", post.ID, ErrNotFound)
	}
	return nil
}

// DeletePost removes a post and all comments referencing it. Both deletes run
// in one transaction so a failure cannot leave orphaned comments behind.
func (r *SQLPostRepository) DeletePost(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete comments of post %d: %w", id, err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

// ListPosts returns a page of posts matching the filter, newest publication
// first with the ID as a deterministic tie-breaker.
func (r *SQLPostRepository) ListPosts(ctx context.Context, f PostFilter, offset, limit int) ([]*Post, error) {
	where, args := buildPostWhere(f)
	query := `SELECT ` + postColumns + `, COALESCE(u.username, '') AS author_username
	          FROM posts p
	          LEFT JOIN categories c ON c.id = p.category_id
	          LEFT JOIN users u ON u.subject = p.author_id` +
		where + ` ORDER BY p.pub_date DESC, p.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var posts []*Post
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// CountPosts returns the number of posts matching the filter.
func (r *SQLPostRepository) CountPosts(ctx context.Context, f PostFilter) (int, error) {
	where, args := buildPostWhere(f)
	query := `SELECT COUNT(*) FROM posts p LEFT JOIN categories c ON c.id = p.category_id` + where

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

// buildPostWhere translates a PostFilter into a WHERE clause. The visibility
// branch is the SQL form of the read-time predicate: a nulled category counts
// as published.
func buildPostWhere(f PostFilter) (string, []interface{}) {
	conds := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)

	if f.VisibleOnly {
		conds = append(conds, `p.is_published = true`)
		conds = append(conds, `p.pub_date <= ?`)
		args = append(args, f.Now)
		conds = append(conds, `(p.category_id IS NULL OR c.is_published = true)`)
	}
	if f.CategorySlug != "" {
		conds = append(conds, `c.slug = ?`)
		args = append(args, f.CategorySlug)
	}
	if f.AuthorSubject != "" {
		conds = append(conds, `p.author_id = ?`)
		args = append(args, f.AuthorSubject)
	}

	if len(conds) == 0 {
		return "", args
	}
	where := " WHERE " + conds[0]
	for _, c := range conds[1:] {
		where += " AND " + c
	}
	return where, args
}
