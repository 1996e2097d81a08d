package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLCommentRepository is a concrete implementation of the CommentRepository
// interface using sqlx.
type SQLCommentRepository struct {
	db *sqlx.DB
}

// NewSQLCommentRepository creates a new SQLCommentRepository.
func NewSQLCommentRepository(db *sqlx.DB) *SQLCommentRepository {
	return &SQLCommentRepository{db: db}
}

// CreateComment inserts a new comment and fills in its generated ID.
func (r *SQLCommentRepository) CreateComment(ctx context.Context, comment *Comment) error {
	query := `INSERT INTO comments (post_id, author_id, text, created_at) VALUES (:post_id, :author_id, :text, :created_at)`
	res, err := r.db.NamedExecContext(ctx, query, comment)
	if err != nil {
		return fmt.Errorf("failed to execute create comment query: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted comment id: %w", err)
	}
	comment.ID = id
	return nil
}

// GetCommentByID retrieves a single comment by its ID.
func (r *SQLCommentRepository) GetCommentByID(ctx context.Context, id int64) (*Comment, error) {
	var comment Comment
	query := `SELECT cm.id, cm.post_id, cm.author_id, cm.text, cm.created_at, COALESCE(u.username, '') AS author_username
	          FROM comments cm
	          LEFT JOIN users u ON u.subject = cm.author_id
	          WHERE cm.id = ?`
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("comment %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get comment by id: %w", err)
	}
	return &comment, nil
}

// UpdateComment updates the text of an existing comment.
func (r *SQLCommentRepository) UpdateComment(ctx context.Context, comment *Comment) error {
	query := `UPDATE comments SET text = :text WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, comment)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("comment %d: %w", comment.ID, ErrNotFound)
	}
	return nil
}

// DeleteComment removes a single comment by its ID.
func (r *SQLCommentRepository) DeleteComment(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListCommentsByPost returns all comments on a post, oldest first.
func (r *SQLCommentRepository) ListCommentsByPost(ctx context.Context, postID int64) ([]*Comment, error) {
	var comments []*Comment
	query := `SELECT cm.id, cm.post_id, cm.author_id, cm.text, cm.created_at, COALESCE(u.username, '') AS author_username
	          FROM comments cm
	          LEFT JOIN users u ON u.subject = cm.author_id
	          WHERE cm.post_id = ?
	          ORDER BY cm.created_at ASC, cm.id ASC`
	if err := r.db.SelectContext(ctx, &comments, query, postID); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// CountCommentsByPosts returns a post-ID to comment-count map for the given
// posts in one grouped query, so listings can be annotated without a query
// per row.
func (r *SQLCommentRepository) CountCommentsByPosts(ctx context.Context, postIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	query, args, err := sqlx.In(`SELECT post_id, COUNT(*) AS n FROM comments WHERE post_id IN (?) GROUP BY post_id`, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build comment count query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		var n int
		if err := rows.Scan(&postID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan comment count row: %w", err)
		}
		counts[postID] = n
	}
	return counts, rows.Err()
}
