package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLUserRepository handles database operations for user profiles.
type SQLUserRepository struct {
	db *sqlx.DB
}

// NewSQLUserRepository creates a new SQLUserRepository.
func NewSQLUserRepository(db *sqlx.DB) *SQLUserRepository {
	return &SQLUserRepository{db: db}
}

// GetUserBySubject finds a user by the identity subject issued by the
// identity provider.
func (r *SQLUserRepository) GetUserBySubject(ctx context.Context, subject string) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `SELECT id, subject, username, first_name, last_name, email, created_at FROM users WHERE subject = ?`, subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", subject, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by subject: %w", err)
	}
	return &user, nil
}

// GetUserByUsername finds a user by username, the identifier carried in
// profile URLs.
func (r *SQLUserRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `SELECT id, subject, username, first_name, last_name, email, created_at FROM users WHERE username = ?`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

// UpsertUser creates the profile row for an identity on first login and
// refreshes the e-mail on subsequent logins. The username is only set on
// insert so a user's own edits survive re-authentication.
func (r *SQLUserRepository) UpsertUser(ctx context.Context, user *User) error {
	existing, err := r.GetUserBySubject(ctx, user.Subject)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		query := `INSERT INTO users (subject, username, first_name, last_name, email) VALUES (:subject, :username, :first_name, :last_name, :email)`
		res, err := r.db.NamedExecContext(ctx, query, user)
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read inserted user id: %w", err)
		}
		user.ID = id
		return nil
	}

	user.ID = existing.ID
	user.Username = existing.Username
	user.FirstName = existing.FirstName
	user.LastName = existing.LastName
	_, err = r.db.ExecContext(ctx, `UPDATE users SET email = ? WHERE id = ?`, user.Email, existing.ID)
	if err != nil {
		return fmt.Errorf("failed to refresh user: %w", err)
	}
	return nil
}

// UpdateUser replaces the editable profile fields.
func (r *SQLUserRepository) UpdateUser(ctx context.Context, user *User) error {
	query := `UPDATE users SET username = :username, first_name = :first_name, last_name = :last_name, email = :email WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %d: %w", user.ID, ErrNotFound)
	}
	return nil
}
