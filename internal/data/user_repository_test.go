//go:build integration

package data

import (
	"context"
	"errors"
	"testing"
)

func TestUserRepository_UpsertFirstLogin(t *testing.T) {
	db, teardown := setupBlogTest(t)
	defer teardown()
	repo := NewSQLUserRepository(db)
	ctx := context.Background()

	user := &User{Subject: "auth0|alice", Username: "alice", Email: "alice@example.com"}
	if err := repo.UpsertUser(ctx, user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected a generated id")
	}

	got, err := repo.GetUserBySubject(ctx, "auth0|alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Username != "alice" || got.Email != "alice@example.com" {
		t.Errorf("unexpected user: %+v", got)
	}
}

func TestUserRepository_UpsertPreservesProfileEdits(t *testing.T) {
	db, teardown := setupBlogTest(t)
	defer teardown()
	repo := NewSQLUserRepository(db)
	ctx := context.Background()

	user := &User{Subject: "auth0|alice", Username: "alice", Email: "alice@example.com"}
	if err := repo.UpsertUser(ctx, user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The user renames themselves between logins.
	user.Username = "alice-renamed"
	user.FirstName = "Alice"
	if err := repo.UpdateUser(ctx, user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Re-login with fresh identity-provider claims: the e-mail refreshes,
	// the local edits survive.
	relogin := &User{Subject: "auth0|alice", Username: "alice", Email: "new@example.com"}
	if err := repo.UpsertUser(ctx, relogin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetUserBySubject(ctx, "auth0|alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Username != "alice-renamed" || got.FirstName != "Alice" {
		t.Errorf("local profile edits must survive re-login: %+v", got)
	}
	if got.Email != "new@example.com" {
		t.Errorf("expected the e-mail to refresh, got %q", got.Email)
	}
	if relogin.Username != "alice-renamed" {
		t.Errorf("the upserted struct must reflect the stored username, got %q", relogin.Username)
	}
}

func TestUserRepository_GetMissing(t *testing.T) {
	db, teardown := setupBlogTest(t)
	defer teardown()
	repo := NewSQLUserRepository(db)
	ctx := context.Background()

	if _, err := repo.GetUserBySubject(ctx, "auth0|nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetUserByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.UpdateUser(ctx, &User{ID: 42, Username: "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
