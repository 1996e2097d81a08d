package service

import (
	"context"

	"go-blog-app/internal/data"
)

// The repository interfaces are declared here, on the consuming side, so the
// services can be unit-tested against hand-rolled mocks. internal/data holds
// the sqlx implementations.

// PostRepository defines the storage operations the services need for posts.
type PostRepository interface {
	CreatePost(ctx context.Context, post *data.Post) error
	GetPostByID(ctx context.Context, id int64) (*data.Post, error)
	UpdatePost(ctx context.Context, post *data.Post) error
	DeletePost(ctx context.Context, id int64) error
	ListPosts(ctx context.Context, f data.PostFilter, offset, limit int) ([]*data.Post, error)
	CountPosts(ctx context.Context, f data.PostFilter) (int, error)
}

// CommentRepository defines the storage operations for comments.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *data.Comment) error
	GetCommentByID(ctx context.Context, id int64) (*data.Comment, error)
	UpdateComment(ctx context.Context, comment *data.Comment) error
	DeleteComment(ctx context.Context, id int64) error
	ListCommentsByPost(ctx context.Context, postID int64) ([]*data.Comment, error)
	CountCommentsByPosts(ctx context.Context, postIDs []int64) (map[int64]int, error)
}

// CategoryRepository defines the storage operations for categories.
type CategoryRepository interface {
	GetCategoryByID(ctx context.Context, id int64) (*data.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*data.Category, error)
	ListCategories(ctx context.Context) ([]*data.Category, error)
}

// LocationRepository defines the storage operations for locations.
type LocationRepository interface {
	GetLocationByID(ctx context.Context, id int64) (*data.Location, error)
	ListLocations(ctx context.Context) ([]*data.Location, error)
}

// UserRepository defines the storage operations for user profiles.
type UserRepository interface {
	GetUserBySubject(ctx context.Context, subject string) (*data.User, error)
	GetUserByUsername(ctx context.Context, username string) (*data.User, error)
	UpsertUser(ctx context.Context, user *data.User) error
	UpdateUser(ctx context.Context, user *data.User) error
}

// Notifier delivers best-effort publication events. Implementations must not
// block on delivery; a returned error is logged by the caller and never
// propagated further.
type Notifier interface {
	PostPublished(ctx context.Context, event PostPublishedEvent) error
}

// PostPublishedEvent describes a freshly published post. Recipients may be
// left empty, in which case the notifier falls back to its configured list.
type PostPublishedEvent struct {
	Title      string
	Author     string
	Category   string
	Recipients []string
}
