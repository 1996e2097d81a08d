//go:build unit

package service

import (
	"context"
	"fmt"

	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
)

// nopLogger satisfies logger.Logger without producing output.
type nopLogger struct{}

var _ logger.Logger = (*nopLogger)(nil)

func (nopLogger) Debug(msg string)                             {}
func (nopLogger) Info(msg string)                              {}
func (nopLogger) Warn(msg string)                              {}
func (nopLogger) Error(err error, msg string)                  {}
func (nopLogger) Fatal(err error, msg string)                  {}
func (l nopLogger) With(fields map[string]interface{}) logger.Logger { return l }

// mockPostRepository is a mock implementation of the PostRepository interface.
type mockPostRepository struct {
	errToReturn   error
	postToReturn  *data.Post
	postsToReturn []*data.Post
	countToReturn int

	createPostCalled bool
	updatePostCalled bool
	deletePostCalled bool
	lastPostPassed   *data.Post
	lastFilterPassed data.PostFilter
	lastOffsetPassed int
	lastLimitPassed  int
}

var _ PostRepository = (*mockPostRepository)(nil)

func (m *mockPostRepository) CreatePost(ctx context.Context, post *data.Post) error {
	m.createPostCalled = true
	m.lastPostPassed = post
	if m.errToReturn != nil {
		return m.errToReturn
	}
	post.ID = 1
	return nil
}

func (m *mockPostRepository) GetPostByID(ctx context.Context, id int64) (*data.Post, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.postToReturn != nil && m.postToReturn.ID == id {
		return m.postToReturn, nil
	}
	return nil, fmt.Errorf("post %d: %w", id, data.ErrNotFound)
}

func (m *mockPostRepository) UpdatePost(ctx context.Context, post *data.Post) error {
	m.updatePostCalled = true
	m.lastPostPassed = post
	return m.errToReturn
}

func (m *mockPostRepository) DeletePost(ctx context.Context, id int64) error {
	m.deletePostCalled = true
	return m.errToReturn
}

func (m *mockPostRepository) ListPosts(ctx context.Context, f data.PostFilter, offset, limit int) ([]*data.Post, error) {
	m.lastFilterPassed = f
	m.lastOffsetPassed = offset
	m.lastLimitPassed = limit
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.postsToReturn == nil {
		return nil, nil
	}
	if offset >= len(m.postsToReturn) {
		return nil, nil
	}
	end := offset + limit
	if end > len(m.postsToReturn) {
		end = len(m.postsToReturn)
	}
	return m.postsToReturn[offset:end], nil
}

func (m *mockPostRepository) CountPosts(ctx context.Context, f data.PostFilter) (int, error) {
	m.lastFilterPassed = f
	if m.errToReturn != nil {
		return 0, m.errToReturn
	}
	if m.postsToReturn != nil {
		return len(m.postsToReturn), nil
	}
	return m.countToReturn, nil
}

// mockCommentRepository is a mock implementation of the CommentRepository interface.
type mockCommentRepository struct {
	errToReturn      error
	commentToReturn  *data.Comment
	commentsToReturn []*data.Comment
	countsToReturn   map[int64]int

	createCommentCalled bool
	updateCommentCalled bool
	deleteCommentCalled bool
	lastCommentPassed   *data.Comment
}

var _ CommentRepository = (*mockCommentRepository)(nil)

func (m *mockCommentRepository) CreateComment(ctx context.Context, comment *data.Comment) error {
	m.createCommentCalled = true
	m.lastCommentPassed = comment
	if m.errToReturn != nil {
		return m.errToReturn
	}
	comment.ID = 1
	return nil
}

func (m *mockCommentRepository) GetCommentByID(ctx context.Context, id int64) (*data.Comment, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.commentToReturn != nil && m.commentToReturn.ID == id {
		return m.commentToReturn, nil
	}
	return nil, fmt.Errorf("comment %d: %w", id, data.ErrNotFound)
}

func (m *mockCommentRepository) UpdateComment(ctx context.Context, comment *data.Comment) error {
	m.updateCommentCalled = true
	m.lastCommentPassed = comment
	return m.errToReturn
}

func (m *mockCommentRepository) DeleteComment(ctx context.Context, id int64) error {
	m.deleteCommentCalled = true
	return m.errToReturn
}

func (m *mockCommentRepository) ListCommentsByPost(ctx context.Context, postID int64) ([]*data.Comment, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	return m.commentsToReturn, nil
}

func (m *mockCommentRepository) CountCommentsByPosts(ctx context.Context, postIDs []int64) (map[int64]int, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.countsToReturn == nil {
		return map[int64]int{}, nil
	}
	return m.countsToReturn, nil
}

// mockCategoryRepository is a mock implementation of the CategoryRepository interface.
type mockCategoryRepository struct {
	errToReturn        error
	categoryToReturn   *data.Category
	categoriesToReturn []*data.Category
}

var _ CategoryRepository = (*mockCategoryRepository)(nil)

func (m *mockCategoryRepository) GetCategoryByID(ctx context.Context, id int64) (*data.Category, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.categoryToReturn != nil && m.categoryToReturn.ID == id {
		return m.categoryToReturn, nil
	}
	return nil, fmt.Errorf("category %d: %w", id, data.ErrNotFound)
}

func (m *mockCategoryRepository) GetCategoryBySlug(ctx context.Context, slug string) (*data.Category, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.categoryToReturn != nil && m.categoryToReturn.Slug == slug {
		return m.categoryToReturn, nil
	}
	return nil, fmt.Errorf("category %q: %w", slug, data.ErrNotFound)
}

func (m *mockCategoryRepository) ListCategories(ctx context.Context) ([]*data.Category, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	return m.categoriesToReturn, nil
}

// mockLocationRepository is a mock implementation of the LocationRepository interface.
type mockLocationRepository struct {
	errToReturn       error
	locationToReturn  *data.Location
	locationsToReturn []*data.Location
}

var _ LocationRepository = (*mockLocationRepository)(nil)

func (m *mockLocationRepository) GetLocationByID(ctx context.Context, id int64) (*data.Location, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.locationToReturn != nil && m.locationToReturn.ID == id {
		return m.locationToReturn, nil
	}
	return nil, fmt.Errorf("location %d: %w", id, data.ErrNotFound)
}

func (m *mockLocationRepository) ListLocations(ctx context.Context) ([]*data.Location, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	return m.locationsToReturn, nil
}

// mockUserRepository is a mock implementation of the UserRepository interface.
type mockUserRepository struct {
	errToReturn  error
	userToReturn *data.User

	upsertUserCalled bool
	updateUserCalled bool
	lastUserPassed   *data.User
}

var _ UserRepository = (*mockUserRepository)(nil)

func (m *mockUserRepository) GetUserBySubject(ctx context.Context, subject string) (*data.User, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.userToReturn != nil && m.userToReturn.Subject == subject {
		return m.userToReturn, nil
	}
	return nil, fmt.Errorf("user %q: %w", subject, data.ErrNotFound)
}

func (m *mockUserRepository) GetUserByUsername(ctx context.Context, username string) (*data.User, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.userToReturn != nil && m.userToReturn.Username == username {
		return m.userToReturn, nil
	}
	return nil, fmt.Errorf("user %q: %w", username, data.ErrNotFound)
}

func (m *mockUserRepository) UpsertUser(ctx context.Context, user *data.User) error {
	m.upsertUserCalled = true
	m.lastUserPassed = user
	return m.errToReturn
}

func (m *mockUserRepository) UpdateUser(ctx context.Context, user *data.User) error {
	m.updateUserCalled = true
	m.lastUserPassed = user
	return m.errToReturn
}

// mockNotifier records the events it receives.
type mockNotifier struct {
	errToReturn error
	events      []PostPublishedEvent
}

var _ Notifier = (*mockNotifier)(nil)

func (m *mockNotifier) PostPublished(ctx context.Context, event PostPublishedEvent) error {
	m.events = append(m.events, event)
	return m.errToReturn
}
