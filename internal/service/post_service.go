package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"

	"github.com/microcosm-cc/bluemonday"
)

// PostInput carries the viewer-editable fields of a post. PubDate may lie in
// the future, which schedules the post instead of publishing it immediately.
type PostInput struct {
	Title       string
	Text        string
	PubDate     time.Time
	CategoryID  *int64
	LocationID  *int64
	IsPublished bool
	ImageURL    string
}

// ProfileInput carries the viewer-editable fields of a user profile.
type ProfileInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
}

// PostDetail is the result of a detail read: the post with its category and
// location attached, plus all of its comments.
type PostDetail struct {
	Post     *data.Post
	Comments []*data.Comment
}

// PostService orchestrates creation, editing and deletion of posts, comments
// and profiles. Every operation checks the authorization predicates first and
// reports failures as values from the error taxonomy; nothing here panics.
type PostService struct {
	posts      PostRepository
	comments   CommentRepository
	categories CategoryRepository
	locations  LocationRepository
	users      UserRepository
	notifier   Notifier
	sanitizer  *bluemonday.Policy
	log        logger.Logger
	now        func() time.Time
}

// NewPostService creates a PostService wired to the given collaborators.
func NewPostService(posts PostRepository, comments CommentRepository, categories CategoryRepository, locations LocationRepository, users UserRepository, notifier Notifier, log logger.Logger) *PostService {
	// UGCPolicy keeps basic formatting in user-submitted text while
	// stripping anything that could execute in a reader's browser.
	return &PostService{
		posts:      posts,
		comments:   comments,
		categories: categories,
		locations:  locations,
		users:      users,
		notifier:   notifier,
		sanitizer:  bluemonday.UGCPolicy(),
		log:        log,
		now:        time.Now,
	}
}

func validatePostInput(in PostInput) error {
	fields := make(map[string]string)
	if in.Title == "" {
		fields["title"] = "title must not be empty"
	}
	if in.Text == "" {
		fields["text"] = "text must not be empty"
	}
	if in.PubDate.IsZero() {
		fields["pub_date"] = "publication date must be provided"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CreatePost validates the input, persists a new post owned by the viewer and
// emits a best-effort publication notification. Notification delivery failure
// is logged and swallowed; it never fails the operation.
func (s *PostService) CreatePost(ctx context.Context, in PostInput, v Viewer) (*data.Post, error) {
	if !CanCreate(v) {
		return nil, fmt.Errorf("create post: %w", ErrDenied)
	}
	if err := validatePostInput(in); err != nil {
		return nil, err
	}

	post := &data.Post{
		Title:       in.Title,
		Text:        s.sanitizer.Sanitize(in.Text),
		PubDate:     in.PubDate,
		AuthorID:    v.Subject,
		CategoryID:  in.CategoryID,
		LocationID:  in.LocationID,
		IsPublished: in.IsPublished,
		ImageURL:    in.ImageURL,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	post.AuthorUsername = v.Username

	// The notification goes out only after the persist has returned, so a
	// slow or failing mail hop can never hold the write path hostage.
	s.notifyPublished(ctx, post, v)

	return post, nil
}

func (s *PostService) notifyPublished(ctx context.Context, post *data.Post, v Viewer) {
	event := PostPublishedEvent{
		Title:  post.Title,
		Author: v.Username,
	}
	if post.CategoryID != nil {
		if category, err := s.categories.GetCategoryByID(ctx, *post.CategoryID); err == nil {
			event.Category = category.Title
		}
	}
	if err := s.notifier.PostPublished(ctx, event); err != nil {
		s.log.Error(err, "failed to deliver post published notification")
	}
}

// GetPost returns the post with its comments for a detail read. A post that
// does not exist and a post the viewer is not allowed to see are both
// reported as ErrNotFound, so the detail page cannot be used to probe for
// hidden content.
func (s *PostService) GetPost(ctx context.Context, id int64, v Viewer) (*PostDetail, error) {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !PostVisible(post, v, s.now()) {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	comments, err := s.comments.ListCommentsByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments}, nil
}

// loadPost fetches a post and attaches its category and location. A category
// or location that has been deleted since simply stays nil.
func (s *PostService) loadPost(ctx context.Context, id int64) (*data.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.CategoryID != nil {
		if category, err := s.categories.GetCategoryByID(ctx, *post.CategoryID); err == nil {
			post.Category = category
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	if post.LocationID != nil {
		if location, err := s.locations.GetLocationByID(ctx, *post.LocationID); err == nil {
			post.Location = location
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return post, nil
}

// PostForEdit loads a post for the edit form, gated by ownership. It exists
// so the edit page can distinguish NotFound from Denied before any input is
// submitted.
func (s *PostService) PostForEdit(ctx context.Context, id int64, v Viewer) (*data.Post, error) {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutatePost(post, v) {
		return nil, fmt.Errorf("edit post %d: %w", id, ErrDenied)
	}
	return post, nil
}

// EditPost replaces the mutable fields of a post. Only the owning author may
// edit; everyone else gets ErrDenied and no mutation.
func (s *PostService) EditPost(ctx context.Context, id int64, in PostInput, v Viewer) (*data.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutatePost(post, v) {
		return nil, fmt.Errorf("edit post %d: %w", id, ErrDenied)
	}
	if err := validatePostInput(in); err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Text = s.sanitizer.Sanitize(in.Text)
	post.PubDate = in.PubDate
	post.CategoryID = in.CategoryID
	post.LocationID = in.LocationID
	post.IsPublished = in.IsPublished
	post.ImageURL = in.ImageURL

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post together with all of its comments. When confirm
// is false nothing is deleted: the post is returned along with ErrNoOp so the
// caller can render a confirmation step. Only the owning author may delete.
func (s *PostService) DeletePost(ctx context.Context, id int64, v Viewer, confirm bool) (*data.Post, error) {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutatePost(post, v) {
		return nil, fmt.Errorf("delete post %d: %w", id, ErrDenied)
	}
	if !confirm {
		return post, ErrNoOp
	}
	// The repository deletes the comments and the post in one transaction.
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return nil, err
	}
	return post, nil
}

// AddComment attaches a comment to an existing post. Only existence of the
// post is checked here; the detail flow that reaches this operation has
// already confirmed visibility to the viewer.
func (s *PostService) AddComment(ctx context.Context, postID int64, text string, v Viewer) (*data.Comment, error) {
	if !CanCreate(v) {
		return nil, fmt.Errorf("add comment: %w", ErrDenied)
	}
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, &ValidationError{Fields: map[string]string{"text": "text must not be empty"}}
	}

	comment := &data.Comment{
		PostID:    postID,
		AuthorID:  v.Subject,
		Text:      s.sanitizer.Sanitize(text),
		CreatedAt: s.now(),
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	comment.AuthorUsername = v.Username
	return comment, nil
}

// CommentForEdit loads a comment for the edit form, gated by ownership.
func (s *PostService) CommentForEdit(ctx context.Context, id int64, v Viewer) (*data.Comment, error) {
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutateComment(comment, v) {
		return nil, fmt.Errorf("edit comment %d: %w", id, ErrDenied)
	}
	return comment, nil
}

// EditComment replaces the text of a comment. Only the owning author may
// edit.
func (s *PostService) EditComment(ctx context.Context, id int64, text string, v Viewer) (*data.Comment, error) {
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutateComment(comment, v) {
		return nil, fmt.Errorf("edit comment %d: %w", id, ErrDenied)
	}
	if text == "" {
		return nil, &ValidationError{Fields: map[string]string{"text": "text must not be empty"}}
	}

	comment.Text = s.sanitizer.Sanitize(text)
	if err := s.comments.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment. When confirm is false nothing is deleted
// and the comment comes back with ErrNoOp for the confirmation step. Only the
// owning author may delete.
func (s *PostService) DeleteComment(ctx context.Context, id int64, v Viewer, confirm bool) (*data.Comment, error) {
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutateComment(comment, v) {
		return nil, fmt.Errorf("delete comment %d: %w", id, ErrDenied)
	}
	if !confirm {
		return comment, ErrNoOp
	}
	if err := s.comments.DeleteComment(ctx, id); err != nil {
		return nil, err
	}
	return comment, nil
}

// EditProfile updates the profile identified by username. Only the profile's
// own user may edit it.
func (s *PostService) EditProfile(ctx context.Context, username string, in ProfileInput, v Viewer) (*data.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !CanEditProfile(user, v) {
		return nil, fmt.Errorf("edit profile %q: %w", username, ErrDenied)
	}
	if in.Username == "" {
		return nil, &ValidationError{Fields: map[string]string{"username": "username must not be empty"}}
	}

	user.Username = in.Username
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Email = in.Email
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
