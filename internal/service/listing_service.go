package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
)

// PageSize is the fixed number of posts per listing page.
const PageSize = 10

// indexCacheTTL bounds how stale the public index feed may get. The feed is
// identical for every viewer, which is what makes it safe to cache at all.
const indexCacheTTL = time.Minute

// FeedCache is the byte cache the listing service stores rendered feed pages
// in. A nil FeedCache disables caching.
type FeedCache interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
}

// PostPage is one page of a post listing.
type PostPage struct {
	Items      []*data.Post
	Number     int
	TotalPages int
	Total      int
	HasNext    bool
	HasPrev    bool
}

// CategoryFeed is the category page: the category itself plus its posts.
type CategoryFeed struct {
	Category *data.Category
	Page     *PostPage
}

// AuthorFeed is the profile page: the author plus their posts. IsOwner is
// true when the viewer is looking at their own profile, in which case drafts
// and scheduled posts are included.
type AuthorFeed struct {
	User    *data.User
	Page    *PostPage
	IsOwner bool
}

// ListingService produces the filtered, ordered, paginated post feeds. It
// composes the visibility rules (compiled into the repository filter) with
// ordering and pagination; it performs no writes.
type ListingService struct {
	posts      PostRepository
	comments   CommentRepository
	categories CategoryRepository
	users      UserRepository
	cache      FeedCache
	log        logger.Logger
	now        func() time.Time
}

// NewListingService creates a ListingService. cache may be nil to disable
// index-feed caching.
func NewListingService(posts PostRepository, comments CommentRepository, categories CategoryRepository, users UserRepository, cache FeedCache, log logger.Logger) *ListingService {
	return &ListingService{
		posts:      posts,
		comments:   comments,
		categories: categories,
		users:      users,
		cache:      cache,
		log:        log,
		now:        time.Now,
	}
}

// Index returns one page of the public index feed: every post visible to
// everyone, newest publication first. The viewer plays no part here, so pages
// are briefly cached.
func (s *ListingService) Index(ctx context.Context, page int) (*PostPage, error) {
	cacheKey := fmt.Sprintf("feed:index:page:%d", page)
	if s.cache != nil {
		if raw, err := s.cache.Get(cacheKey); err == nil && raw != nil {
			var cached PostPage
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	result, err := s.pageOf(ctx, data.PostFilter{VisibleOnly: true, Now: s.now()}, page)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(cacheKey, raw, indexCacheTTL); err != nil {
				s.log.Error(err, "failed to cache index feed page")
			}
		}
	}
	return result, nil
}

// Category returns the feed of a single category. A category that does not
// exist and one that is unpublished are both reported as ErrNotFound.
func (s *ListingService) Category(ctx context.Context, slug string, page int) (*CategoryFeed, error) {
	category, err := s.categories.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !category.IsPublished {
		return nil, fmt.Errorf("category %q: %w", slug, ErrNotFound)
	}

	result, err := s.pageOf(ctx, data.PostFilter{VisibleOnly: true, Now: s.now(), CategorySlug: slug}, page)
	if err != nil {
		return nil, err
	}
	return &CategoryFeed{Category: category, Page: result}, nil
}

// Author returns the feed of a single author's posts. Authors looking at
// their own profile see everything they wrote, drafts and scheduled posts
// included; everyone else sees only the publicly visible subset.
func (s *ListingService) Author(ctx context.Context, username string, v Viewer, page int) (*AuthorFeed, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	isOwner := v.Authenticated && v.Subject == user.Subject

	filter := data.PostFilter{AuthorSubject: user.Subject}
	if !isOwner {
		filter.VisibleOnly = true
		filter.Now = s.now()
	}

	result, err := s.pageOf(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return &AuthorFeed{User: user, Page: result, IsOwner: isOwner}, nil
}

// pageOf runs the count + list queries for a filter and annotates the page
// with comment counts. Out-of-range page numbers clamp to the nearest valid
// page instead of erroring.
func (s *ListingService) pageOf(ctx context.Context, f data.PostFilter, page int) (*PostPage, error) {
	total, err := s.posts.CountPosts(ctx, f)
	if err != nil {
		return nil, err
	}

	totalPages := (total + PageSize - 1) / PageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	items, err := s.posts.ListPosts(ctx, f, (page-1)*PageSize, PageSize)
	if err != nil {
		return nil, err
	}
	if err := s.fillCommentCounts(ctx, items); err != nil {
		return nil, err
	}

	return &PostPage{
		Items:      items,
		Number:     page,
		TotalPages: totalPages,
		Total:      total,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}

// fillCommentCounts annotates posts with their comment counts using one
// grouped query.
func (s *ListingService) fillCommentCounts(ctx context.Context, posts []*data.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	counts, err := s.comments.CountCommentsByPosts(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range posts {
		p.CommentCount = counts[p.ID]
	}
	return nil
}
