package data

import (
	"time"
)

// Location represents a place a post can be tagged with. Locations are
// administrative records; hiding one (IsPublished=false) does not touch the
// posts that reference it.
type Location struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	IsPublished bool      `db:"is_published"`
	CreatedAt   time.Time `db:"created_at"`
}

// Category groups posts under a URL-stable slug. An unpublished category hides
// every post filed under it from non-authors.
type Category struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Slug        string    `db:"slug"`
	IsPublished bool      `db:"is_published"`
	CreatedAt   time.Time `db:"created_at"`
}

// Post is a single publication. Whether a post is actually visible to a given
// viewer is derived at read time from IsPublished, PubDate and the state of
// its category; it is never stored.
type Post struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Text        string    `db:"text"`
	PubDate     time.Time `db:"pub_date"`
	AuthorID    string    `db:"author_id"` // identity subject of the author
	LocationID  *int64    `db:"location_id"`
	CategoryID  *int64    `db:"category_id"`
	IsPublished bool      `db:"is_published"`
	ImageURL    string    `db:"image_url"`
	CreatedAt   time.Time `db:"created_at"`

	// Populated by queries, not persisted.
	AuthorUsername string    `db:"author_username"`
	Category       *Category `db:"-"`
	Location       *Location `db:"-"`
	CommentCount   int       `db:"-"`
}

// Comment belongs to exactly one post and is removed together with it.
type Comment struct {
	ID        int64     `db:"id"`
	PostID    int64     `db:"post_id"`
	AuthorID  string    `db:"author_id"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`

	// Populated by queries, not persisted.
	AuthorUsername string `db:"author_username"`
}

// User is the local profile attached to an externally authenticated identity.
// Subject is the stable identifier issued by the identity provider.
type User struct {
	ID        int64     `db:"id"`
	Subject   string    `db:"subject"`
	Username  string    `db:"username"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}
