package service

import (
	"time"

	"go-blog-app/internal/data"
)

// PostVisible decides whether a post may be shown to a viewer at a given
// instant. Authors always see their own posts, drafts and scheduled ones
// included. Everyone else sees a post only once it is published, its
// publication instant has passed, and its category (if it still has one) is
// published too.
//
// The post's Category field must be attached by the caller when the post has
// a CategoryID; a nil Category is treated as "no category restriction", which
// also covers posts whose category was deleted out from under them.
func PostVisible(p *data.Post, v Viewer, now time.Time) bool {
	if v.Authenticated && v.Subject == p.AuthorID {
		return true
	}
	if !p.IsPublished {
		return false
	}
	if p.PubDate.After(now) {
		return false
	}
	if p.Category != nil && !p.Category.IsPublished {
		return false
	}
	return true
}

// Scheduled reports whether a post is published-flagged but not yet visible
// because its publication instant lies in the future. There is no background
// job promoting scheduled posts; visibility is evaluated lazily at read time.
func Scheduled(p *data.Post, now time.Time) bool {
	return p.IsPublished && p.PubDate.After(now)
}
