package service

import (
	"go-blog-app/internal/data"
)

// The authorization engine is a set of pure predicates so it can be tested
// without any transport or storage in play. Route-level gating (authenticated
// vs. anonymous areas) is handled separately by the casbin middleware; these
// predicates carry the per-entity ownership rules.

// CanCreate reports whether the viewer may create posts or comments. There is
// no ownership to check on creation; authentication is the only requirement.
func CanCreate(v Viewer) bool {
	return v.Authenticated
}

// CanMutatePost reports whether the viewer may edit or delete the post.
// Only the owning author qualifies.
func CanMutatePost(p *data.Post, v Viewer) bool {
	return v.Authenticated && v.Subject == p.AuthorID
}

// CanMutateComment reports whether the viewer may edit or delete the comment.
func CanMutateComment(c *data.Comment, v Viewer) bool {
	return v.Authenticated && v.Subject == c.AuthorID
}

// CanEditProfile reports whether the viewer may edit the target profile.
func CanEditProfile(u *data.User, v Viewer) bool {
	return v.Authenticated && v.Subject == u.Subject
}
