package handler

import (
	"net/http"

	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
	"go-blog-app/internal/session"
	"go-blog-app/internal/view"
)

// ProfileHandler holds the dependencies for the author profile pages.
type ProfileHandler struct {
	posts   *service.PostService
	listing *service.ListingService
	users   service.UserRepository
	sm      session.Manager
	view    *view.View
	log     logger.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(posts *service.PostService, listing *service.ListingService, users service.UserRepository, sm session.Manager, v *view.View, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		posts:   posts,
		listing: listing,
		users:   users,
		sm:      sm,
		view:    v,
		log:     log,
	}
}

// profileHandler renders an author's profile page with their posts. Owners
// see all of their posts, drafts and scheduled ones included.
func (h *ProfileHandler) profileHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	username := urlParam(r, "username")
	feed, err := h.listing.Author(r.Context(), username, viewerFrom(r), pageParam(r))
	if err != nil {
		return appErrorFor(err)
	}

	data := map[string]interface{}{
		"Profile":  feed.User,
		"Page":     feed.Page,
		"IsOwner":  feed.IsOwner,
		"UserInfo": middleware.GetUserInfo(r.Context()),
	}
	if err := h.view.Render(w, "profile.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render profile", Code: http.StatusInternalServerError}
	}
	return nil
}

// editFormHandler shows the profile edit form, owner only.
func (h *ProfileHandler) editFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	username := urlParam(r, "username")
	user, err := h.users.GetUserByUsername(r.Context(), username)
	if err != nil {
		return appErrorFor(err)
	}
	if !service.CanEditProfile(user, viewerFrom(r)) {
		return &middleware.AppError{Error: service.ErrDenied, Message: "You are not allowed to do this", Code: http.StatusForbidden}
	}

	data := map[string]interface{}{
		"ProfileUsername": user.Username,
		"Input": service.ProfileInput{
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		},
		"FieldErrors": map[string]string{},
		"UserInfo":    middleware.GetUserInfo(r.Context()),
	}
	if err := h.view.Render(w, "profile_form.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render profile form", Code: http.StatusInternalServerError}
	}
	return nil
}

// editHandler handles the profile edit submission.
func (h *ProfileHandler) editHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	username := urlParam(r, "username")
	in := service.ProfileInput{
		Username:  r.FormValue("username"),
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Email:     r.FormValue("email"),
	}

	user, err := h.posts.EditProfile(r.Context(), username, in, viewerFrom(r))
	if err != nil {
		if ve, ok := service.IsValidation(err); ok {
			data := map[string]interface{}{
				"ProfileUsername": username,
				"Input":           in,
				"FieldErrors":     ve.Fields,
				"UserInfo":        middleware.GetUserInfo(r.Context()),
			}
			w.WriteHeader(http.StatusUnprocessableEntity)
			if err := h.view.Render(w, "profile_form.html", data); err != nil {
				return &middleware.AppError{Error: err, Message: "Failed to render profile form", Code: http.StatusInternalServerError}
			}
			return nil
		}
		return appErrorFor(err)
	}

	// The session carries the username for redirects; keep it in sync
	// when the user renames themselves.
	h.sm.Put(r.Context(), "user_username", user.Username)

	http.Redirect(w, r, "/profile/"+user.Username, http.StatusFound)
	return nil
}
