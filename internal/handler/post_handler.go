package handler

import (
	"fmt"
	"net/http"

	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
	"go-blog-app/internal/view"
)

// PostHandler holds the dependencies for the feed, detail and post/comment
// mutation handlers.
type PostHandler struct {
	posts      *service.PostService
	listing    *service.ListingService
	categories service.CategoryRepository
	locations  service.LocationRepository
	view       *view.View
	log        logger.Logger
}

// NewPostHandler creates a new PostHandler with the given dependencies.
func NewPostHandler(posts *service.PostService, listing *service.ListingService, categories service.CategoryRepository, locations service.LocationRepository, v *view.View, log logger.Logger) *PostHandler {
	return &PostHandler{
		posts:      posts,
		listing:    listing,
		categories: categories,
		locations:  locations,
		view:       v,
		log:        log,
	}
}

// indexHandler renders the public index feed.
func (h *PostHandler) indexHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	page, err := h.listing.Index(r.Context(), pageParam(r))
	if err != nil {
		return appErrorFor(err)
	}

	data := map[string]interface{}{
		"Page":     page,
		"UserInfo": middleware.GetUserInfo(r.Context()),
	}
	if err := h.view.Render(w, "index.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render index", Code: http.StatusInternalServerError}
	}
	return nil
}

// categoryHandler renders the feed of a single category.
func (h *PostHandler) categoryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	slug := urlParam(r, "slug")
	feed, err := h.listing.Category(r.Context(), slug, pageParam(r))
	if err != nil {
		return appErrorFor(err)
	}

	data := map[string]interface{}{
		"Category": feed.Category,
		"Page":     feed.Page,
		"UserInfo": middleware.GetUserInfo(r.Context()),
	}
	if err := h.view.Render(w, "category.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render category", Code: http.StatusInternalServerError}
	}
	return nil
}

// detailHandler renders a single post with its comments. Posts the viewer may
// not see surface as a 404, never as a 403.
func (h *PostHandler) detailHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := idParam(r, "id")
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Page not found", Code: http.StatusNotFound}
	}

	detail, err := h.posts.GetPost(r.Context(), id, viewerFrom(r))
	if err != nil {
		return appErrorFor(err)
	}

	data := map[string]interface{}{
		"Post":     detail.Post,
		"Comments": detail.Comments,
		"UserInfo": middleware.GetUserInfo(r.Context()),
	}
	if err := h.view.Render(w, "detail.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render post", Code: http.StatusInternalServerError}
	}
	return nil
}

// postFormData assembles the data the post form template needs: category and
// location pickers plus any previous input and validation problems.
func (h *PostHandler) postFormData(r *http.Request, in service.PostInput, fieldErrors map[string]string) (map[string]interface{}, error) {
	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		return nil, err
	}
	locations, err := h.locations.ListLocations(r.Context())
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"Input":       in,
		"Categories":  categories,
		"Locations":   locations,
		"FieldErrors": fieldErrors,
		"UserInfo":    middleware.GetUserInfo(r.Context()),
	}, nil
}

func postInputFromForm(r *http.Request) service.PostInput {
	return service.PostInput{
		Title:       r.FormValue("title"),
		Text:        r.FormValue("text"),
		PubDate:     parsePubDate(r.FormValue("pub_date")),
		CategoryID:  optionalID(r.FormValue("category_id")),
		LocationID:  optionalID(r.FormValue("location_id")),
		IsPublished: r.FormValue("is_published") != "",
		ImageURL:    r.FormValue("image_url"),
	}
}

// createFormHandler shows the empty post form.
func (h *PostHandler) createFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	data, err := h.postFormData(r, service.PostInput{IsPublished: true}, nil)
	if err != nil {
		return appErrorFor(err)
	}
	if err := h.view.Render(w, "post_form.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render post form", Code: http.StatusInternalServerError}
	}
	return nil
}

// createHandler handles the post form submission. Validation problems
// re-render the form with field-level detail; anything else becomes an error
// page.
func (h *PostHandler) createHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	in := postInputFromForm(r)
	post, err := h.posts.CreatePost(r.Context(), in, viewerFrom(r))
	if err != nil {
		if ve, ok := service.IsValidation(err); ok {
			return h.renderPostForm(w, r, in, ve.Fields)
		}
		return appErrorFor(err)
	}

	http.Redirect(w, r, fmt.Sprintf("/posts/%d", post.ID), http.StatusFound)
	return nil
}

func (h *PostHandler) renderPostForm(w http.ResponseWriter, r *http.Request, in service.PostInput, fieldErrors map[string]string) *middleware.AppError {
	data, err := h.postFormData(r, in, fieldErrors)
	if err != nil {
		return appErrorFor(err)
	}
	w.WriteHeader(http.StatusUnprocessableEntity)
	if err := h.view.Render(w, "post_form.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render post form", Code: http.StatusInternalServerError}
	}
	return nil
}

// editFormHandler shows the post form pre-filled with the existing post.
func (h *PostHandler) editFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := idParam(r, "id")
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Page not found", Code: http.StatusNotFound}
	}

	post, err := h.posts.PostForEdit(r.Context(), id, viewerFrom(r))
	if err != nil {
		return appErrorFor(err)
	}

	in := service.PostInput{
		Title:       post.Title,
		Text:        post.Text,
		PubDate:     post.PubDate,
		CategoryID:  post.CategoryID,
		LocationID:  post.LocationID,
		IsPublished: post.IsPublished,
		ImageURL:    post.ImageURL,
	}
	data, err := h.postFormData(r, in, nil)
	if err != nil {
		return appErrorFor(err)
	}
	data["PostID"] = post.ID
	if err := h.view.Render(w, "post_form.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render post form", Code: http.StatusInternalServerError}
	}
	return nil
}

// editHandler handles the edit form submission.
func (h *PostHandler) editHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := idParam(r, "id")
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Page not found", Code: http.StatusNotFound}
	}

	in := postInputFromForm(r)
	post, err := h.posts.EditPost(r.Context(), id, in, viewerFrom(r))
	if err != nil {
		if ve, ok := service.IsValidation(err); ok {
			return h.renderPostForm(w, r, in, ve.Fields)
		}
		return appErrorFor(err)
	}

	http.Redirect(w, r, fmt.Sprintf("/posts/%d", post.ID), http.StatusFound)
	return nil
}

// deleteConfirmHandler shows the delete confirmation page. The service
// reports the preview as a no-op result; nothing has been deleted yet.
func (h *PostHandler) deleteConfirmHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := idParam(r, "id")
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Page not found", Code: http.StatusNotFound}
	}

	post, err := h.posts.DeletePost(r.Context(), id, viewerFrom(r), false)
	if err != nil && err != service.ErrNoOp {
		return appErrorFor(err)
	}

	data := map[string]interface{}{
		"Post":     post,
		"UserInfo": middleware.GetUserInfo(r.Context()),
	}
	if err := h.view.Render(w, "post_confirm_delete.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render confirmation", Code: http.StatusInternalServerError}
	}
	return nil
}

// deleteHandler performs the confirmed deletion and sends the author back to
// their profile.
func (h *PostHandler) deleteHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := idParam(r, "id")
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Page not found", Code: http.StatusNotFound}
	}

	viewer := viewerFrom(r)
	if _, err := h.posts.DeletePost(r.Context(), id, viewer, true); err != nil {
		return appErrorFor(err)
	}

	http.Redirect(w, r, "/profile/"+viewer.Username, http.StatusFound)
	return nil
}

// addCommentHandler attaches a comment to a post and returns to the detail
// page.
func (h *PostHandler) addCommentHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := idParam(r, "id")
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Page not found", Code: http.StatusNotFound}
	}

	if _, err := h.posts.AddComment(r.Context(), id, r.FormValue("text"), viewerFrom(r)); err != nil {
		if _, ok := service.IsValidation(err); ok {
			// An empty comment simply reloads the detail page.
			http.Redirect(w, r, fmt.Sprintf("/posts/%d", id), http.StatusFound)
			return nil
		}
		return appErrorFor(err)
	}

	http.Redirect(w, r, fmt.Sprintf("/posts/%d", id), http.StatusFound)
	return nil
}

// editCommentFormHandler shows the comment edit form.
func (h *PostHandler) editCommentFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := idParam(r, "id")
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Page not found", Code: http.StatusNotFound}
	}

	comment, err := h.posts.CommentForEdit(r.Context(), id, viewerFrom(r))
	if err != nil {
		return appErrorFor(err)
	}

	data := map[string]interface{}{
		"Comment":  comment,
		"UserInfo": middleware.GetUserInfo(r.Context()),
	}
	if err := h.view.Render(w, "comment_form.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render comment form", Code: http.StatusInternalServerError}
	}
	return nil
}

// editCommentHandler handles the comment edit submission.
func (h *PostHandler) editCommentHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := idParam(r, "id")
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Page not found", Code: http.StatusNotFound}
	}

	comment, err := h.posts.EditComment(r.Context(), id, r.FormValue("text"), viewerFrom(r))
	if err != nil {
		if _, ok := service.IsValidation(err); ok {
			return h.editCommentFormHandler(w, r)
		}
		return appErrorFor(err)
	}

	http.Redirect(w, r, fmt.Sprintf("/posts/%d", comment.PostID), http.StatusFound)
	return nil
}

// deleteCommentConfirmHandler shows the comment delete confirmation page.
func (h *PostHandler) deleteCommentConfirmHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := idParam(r, "id")
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Page not found", Code: http.StatusNotFound}
	}

	comment, err := h.posts.DeleteComment(r.Context(), id, viewerFrom(r), false)
	if err != nil && err != service.ErrNoOp {
		return appErrorFor(err)
	}

	data := map[string]interface{}{
		"Comment":  comment,
		"UserInfo": middleware.GetUserInfo(r.Context()),
	}
	if err := h.view.Render(w, "comment_confirm_delete.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render confirmation", Code: http.StatusInternalServerError}
	}
	return nil
}

// deleteCommentHandler performs the confirmed comment deletion.
func (h *PostHandler) deleteCommentHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := idParam(r, "id")
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Page not found", Code: http.StatusNotFound}
	}

	comment, err := h.posts.DeleteComment(r.Context(), id, viewerFrom(r), true)
	if err != nil {
		return appErrorFor(err)
	}

	http.Redirect(w, r, fmt.Sprintf("/posts/%d", comment.PostID), http.StatusFound)
	return nil
}
