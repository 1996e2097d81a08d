package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"

	"github.com/go-chi/chi/v5"
)

// viewerFrom converts the request-context user info into a service viewer.
func viewerFrom(r *http.Request) service.Viewer {
	info := middleware.GetUserInfo(r.Context())
	return service.Viewer{
		Subject:       info.Subject,
		Username:      info.Username,
		Authenticated: info.Authenticated,
	}
}

// idParam parses a numeric chi URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// urlParam reads a string chi URL parameter.
func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// pageParam parses the ?page= query parameter, defaulting to 1. Garbage input
// falls back to 1; out-of-range values are clamped by the listing service.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// pubDateLayouts are the formats accepted from the post form's datetime
// input, most specific first.
var pubDateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parsePubDate parses the publication date field. An empty or malformed value
// comes back as the zero time, which the service rejects with a field-level
// validation error.
func parsePubDate(value string) time.Time {
	for _, layout := range pubDateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// optionalID parses an optional select field into a nullable reference.
func optionalID(value string) *int64 {
	if value == "" {
		return nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

// appErrorFor maps a service error onto the HTTP error page it should render.
// NotFound and Denied get distinct status codes here; whether the templates
// show them identically is a presentation choice the error page makes.
func appErrorFor(err error) *middleware.AppError {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return &middleware.AppError{Error: err, Message: "Page not found", Code: http.StatusNotFound}
	case errors.Is(err, service.ErrDenied):
		return &middleware.AppError{Error: err, Message: "You are not allowed to do this", Code: http.StatusForbidden}
	default:
		return &middleware.AppError{Error: err, Message: "Something went wrong", Code: http.StatusInternalServerError}
	}
}
