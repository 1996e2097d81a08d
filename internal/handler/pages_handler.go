package handler

import (
	"net/http"

	"go-blog-app/internal/middleware"
	"go-blog-app/internal/view"
)

// PagesHandler serves the static information pages.
type PagesHandler struct {
	view *view.View
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(v *view.View) *PagesHandler {
	return &PagesHandler{view: v}
}

func (h *PagesHandler) render(name string) middleware.AppHandler {
	return func(w http.ResponseWriter, r *http.Request) *middleware.AppError {
		data := map[string]interface{}{
			"UserInfo": middleware.GetUserInfo(r.Context()),
		}
		if err := h.view.Render(w, name, data); err != nil {
			return &middleware.AppError{Error: err, Message: "Failed to render page", Code: http.StatusInternalServerError}
		}
		return nil
	}
}

// aboutHandler renders the about page.
func (h *PagesHandler) aboutHandler() middleware.AppHandler { return h.render("about.html") }

// rulesHandler renders the rules page.
func (h *PagesHandler) rulesHandler() middleware.AppHandler { return h.render("rules.html") }
