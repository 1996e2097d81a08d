package handler

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"go-blog-app/internal/middleware"
)

// NewRouter creates and configures a new chi router.
func NewRouter(
	postHandler *PostHandler,
	profileHandler *ProfileHandler,
	authHandler *AuthHandler,
	pagesHandler *PagesHandler,
	seoHandler *SeoHandler,
	authzMiddleware func(http.Handler) http.Handler,
	errorMiddleware func(middleware.AppHandler) http.Handler,
	sessionMiddleware func(http.Handler) http.Handler,
	staticFS fs.FS,
) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(sessionMiddleware)
	r.Use(authzMiddleware)

	handle := func(h middleware.AppHandler) http.HandlerFunc {
		return errorMiddleware(h).ServeHTTP
	}

	// Authentication routes
	r.Get("/auth/login", authHandler.handleLogin)
	r.Get("/auth/callback", authHandler.handleCallback)
	r.Get("/auth/logout", authHandler.handleLogout)

	// SEO routes
	r.Get("/robots.txt", seoHandler.robotsHandler)
	r.Get("/sitemap.xml", seoHandler.sitemapHandler)

	// Static information pages
	r.Get("/about", handle(pagesHandler.aboutHandler()))
	r.Get("/rules", handle(pagesHandler.rulesHandler()))

	// Feeds
	r.Get("/", handle(postHandler.indexHandler))
	r.Get("/category/{slug}", handle(postHandler.categoryHandler))

	// Posts
	r.Get("/posts/create", handle(postHandler.createFormHandler))
	r.Post("/posts/create", handle(postHandler.createHandler))
	r.Get("/posts/{id}", handle(postHandler.detailHandler))
	r.Get("/posts/{id}/edit", handle(postHandler.editFormHandler))
	r.Post("/posts/{id}/edit", handle(postHandler.editHandler))
	r.Get("/posts/{id}/delete", handle(postHandler.deleteConfirmHandler))
	r.Post("/posts/{id}/delete", handle(postHandler.deleteHandler))
	r.Post("/posts/{id}/comment", handle(postHandler.addCommentHandler))

	// Comments
	r.Get("/comments/{id}/edit", handle(postHandler.editCommentFormHandler))
	r.Post("/comments/{id}/edit", handle(postHandler.editCommentHandler))
	r.Get("/comments/{id}/delete", handle(postHandler.deleteCommentConfirmHandler))
	r.Post("/comments/{id}/delete", handle(postHandler.deleteCommentHandler))

	// Profiles
	r.Get("/profile/{username}", handle(profileHandler.profileHandler))
	r.Get("/profile/{username}/edit", handle(profileHandler.editFormHandler))
	r.Post("/profile/{username}/edit", handle(profileHandler.editHandler))

	// Static assets. The embedded filesystem already carries the static/
	// prefix, so no stripping is needed.
	r.Handle("/static/*", http.FileServer(http.FS(staticFS)))

	return r
}
