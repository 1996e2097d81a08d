//go:build integration

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"go-blog-app/internal/auth"
	"go-blog-app/internal/config"
	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/notify"
	"go-blog-app/internal/service"
	"go-blog-app/internal/view"
	"go-blog-app/web"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/casbin/casbin/v2"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type testApp struct {
	Router   *chi.Mux
	DB       *sqlx.DB
	Posts    service.PostRepository
	Enforcer *casbin.Enforcer
	Sessions *scs.SessionManager
}

// setupTest initializes a full application stack over an in-memory SQLite
// database. OIDC is left out: the tests drive the anonymous flow and seed
// authenticated sessions directly.
func setupTest(t *testing.T) (*testApp, func()) {
	t.Helper()

	// Shared cache so the enforcer's own connection sees the same data.
	dsn := "file:handlertest?mode=memory&cache=shared"
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		t.Fatalf("Failed to connect to sqlite test database: %v", err)
	}

	schema := `
	CREATE TABLE users (
		id INTEGER PRIMARY KEY,
		subject TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE locations (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		is_published BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE categories (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		slug TEXT NOT NULL UNIQUE,
		is_published BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE posts (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		text TEXT NOT NULL,
		pub_date TIMESTAMP NOT NULL,
		author_id TEXT NOT NULL,
		location_id INTEGER REFERENCES locations(id) ON DELETE SET NULL,
		category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
		is_published BOOLEAN NOT NULL DEFAULT TRUE,
		image_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE comments (
		id INTEGER PRIMARY KEY,
		post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		author_id TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE casbin_rule (
		p_type TEXT DEFAULT '' NOT NULL,
		v0 TEXT DEFAULT '' NOT NULL,
		v1 TEXT DEFAULT '' NOT NULL,
		v2 TEXT DEFAULT '' NOT NULL,
		v3 TEXT DEFAULT '' NOT NULL,
		v4 TEXT DEFAULT '' NOT NULL,
		v5 TEXT DEFAULT '' NOT NULL
	);
	CREATE TABLE sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);`
	db.MustExec(schema)

	log := logger.New(config.LogConfig{Level: "error", Format: "console"}, nil)
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		t.Fatalf("Failed to parse templates: %v", err)
	}

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.New(db.DB)
	sessionManager.Lifetime = 3 * time.Minute

	enforcer, err := auth.NewEnforcer("sqlite3", dsn, "../../auth_model.conf")
	if err != nil {
		t.Fatalf("Failed to create enforcer: %v", err)
	}
	auth.SeedDefaultPolicies(enforcer, log)

	postRepository := data.NewSQLPostRepository(db)
	commentRepository := data.NewSQLCommentRepository(db)
	categoryRepository := data.NewSQLCategoryRepository(db)
	locationRepository := data.NewSQLLocationRepository(db)
	userRepository := data.NewSQLUserRepository(db)

	postService := service.NewPostService(postRepository, commentRepository, categoryRepository, locationRepository, userRepository, notify.NopNotifier{}, log)
	listingService := service.NewListingService(postRepository, commentRepository, categoryRepository, userRepository, nil, log)

	postHandler := NewPostHandler(postService, listingService, categoryRepository, locationRepository, viewService, log)
	profileHandler := NewProfileHandler(postService, listingService, userRepository, sessionManager, viewService, log)
	pagesHandler := NewPagesHandler(viewService)
	seoHandler := NewSeoHandler(postRepository)
	// No authenticator: the auth routes are not exercised here.
	authHandler := NewAuthHandler(nil, sessionManager, enforcer, userRepository, log)

	authzMiddleware := middleware.Authorizer(enforcer, sessionManager)
	errorMiddleware := middleware.Error(log, viewService)

	router := NewRouter(postHandler, profileHandler, authHandler, pagesHandler, seoHandler, authzMiddleware, errorMiddleware, sessionManager.LoadAndSave, web.StaticFS)

	app := &testApp{
		Router:   router,
		DB:       db,
		Posts:    postRepository,
		Enforcer: enforcer,
		Sessions: sessionManager,
	}
	teardown := func() {
		db.Close()
	}
	return app, teardown
}

func seedBlogContent(t *testing.T, app *testApp) (visibleID, draftID int64) {
	t.Helper()
	now := time.Now()

	app.DB.MustExec(`INSERT INTO users (subject, username) VALUES ('auth0|alice', 'alice')`)
	app.DB.MustExec(`INSERT INTO categories (id, title, slug, is_published) VALUES (1, 'Travel', 'travel', TRUE)`)
	app.DB.MustExec(`INSERT INTO categories (id, title, slug, is_published) VALUES (2, 'Secret', 'secret', FALSE)`)

	categoryID := int64(1)
	visible := &data.Post{Title: "A public post", Text: "body", PubDate: now.Add(-time.Hour), AuthorID: "auth0|alice", CategoryID: &categoryID, IsPublished: true}
	if err := app.Posts.CreatePost(context.Background(), visible); err != nil {
		t.Fatalf("failed to seed visible post: %v", err)
	}
	draft := &data.Post{Title: "A secret draft", Text: "body", PubDate: now.Add(-time.Hour), AuthorID: "auth0|alice", IsPublished: false}
	if err := app.Posts.CreatePost(context.Background(), draft); err != nil {
		t.Fatalf("failed to seed draft post: %v", err)
	}
	return visible.ID, draft.ID
}

func get(t *testing.T, app *testApp, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	app.Router.ServeHTTP(rr, req)
	return rr
}

func TestPublicRoutes(t *testing.T) {
	app, teardown := setupTest(t)
	defer teardown()
	seedBlogContent(t, app)

	for _, path := range []string{"/", "/about", "/rules", "/robots.txt", "/sitemap.xml", "/category/travel", "/profile/alice"} {
		rr := get(t, app, path)
		if rr.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, rr.Code)
		}
	}
}

func TestIndexShowsVisiblePostsOnly(t *testing.T) {
	app, teardown := setupTest(t)
	defer teardown()
	seedBlogContent(t, app)

	rr := get(t, app, "/")
	body := rr.Body.String()
	if !strings.Contains(body, "A public post") {
		t.Error("expected the visible post on the index")
	}
	if strings.Contains(body, "A secret draft") {
		t.Error("drafts must never reach the public index")
	}
}

func TestDetailVisibility(t *testing.T) {
	app, teardown := setupTest(t)
	defer teardown()
	visibleID, draftID := seedBlogContent(t, app)

	rr := get(t, app, "/posts/"+itoa(visibleID))
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 for a visible post, got %d", rr.Code)
	}

	// The draft surfaces as 404, not 403, so hidden content cannot be probed.
	rr = get(t, app, "/posts/"+itoa(draftID))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a draft, got %d", rr.Code)
	}

	rr = get(t, app, "/posts/99999")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a missing post, got %d", rr.Code)
	}
}

func TestUnpublishedCategoryIs404(t *testing.T) {
	app, teardown := setupTest(t)
	defer teardown()
	seedBlogContent(t, app)

	rr := get(t, app, "/category/secret")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unpublished category, got %d", rr.Code)
	}
	rr = get(t, app, "/category/missing")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a missing category, got %d", rr.Code)
	}
}

func TestAnonymousCannotPost(t *testing.T) {
	app, teardown := setupTest(t)
	defer teardown()
	visibleID, _ := seedBlogContent(t, app)

	form := url.Values{"title": {"x"}, "text": {"y"}, "pub_date": {"2024-06-15T12:00"}}
	for _, path := range []string{"/posts/create", "/posts/" + itoa(visibleID) + "/comment"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		app.Router.ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Errorf("POST %s: expected 403 for anonymous, got %d", path, rr.Code)
		}
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
