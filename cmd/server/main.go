package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-blog-app/internal/auth"
	"go-blog-app/internal/cache"
	"go-blog-app/internal/config"
	"go-blog-app/internal/data"
	"go-blog-app/internal/handler"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/notify"
	"go-blog-app/internal/service"
	"go-blog-app/internal/view"
	"go-blog-app/web"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/v2"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, nil)

	// --- Pre-flight Checks ---
	if cfg.Session.SecretKey == "" || cfg.Session.SecretKey == "CHANGE_ME_IN_PRODUCTION_SECRET!!" {
		log.Fatal(errors.New("session secret key not set"), "Please set a secure BLOG_SESSION_SECRETKEY environment variable.")
	}

	// --- Database Initialization and Migration ---
	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(cfg.DB.DSN, "migrations"); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB.DSN)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	// --- Session Management Setup ---
	sessionManager := scs.New()
	sessionManager.Store = mysqlstore.New(db.DB)
	sessionManager.Lifetime = time.Duration(cfg.Session.Lifetime) * time.Hour
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.Server.TLS.Enabled

	// --- Authentication and Authorization Setup ---
	log.Info("Initializing authentication and authorization...")
	authenticator, err := auth.NewAuthenticator(&cfg.OIDC)
	if err != nil {
		log.Fatal(err, "Failed to initialize authenticator")
	}
	enforcer, err := auth.NewEnforcer("mysql", cfg.DB.DSN, "auth_model.conf")
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, log)
	log.Info("Auth components initialized and policies seeded.")

	// --- View Template Initialization ---
	log.Info("Initializing view templates...")
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}
	log.Info("View templates initialized.")

	// --- Feed Cache Initialization ---
	log.Info("Initializing SQLite feed cache...")
	feedCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize feed cache")
	}
	defer feedCache.Close()
	if err := feedCache.PurgeExpired(); err != nil {
		log.Warn(fmt.Sprintf("Failed to purge expired cache entries: %v", err))
	}
	log.Info("Feed cache initialized.")

	// --- Notification Setup ---
	var notifier service.Notifier = notify.NewMailNotifier(cfg.SMTP, log)

	// --- Dependency Injection and Handler Initialization ---
	// Initialize the application layers, injecting dependencies from top to bottom.
	postRepository := data.NewSQLPostRepository(db)
	commentRepository := data.NewSQLCommentRepository(db)
	categoryRepository := data.NewSQLCategoryRepository(db)
	locationRepository := data.NewSQLLocationRepository(db)
	userRepository := data.NewSQLUserRepository(db)

	postService := service.NewPostService(postRepository, commentRepository, categoryRepository, locationRepository, userRepository, notifier, log)
	listingService := service.NewListingService(postRepository, commentRepository, categoryRepository, userRepository, feedCache, log)

	postHandler := handler.NewPostHandler(postService, listingService, categoryRepository, locationRepository, viewService, log)
	profileHandler := handler.NewProfileHandler(postService, listingService, userRepository, sessionManager, viewService, log)
	authHandler := handler.NewAuthHandler(authenticator, sessionManager, enforcer, userRepository, log)
	pagesHandler := handler.NewPagesHandler(viewService)
	seoHandler := handler.NewSeoHandler(postRepository)

	authzMiddleware := middleware.Authorizer(enforcer, sessionManager)
	errorMiddleware := middleware.Error(log, viewService)

	// --- Router Setup ---
	// The router is the central hub that directs incoming requests to the correct handlers.
	router := handler.NewRouter(postHandler, profileHandler, authHandler, pagesHandler, seoHandler, authzMiddleware, errorMiddleware, sessionManager.LoadAndSave, web.StaticFS)

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}
