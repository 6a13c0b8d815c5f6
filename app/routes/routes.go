package routes

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"inkpot/app/config"
	"inkpot/app/controllers"
	"inkpot/app/middleware"
	"inkpot/app/repositories"
	"inkpot/app/services"
	"inkpot/app/views"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App is everything Setup needs to build the router.
type App struct {
	Config   *config.Config
	Posts    repositories.PostRepository
	Comments repositories.CommentRepository
	Users    repositories.UserRepository
	Sessions repositories.SessionRepository
	Logger   *slog.Logger
	// Registry receives the HTTP and event metrics; a fresh one is used when nil.
	Registry *prometheus.Registry
	// Clock defaults to time.Now.
	Clock services.Clock
	// Templates overrides the embedded templates.
	Templates fs.FS
}

// Setup defines the application's routes and returns a router.
func Setup(app App) (*mux.Router, error) {
	cfg := app.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := app.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := app.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	tmplFS := app.Templates
	if tmplFS == nil {
		tmplFS = views.Templates()
	}

	templates, err := views.Load(tmplFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	authService := services.NewAuthService(app.Users, app.Sessions, cfg.SessionLifetime, app.Clock)
	metrics := middleware.NewMetrics(registry)
	deps := controllers.Deps{
		Posts:        services.NewPostService(app.Posts, app.Comments, app.Clock),
		Comments:     services.NewCommentService(app.Comments, app.Posts, app.Clock),
		Auth:         authService,
		Templates:    templates,
		Logger:       logger,
		Events:       metrics,
		CookieSecure: cfg.CookieSecure,
	}

	pageController := controllers.NewPageController(deps)
	postController := controllers.NewPostController(deps)
	commentController := controllers.NewCommentController(deps)
	authController := controllers.NewAuthController(deps)
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst)

	key, err := csrfKey(cfg.CSRFKey)
	if err != nil {
		return nil, err
	}
	if cfg.CSRFKey == "" {
		logger.Warn("csrf_key is not set; open forms stop working after a restart")
	}

	global := []mux.MiddlewareFunc{
		middleware.Logger(logger),
		metrics.Middleware,
		middleware.Recoverer(logger),
		middleware.Session(authService, logger),
	}

	router := mux.NewRouter()
	router.Use(global...)
	router.Use(middleware.CSRF(key, cfg.CookieSecure, http.HandlerFunc(pageController.Forbidden)))
	// mux does not run middleware for unmatched requests.
	router.NotFoundHandler = chain(global, http.HandlerFunc(pageController.NotFound))

	// Serve static files
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(views.Static()))))
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")

	// Public pages
	router.HandleFunc("/", postController.Index).Methods("GET")
	router.HandleFunc("/about", pageController.About).Methods("GET")
	router.HandleFunc("/posts", postController.Index).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}", postController.Show).Methods("GET")

	// Login
	router.HandleFunc("/login", authController.LoginPage).Methods("GET")
	router.Handle("/login", loginLimiter.Limit(http.HandlerFunc(authController.Login))).Methods("POST")
	router.HandleFunc("/logout", authController.Logout).Methods("GET", "POST")

	// Authoring and moderation
	authed := router.NewRoute().Subrouter()
	authed.Use(middleware.RequireLogin(cfg.LoginURL))
	authed.HandleFunc("/posts/new", postController.New).Methods("GET", "POST")
	authed.HandleFunc("/posts/{id:[0-9]+}/edit", postController.Edit).Methods("GET", "POST")
	authed.HandleFunc("/posts/{id:[0-9]+}/remove", postController.Remove).Methods("GET", "POST")
	authed.HandleFunc("/posts/{id:[0-9]+}/publish", postController.Publish).Methods("GET")
	authed.HandleFunc("/posts/{id:[0-9]+}/comment", commentController.Add).Methods("GET", "POST")
	authed.HandleFunc("/drafts", postController.Drafts).Methods("GET")
	authed.HandleFunc("/comments/{id:[0-9]+}/approve", commentController.Approve).Methods("GET")
	authed.HandleFunc("/comments/{id:[0-9]+}/remove", commentController.Remove).Methods("GET")

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)
	api.HandleFunc("/posts", postController.Index).Methods("GET")
	api.HandleFunc("/posts/{id:[0-9]+}", postController.Show).Methods("GET")

	return router, nil
}

func chain(mws []mux.MiddlewareFunc, h http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// csrfKey decodes the configured key, or makes a random one for this process.
func csrfKey(configured string) ([]byte, error) {
	if configured != "" {
		key, err := hex.DecodeString(configured)
		if err != nil {
			return nil, fmt.Errorf("invalid csrf_key: %w", err)
		}
		return key, nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate a csrf key: %w", err)
	}
	return key, nil
}
