package controllers

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"inkpot/app/middleware"
	"inkpot/app/models"
	"inkpot/app/repositories"
	"inkpot/app/repositories/mock"
	"inkpot/app/services"
	"inkpot/app/views"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type eventLog []string

func (e *eventLog) Record(event string) { *e = append(*e, event) }

type testEnv struct {
	store  *mock.Store
	deps   Deps
	router *mux.Router
	user   *models.User
	events *eventLog
	logs   *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithPosts(t, nil)
}

// newTestEnvWithPosts lets a test swap in a misbehaving post repository.
func newTestEnvWithPosts(t *testing.T, posts repositories.PostRepository) *testEnv {
	t.Helper()
	store := mock.NewStore()
	if posts == nil {
		posts = store.Posts
	}

	templates, err := views.Load(views.Templates())
	require.NoError(t, err)

	auth := services.NewAuthService(store.Users, store.Sessions, time.Hour, nil)
	user, err := auth.Register("admin", "password123")
	require.NoError(t, err)

	env := &testEnv{store: store, user: user, events: &eventLog{}, logs: &bytes.Buffer{}}
	env.deps = Deps{
		Posts:     services.NewPostService(posts, store.Comments, nil),
		Comments:  services.NewCommentService(store.Comments, posts, nil),
		Auth:      auth,
		Templates: templates,
		Logger:    slog.New(slog.NewTextHandler(env.logs, nil)),
		Events:    env.events,
	}
	env.router = setupRouter(env.deps)
	return env
}

func setupRouter(d Deps) *mux.Router {
	pages := NewPageController(d)
	posts := NewPostController(d)
	comments := NewCommentController(d)
	auth := NewAuthController(d)

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(pages.NotFound)
	router.HandleFunc("/about", pages.About).Methods("GET")
	router.HandleFunc("/", posts.Index).Methods("GET")
	router.HandleFunc("/api/posts", posts.Index).Methods("GET")
	router.HandleFunc("/posts/new", posts.New).Methods("GET", "POST")
	router.HandleFunc("/posts/{id:[0-9]+}", posts.Show).Methods("GET")
	router.HandleFunc("/api/posts/{id:[0-9]+}", posts.Show).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}/edit", posts.Edit).Methods("GET", "POST")
	router.HandleFunc("/posts/{id:[0-9]+}/remove", posts.Remove).Methods("GET", "POST")
	router.HandleFunc("/posts/{id:[0-9]+}/publish", posts.Publish).Methods("GET")
	router.HandleFunc("/drafts", posts.Drafts).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}/comment", comments.Add).Methods("GET", "POST")
	router.HandleFunc("/comments/{id:[0-9]+}/approve", comments.Approve).Methods("GET")
	router.HandleFunc("/comments/{id:[0-9]+}/remove", comments.Remove).Methods("GET")
	router.HandleFunc("/login", auth.LoginPage).Methods("GET")
	router.HandleFunc("/login", auth.Login).Methods("POST")
	router.HandleFunc("/logout", auth.Logout).Methods("GET", "POST")
	return router
}

type request struct {
	method string
	path   string
	form   url.Values
	json   bool
	anon   bool
	cookie *http.Cookie
}

func (env *testEnv) do(req request) *httptest.ResponseRecorder {
	if req.method == "" {
		req.method = http.MethodGet
	}
	var body *strings.Reader
	if req.form != nil {
		body = strings.NewReader(req.form.Encode())
	} else {
		body = strings.NewReader("")
	}

	r := httptest.NewRequest(req.method, req.path, body)
	if req.form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if req.json {
		r.Header.Set("Accept", "application/json")
	}
	if req.cookie != nil {
		r.AddCookie(req.cookie)
	}
	if !req.anon {
		r = r.WithContext(middleware.WithUser(r.Context(), env.user))
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, r)
	return w
}

func (env *testEnv) createPost(t *testing.T, title string, publish bool) *models.Post {
	t.Helper()
	post, err := env.deps.Posts.CreatePost(env.user.ID, models.PostForm{Title: title, Text: title + " body"})
	require.NoError(t, err)
	if publish {
		post, err = env.deps.Posts.PublishPost(post.ID)
		require.NoError(t, err)
	}
	return post
}

func (env *testEnv) addComment(t *testing.T, postID int, text string, approve bool) *models.Comment {
	t.Helper()
	comment, err := env.deps.Comments.AddComment(postID, models.CommentForm{Author: "reader", Text: text})
	require.NoError(t, err)
	if approve {
		comment, err = env.deps.Comments.ApproveComment(comment.ID)
		require.NoError(t, err)
	}
	return comment
}
