package routes

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"inkpot/app/config"
	"inkpot/app/middleware"
	"inkpot/app/models"
	"inkpot/app/repositories"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *mux.Router
	store  *repositories.Store
	cfg    *config.Config

	csrfCookie *http.Cookie
	csrfToken  string
}

var csrfInput = regexp.MustCompile(`name="` + regexp.QuoteMeta(middleware.CSRFFieldName) + `" value="([^"]+)"`)

func newTestServer(t *testing.T) *testServer {
	return newTestServerWith(t, nil)
}

// newTestServerWith lets a test adjust the App before the router is built.
func newTestServerWith(t *testing.T, adjust func(*App)) *testServer {
	t.Helper()

	store, err := repositories.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	user := &models.User{Username: "admin"}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, store.Users().Create(user))

	cfg := config.Default()
	cfg.LoginBurst = 3

	app := App{
		Config:   cfg,
		Posts:    store.Posts(),
		Comments: store.Comments(),
		Users:    store.Users(),
		Sessions: store.Sessions(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if adjust != nil {
		adjust(&app)
	}
	router, err := Setup(app)
	require.NoError(t, err)

	ts := &testServer{router: router, store: store, cfg: cfg}

	// Pick up a CSRF cookie and token the way a browser would, from the login form.
	w := ts.do("GET", "/login", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == "_gorilla_csrf" {
			ts.csrfCookie = c
		}
	}
	require.NotNil(t, ts.csrfCookie, "no csrf cookie set")
	m := csrfInput.FindStringSubmatch(w.Body.String())
	require.Len(t, m, 2, "no csrf field in the login form")
	ts.csrfToken = m[1]

	return ts
}

// do sends a request; unsafe methods carry the CSRF cookie and token.
func (ts *testServer) do(method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	if method != http.MethodGet && ts.csrfCookie != nil {
		withToken := url.Values{}
		for k, v := range form {
			withToken[k] = v
		}
		withToken.Set(middleware.CSRFFieldName, ts.csrfToken)
		return ts.send(method, path, withToken, cookie, ts.csrfCookie)
	}
	return ts.send(method, path, form, cookie)
}

func (ts *testServer) send(method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) login(t *testing.T) *http.Cookie {
	t.Helper()
	w := ts.do("POST", "/login", url.Values{"username": {"admin"}, "password": {"password123"}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}
