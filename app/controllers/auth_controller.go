package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"inkpot/app/middleware"
	"inkpot/app/models"
	"inkpot/app/services"
	"inkpot/app/views"
)

// AuthController handles login and logout
type AuthController struct {
	base
	authService  *services.AuthService
	cookieSecure bool
}

// NewAuthController creates a new AuthController
func NewAuthController(d Deps) *AuthController {
	return &AuthController{
		base:         newBase(d),
		authService:  d.Auth,
		cookieSecure: d.CookieSecure,
	}
}

// safeNext only allows redirects to paths on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}

// LoginPage renders the login form
func (ac *AuthController) LoginPage(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))
	if middleware.UserFrom(r.Context()) != nil {
		http.Redirect(w, r, next, http.StatusFound)
		return
	}
	ac.render(w, r, "login", http.StatusOK, &views.Page{
		Title: "Log in",
		Form:  models.LoginForm{},
		Next:  next,
	})
}

// Login checks credentials and starts a session
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ac.sendError(w, r, "Failed to parse form", http.StatusBadRequest)
		return
	}
	form := models.LoginFormFromValues(r.PostForm)
	next := safeNext(r.PostForm.Get("next"))
	page := &views.Page{Title: "Log in", Form: form, Next: next}

	if errs := form.Validate(); errs != nil {
		page.Errors = errs
		ac.render(w, r, "login", http.StatusOK, page)
		return
	}

	session, err := ac.authService.Login(form.Username, form.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		ac.record("login_failed")
		ac.logger.Info("login failed", "username", form.Username, "remote", r.RemoteAddr)
		page.Message = "Please enter a correct username and password."
		ac.render(w, r, "login", http.StatusOK, page)
		return
	}
	if err != nil {
		ac.fail(w, r, err, "login failed", "username", form.Username)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(ac.authService.Lifetime().Seconds()),
		HttpOnly: true,
		Secure:   ac.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	ac.record("login")
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout ends the session and clears the cookie
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(middleware.CookieName); err == nil {
		if err := ac.authService.Logout(c.Value); err != nil {
			ac.logger.Warn("failed to delete session", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ac.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}
