package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"inkpot/app/models"
	"inkpot/app/repositories"
)

// CookieName is the cookie carrying the session id.
const CookieName = "session_id"

type ctxKeyUser struct{}

// WithUser stores the logged-in user on ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, ctxKeyUser{}, user)
}

// UserFrom returns the logged-in user, or nil for anonymous requests.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(ctxKeyUser{}).(*models.User)
	return user
}

// SessionResolver maps a session id to its user.
type SessionResolver interface {
	UserForSession(sessionID string) (*models.User, error)
}

// Session attaches the user behind the session cookie, if any, to the request context.
func Session(resolver SessionResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(CookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.UserForSession(c.Value)
			switch {
			case err == nil:
				r = r.WithContext(WithUser(r.Context(), user))
			case errors.Is(err, repositories.ErrNotFound):
				logger.Debug("stale session cookie", "path", r.URL.Path)
			default:
				logger.Warn("session lookup failed", "error", err)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireLogin redirects anonymous requests to loginURL, remembering where they were going.
func RequireLogin(loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserFrom(r.Context()) == nil {
				target := loginURL + "?next=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
