package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"inkpot/app/middleware"
	"inkpot/app/repositories"
	"inkpot/app/services"
	"inkpot/app/views"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
)

// EventRecorder counts notable blog events (posts published, comments approved, ...).
type EventRecorder interface {
	Record(event string)
}

// Deps is everything the controllers need.
type Deps struct {
	Posts        *services.PostService
	Comments     *services.CommentService
	Auth         *services.AuthService
	Templates    map[string]*template.Template
	Logger       *slog.Logger
	Events       EventRecorder
	CookieSecure bool
}

// base carries the helpers shared by every controller.
type base struct {
	templates map[string]*template.Template
	logger    *slog.Logger
	events    EventRecorder
}

func newBase(d Deps) base {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return base{templates: d.Templates, logger: logger, events: d.Events}
}

func (b base) record(event string) {
	if b.events != nil {
		b.events.Record(event)
	}
}

// wantsJSON reports whether the client asked for JSON rather than HTML.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") || strings.HasPrefix(r.URL.Path, "/api/")
}

// pathID reads the numeric {id} route variable.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	return id, err == nil && id > 0
}

// render executes the named page into a buffer first so a template error never
// leaves a half-written response.
func (b base) render(w http.ResponseWriter, r *http.Request, name string, status int, page *views.Page) {
	page.User = middleware.UserFrom(r.Context())
	page.CSRFField = csrf.TemplateField(r)

	tmpl, ok := b.templates[name]
	if !ok {
		b.logger.Error("unknown template", "template", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		b.logger.Error("template error", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (b base) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		b.logger.Error("failed to encode response", "error", err)
	}
}

func (b base) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if wantsJSON(r) {
		b.sendJSON(w, status, map[string]string{"error": message})
		return
	}
	b.render(w, r, "error", status, &views.Page{
		Title:   http.StatusText(status),
		Status:  status,
		Message: message,
	})
}

// fail answers 404 for missing records. Anything else is logged and reported
// as a bare 500 so store details stay out of the response.
func (b base) fail(w http.ResponseWriter, r *http.Request, err error, msg string, attrs ...any) {
	if errors.Is(err, repositories.ErrNotFound) {
		b.sendError(w, r, "Not found", http.StatusNotFound)
		return
	}
	b.logger.Error(msg, append(attrs, "error", err)...)
	b.sendError(w, r, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (b base) notFound(w http.ResponseWriter, r *http.Request) {
	b.sendError(w, r, "Not found", http.StatusNotFound)
}
