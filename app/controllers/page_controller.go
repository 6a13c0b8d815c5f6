package controllers

import (
	"net/http"

	"inkpot/app/views"

	"github.com/gorilla/csrf"
)

// PageController serves pages that are not backed by the store.
type PageController struct {
	base
}

func NewPageController(d Deps) *PageController {
	return &PageController{base: newBase(d)}
}

// About renders the static about page
func (pc *PageController) About(w http.ResponseWriter, r *http.Request) {
	pc.render(w, r, "about", http.StatusOK, &views.Page{Title: "About"})
}

// NotFound is the router's fallback handler
func (pc *PageController) NotFound(w http.ResponseWriter, r *http.Request) {
	pc.notFound(w, r)
}

// Forbidden answers form posts that failed the CSRF check
func (pc *PageController) Forbidden(w http.ResponseWriter, r *http.Request) {
	pc.logger.Warn("csrf check failed", "method", r.Method, "path", r.URL.Path, "reason", csrf.FailureReason(r))
	pc.sendError(w, r, "CSRF verification failed. Request aborted.", http.StatusForbidden)
}
