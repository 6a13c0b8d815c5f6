// Package views holds the embedded HTML templates and static assets.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"inkpot/app/models"
)

//go:embed templates/*.html static
var files embed.FS

// Pages are parsed together with layout.html; the key is the file name without extension.
var Pages = []string{
	"about",
	"post_list",
	"post_detail",
	"post_form",
	"post_confirm_delete",
	"post_draft_list",
	"comment_form",
	"login",
	"error",
}

// Page is the data every template receives.
type Page struct {
	Title     string
	User      *models.User
	Posts     []*models.Post
	Post      *models.Post
	Comments  []*models.Comment
	Form      any
	Errors    models.FieldErrors
	Next      string
	Message   string
	Status    int
	CSRFField template.HTML
}

// Templates returns the embedded template directory.
func Templates() fs.FS {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static returns the embedded static assets.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

var funcs = template.FuncMap{
	"date": formatDate,
}

func formatDate(v any) string {
	const layout = "Jan 2, 2006, 15:04"
	switch t := v.(type) {
	case time.Time:
		return t.Format(layout)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format(layout)
	}
	return ""
}

// Load parses each page with the layout from fsys.
func Load(fsys fs.FS) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(Pages))
	for _, name := range Pages {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(fsys, "layout.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}
