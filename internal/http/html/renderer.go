package html

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
)

//go:embed templates
var templates embed.FS

type (
	// Renderer renders templates for the web UI.
	Renderer interface {
		Render(name string, w http.ResponseWriter, r *http.Request, data any)
		RenderTemplate(name string, w io.Writer, data any) error
	}

	// renderer renders templates embedded in the go bin. Uses a cache for
	// performance.
	renderer struct {
		cache map[string]*template.Template
	}
)

func NewRenderer() (Renderer, error) {
	cache, err := newTemplateCache(templates)
	if err != nil {
		return nil, err
	}
	return &renderer{cache: cache}, nil
}

// Render writes the rendered template to the response; any error is rendered
// as an error page instead.
func (r *renderer) Render(name string, w http.ResponseWriter, req *http.Request, data any) {
	// Write to a buffer first so that any rendering error results in a clean
	// error page rather than a half-written response.
	buf := new(bytes.Buffer)
	if err := r.RenderTemplate(name, buf, data); err != nil {
		Error(req, w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (r *renderer) RenderTemplate(name string, w io.Writer, data any) error {
	tmpl, ok := r.cache[name]
	if !ok {
		return fmt.Errorf("unable to locate template: %s", name)
	}
	return tmpl.Execute(w, data)
}

// newTemplateCache populates a cache of templates: each content template is
// parsed alongside the layout it extends.
func newTemplateCache(fsys fs.FS) (map[string]*template.Template, error) {
	cache := make(map[string]*template.Template)

	pages, err := fs.Glob(fsys, "templates/content/*.tmpl")
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		name := filepath.Base(page)

		tmpl, err := template.New(name).ParseFS(fsys,
			"templates/layout.tmpl",
			page,
		)
		if err != nil {
			return nil, err
		}

		cache[name] = tmpl
	}

	return cache, nil
}
