package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"task-tracker/internal/domain"
	"task-tracker/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names
const (
	pageList   = "list.html"
	pageDetail = "detail.html"
	pageForm   = "form.html"
	pageError  = "error.html"
)

// Renderer executes the embedded page templates. Each page is parsed
// together with the base layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page template
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{pageList, pageDetail, pageForm, pageError} {
		tmpl, err := template.New(page).ParseFS(templateFS, "templates/base.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Render writes page with the given status. The page is rendered into a
// buffer first so a template failure never produces a partial response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data interface{}) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown template %s", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

type listPage struct {
	Tasks []*domain.Task
}

type detailPage struct {
	Task      *domain.Task
	CSRFToken string
}

type formPage struct {
	Heading        string
	Action         string
	Form           validation.TaskForm
	Errors         map[string][]string
	TitleMaxLength int
	CSRFToken      string
}

type errorPage struct {
	Status     int
	StatusText string
	Message    string
	RequestID  string
}
