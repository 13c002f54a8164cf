package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/datefmt"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/listquery"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/pagination"
)

//go:embed templates
var files embed.FS

// Renderer executes the console's page templates. Each page is parsed together
// with the layout and every partial.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	entries, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, entry := range entries {
		name := strings.TrimSuffix(path.Base(entry), ".html")
		if name == "layout" {
			continue
		}
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(files,
			"templates/layout.html",
			"templates/partials/*.html",
			entry,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Page renders a full page wrapped in the layout.
func (r *Renderer) Page(w http.ResponseWriter, status int, page string, data any) {
	r.execute(w, status, page, "layout", data)
}

// Partial renders one named block of a page, for fragment updates.
func (r *Renderer) Partial(w http.ResponseWriter, status int, page, block string, data any) {
	r.execute(w, status, page, block, data)
}

func (r *Renderer) execute(w http.ResponseWriter, status int, page, block string, data any) {
	tmpl, ok := r.pages[page]
	if !ok {
		slog.Error("Unknown page template", "page", page)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, block, data); err != nil {
		slog.Error("Failed to render template", "page", page, "block", block, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

var funcs = template.FuncMap{
	"date":     datefmt.Date,
	"datetime": datefmt.DateTime,
	"clock":    datefmt.Time,
	"optional": datefmt.OptionalTime,
	"duration": datefmt.Duration,
	"limits":   func() []int { return pagination.LimitOptions },
	"sortMark": sortMark,
	"sortLink": sortLink,
	"field":    func(m map[string]string, name string) string { return m[name] },
	"join":     strings.Join,
	"pager":    NewPager,
}

// Pager is the data of the pagination partial.
type Pager struct {
	Base  string
	Meta  pagination.Meta
	Items []pagination.Item
	Prev  int
	Next  int
}

// NewPager builds the page strip for a list served at base.
func NewPager(base string, meta pagination.Meta) Pager {
	return Pager{
		Base:  base,
		Meta:  meta,
		Items: pagination.Window(meta.Page, meta.TotalPages),
		Prev:  meta.Page - 1,
		Next:  meta.Page + 1,
	}
}

// sortLink is the query selecting the next direction for column key.
func sortLink(p listquery.Params, key string) template.URL {
	next := p.WithSort(key)
	q := url.Values{}
	q.Set("sortBy", next.SortBy)
	q.Set("sortOrder", string(next.SortOrder))
	return template.URL(q.Encode())
}

// sortMark is the direction arrow shown next to the active sort column.
func sortMark(p listquery.Params, key string) string {
	if p.SortBy != key {
		return ""
	}
	if p.SortOrder == listquery.SortAsc {
		return "▲"
	}
	return "▼"
}
