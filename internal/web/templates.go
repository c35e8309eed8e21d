package web

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	webembed "github.com/rogerio-castellano/gerenciador-itens/web"
)

// Templates holds the parsed page and fragment templates.
type Templates struct {
	set *template.Template
}

func LoadTemplates() (*Templates, error) {
	tfs, err := webembed.TemplatesFS()
	if err != nil {
		return nil, err
	}
	set, err := template.New("").ParseFS(tfs, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Templates{set: set}, nil
}

// Render executes the named template with an HTML content type.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ts.set.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}
