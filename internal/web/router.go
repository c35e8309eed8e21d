package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/gerenciador-itens/internal/ui"
	webembed "github.com/rogerio-castellano/gerenciador-itens/web"
)

type Options struct {
	Debounce    time.Duration
	SessionTTL  time.Duration
	MaxSessions int
}

// NewRouter creates the front-end router. Each session's controller talks
// to the items API through api. Idle sessions are evicted until ctx is done.
func NewRouter(ctx context.Context, api ui.API, opts Options) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	static, err := webembed.StaticFS()
	if err != nil {
		return nil, err
	}

	if opts.Debounce <= 0 {
		opts.Debounce = ui.DefaultDebounce
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}

	sessions := NewSessions(opts.SessionTTL, func() *ui.Controller {
		return ui.NewController(api, ui.WithDebounce(opts.Debounce))
	})
	if opts.MaxSessions > 0 {
		sessions.max = opts.MaxSessions
	}
	sessions.StartCleanupLoop(ctx, time.Minute)

	s := &Server{Sessions: sessions, Templates: templates}

	r := chi.NewRouter()
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", s.Index)
	r.Get("/fragments/items", s.ItemsFragment)
	r.Get("/filters", s.Filters)
	r.Post("/filters/clear", s.ClearFilters)
	r.Post("/view", s.ToggleView)
	r.Post("/items", s.SubmitItem)
	r.Get("/items/{id}/edit", s.EditItem)
	r.Post("/edit/cancel", s.CancelEdit)
	r.Get("/items/{id}/delete", s.RequestDelete)
	r.Post("/delete/confirm", s.ConfirmDelete)
	r.Post("/delete/cancel", s.CancelDelete)

	return r, nil
}
