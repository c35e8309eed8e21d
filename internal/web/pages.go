package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/gerenciador-itens/internal/client"
	"github.com/rogerio-castellano/gerenciador-itens/internal/ui"
)

// Server renders the front-end pages for each browser session.
type Server struct {
	Sessions  *Sessions
	Templates *Templates
}

type pageData struct {
	Title  string
	View   ui.ViewMode
	List   ui.ListView
	Stats  ui.StatsView
	Form   ui.FormView
	Filter client.Filter
	Tipos  []string
	Modal  *ui.Modal
	Toasts []ui.Toast
}

func buildPage(ctrl *ui.Controller) pageData {
	toasts := ctrl.DrainToasts()
	s := ctrl.Snapshot()
	return pageData{
		Title:  "Gerenciador de Itens",
		View:   s.View,
		List:   ui.BuildListView(s),
		Stats:  ui.BuildStatsView(s.Stats),
		Form:   ui.BuildFormView(s),
		Filter: s.Filter,
		Tipos:  ui.BuildTipoOptions(s),
		Modal:  s.Modal,
		Toasts: toasts,
	}
}

func backHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// logUnlessExpected ignores errors the controller already reported as toasts.
func logUnlessExpected(msg string, err error) {
	if err == nil || errors.Is(err, ui.ErrStale) || errors.Is(err, ui.ErrMissingFields) {
		return
	}
	slog.Debug(msg, "error", err)
}

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	ctrl := s.Sessions.Controller(w, r)
	logUnlessExpected("loading page", ctrl.Load(r.Context()))
	s.Templates.Render(w, "layout", buildPage(ctrl))
}

// ItemsFragment handles GET /fragments/items. A nome parameter goes through
// the debounced name filter, a tipo parameter reloads at once.
func (s *Server) ItemsFragment(w http.ResponseWriter, r *http.Request) {
	ctrl := s.Sessions.Controller(w, r)
	q := r.URL.Query()

	var err error
	switch {
	case q.Has("nome"):
		err = ctrl.FilterByName(r.Context(), q.Get("nome"))
	case q.Has("tipo"):
		err = ctrl.FilterByType(r.Context(), q.Get("tipo"))
	default:
		err = ctrl.Load(r.Context())
	}
	if errors.Is(err, ui.ErrSuperseded) || errors.Is(err, ui.ErrStale) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	logUnlessExpected("loading fragment", err)
	s.Templates.Render(w, "items_region", buildPage(ctrl))
}

// Filters handles GET /filters, the form fallback without script.
func (s *Server) Filters(w http.ResponseWriter, r *http.Request) {
	ctrl := s.Sessions.Controller(w, r)
	q := r.URL.Query()
	logUnlessExpected("applying filters", ctrl.ApplyFilter(r.Context(), client.Filter{Nome: q.Get("nome"), Tipo: q.Get("tipo")}))
	backHome(w, r)
}

// ClearFilters handles POST /filters/clear.
func (s *Server) ClearFilters(w http.ResponseWriter, r *http.Request) {
	ctrl := s.Sessions.Controller(w, r)
	logUnlessExpected("clearing filters", ctrl.ClearFilters(r.Context()))
	backHome(w, r)
}

// ToggleView handles POST /view.
func (s *Server) ToggleView(w http.ResponseWriter, r *http.Request) {
	ctrl := s.Sessions.Controller(w, r)
	if v, ok := ui.ParseViewMode(r.FormValue("view")); ok {
		ctrl.ToggleView(v)
	}
	backHome(w, r)
}

// SubmitItem handles POST /items.
func (s *Server) SubmitItem(w http.ResponseWriter, r *http.Request) {
	ctrl := s.Sessions.Controller(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	logUnlessExpected("submitting item", ctrl.Submit(r.Context(), parseItemForm(r.PostForm)))
	backHome(w, r)
}

// EditItem handles GET /items/{id}/edit.
func (s *Server) EditItem(w http.ResponseWriter, r *http.Request) {
	ctrl := s.Sessions.Controller(w, r)
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}
	if err := ctrl.Edit(r.Context(), id); err != nil {
		logUnlessExpected("editing item", err)
		backHome(w, r)
		return
	}
	// Brings the populated form into view.
	http.Redirect(w, r, "/#itemForm", http.StatusSeeOther)
}

// CancelEdit handles POST /edit/cancel.
func (s *Server) CancelEdit(w http.ResponseWriter, r *http.Request) {
	s.Sessions.Controller(w, r).CancelEdit()
	backHome(w, r)
}

// RequestDelete handles GET /items/{id}/delete. The item must be among the
// loaded ones so the modal can name it.
func (s *Server) RequestDelete(w http.ResponseWriter, r *http.Request) {
	ctrl := s.Sessions.Controller(w, r)
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}
	for _, it := range ctrl.Snapshot().Items {
		if it.ID == id {
			ctrl.RequestDelete(id, it.Nome)
			break
		}
	}
	backHome(w, r)
}

// ConfirmDelete handles POST /delete/confirm.
func (s *Server) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	ctrl := s.Sessions.Controller(w, r)
	err := ctrl.ConfirmDelete(r.Context())
	if !errors.Is(err, ui.ErrNoPendingDelete) {
		logUnlessExpected("deleting item", err)
	}
	backHome(w, r)
}

// CancelDelete handles POST /delete/cancel.
func (s *Server) CancelDelete(w http.ResponseWriter, r *http.Request) {
	s.Sessions.Controller(w, r).CancelDelete()
	backHome(w, r)
}

// parseItemForm reads the add/edit form. Unparsable numbers become zero.
func parseItemForm(v url.Values) ui.Form {
	quantidade, err := strconv.Atoi(strings.TrimSpace(v.Get("quantidade")))
	if err != nil {
		quantidade = 0
	}
	preco, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(v.Get("preco")), ",", ".", 1), 64)
	if err != nil {
		preco = 0
	}
	return ui.Form{
		Nome:       v.Get("nome"),
		Tipo:       strings.TrimSpace(v.Get("tipo")),
		Quantidade: quantidade,
		Preco:      preco,
		Descricao:  v.Get("descricao"),
	}
}
