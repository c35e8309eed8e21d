// Package ui holds the front-end application state and the operations that
// change it. Rendering to markup lives in package web.
package ui

import (
	"github.com/rogerio-castellano/gerenciador-itens/internal/client"
	"github.com/rogerio-castellano/gerenciador-itens/internal/models"
)

type ViewMode string

const (
	ViewGrid  ViewMode = "grid"
	ViewTable ViewMode = "table"
)

// ParseViewMode reports false for anything but grid or table.
func ParseViewMode(s string) (ViewMode, bool) {
	switch ViewMode(s) {
	case ViewGrid, ViewTable:
		return ViewMode(s), true
	}
	return "", false
}

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastWarning ToastKind = "warning"
	ToastInfo    ToastKind = "info"
)

type Toast struct {
	Kind    ToastKind
	Message string
}

// Form mirrors the add/edit form fields.
type Form struct {
	Nome       string
	Tipo       string
	Quantidade int
	Preco      float64
	Descricao  string
}

func formFromItem(it client.Item) Form {
	return Form{
		Nome:       it.Nome,
		Tipo:       it.Tipo,
		Quantidade: it.Quantidade,
		Preco:      it.Preco,
		Descricao:  it.Descricao,
	}
}

// Modal is a pending delete confirmation.
type Modal struct {
	ItemID  int64
	Title   string
	Message string
}

type State struct {
	View      ViewMode
	EditingID int64
	Items     []client.Item
	// Filtered is what gets rendered. Filtering happens server-side so it
	// always equals Items.
	Filtered []client.Item
	Filter   client.Filter
	Form     Form
	Stats    models.Stats
	Loading  bool
	Modal    *Modal
	Toasts   []Toast
}

func (s State) Editing() bool {
	return s.EditingID != 0
}

func (s State) clone() State {
	out := s
	out.Items = append([]client.Item{}, s.Items...)
	out.Filtered = append([]client.Item{}, s.Filtered...)
	out.Toasts = append([]Toast(nil), s.Toasts...)
	if s.Modal != nil {
		m := *s.Modal
		out.Modal = &m
	}
	return out
}
