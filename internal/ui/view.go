package ui

import (
	"fmt"
	"sort"

	"github.com/rogerio-castellano/gerenciador-itens/internal/models"
)

// Card is one item in grid mode.
type Card struct {
	ID         int64
	Nome       string
	Tipo       string
	Quantidade int
	Preco      string
	Descricao  string
}

// Row is one item in table mode.
type Row struct {
	ID         int64
	Nome       string
	Tipo       string
	Quantidade int
	Preco      string
	Total      string
}

// ListView is the rendered list. Only the slice matching View is filled.
type ListView struct {
	View  ViewMode
	Empty bool
	Cards []Card
	Rows  []Row
}

type StatsView struct {
	TotalItens      int
	TotalQuantidade int
	ValorTotal      string
}

type FormView struct {
	Form
	Editing bool
	Title   string
	Submit  string
}

func FormatMoney(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}

// BuildListView maps the filtered items to cards or rows.
func BuildListView(s State) ListView {
	lv := ListView{View: s.View, Empty: len(s.Filtered) == 0}
	if lv.Empty {
		return lv
	}

	if s.View == ViewTable {
		lv.Rows = make([]Row, 0, len(s.Filtered))
		for _, it := range s.Filtered {
			lv.Rows = append(lv.Rows, Row{
				ID:         it.ID,
				Nome:       it.Nome,
				Tipo:       it.Tipo,
				Quantidade: it.Quantidade,
				Preco:      FormatMoney(it.Preco),
				Total:      FormatMoney(it.Preco * float64(it.Quantidade)),
			})
		}
		return lv
	}

	lv.View = ViewGrid
	lv.Cards = make([]Card, 0, len(s.Filtered))
	for _, it := range s.Filtered {
		lv.Cards = append(lv.Cards, Card{
			ID:         it.ID,
			Nome:       it.Nome,
			Tipo:       it.Tipo,
			Quantidade: it.Quantidade,
			Preco:      FormatMoney(it.Preco),
			Descricao:  it.Descricao,
		})
	}
	return lv
}

func BuildStatsView(st models.Stats) StatsView {
	return StatsView{
		TotalItens:      st.TotalItens,
		TotalQuantidade: st.TotalQuantidade,
		ValorTotal:      FormatMoney(st.ValorTotal),
	}
}

func BuildFormView(s State) FormView {
	if s.Editing() {
		return FormView{Form: s.Form, Editing: true, Title: "Editar Item", Submit: "Atualizar Item"}
	}
	return FormView{Form: s.Form, Title: "Adicionar Novo Item", Submit: "Salvar Item"}
}

// BuildTipoOptions lists the distinct tipos of the loaded items plus the
// active tipo filter, sorted.
func BuildTipoOptions(s State) []string {
	seen := map[string]bool{}
	var tipos []string
	add := func(t string) {
		if t != "" && !seen[t] {
			seen[t] = true
			tipos = append(tipos, t)
		}
	}
	for _, it := range s.Items {
		add(it.Tipo)
	}
	add(s.Filter.Tipo)
	sort.Strings(tipos)
	return tipos
}
