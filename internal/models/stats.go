package models

import "math"

// Stats aggregates the active items.
type Stats struct {
	TotalItens      int     `json:"total_itens"`
	TotalQuantidade int     `json:"total_quantidade"`
	ValorTotal      float64 `json:"valor_total"`
	TiposDiferentes int     `json:"tipos_diferentes"`
}

// RoundMoney rounds v to cents.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
