package handlers

import (
	"github.com/rogerio-castellano/gerenciador-itens/internal/redissvc"
	repo "github.com/rogerio-castellano/gerenciador-itens/internal/repo"
	"github.com/rogerio-castellano/gerenciador-itens/internal/telemetry"
)

var (
	itemRepo   repo.ItemRepository
	statsCache redissvc.StatsCache = redissvc.NoopStatsCache{}
	operations *telemetry.Operations
)

var validate = newValidator()

func SetItemRepo(r repo.ItemRepository) {
	itemRepo = r
}

// SetStatsCache replaces the stats cache. A nil cache disables caching.
func SetStatsCache(c redissvc.StatsCache) {
	if c == nil {
		c = redissvc.NoopStatsCache{}
	}
	statsCache = c
}

func SetOperations(o *telemetry.Operations) {
	operations = o
}
