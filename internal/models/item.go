package models

import "time"

// Lifecycle is the existence state of an item. Deleted items stay in the
// table but are never returned by any read.
type Lifecycle int

const (
	LifecycleActive Lifecycle = iota
	LifecycleDeleted
)

// Active reports whether the item is visible to reads.
func (l Lifecycle) Active() bool {
	return l == LifecycleActive
}

func (l Lifecycle) String() string {
	if l == LifecycleDeleted {
		return "deleted"
	}
	return "active"
}

// LifecycleFromFlag maps the persisted ativo column to a Lifecycle.
func LifecycleFromFlag(ativo bool) Lifecycle {
	if ativo {
		return LifecycleActive
	}
	return LifecycleDeleted
}

// Item represents an item entity in the inventory.
type Item struct {
	ID         int64
	Nome       string
	Tipo       string
	Quantidade int
	Preco      float64
	Descricao  string
	Lifecycle  Lifecycle
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
