package repo

// ItemFilter holds the optional substring filters of a list call. Empty
// fields don't filter.
type ItemFilter struct {
	Nome string
	Tipo string
}
