package handlers

import (
	"log/slog"
	"net/http"
)

// StatsHandler serves GET stats: the aggregate over active items. A cached
// value is used when present; cache failures fall through to the database.
func StatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Read before computing so a write that invalidates meanwhile keeps the
	// result out of the cache.
	gen, genErr := statsCache.StatsGeneration(ctx)
	if genErr != nil {
		slog.Warn("stats cache generation read failed", "error", genErr)
	}

	cached, ok, err := statsCache.GetStats(ctx)
	if err != nil {
		slog.Warn("stats cache read failed", "error", err)
	}
	if ok {
		writeOK(w, http.StatusOK, cached)
		return
	}

	s, err := itemRepo.Stats(ctx)
	if err != nil {
		slog.Error("computing stats", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	if genErr == nil {
		if err := statsCache.SetStats(ctx, gen, s); err != nil {
			slog.Warn("stats cache write failed", "error", err)
		}
	}
	writeOK(w, http.StatusOK, s)
}
