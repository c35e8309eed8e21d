package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/gerenciador-itens/internal/ui"
)

const (
	SessionCookie = "gerenciador_sessao"

	DefaultMaxSessions = 10000
)

type session struct {
	ctrl     *ui.Controller
	lastSeen time.Time
}

// Sessions maps browser sessions to their own ui.Controller.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	max      int
	newCtrl  func() *ui.Controller
	now      func() time.Time
}

func NewSessions(ttl time.Duration, newCtrl func() *ui.Controller) *Sessions {
	return &Sessions{
		sessions: make(map[string]*session),
		ttl:      ttl,
		max:      DefaultMaxSessions,
		newCtrl:  newCtrl,
		now:      time.Now,
	}
}

// Controller returns the controller of the request's session, starting a
// new session and setting its cookie when there is none.
func (s *Sessions) Controller(w http.ResponseWriter, r *http.Request) *ui.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			if sess, ok := s.sessions[c.Value]; ok {
				sess.lastSeen = now
				return sess.ctrl
			}
		}
	}

	if len(s.sessions) >= s.max {
		s.evictOldest()
	}

	id := uuid.NewString()
	sess := &session{ctrl: s.newCtrl(), lastSeen: now}
	s.sessions[id] = sess
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess.ctrl
}

// Evict drops sessions idle for longer than the TTL and returns how many.
func (s *Sessions) Evict() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	n := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// evictOldest drops the least recently seen session. s.mu must be held.
func (s *Sessions) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.sessions {
		if oldestID == "" || sess.lastSeen.Before(oldest) {
			oldestID, oldest = id, sess.lastSeen
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
		slog.Debug("session limit reached, dropped the oldest", "limit", s.max)
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartCleanupLoop evicts idle sessions every interval until ctx is done.
func (s *Sessions) StartCleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Evict(); n > 0 {
					slog.Debug("evicted idle sessions", "count", n)
				}
			}
		}
	}()
}
