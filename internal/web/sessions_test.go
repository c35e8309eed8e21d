package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/gerenciador-itens/internal/ui"
)

func newTestSessions(ttl time.Duration, now *time.Time) *Sessions {
	s := NewSessions(ttl, func() *ui.Controller { return ui.NewController(nil) })
	s.now = func() time.Time { return *now }
	return s
}

func TestSessions_NewSessionSetsCookie(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSessions(time.Minute, &now)

	w := httptest.NewRecorder()
	ctrl := s.Controller(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if ctrl == nil {
		t.Fatal("expected a controller")
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookies %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	w2 := httptest.NewRecorder()
	if got := s.Controller(w2, req); got != ctrl {
		t.Error("expected the same controller for the same session")
	}
	if len(w2.Result().Cookies()) != 0 {
		t.Error("existing session must not get a new cookie")
	}
}

func TestSessions_UnknownOrInvalidCookieStartsNewSession(t *testing.T) {
	now := time.Now()
	s := newTestSessions(time.Minute, &now)

	for _, value := range []string{"not-a-uuid", "6f1c1c9e-7d1a-4a58-9f53-2a0c4c7f0d11"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: value})
		w := httptest.NewRecorder()
		s.Controller(w, req)
		if len(w.Result().Cookies()) != 1 {
			t.Errorf("%s: expected a new session cookie", value)
		}
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 sessions, got %d", s.Len())
	}
}

func TestSessions_EvictIdle(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSessions(10*time.Minute, &now)

	w := httptest.NewRecorder()
	s.Controller(w, httptest.NewRequest(http.MethodGet, "/", nil))
	active := w.Result().Cookies()[0]
	s.Controller(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	now = now.Add(8 * time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(active)
	s.Controller(httptest.NewRecorder(), req)

	now = now.Add(5 * time.Minute)
	if n := s.Evict(); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if s.Len() != 1 {
		t.Errorf("expected the active session to survive, got %d sessions", s.Len())
	}
}

func TestParseItemForm(t *testing.T) {
	form := parseItemForm(map[string][]string{
		"nome":       {" Prego "},
		"tipo":       {"Ferragem "},
		"quantidade": {"abc"},
		"preco":      {"1,25"},
		"descricao":  {"2cm"},
	})
	want := ui.Form{Nome: " Prego ", Tipo: "Ferragem", Quantidade: 0, Preco: 1.25, Descricao: "2cm"}
	if form != want {
		t.Errorf("got %+v, want %+v", form, want)
	}
}

func TestSessions_CapDropsLeastRecentlySeen(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSessions(time.Hour, &now)
	s.max = 2

	start := func() *http.Cookie {
		w := httptest.NewRecorder()
		s.Controller(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w.Result().Cookies()[0]
	}
	revisit := func(c *http.Cookie) bool {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(c)
		w := httptest.NewRecorder()
		s.Controller(w, req)
		return len(w.Result().Cookies()) == 0
	}

	first := start()
	now = now.Add(time.Second)
	second := start()
	now = now.Add(time.Second)
	if !revisit(first) {
		t.Fatal("expected the first session to still exist")
	}
	now = now.Add(time.Second)
	start()

	if s.Len() != 2 {
		t.Fatalf("expected the cap to hold 2 sessions, got %d", s.Len())
	}
	if !revisit(first) {
		t.Error("expected the recently seen session to survive")
	}
	if revisit(second) {
		t.Error("expected the least recently seen session to be dropped")
	}
}

func TestSessions_ManyCookielessRequestsStayBounded(t *testing.T) {
	now := time.Now()
	s := newTestSessions(time.Hour, &now)
	s.max = 5

	for i := 0; i < 50; i++ {
		s.Controller(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}
	if s.Len() != 5 {
		t.Errorf("expected 5 sessions, got %d", s.Len())
	}
}
