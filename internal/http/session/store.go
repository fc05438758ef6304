package session

import (
	"net/http"
	"sync"
	"time"

	"json_script_analyzer/internal/service"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const CookieName = `jsa_session`

type entry struct {
	control  *service.UploadControl
	lastSeen time.Time
}

// Store keeps one UploadControl per browser session, in memory only.
// Sessions idle for longer than ttl are dropped.
type Store struct {
	newControl func() *service.UploadControl
	ttl        time.Duration
	now        func() time.Time
	log        *log.Logger

	mu        sync.Mutex
	sessions  map[string]*entry
	lastSweep time.Time
}

func NewStore(newControl func() *service.UploadControl, ttl time.Duration, log *log.Logger) *Store {
	return &Store{
		newControl: newControl,
		ttl:        ttl,
		now:        time.Now,
		log:        log,
		sessions:   make(map[string]*entry),
	}
}

// Control returns the caller's UploadControl, starting a session and setting
// the cookie when the request has none.
func (s *Store) Control(w http.ResponseWriter, r *http.Request) *service.UploadControl {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	if c, err := r.Cookie(CookieName); err == nil {
		if e, ok := s.sessions[c.Value]; ok {
			e.lastSeen = now
			return e.control
		}
	}

	id := uuid.NewString()
	e := &entry{control: s.newControl(), lastSeen: now}
	s.sessions[id] = e
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.log.WithField(`session`, id).Debug(`session started`)
	return e.control
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) sweep(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < s.ttl/2 {
		return
	}
	s.lastSweep = now
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl && e.control.Status() != service.StatusInFlight {
			delete(s.sessions, id)
			s.log.WithField(`session`, id).Debug(`session expired`)
		}
	}
}
