package session

import (
	"sync"
	"time"

	"github.com/alimikegami/point-of-sales/storefront-service/internal/cart"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/infrastructure/metrics"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/service"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Session is the state owned by one browser session: its cart and its order
// lifecycle store.
type Session struct {
	ID     string
	Cart   *cart.Cart
	Orders service.OrderService

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastSeen
}

// OrderServiceFactory builds the order service backing one session.
type OrderServiceFactory func(sessionID string) service.OrderService

type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	factory  OrderServiceFactory
	now      func() time.Time
}

func CreateRegistry(ttl time.Duration, factory OrderServiceFactory) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
	}
}

// NewSession starts a session under a fresh id.
func (r *Registry) NewSession() *Session {
	return r.Get(uuid.NewString())
}

// Get returns the live session for id, reviving it with empty state when it has
// never been seen or was already swept.
func (r *Registry) Get(id string) *Session {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		s.touch(now)
		return s
	}

	s := &Session{
		ID:       id,
		Cart:     cart.New(),
		Orders:   r.factory(id),
		lastSeen: now,
	}
	r.sessions[id] = s
	metrics.ActiveSessions.Set(float64(len(r.sessions)))

	log.Info().Str("component", "Registry").Str("session_id", id).Msg("session started")

	return s
}

// Sweep ends every session idle for longer than the ttl and returns how many
// were ended.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	for _, s := range expired {
		s.Orders.Close()
		log.Info().Str("component", "Registry").Str("session_id", s.ID).Msg("session expired")
	}

	return len(expired)
}

// Close ends every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	metrics.ActiveSessions.Set(0)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Orders.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}
