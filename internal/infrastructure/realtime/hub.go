// Package realtime mantiene el registro de suscriptores conectados y reparte los
// eventos del ciclo de vida. La entrega es best-effort: sin persistencia ni replay.
package realtime

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/jhoicas/portal-imagenes/internal/application/requests"
)

// DefaultBufferSize eventos en cola por suscriptor antes de descartar.
const DefaultBufferSize = 32

// Message forma en el cable: {"type": "...", "data": {...}}.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

var _ requests.Notifier = (*Hub)(nil)

// Hub registro de suscriptores indexado por conexión. Varias conexiones del mismo
// usuario son independientes.
type Hub struct {
	mu     sync.Mutex
	subs   map[uint64]*Subscription
	nextID uint64
	buffer int
	log    zerolog.Logger
}

// NewHub construye el registro. bufferSize <= 0 usa DefaultBufferSize.
func NewHub(bufferSize int, log zerolog.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Hub{
		subs:   make(map[uint64]*Subscription),
		buffer: bufferSize,
		log:    log.With().Str("component", "realtime-hub").Logger(),
	}
}

// Subscription una conexión registrada.
type Subscription struct {
	id      uint64
	userID  string
	role    string
	ch      chan Message
	hub     *Hub
	once    sync.Once
	dropped atomic.Uint64
}

// Events canal de eventos; se cierra con Close o al cerrar el hub.
func (s *Subscription) Events() <-chan Message { return s.ch }

// Dropped eventos descartados por cola llena.
func (s *Subscription) Dropped() uint64 { return s.dropped.Load() }

// Close da de baja la conexión. Es idempotente.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	s.closeLocked()
}

func (s *Subscription) closeLocked() {
	s.once.Do(func() {
		delete(s.hub.subs, s.id)
		close(s.ch)
	})
}

// Register da de alta una conexión con su usuario y rol.
func (h *Hub) Register(userID, role string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	s := &Subscription{
		id:     h.nextID,
		userID: userID,
		role:   role,
		ch:     make(chan Message, h.buffer),
		hub:    h,
	}
	h.subs[s.id] = s
	h.log.Debug().Str("user_id", userID).Str("role", role).Int("subscribers", len(h.subs)).Msg("suscriptor registrado")
	return s
}

// Publish entrega el evento a cada suscriptor cuyo rol o usuario coincide con la audiencia.
// Nunca bloquea: si la cola de un suscriptor está llena el evento se descarta para él.
func (h *Hub) Publish(_ context.Context, ev requests.Event) {
	msg := Message{Type: ev.Type, Data: ev.Data}

	h.mu.Lock()
	defer h.mu.Unlock()
	delivered := 0
	for _, s := range h.subs {
		if !matches(s, ev.Audience) {
			continue
		}
		select {
		case s.ch <- msg:
			delivered++
		default:
			s.dropped.Add(1)
			h.log.Warn().Str("user_id", s.userID).Str("type", ev.Type).Msg("cola del suscriptor llena, evento descartado")
		}
	}
	h.log.Debug().Str("type", ev.Type).Int("delivered", delivered).Msg("evento publicado")
}

// Count suscriptores activos.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close da de baja a todos los suscriptores (apagado del servidor).
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs {
		s.closeLocked()
	}
}

func matches(s *Subscription, a requests.Audience) bool {
	if a.Role != "" && s.role == a.Role {
		return true
	}
	return a.UserID != "" && s.userID == a.UserID
}
