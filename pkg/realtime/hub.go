package realtime

import (
	"fmt"
	"sync"

	"github.com/PancyStudios/DiscordNova/pkg/logger"
)

// viewerBuffer is how many encoded events may wait for one viewer before it
// is considered too slow and dropped.
const viewerBuffer = 32

// Viewer is one connected dashboard client. Send may block; the hub calls it
// from the viewer's own goroutine.
type Viewer interface {
	ID() string
	Send(msg []byte) error
	Close() error
}

// Sink receives every locally published event, e.g. the MQTT bridge.
type Sink interface {
	Forward(ev Event)
}

// peer is a registered viewer with its outbound queue.
type peer struct {
	viewer Viewer
	send   chan []byte
}

// Hub is the registry of connected viewers. One Hub is created per process at
// startup, handed to every component that publishes, and closed on shutdown.
// Publishing never waits on a viewer: each one has a queue drained by its own
// goroutine.
type Hub struct {
	mu     sync.RWMutex
	peers  map[string]*peer
	sinks  []Sink
	closed bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{peers: make(map[string]*peer)}
}

// AddSink registers a sink for published events.
func (h *Hub) AddSink(s Sink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sinks = append(h.sinks, s)
}

// Register adds a viewer. Registering after Close closes the viewer.
func (h *Hub) Register(v Viewer) {
	p := &peer{viewer: v, send: make(chan []byte, viewerBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = v.Close()
		return
	}
	old, replaced := h.peers[v.ID()]
	if replaced {
		close(old.send)
	}
	h.peers[v.ID()] = p
	total := len(h.peers)
	h.mu.Unlock()

	if replaced {
		_ = old.viewer.Close()
	}

	go h.pump(p)
	logger.Debug(fmt.Sprintf("Visor %s conectado (%d activos)", v.ID(), total), "Realtime")
}

// pump writes queued messages until the queue is closed or a send fails.
func (h *Hub) pump(p *peer) {
	for msg := range p.send {
		if err := p.viewer.Send(msg); err != nil {
			logger.Warn(fmt.Sprintf("Error enviando a visor %s: %v", p.viewer.ID(), err), "Realtime")
			h.drop(p)
			return
		}
	}
}

// Unregister removes a viewer; unknown ids are ignored.
func (h *Hub) Unregister(id string) {
	h.mu.RLock()
	p, ok := h.peers[id]
	h.mu.RUnlock()
	if ok {
		h.drop(p)
	}
}

// drop removes p if it is still the registered peer for its id and closes it.
func (h *Hub) drop(p *peer) {
	id := p.viewer.ID()

	h.mu.Lock()
	current, ok := h.peers[id]
	if !ok || current != p {
		h.mu.Unlock()
		return
	}
	delete(h.peers, id)
	close(p.send)
	h.mu.Unlock()

	_ = p.viewer.Close()
	logger.Debug(fmt.Sprintf("Visor %s desconectado", id), "Realtime")
}

// Count returns the number of connected viewers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Publish delivers ev to local viewers and forwards it to every sink.
func (h *Hub) Publish(ev Event) {
	h.Deliver(ev)

	h.mu.RLock()
	sinks := append([]Sink(nil), h.sinks...)
	h.mu.RUnlock()
	for _, s := range sinks {
		s.Forward(ev)
	}
}

// Deliver queues ev for local viewers only. A viewer whose queue is full is
// dropped.
func (h *Hub) Deliver(ev Event) {
	msg, err := Encode(ev)
	if err != nil {
		logger.Error(fmt.Sprintf("No se pudo codificar el evento %s: %v", ev.Type(), err), "Realtime")
		return
	}

	var slow []*peer
	h.mu.RLock()
	for _, p := range h.peers {
		select {
		case p.send <- msg:
		default:
			slow = append(slow, p)
		}
	}
	h.mu.RUnlock()

	for _, p := range slow {
		logger.Warn(fmt.Sprintf("Visor %s demasiado lento, desconectando", p.viewer.ID()), "Realtime")
		h.drop(p)
	}
}

// Close disconnects every viewer. The hub accepts no viewers afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	peers := h.peers
	h.peers = make(map[string]*peer)
	h.closed = true
	for _, p := range peers {
		close(p.send)
	}
	h.mu.Unlock()

	for _, p := range peers {
		_ = p.viewer.Close()
	}
}
