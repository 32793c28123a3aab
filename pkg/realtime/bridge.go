package realtime

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// TopicPrefix is the MQTT topic prefix for mirrored events.
const TopicPrefix = "nova/events/"

// Transport is the pub/sub connection used by the bridge.
type Transport interface {
	Publish(topic string, payload []byte) error
	Subscribe(topic string, handler func(topic string, payload []byte)) error
}

type bridgeMessage struct {
	Origin string          `json:"origin"`
	Type   EventType       `json:"type"`
	Data   json.RawMessage `json:"data"`
}

// Bridge mirrors hub events between processes sharing a broker. Messages
// carry the origin node id so a process ignores its own echoes.
type Bridge struct {
	hub       *Hub
	transport Transport
	nodeID    string
}

// NewBridge creates a bridge with a random node id.
func NewBridge(hub *Hub, transport Transport) *Bridge {
	return &Bridge{
		hub:       hub,
		transport: transport,
		nodeID:    uuid.New().String(),
	}
}

// NodeID identifies this process on the broker.
func (b *Bridge) NodeID() string { return b.nodeID }

// Start subscribes to remote events and registers the bridge as hub sink.
func (b *Bridge) Start() error {
	if err := b.transport.Subscribe(TopicPrefix+"#", b.handle); err != nil {
		return fmt.Errorf("suscribir a eventos: %w", err)
	}
	b.hub.AddSink(b)
	logger.System(fmt.Sprintf("Puente de eventos activo (nodo %s)", b.nodeID), "Realtime")
	return nil
}

// Forward publishes a local event to the broker.
func (b *Bridge) Forward(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	payload, err := json.Marshal(bridgeMessage{Origin: b.nodeID, Type: ev.Type(), Data: data})
	if err != nil {
		return
	}
	if err := b.transport.Publish(TopicPrefix+string(ev.Type()), payload); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo reenviar %s al broker: %v", ev.Type(), err), "Realtime")
	}
}

func (b *Bridge) handle(topic string, payload []byte) {
	if !strings.HasPrefix(topic, TopicPrefix) {
		return
	}
	var msg bridgeMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		logger.Warn(fmt.Sprintf("Mensaje de puente inválido en %s: %v", topic, err), "Realtime")
		return
	}
	if msg.Origin == b.nodeID {
		return
	}
	ev, err := decodeData(msg.Type, msg.Data)
	if err != nil {
		logger.Warn(fmt.Sprintf("Evento remoto descartado: %v", err), "Realtime")
		return
	}
	b.hub.Deliver(ev)
}
