// Package mqtt connects processes through an MQTT broker. It backs the
// realtime bridge so several dashboard nodes share the same event stream.
package mqtt

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/google/uuid"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Handler receives messages for a subscribed pattern.
type Handler func(topic string, payload []byte)

type subscription struct {
	pattern string
	handler Handler
}

// MqttCommunicator handles MQTT communication
type MqttCommunicator struct {
	client   mqtt.Client
	clientID string

	mu   sync.RWMutex
	subs []subscription
}

// NewMqttCommunicator creates a communicator and starts connecting. The paho
// client keeps retrying in the background, so a broker that is down at boot
// is not fatal.
func NewMqttCommunicator(host, port, username, password, clientID string) *MqttCommunicator {
	mc := &MqttCommunicator{clientID: clientID}

	uniqueID := fmt.Sprintf("%s_%s", clientID, uuid.New().String())

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port)).
		SetClientID(uniqueID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(mc.onConnect).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("Conexión MQTT perdida: %v", err), "MQTT")
		})

	mc.client = mqtt.NewClient(opts)

	token := mc.client.Connect()
	if token.WaitTimeout(10*time.Second) && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error de conexión MQTT: %v", token.Error()), "MQTT")
	}

	return mc
}

// onConnect restores subscriptions after every (re)connection.
func (mc *MqttCommunicator) onConnect(c mqtt.Client) {
	logger.Success(fmt.Sprintf("Conectado al broker MQTT como %s", mc.clientID), "MQTT")

	mc.mu.RLock()
	patterns := make([]string, 0, len(mc.subs))
	for _, s := range mc.subs {
		patterns = append(patterns, s.pattern)
	}
	mc.mu.RUnlock()

	for _, p := range patterns {
		if token := c.Subscribe(p, 0, mc.dispatch); token.Wait() && token.Error() != nil {
			logger.Error(fmt.Sprintf("Error resuscribiendo a %s: %v", p, token.Error()), "MQTT")
		}
	}
}

// Destroy closes the MQTT connection
func (mc *MqttCommunicator) Destroy() {
	if mc.client != nil && mc.client.IsConnected() {
		mc.client.Disconnect(250)
		logger.System("Conexión MQTT cerrada exitosamente.", "MQTT")
	} else {
		logger.Warn("El cliente MQTT no estaba conectado, no se necesita cerrar.", "MQTT")
	}
}

// IsConnected returns true if connected to the broker
func (mc *MqttCommunicator) IsConnected() bool {
	return mc.client != nil && mc.client.IsConnected()
}

// Publish sends a raw payload to a topic
func (mc *MqttCommunicator) Publish(topic string, payload []byte) error {
	if !mc.IsConnected() {
		return fmt.Errorf("broker MQTT no conectado")
	}
	token := mc.client.Publish(topic, 0, false, payload)
	token.Wait()
	return token.Error()
}

// Subscribe registers handler for pattern. Wildcards follow MQTT rules.
func (mc *MqttCommunicator) Subscribe(pattern string, handler func(topic string, payload []byte)) error {
	mc.mu.Lock()
	mc.subs = append(mc.subs, subscription{pattern: pattern, handler: handler})
	mc.mu.Unlock()

	if !mc.IsConnected() {
		// onConnect picks it up
		return nil
	}
	token := mc.client.Subscribe(pattern, 0, mc.dispatch)
	token.Wait()
	return token.Error()
}

// Unsubscribe drops every handler registered for pattern
func (mc *MqttCommunicator) Unsubscribe(pattern string) error {
	mc.mu.Lock()
	kept := mc.subs[:0]
	for _, s := range mc.subs {
		if s.pattern != pattern {
			kept = append(kept, s)
		}
	}
	mc.subs = kept
	mc.mu.Unlock()

	if !mc.IsConnected() {
		return nil
	}
	token := mc.client.Unsubscribe(pattern)
	token.Wait()
	return token.Error()
}

func (mc *MqttCommunicator) dispatch(_ mqtt.Client, msg mqtt.Message) {
	mc.route(msg.Topic(), msg.Payload())
}

// route hands a message to every handler whose pattern matches. Overlapping
// patterns share one broker subscription callback, so matching happens here.
func (mc *MqttCommunicator) route(topic string, payload []byte) {
	mc.mu.RLock()
	var handlers []Handler
	for _, s := range mc.subs {
		if topicMatch(s.pattern, topic) {
			handlers = append(handlers, s.handler)
		}
	}
	mc.mu.RUnlock()

	for _, h := range handlers {
		h(topic, payload)
	}
}

// topicMatch checks if a received topic matches a pattern (with wildcards)
// '+' matches exactly one topic level
// '#' matches zero or more topic levels and must be the last character
func topicMatch(pattern, topic string) bool {
	patternParts := strings.Split(pattern, "/")
	topicParts := strings.Split(topic, "/")

	for i, part := range patternParts {
		if part == "#" {
			return true
		}
		if i >= len(topicParts) {
			return false
		}
		if part != "+" && part != topicParts[i] {
			return false
		}
	}
	return len(patternParts) == len(topicParts)
}
