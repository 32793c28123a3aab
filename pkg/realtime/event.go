// Package realtime fans out state changes to connected dashboard viewers and,
// optionally, to other processes through an MQTT bridge.
package realtime

import (
	"fmt"

	"github.com/PancyStudios/DiscordNova/pkg/models"
	"github.com/goccy/go-json"
)

// EventType is the wire name of an event.
type EventType string

const (
	TypeWarningAdded    EventType = "warning_added"
	TypeWarningRemoved  EventType = "warning_removed"
	TypeTicketCreated   EventType = "ticket_created"
	TypeTicketClaimed   EventType = "ticket_claimed"
	TypeTicketUpdated   EventType = "ticket_updated"
	TypeCategoryAdded   EventType = "category_added"
	TypeCategoryUpdated EventType = "category_updated"
	TypeCategoryDeleted EventType = "category_deleted"
)

// Event is implemented only by the payload types in this file.
type Event interface {
	Type() EventType
	event()
}

type WarningAdded struct {
	Warning  models.Warning `json:"warning"`
	ServerID string         `json:"serverId"`
}

type WarningRemoved struct {
	Warning models.Warning `json:"warning"`
}

type TicketCreated struct {
	Ticket   models.Ticket `json:"ticket"`
	ServerID string        `json:"serverId"`
}

type TicketClaimed struct {
	Ticket models.Ticket `json:"ticket"`
}

type TicketUpdated struct {
	Ticket models.Ticket `json:"ticket"`
}

type CategoryAdded struct {
	Category models.TicketCategory `json:"category"`
	ServerID string                `json:"serverId"`
}

type CategoryUpdated struct {
	Category models.TicketCategory `json:"category"`
}

type CategoryDeleted struct {
	CategoryID int64  `json:"categoryId"`
	ServerID   string `json:"serverId"`
}

func (WarningAdded) Type() EventType    { return TypeWarningAdded }
func (WarningRemoved) Type() EventType  { return TypeWarningRemoved }
func (TicketCreated) Type() EventType   { return TypeTicketCreated }
func (TicketClaimed) Type() EventType   { return TypeTicketClaimed }
func (TicketUpdated) Type() EventType   { return TypeTicketUpdated }
func (CategoryAdded) Type() EventType   { return TypeCategoryAdded }
func (CategoryUpdated) Type() EventType { return TypeCategoryUpdated }
func (CategoryDeleted) Type() EventType { return TypeCategoryDeleted }

func (WarningAdded) event()    {}
func (WarningRemoved) event()  {}
func (TicketCreated) event()   {}
func (TicketClaimed) event()   {}
func (TicketUpdated) event()   {}
func (CategoryAdded) event()   {}
func (CategoryUpdated) event() {}
func (CategoryDeleted) event() {}

// ServerOf returns the server an event belongs to, or "" when the payload
// does not say.
func ServerOf(ev Event) string {
	switch e := ev.(type) {
	case WarningAdded:
		return e.ServerID
	case WarningRemoved:
		return e.Warning.ServerID
	case TicketCreated:
		return e.ServerID
	case TicketClaimed:
		return e.Ticket.ServerID
	case TicketUpdated:
		return e.Ticket.ServerID
	case CategoryAdded:
		return e.ServerID
	case CategoryUpdated:
		return e.Category.ServerID
	case CategoryDeleted:
		return e.ServerID
	}
	return ""
}

// envelope is the wire shape {"type": ..., "data": ...}.
type envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Encode renders ev as a wire envelope.
func Encode(ev Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: ev.Type(), Data: data})
}

// ErrUnknownEvent is returned by Decode for unrecognised event types.
type ErrUnknownEvent struct {
	Type EventType
}

func (e *ErrUnknownEvent) Error() string {
	return fmt.Sprintf("tipo de evento desconocido: %q", string(e.Type))
}

// Decode parses a wire envelope into its concrete event.
func Decode(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	return decodeData(env.Type, env.Data)
}

func decodeData(t EventType, data []byte) (Event, error) {
	switch t {
	case TypeWarningAdded:
		return decodeAs[WarningAdded](data)
	case TypeWarningRemoved:
		return decodeAs[WarningRemoved](data)
	case TypeTicketCreated:
		return decodeAs[TicketCreated](data)
	case TypeTicketClaimed:
		return decodeAs[TicketClaimed](data)
	case TypeTicketUpdated:
		return decodeAs[TicketUpdated](data)
	case TypeCategoryAdded:
		return decodeAs[CategoryAdded](data)
	case TypeCategoryUpdated:
		return decodeAs[CategoryUpdated](data)
	case TypeCategoryDeleted:
		return decodeAs[CategoryDeleted](data)
	}
	return nil, &ErrUnknownEvent{Type: t}
}

func decodeAs[E Event](data []byte) (Event, error) {
	var ev E
	if len(data) == 0 {
		return nil, fmt.Errorf("evento sin datos")
	}
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return ev, nil
}
