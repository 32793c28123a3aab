package models

import "time"

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#5865F2"

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	TicketOpen     TicketStatus = "open"
	TicketAssigned TicketStatus = "assigned"
	TicketWaiting  TicketStatus = "waiting"
	TicketClosed   TicketStatus = "closed"
)

// Valid reports whether s is one of the known statuses.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketAssigned, TicketWaiting, TicketClosed:
		return true
	}
	return false
}

// TicketPriority orders tickets for staff.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityNormal TicketPriority = "normal"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// TicketCategory agrupa tickets dentro de un servidor
type TicketCategory struct {
	ID          int64     `bson:"id" json:"id"`
	ServerID    string    `bson:"serverId" json:"serverId"`
	Name        string    `bson:"name" json:"name"`
	Description *string   `bson:"description" json:"description"`
	Emoji       *string   `bson:"emoji" json:"emoji"`
	Color       string    `bson:"color" json:"color"`
	IsActive    bool      `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// Ticket es una solicitud de soporte abierta por un miembro
type Ticket struct {
	ID         int64          `bson:"id" json:"id"`
	ServerID   string         `bson:"serverId" json:"serverId"`
	UserID     string         `bson:"userId" json:"userId"`
	CategoryID int64          `bson:"categoryId" json:"categoryId"`
	ChannelID  *string        `bson:"channelId" json:"channelId"`
	Subject    string         `bson:"subject" json:"subject"`
	Status     TicketStatus   `bson:"status" json:"status"`
	AssignedTo *string        `bson:"assignedTo" json:"assignedTo"`
	Priority   TicketPriority `bson:"priority" json:"priority"`
	CreatedAt  time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// TicketMessage es un mensaje dentro de la conversación de un ticket
type TicketMessage struct {
	ID        int64     `bson:"id" json:"id"`
	TicketID  int64     `bson:"ticketId" json:"ticketId"`
	UserID    string    `bson:"userId" json:"userId"`
	Content   string    `bson:"content" json:"content"`
	IsStaff   bool      `bson:"isStaff" json:"isStaff"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
