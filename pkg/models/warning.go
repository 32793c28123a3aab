package models

import "time"

// Warning representa una advertencia emitida a un miembro.
// WarningNumber es el ordinal entre las advertencias activas al momento de
// emitirla y no se recalcula al revocar otras.
type Warning struct {
	ID            int64     `bson:"id" json:"id"`
	UserID        string    `bson:"userId" json:"userId"`
	ServerID      string    `bson:"serverId" json:"serverId"`
	ModeratorID   string    `bson:"moderatorId" json:"moderatorId"`
	Reason        string    `bson:"reason" json:"reason"`
	WarningNumber int       `bson:"warningNumber" json:"warningNumber"`
	IsActive      bool      `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

// WarningLimit is the number of active warnings shown as the maximum ("N/4").
const WarningLimit = 4

// Moderation actions recorded in the audit log
const (
	ActionWarn          = "warn"
	ActionRemoveWarning = "removewarning"
	ActionKick          = "kick"
	ActionBan           = "ban"
	ActionMute          = "mute"
)

// ModerationLog es una entrada del registro de auditoría. Solo se agregan.
type ModerationLog struct {
	ID          int64          `bson:"id" json:"id"`
	ServerID    string         `bson:"serverId" json:"serverId"`
	ModeratorID string         `bson:"moderatorId" json:"moderatorId"`
	TargetID    *string        `bson:"targetId" json:"targetId"`
	Action      string         `bson:"action" json:"action"`
	Reason      *string        `bson:"reason" json:"reason"`
	Details     map[string]any `bson:"details" json:"details"`
	CreatedAt   time.Time      `bson:"createdAt" json:"createdAt"`
}
