// Package models contains the records persisted by the dashboard and shared by
// the bot, the HTTP API and the realtime channel.
package models

import "time"

// User es una cuenta de Discord que inició sesión en el panel
type User struct {
	ID            string    `bson:"id" json:"id"`
	Username      string    `bson:"username" json:"username"`
	Discriminator *string   `bson:"discriminator" json:"discriminator"`
	Avatar        *string   `bson:"avatar" json:"avatar"`
	AccessToken   *string   `bson:"accessToken" json:"accessToken"`
	RefreshToken  *string   `bson:"refreshToken" json:"refreshToken"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

// Public returns a copy without the Discord credentials.
func (u User) Public() User {
	u.AccessToken = nil
	u.RefreshToken = nil
	return u
}

// Server es un guild de Discord gestionado desde el panel
type Server struct {
	ID        string         `bson:"id" json:"id"`
	Name      string         `bson:"name" json:"name"`
	Icon      *string        `bson:"icon" json:"icon"`
	OwnerID   string         `bson:"ownerId" json:"ownerId"`
	BotJoined bool           `bson:"botJoined" json:"botJoined"`
	Settings  map[string]any `bson:"settings" json:"settings"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
