package models

import "time"

type ChatRole string

const (
	RoleUser ChatRole = "user"
	RoleBot  ChatRole = "bot"
)

type ReplySource string

const (
	ReplyRemote   ReplySource = "remote"
	ReplyFallback ReplySource = "fallback"
	ReplyWelcome  ReplySource = "welcome"
)

type ChatSession struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	Locale    string     `gorm:"size:8" json:"locale"`
	CreatedAt time.Time  `json:"created_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

type ChatMessage struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	SessionID string      `gorm:"size:36;index;not null" json:"session_id"`
	Role      ChatRole    `gorm:"size:8;not null" json:"role"`
	Text      string      `gorm:"type:text" json:"text"`
	Source    ReplySource `gorm:"size:16" json:"source,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
