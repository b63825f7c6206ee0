package models

import "time"

const (
	ChatTypePrivate    = "private"
	ChatTypeGroup      = "group"
	ChatTypeSupergroup = "supergroup"
	ChatTypeChannel    = "channel"
)

// ValidChatType reports whether t is one of the closed chat type enum.
func ValidChatType(t string) bool {
	switch t {
	case ChatTypePrivate, ChatTypeGroup, ChatTypeSupergroup, ChatTypeChannel:
		return true
	}
	return false
}

type Chat struct {
	ID           int        `json:"id"`
	UserID       int        `json:"userId"`
	TelegramID   string     `json:"telegramId"`
	Title        string     `json:"title"`
	Type         string     `json:"type"`
	MembersCount int        `json:"membersCount"`
	Description  string     `json:"description"`
	IsParsed     bool       `json:"isParsed"`
	LastParsedAt *time.Time `json:"lastParsedAt"`
	AddedAt      time.Time  `json:"addedAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type ChatInput struct {
	TelegramID   string `json:"telegramId"`
	Title        string `json:"title"`
	Type         string `json:"type"`
	MembersCount int    `json:"membersCount"`
	Description  string `json:"description"`
	IsParsed     bool   `json:"isParsed"`
}

type ChatRepository interface {
	ListByUser(userID int) ([]*Chat, error)
	Create(userID int, input ChatInput) (*Chat, error)
}
