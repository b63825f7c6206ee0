package models

import "time"

const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
	StatusFailed    = "failed"
)

func ValidDirection(d string) bool {
	return d == DirectionIncoming || d == DirectionOutgoing
}

func ValidMessageStatus(s string) bool {
	switch s {
	case StatusSent, StatusDelivered, StatusRead, StatusFailed:
		return true
	}
	return false
}

type Message struct {
	ID                int       `json:"id"`
	UserID            int       `json:"userId"`
	ContactID         *int      `json:"contactId"`
	ChatID            *int      `json:"chatId"`
	TelegramMessageID string    `json:"telegramMessageId"`
	SenderTelegramID  string    `json:"senderTelegramId"`
	SenderName        string    `json:"senderName"`
	Text              string    `json:"text"`
	Direction         string    `json:"direction"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
}

type MessageInput struct {
	ContactID         *int   `json:"contactId"`
	ChatID            *int   `json:"chatId"`
	TelegramMessageID string `json:"telegramMessageId"`
	SenderTelegramID  string `json:"senderTelegramId"`
	SenderName        string `json:"senderName"`
	Text              string `json:"text"`
	Direction         string `json:"direction"`
	Status            string `json:"status"`
}

type MessageRepository interface {
	// ListByContact returns the caller's own messages for one contact,
	// oldest first. Another user's contact id yields an empty list.
	ListByContact(userID, contactID int) ([]*Message, error)
	Create(userID int, input MessageInput) (*Message, error)
}
