package models

import "time"

type Contact struct {
	ID            int        `json:"id"`
	UserID        int        `json:"userId"`
	TelegramID    string     `json:"telegramId"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Phone         string     `json:"phone"`
	Username      string     `json:"username"`
	IsBot         bool       `json:"isBot"`
	IsActive      bool       `json:"isActive"`
	LastMessageAt *time.Time `json:"lastMessageAt"`
	AddedAt       time.Time  `json:"addedAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ContactInput is the caller-supplied part of a contact. The owning
// user id always comes from the session, never from the payload.
type ContactInput struct {
	TelegramID    string     `json:"telegramId"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Phone         string     `json:"phone"`
	Username      string     `json:"username"`
	IsBot         bool       `json:"isBot"`
	IsActive      *bool      `json:"isActive"`
	LastMessageAt *time.Time `json:"lastMessageAt"`
}

type ContactRepository interface {
	ListByUser(userID int) ([]*Contact, error)
	Create(userID int, input ContactInput) (*Contact, error)
}
