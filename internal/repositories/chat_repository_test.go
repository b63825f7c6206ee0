package repositories

import (
	"errors"
	"testing"

	"telegram-admin/internal/models"
)

func TestCreateChatValidatesType(t *testing.T) {
	repo := NewSQLChatRepository(newTestDatabase(t))

	_, err := repo.Create(1, models.ChatInput{
		TelegramID: "tg1",
		Title:      "Dev chat",
		Type:       "broadcast",
	})
	var valErr *models.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError for unknown type, got %v", err)
	}
}

func TestChatRoundTrip(t *testing.T) {
	repo := NewSQLChatRepository(newTestDatabase(t))

	created, err := repo.Create(1, models.ChatInput{
		TelegramID:   "tg1",
		Title:        "Announcements",
		Type:         models.ChatTypeChannel,
		MembersCount: 1200,
		Description:  "Product news",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	chats, err := repo.ListByUser(1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(chats) != 1 {
		t.Fatalf("expected 1 chat, got %d", len(chats))
	}
	got := chats[0]
	if got.ID != created.ID || got.Title != "Announcements" || got.Type != models.ChatTypeChannel {
		t.Errorf("unexpected chat: %+v", got)
	}
	if got.MembersCount != 1200 || got.Description != "Product news" {
		t.Errorf("unexpected chat details: %+v", got)
	}

	other, err := repo.ListByUser(2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected no chats for user 2, got %d", len(other))
	}
}
