package repositories

import (
	"errors"
	"testing"

	"telegram-admin/internal/models"
)

func intPtr(i int) *int { return &i }

func TestMessagesOrderedOldestFirst(t *testing.T) {
	repo := NewSQLMessageRepository(newTestDatabase(t))

	first, err := repo.Create(1, models.MessageInput{
		ContactID: intPtr(5),
		Text:      "hello",
		Direction: models.DirectionIncoming,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := repo.Create(1, models.MessageInput{
		ContactID: intPtr(5),
		Text:      "hi",
		Direction: models.DirectionOutgoing,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	messages, err := repo.ListByContact(1, 5)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].ID != first.ID || messages[1].ID != second.ID {
		t.Errorf("expected creation order, got %d then %d", messages[0].ID, messages[1].ID)
	}
	if messages[1].Text != "hi" || messages[1].Direction != models.DirectionOutgoing {
		t.Errorf("unexpected last message: %+v", messages[1])
	}
}

func TestMessagesFilterByOwnerAndContact(t *testing.T) {
	repo := NewSQLMessageRepository(newTestDatabase(t))

	if _, err := repo.Create(1, models.MessageInput{ContactID: intPtr(5), Text: "mine", Direction: models.DirectionOutgoing}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := repo.Create(2, models.MessageInput{ContactID: intPtr(5), Text: "theirs", Direction: models.DirectionOutgoing}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := repo.Create(1, models.MessageInput{ContactID: intPtr(6), Text: "other thread", Direction: models.DirectionOutgoing}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Same contact id, different owner: user 1 never sees user 2's row.
	messages, err := repo.ListByContact(1, 5)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(messages) != 1 || messages[0].Text != "mine" {
		t.Errorf("expected only the caller's thread, got %+v", messages)
	}
}

func TestCreateMessageValidatesDirection(t *testing.T) {
	repo := NewSQLMessageRepository(newTestDatabase(t))

	_, err := repo.Create(1, models.MessageInput{Text: "hi"})
	var valErr *models.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCreateMessageDefaultsStatusSent(t *testing.T) {
	repo := NewSQLMessageRepository(newTestDatabase(t))

	message, err := repo.Create(1, models.MessageInput{
		ContactID: intPtr(5),
		Text:      "hi",
		Direction: models.DirectionOutgoing,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if message.Status != models.StatusSent {
		t.Errorf("expected default status sent, got %s", message.Status)
	}
}

func TestMessagesDegradeWhenUnavailable(t *testing.T) {
	repo := NewSQLMessageRepository(newUnavailableDatabase())

	messages, err := repo.ListByContact(1, 5)
	if err != nil || len(messages) != 0 {
		t.Errorf("read should degrade to empty, got %v, %v", messages, err)
	}

	_, err = repo.Create(1, models.MessageInput{ContactID: intPtr(5), Text: "hi", Direction: models.DirectionOutgoing})
	var unavailErr *models.UnavailableError
	if !errors.As(err, &unavailErr) {
		t.Fatalf("write should fail with UnavailableError, got %v", err)
	}
}
