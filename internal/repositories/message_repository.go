package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"telegram-admin/config"
	"telegram-admin/internal/models"
	"telegram-admin/internal/utils"
)

type SQLMessageRepository struct {
	db *config.Database
}

func NewSQLMessageRepository(db *config.Database) *SQLMessageRepository {
	return &SQLMessageRepository{db: db}
}

// ListByContact filters on both the owner and the contact. The owner
// predicate is what keeps one user from reading another user's thread
// by guessing contact ids.
func (r *SQLMessageRepository) ListByContact(userID, contactID int) ([]*models.Message, error) {
	db, ok := r.db.Handle()
	if !ok {
		return []*models.Message{}, nil
	}

	rows, err := db.Query(`
		SELECT
			id, user_id, contact_id, chat_id, telegram_message_id,
			sender_telegram_id, sender_name, text, direction, status, created_at
		FROM messages
		WHERE user_id = ? AND contact_id = ?
		ORDER BY created_at ASC`, userID, contactID)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %v", err)
	}
	defer rows.Close()

	var messages []*models.Message

	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %v", err)
	}

	return messages, nil
}

func scanMessage(rows *sql.Rows) (*models.Message, error) {
	message := &models.Message{}
	var contactID, chatID sql.NullInt64
	var telegramMessageID, senderTelegramID, senderName, text, status sql.NullString

	err := rows.Scan(
		&message.ID,
		&message.UserID,
		&contactID,
		&chatID,
		&telegramMessageID,
		&senderTelegramID,
		&senderName,
		&text,
		&message.Direction,
		&status,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning message: %v", err)
	}

	if contactID.Valid {
		id := int(contactID.Int64)
		message.ContactID = &id
	}
	if chatID.Valid {
		id := int(chatID.Int64)
		message.ChatID = &id
	}
	message.TelegramMessageID = telegramMessageID.String
	message.SenderTelegramID = senderTelegramID.String
	message.SenderName = senderName.String
	message.Text = text.String
	message.Status = status.String

	return message, nil
}

func (r *SQLMessageRepository) Create(userID int, input models.MessageInput) (*models.Message, error) {
	if !models.ValidDirection(input.Direction) {
		return nil, &models.ValidationError{Field: "direction", Message: "must be incoming or outgoing"}
	}
	status := input.Status
	if status == "" {
		status = models.StatusSent
	}
	if !models.ValidMessageStatus(status) {
		return nil, &models.ValidationError{Field: "status", Message: "must be sent, delivered, read or failed"}
	}

	db, ok := r.db.Handle()
	if !ok {
		return nil, &models.UnavailableError{Op: "create message"}
	}

	now := time.Now().UTC()

	result, err := db.Exec(`
		INSERT INTO messages (
			user_id, contact_id, chat_id, telegram_message_id,
			sender_telegram_id, sender_name, text, direction, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID,
		utils.NullInt(input.ContactID),
		utils.NullInt(input.ChatID),
		utils.NullString(input.TelegramMessageID),
		utils.NullString(input.SenderTelegramID),
		utils.NullString(input.SenderName),
		utils.NullString(input.Text),
		input.Direction,
		status,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("error saving message: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error getting last insert id: %v", err)
	}

	return &models.Message{
		ID:                int(id),
		UserID:            userID,
		ContactID:         input.ContactID,
		ChatID:            input.ChatID,
		TelegramMessageID: input.TelegramMessageID,
		SenderTelegramID:  input.SenderTelegramID,
		SenderName:        input.SenderName,
		Text:              input.Text,
		Direction:         input.Direction,
		Status:            status,
		CreatedAt:         now,
	}, nil
}
