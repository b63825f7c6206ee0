package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"telegram-admin/config"
	"telegram-admin/internal/models"
	"telegram-admin/internal/utils"
)

type SQLChatRepository struct {
	db *config.Database
}

func NewSQLChatRepository(db *config.Database) *SQLChatRepository {
	return &SQLChatRepository{db: db}
}

func (r *SQLChatRepository) ListByUser(userID int) ([]*models.Chat, error) {
	db, ok := r.db.Handle()
	if !ok {
		return []*models.Chat{}, nil
	}

	rows, err := db.Query(`
		SELECT
			id, user_id, telegram_id, title, type, members_count,
			description, is_parsed, last_parsed_at, added_at, updated_at
		FROM chats
		WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying chats: %v", err)
	}
	defer rows.Close()

	var chats []*models.Chat

	for rows.Next() {
		chat := &models.Chat{}
		var membersCount sql.NullInt64
		var description sql.NullString
		var lastParsedAt sql.NullTime

		err := rows.Scan(
			&chat.ID,
			&chat.UserID,
			&chat.TelegramID,
			&chat.Title,
			&chat.Type,
			&membersCount,
			&description,
			&chat.IsParsed,
			&lastParsedAt,
			&chat.AddedAt,
			&chat.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning chat: %v", err)
		}

		chat.MembersCount = int(membersCount.Int64)
		chat.Description = description.String
		if lastParsedAt.Valid {
			t := lastParsedAt.Time
			chat.LastParsedAt = &t
		}

		chats = append(chats, chat)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chats: %v", err)
	}

	return chats, nil
}

func (r *SQLChatRepository) Create(userID int, input models.ChatInput) (*models.Chat, error) {
	if input.TelegramID == "" {
		return nil, &models.ValidationError{Field: "telegramId", Message: "required"}
	}
	if input.Title == "" {
		return nil, &models.ValidationError{Field: "title", Message: "required"}
	}
	if !models.ValidChatType(input.Type) {
		return nil, &models.ValidationError{Field: "type", Message: "must be private, group, supergroup or channel"}
	}

	db, ok := r.db.Handle()
	if !ok {
		return nil, &models.UnavailableError{Op: "create chat"}
	}

	now := time.Now().UTC()

	result, err := db.Exec(`
		INSERT INTO chats (
			user_id, telegram_id, title, type, members_count,
			description, is_parsed, added_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID,
		input.TelegramID,
		input.Title,
		input.Type,
		input.MembersCount,
		utils.NullString(input.Description),
		utils.BoolToInt(input.IsParsed),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("error saving chat: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error getting last insert id: %v", err)
	}

	return &models.Chat{
		ID:           int(id),
		UserID:       userID,
		TelegramID:   input.TelegramID,
		Title:        input.Title,
		Type:         input.Type,
		MembersCount: input.MembersCount,
		Description:  input.Description,
		IsParsed:     input.IsParsed,
		AddedAt:      now,
		UpdatedAt:    now,
	}, nil
}
