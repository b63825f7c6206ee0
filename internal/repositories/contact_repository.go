package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"telegram-admin/config"
	"telegram-admin/internal/models"
	"telegram-admin/internal/utils"
)

type SQLContactRepository struct {
	db *config.Database
}

func NewSQLContactRepository(db *config.Database) *SQLContactRepository {
	return &SQLContactRepository{db: db}
}

func (r *SQLContactRepository) ListByUser(userID int) ([]*models.Contact, error) {
	db, ok := r.db.Handle()
	if !ok {
		return []*models.Contact{}, nil
	}

	rows, err := db.Query(`
		SELECT
			id, user_id, telegram_id, first_name, last_name, phone,
			username, is_bot, is_active, last_message_at, added_at, updated_at
		FROM contacts
		WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying contacts: %v", err)
	}
	defer rows.Close()

	var contacts []*models.Contact

	for rows.Next() {
		contact := &models.Contact{}
		var firstName, lastName, phone, username sql.NullString
		var lastMessageAt sql.NullTime

		err := rows.Scan(
			&contact.ID,
			&contact.UserID,
			&contact.TelegramID,
			&firstName,
			&lastName,
			&phone,
			&username,
			&contact.IsBot,
			&contact.IsActive,
			&lastMessageAt,
			&contact.AddedAt,
			&contact.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning contact: %v", err)
		}

		contact.FirstName = firstName.String
		contact.LastName = lastName.String
		contact.Phone = phone.String
		contact.Username = username.String
		if lastMessageAt.Valid {
			t := lastMessageAt.Time
			contact.LastMessageAt = &t
		}

		contacts = append(contacts, contact)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %v", err)
	}

	return contacts, nil
}

func (r *SQLContactRepository) Create(userID int, input models.ContactInput) (*models.Contact, error) {
	if input.TelegramID == "" {
		return nil, &models.ValidationError{Field: "telegramId", Message: "required"}
	}

	db, ok := r.db.Handle()
	if !ok {
		return nil, &models.UnavailableError{Op: "create contact"}
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	now := time.Now().UTC()

	result, err := db.Exec(`
		INSERT INTO contacts (
			user_id, telegram_id, first_name, last_name, phone,
			username, is_bot, is_active, last_message_at, added_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID,
		input.TelegramID,
		utils.NullString(input.FirstName),
		utils.NullString(input.LastName),
		utils.NullString(input.Phone),
		utils.NullString(input.Username),
		utils.BoolToInt(input.IsBot),
		utils.BoolToInt(isActive),
		utils.NullTime(input.LastMessageAt),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("error saving contact: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error getting last insert id: %v", err)
	}

	return &models.Contact{
		ID:            int(id),
		UserID:        userID,
		TelegramID:    input.TelegramID,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Phone:         input.Phone,
		Username:      input.Username,
		IsBot:         input.IsBot,
		IsActive:      isActive,
		LastMessageAt: input.LastMessageAt,
		AddedAt:       now,
		UpdatedAt:     now,
	}, nil
}
