package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"telegram-admin/config"
	"telegram-admin/internal/models"
)

type SQLCampaignRepository struct {
	db *config.Database
}

func NewSQLCampaignRepository(db *config.Database) *SQLCampaignRepository {
	return &SQLCampaignRepository{db: db}
}

func (r *SQLCampaignRepository) ListByUser(userID int) ([]*models.Campaign, error) {
	db, ok := r.db.Handle()
	if !ok {
		return []*models.Campaign{}, nil
	}

	rows, err := db.Query(`
		SELECT
			id, user_id, name, message, total_contacts, sent_count,
			delivered_count, read_count, response_count, status,
			created_at, updated_at
		FROM campaigns
		WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying campaigns: %v", err)
	}
	defer rows.Close()

	var campaigns []*models.Campaign

	for rows.Next() {
		campaign := &models.Campaign{}

		err := rows.Scan(
			&campaign.ID,
			&campaign.UserID,
			&campaign.Name,
			&campaign.Message,
			&campaign.TotalContacts,
			&campaign.SentCount,
			&campaign.DeliveredCount,
			&campaign.ReadCount,
			&campaign.ResponseCount,
			&campaign.Status,
			&campaign.CreatedAt,
			&campaign.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning campaign: %v", err)
		}

		campaigns = append(campaigns, campaign)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaigns: %v", err)
	}

	return campaigns, nil
}

func (r *SQLCampaignRepository) Create(userID int, input models.CampaignInput) (*models.Campaign, error) {
	if input.Name == "" {
		return nil, &models.ValidationError{Field: "name", Message: "required"}
	}
	if input.Message == "" {
		return nil, &models.ValidationError{Field: "message", Message: "required"}
	}

	db, ok := r.db.Handle()
	if !ok {
		return nil, &models.UnavailableError{Op: "create campaign"}
	}

	now := time.Now().UTC()

	result, err := db.Exec(`
		INSERT INTO campaigns (
			user_id, name, message, total_contacts, sent_count,
			delivered_count, read_count, response_count, status,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, 0, 0, 0, 0, ?, ?, ?)`,
		userID,
		input.Name,
		input.Message,
		input.TotalContacts,
		models.CampaignDraft,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("error saving campaign: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error getting last insert id: %v", err)
	}

	return &models.Campaign{
		ID:            int(id),
		UserID:        userID,
		Name:          input.Name,
		Message:       input.Message,
		TotalContacts: input.TotalContacts,
		Status:        models.CampaignDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// UpdateStatus applies a status change reported by the automation
// service, rejecting transitions the state machine does not allow.
func (r *SQLCampaignRepository) UpdateStatus(userID, campaignID int, status string) error {
	db, ok := r.db.Handle()
	if !ok {
		return &models.UnavailableError{Op: "update campaign status"}
	}

	var current string
	err := db.QueryRow(`SELECT status FROM campaigns WHERE user_id = ? AND id = ?`,
		userID, campaignID).Scan(&current)
	if err == sql.ErrNoRows {
		return &models.ValidationError{Field: "campaignId", Message: "not found"}
	}
	if err != nil {
		return fmt.Errorf("error getting campaign: %v", err)
	}

	if !models.CanTransitionCampaign(current, status) {
		return &models.ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("cannot transition from %s to %s", current, status),
		}
	}

	_, err = db.Exec(`UPDATE campaigns SET status = ?, updated_at = ? WHERE user_id = ? AND id = ?`,
		status, time.Now().UTC(), userID, campaignID)
	if err != nil {
		return fmt.Errorf("error updating campaign status: %v", err)
	}
	return nil
}
