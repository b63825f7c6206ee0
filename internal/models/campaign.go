package models

import "time"

const (
	CampaignDraft     = "draft"
	CampaignScheduled = "scheduled"
	CampaignRunning   = "running"
	CampaignCompleted = "completed"
	CampaignPaused    = "paused"
)

// CanTransitionCampaign encodes the campaign state machine:
// draft -> scheduled -> running -> completed, with running <-> paused.
// Nothing reaches completed without passing through running.
func CanTransitionCampaign(from, to string) bool {
	switch from {
	case CampaignDraft:
		return to == CampaignScheduled
	case CampaignScheduled:
		return to == CampaignRunning
	case CampaignRunning:
		return to == CampaignCompleted || to == CampaignPaused
	case CampaignPaused:
		return to == CampaignRunning
	}
	return false
}

type Campaign struct {
	ID             int       `json:"id"`
	UserID         int       `json:"userId"`
	Name           string    `json:"name"`
	Message        string    `json:"message"`
	TotalContacts  int       `json:"totalContacts"`
	SentCount      int       `json:"sentCount"`
	DeliveredCount int       `json:"deliveredCount"`
	ReadCount      int       `json:"readCount"`
	ResponseCount  int       `json:"responseCount"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type CampaignInput struct {
	Name          string `json:"name"`
	Message       string `json:"message"`
	TotalContacts int    `json:"totalContacts"`
}

type CampaignRepository interface {
	ListByUser(userID int) ([]*Campaign, error)
	Create(userID int, input CampaignInput) (*Campaign, error)
	// UpdateStatus applies an upstream-driven transition, guarded by
	// CanTransitionCampaign.
	UpdateStatus(userID, campaignID int, status string) error
}
