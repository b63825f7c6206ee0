package models

// LoginRequest is the distilled OAuth-callback payload: the external
// identity plus whatever profile fields the provider handed back.
type LoginRequest struct {
	OpenID      string `json:"openId" example:"u1"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	LoginMethod string `json:"loginMethod"`
}

// SendCampaignRequest targets one stored campaign at a list of contact
// ids in a single upstream call.
type SendCampaignRequest struct {
	CampaignID int   `json:"campaignId"`
	ContactIDs []int `json:"contactIds"`
}
