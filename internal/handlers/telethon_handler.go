package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"telegram-admin/internal/models"
	"telegram-admin/internal/services"
	"telegram-admin/internal/utils"
)

// TelethonHandler proxies automation operations to the external
// service. It shares the auth gate with the CRUD surface but never
// touches the database.
type TelethonHandler struct {
	client *services.TelethonClient
}

func NewTelethonHandler(client *services.TelethonClient) *TelethonHandler {
	return &TelethonHandler{client: client}
}

// @Summary Connect the Telegram account
// @Tags telethon
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 502 {object} models.APIResponse
// @Router /telethon/connect [post]
func (h *TelethonHandler) Connect(w http.ResponseWriter, r *http.Request) {
	data, err := h.client.Connect(r.Context())
	if err != nil {
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Connected", data))
}

// @Summary Sync contacts from Telegram
// @Tags telethon
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 502 {object} models.APIResponse
// @Router /telethon/sync-contacts [post]
func (h *TelethonHandler) SyncContacts(w http.ResponseWriter, r *http.Request) {
	data, err := h.client.SyncContacts(r.Context())
	if err != nil {
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Contacts synced", data))
}

// @Summary List groups and channels
// @Tags telethon
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 502 {object} models.APIResponse
// @Router /telethon/groups-channels [get]
func (h *TelethonHandler) GroupsAndChannels(w http.ResponseWriter, r *http.Request) {
	data, err := h.client.GetGroupsAndChannels(r.Context())
	if err != nil {
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("", data))
}

// @Summary List upstream contacts
// @Tags telethon
// @Produce json
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {object} models.APIResponse
// @Failure 502 {object} models.APIResponse
// @Router /telethon/contacts [get]
func (h *TelethonHandler) GetContacts(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r, 100)
	data, err := h.client.GetContacts(r.Context(), skip, limit)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("", data))
}

// @Summary Create upstream contact
// @Tags telethon
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 502 {object} models.APIResponse
// @Router /telethon/contacts [post]
func (h *TelethonHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}
	data, err := h.client.CreateContact(r.Context(), body)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Contact created", data))
}

// @Summary List upstream campaigns
// @Tags telethon
// @Produce json
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {object} models.APIResponse
// @Failure 502 {object} models.APIResponse
// @Router /telethon/campaigns [get]
func (h *TelethonHandler) GetCampaigns(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r, 50)
	data, err := h.client.GetCampaigns(r.Context(), skip, limit)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("", data))
}

// @Summary Create upstream campaign
// @Tags telethon
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 502 {object} models.APIResponse
// @Router /telethon/campaigns [post]
func (h *TelethonHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}
	data, err := h.client.CreateCampaign(r.Context(), body)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Campaign created", data))
}

// @Summary Send a campaign to a list of contacts
// @Description One atomic upstream request; partial delivery is the upstream's concern
// @Tags telethon
// @Accept json
// @Produce json
// @Param request body models.SendCampaignRequest true "Campaign and targets"
// @Success 200 {object} models.APIResponse
// @Failure 502 {object} models.APIResponse
// @Router /telethon/campaigns/send [post]
func (h *TelethonHandler) SendCampaign(w http.ResponseWriter, r *http.Request) {
	var req models.SendCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.RespondWithError(w, &models.ValidationError{Message: "invalid request body"})
		return
	}
	if req.CampaignID == 0 {
		models.RespondWithError(w, &models.ValidationError{Field: "campaignId", Message: "required"})
		return
	}

	data, err := h.client.SendCampaign(r.Context(), req.CampaignID, req.ContactIDs)
	if err != nil {
		utils.LogError("Failed to send campaign %d: %v", req.CampaignID, err)
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Campaign sent", data))
}

// @Summary Fetch upstream messages for a contact
// @Tags telethon
// @Produce json
// @Param contactId path int true "Contact ID"
// @Success 200 {object} models.APIResponse
// @Failure 502 {object} models.APIResponse
// @Router /telethon/messages/{contactId} [get]
func (h *TelethonHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	contactID, err := strconv.Atoi(mux.Vars(r)["contactId"])
	if err != nil {
		models.RespondWithError(w, &models.ValidationError{Field: "contactId", Message: "must be a number"})
		return
	}
	data, err := h.client.GetMessages(r.Context(), contactID)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("", data))
}

// @Summary Send a direct message through the automation service
// @Tags telethon
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 502 {object} models.APIResponse
// @Router /telethon/messages [post]
func (h *TelethonHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}
	data, err := h.client.SendMessage(r.Context(), body)
	if err != nil {
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Message sent", data))
}

func pagination(r *http.Request, defaultLimit int) (skip, limit int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	return skip, limit
}

func readBody(r *http.Request) (json.RawMessage, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, &models.ValidationError{Message: "invalid request body"}
	}
	if len(data) == 0 {
		data = []byte("{}")
	}
	if !json.Valid(data) {
		return nil, &models.ValidationError{Message: "request body must be JSON"}
	}
	return data, nil
}
