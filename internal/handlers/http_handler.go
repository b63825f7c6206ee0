package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"telegram-admin/internal/models"
	"telegram-admin/internal/services"
	"telegram-admin/internal/utils"
	"telegram-admin/internal/wsnotify"
)

// HTTPHandler exposes the session-scoped CRUD surface. Ownership is
// derived from the session on every call; payloads never carry it.
type HTTPHandler struct {
	users     models.UserRepository
	contacts  models.ContactRepository
	chats     models.ChatRepository
	messages  models.MessageRepository
	campaigns models.CampaignRepository
	sessions  *services.SessionManager
}

func NewHTTPHandler(
	users models.UserRepository,
	contacts models.ContactRepository,
	chats models.ChatRepository,
	messages models.MessageRepository,
	campaigns models.CampaignRepository,
	sessions *services.SessionManager,
) *HTTPHandler {
	return &HTTPHandler{
		users:     users,
		contacts:  contacts,
		chats:     chats,
		messages:  messages,
		campaigns: campaigns,
		sessions:  sessions,
	}
}

// @Summary List contacts
// @Description All contacts owned by the calling user
// @Tags contacts
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Router /contacts [get]
func (h *HTTPHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	contacts, err := h.contacts.ListByUser(user.ID)
	if err != nil {
		utils.LogError("Failed to list contacts: %v", err)
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("", contacts))
}

// @Summary Create contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param request body models.ContactInput true "Contact details"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /contacts [post]
func (h *HTTPHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var input models.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		models.RespondWithError(w, &models.ValidationError{Message: "invalid request body"})
		return
	}

	contact, err := h.contacts.Create(user.ID, input)
	if err != nil {
		utils.LogError("Failed to create contact: %v", err)
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Contact created", contact))
}

// @Summary List chats
// @Tags chats
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /chats [get]
func (h *HTTPHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	chats, err := h.chats.ListByUser(user.ID)
	if err != nil {
		utils.LogError("Failed to list chats: %v", err)
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("", chats))
}

// @Summary Create chat
// @Tags chats
// @Accept json
// @Produce json
// @Param request body models.ChatInput true "Chat details"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /chats [post]
func (h *HTTPHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var input models.ChatInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		models.RespondWithError(w, &models.ValidationError{Message: "invalid request body"})
		return
	}

	chat, err := h.chats.Create(user.ID, input)
	if err != nil {
		utils.LogError("Failed to create chat: %v", err)
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Chat created", chat))
}

// @Summary Messages for one contact
// @Description The calling user's messages for the contact, oldest first
// @Tags messages
// @Produce json
// @Param contactId path int true "Contact ID"
// @Success 200 {object} models.APIResponse
// @Router /messages/contact/{contactId} [get]
func (h *HTTPHandler) GetMessagesByContact(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	contactID, err := strconv.Atoi(mux.Vars(r)["contactId"])
	if err != nil {
		models.RespondWithError(w, &models.ValidationError{Field: "contactId", Message: "must be a number"})
		return
	}

	messages, err := h.messages.ListByContact(user.ID, contactID)
	if err != nil {
		utils.LogError("Failed to list messages: %v", err)
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("", messages))
}

// @Summary Store a message
// @Tags messages
// @Accept json
// @Produce json
// @Param request body models.MessageInput true "Message details"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /messages [post]
func (h *HTTPHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var input models.MessageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		models.RespondWithError(w, &models.ValidationError{Message: "invalid request body"})
		return
	}

	message, err := h.messages.Create(user.ID, input)
	if err != nil {
		utils.LogError("Failed to create message: %v", err)
		models.RespondWithError(w, err)
		return
	}

	wsnotify.SendMessageEvent(message)
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Message stored", message))
}

// @Summary List campaigns
// @Tags campaigns
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /campaigns [get]
func (h *HTTPHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	campaigns, err := h.campaigns.ListByUser(user.ID)
	if err != nil {
		utils.LogError("Failed to list campaigns: %v", err)
		models.RespondWithError(w, err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("", campaigns))
}

// @Summary Update campaign status
// @Description Moves the campaign along draft→scheduled→running→completed, or running↔paused
// @Tags campaigns
// @Accept json
// @Produce json
// @Param campaignId path int true "Campaign ID"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /campaigns/{campaignId}/status [patch]
func (h *HTTPHandler) UpdateCampaignStatus(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	campaignID, err := strconv.Atoi(mux.Vars(r)["campaignId"])
	if err != nil {
		models.RespondWithError(w, &models.ValidationError{Field: "campaignId", Message: "must be a number"})
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.RespondWithError(w, &models.ValidationError{Message: "invalid request body"})
		return
	}

	if err := h.campaigns.UpdateStatus(user.ID, campaignID, req.Status); err != nil {
		utils.LogError("Failed to update campaign %d status: %v", campaignID, err)
		models.RespondWithError(w, err)
		return
	}

	wsnotify.SendCampaignEvent(&models.Campaign{ID: campaignID, UserID: user.ID, Status: req.Status})
	models.RespondWithJSON(w, http.StatusOK,
		models.NewSuccessResponse("Campaign status updated", map[string]string{"status": req.Status}))
}

// @Summary Create campaign
// @Tags campaigns
// @Accept json
// @Produce json
// @Param request body models.CampaignInput true "Campaign details"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /campaigns [post]
func (h *HTTPHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var input models.CampaignInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		models.RespondWithError(w, &models.ValidationError{Message: "invalid request body"})
		return
	}

	campaign, err := h.campaigns.Create(user.ID, input)
	if err != nil {
		utils.LogError("Failed to create campaign: %v", err)
		models.RespondWithError(w, err)
		return
	}

	wsnotify.SendCampaignEvent(campaign)
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Campaign created", campaign))
}
