package wsnotify

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"telegram-admin/internal/models"
)

// WebSocketManager fans events out to every connected dashboard panel.
type WebSocketManager struct {
	clients map[*websocket.Conn]bool
	lock    sync.RWMutex
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func Upgrader() *websocket.Upgrader {
	return &upgrader
}

var Manager = &WebSocketManager{
	clients: make(map[*websocket.Conn]bool),
}

func (m *WebSocketManager) AddClient(conn *websocket.Conn) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.clients[conn] = true
}

func (m *WebSocketManager) RemoveClient(conn *websocket.Conn) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.clients, conn)
}

func (m *WebSocketManager) Broadcast(event interface{}) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	for client := range m.clients {
		client.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := client.WriteJSON(event); err != nil {
			client.Close()
			go m.RemoveClient(client)
		}
	}
}

type MessagePayload struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	ContactID *int   `json:"contactId"`
	ChatID    *int   `json:"chatId"`
	Text      string `json:"text"`
	Direction string `json:"direction"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

type MessageEvent struct {
	Type    string         `json:"type"`
	Payload MessagePayload `json:"payload"`
}

// SendMessageEvent pushes a freshly stored message to the chat panels.
func SendMessageEvent(message *models.Message) {
	event := MessageEvent{
		Type: "message",
		Payload: MessagePayload{
			ID:        message.ID,
			UserID:    message.UserID,
			ContactID: message.ContactID,
			ChatID:    message.ChatID,
			Text:      message.Text,
			Direction: message.Direction,
			Status:    message.Status,
			CreatedAt: message.CreatedAt.UTC().Format(time.RFC3339Nano),
		},
	}
	Manager.Broadcast(event)
}

type CampaignPayload struct {
	ID            int    `json:"id"`
	UserID        int    `json:"userId"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	TotalContacts int    `json:"totalContacts"`
}

type CampaignEvent struct {
	Type    string          `json:"type"`
	Payload CampaignPayload `json:"payload"`
}

// SendCampaignEvent pushes campaign creation and status changes.
func SendCampaignEvent(campaign *models.Campaign) {
	event := CampaignEvent{
		Type: "campaign",
		Payload: CampaignPayload{
			ID:            campaign.ID,
			UserID:        campaign.UserID,
			Name:          campaign.Name,
			Status:        campaign.Status,
			TotalContacts: campaign.TotalContacts,
		},
	}
	Manager.Broadcast(event)
}
