package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"telegram-admin/internal/models"
	"telegram-admin/internal/services"
)

// Mock repositories capturing the arguments the handlers derive from
// the session.

type mockUserRepo struct {
	upserts []models.UserUpsert
	users   map[string]*models.User
}

func (m *mockUserRepo) Upsert(user models.UserUpsert) error {
	m.upserts = append(m.upserts, user)
	return nil
}

func (m *mockUserRepo) GetByOpenID(openID string) (*models.User, error) {
	return m.users[openID], nil
}

type createdContact struct {
	userID int
	input  models.ContactInput
}

type mockContactRepo struct {
	created []createdContact
	byUser  map[int][]*models.Contact
}

func (m *mockContactRepo) ListByUser(userID int) ([]*models.Contact, error) {
	return m.byUser[userID], nil
}

func (m *mockContactRepo) Create(userID int, input models.ContactInput) (*models.Contact, error) {
	m.created = append(m.created, createdContact{userID, input})
	return &models.Contact{ID: len(m.created), UserID: userID, TelegramID: input.TelegramID, FirstName: input.FirstName, IsActive: true}, nil
}

type mockChatRepo struct {
	byUser map[int][]*models.Chat
}

func (m *mockChatRepo) ListByUser(userID int) ([]*models.Chat, error) {
	return m.byUser[userID], nil
}

func (m *mockChatRepo) Create(userID int, input models.ChatInput) (*models.Chat, error) {
	return &models.Chat{ID: 1, UserID: userID, TelegramID: input.TelegramID, Title: input.Title, Type: input.Type}, nil
}

type listedThread struct {
	userID    int
	contactID int
}

type mockMessageRepo struct {
	listed   []listedThread
	byThread map[listedThread][]*models.Message
}

func (m *mockMessageRepo) ListByContact(userID, contactID int) ([]*models.Message, error) {
	key := listedThread{userID, contactID}
	m.listed = append(m.listed, key)
	return m.byThread[key], nil
}

func (m *mockMessageRepo) Create(userID int, input models.MessageInput) (*models.Message, error) {
	return &models.Message{ID: 1, UserID: userID, ContactID: input.ContactID, Text: input.Text, Direction: input.Direction, Status: models.StatusSent}, nil
}

type statusUpdate struct {
	userID     int
	campaignID int
	status     string
}

type mockCampaignRepo struct {
	byUser  map[int][]*models.Campaign
	updates []statusUpdate
}

func (m *mockCampaignRepo) ListByUser(userID int) ([]*models.Campaign, error) {
	return m.byUser[userID], nil
}

func (m *mockCampaignRepo) Create(userID int, input models.CampaignInput) (*models.Campaign, error) {
	return &models.Campaign{ID: 1, UserID: userID, Name: input.Name, Message: input.Message, Status: models.CampaignDraft}, nil
}

func (m *mockCampaignRepo) UpdateStatus(userID, campaignID int, status string) error {
	m.updates = append(m.updates, statusUpdate{userID, campaignID, status})
	return nil
}

type testEnv struct {
	handler   *HTTPHandler
	users     *mockUserRepo
	contacts  *mockContactRepo
	messages  *mockMessageRepo
	campaigns *mockCampaignRepo
	sessions  *services.SessionManager
	router    *mux.Router
}

func newTestEnv() *testEnv {
	users := &mockUserRepo{users: map[string]*models.User{}}
	contacts := &mockContactRepo{byUser: map[int][]*models.Contact{}}
	chats := &mockChatRepo{byUser: map[int][]*models.Chat{}}
	messages := &mockMessageRepo{byThread: map[listedThread][]*models.Message{}}
	campaigns := &mockCampaignRepo{byUser: map[int][]*models.Campaign{}}
	sessions := services.NewSessionManager(false)

	handler := NewHTTPHandler(users, contacts, chats, messages, campaigns, sessions)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/auth/login", handler.Login).Methods("POST")
	router.HandleFunc("/api/v1/auth/me", handler.Me).Methods("GET")
	router.HandleFunc("/api/v1/auth/logout", handler.Logout).Methods("POST")
	router.HandleFunc("/api/v1/contacts", handler.RequireUser(handler.ListContacts)).Methods("GET")
	router.HandleFunc("/api/v1/contacts", handler.RequireUser(handler.CreateContact)).Methods("POST")
	router.HandleFunc("/api/v1/messages/contact/{contactId}", handler.RequireUser(handler.GetMessagesByContact)).Methods("GET")
	router.HandleFunc("/api/v1/messages", handler.RequireUser(handler.CreateMessage)).Methods("POST")
	router.HandleFunc("/api/v1/campaigns/{campaignId}/status", handler.RequireUser(handler.UpdateCampaignStatus)).Methods("PATCH")

	return &testEnv{
		handler:   handler,
		users:     users,
		contacts:  contacts,
		messages:  messages,
		campaigns: campaigns,
		sessions:  sessions,
		router:    router,
	}
}

func (e *testEnv) signIn(user *models.User) *http.Cookie {
	token := e.sessions.Create(user)
	return e.sessions.NewCookie(token, 3600)
}

func TestProtectedEndpointRejectsAnonymous(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if len(env.contacts.created) != 0 {
		t.Error("no side effect expected for anonymous call")
	}
}

func TestCreateContactDiscardsPayloadOwner(t *testing.T) {
	env := newTestEnv()
	cookie := env.signIn(&models.User{ID: 1, OpenID: "u1"})

	// The payload claims another owner; the session must win.
	body := []byte(`{"userId": 999, "telegramId": "tg1", "firstName": "Anna"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts", bytes.NewReader(body))
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(env.contacts.created) != 1 {
		t.Fatalf("expected one create, got %d", len(env.contacts.created))
	}
	if env.contacts.created[0].userID != 1 {
		t.Errorf("expected owner 1 from session, got %d", env.contacts.created[0].userID)
	}
	if env.contacts.created[0].input.TelegramID != "tg1" {
		t.Errorf("expected telegramId tg1, got %q", env.contacts.created[0].input.TelegramID)
	}
}

func TestMessagesByContactScopedToSession(t *testing.T) {
	env := newTestEnv()

	// Contact 5 has threads for two different owners.
	env.messages.byThread[listedThread{1, 5}] = []*models.Message{{ID: 1, UserID: 1, Text: "mine"}}
	env.messages.byThread[listedThread{2, 5}] = []*models.Message{{ID: 2, UserID: 2, Text: "theirs"}}

	cookie := env.signIn(&models.User{ID: 1, OpenID: "u1"})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/contact/5", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(env.messages.listed) != 1 || env.messages.listed[0] != (listedThread{1, 5}) {
		t.Errorf("expected query scoped to user 1 contact 5, got %v", env.messages.listed)
	}

	var response struct {
		Data []*models.Message `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(response.Data) != 1 || response.Data[0].Text != "mine" {
		t.Errorf("expected only the session user's thread, got %+v", response.Data)
	}
}

func TestUpdateCampaignStatusScopedToSession(t *testing.T) {
	env := newTestEnv()
	cookie := env.signIn(&models.User{ID: 1, OpenID: "u1"})

	body := []byte(`{"status": "scheduled"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/campaigns/7/status", bytes.NewReader(body))
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	want := statusUpdate{userID: 1, campaignID: 7, status: "scheduled"}
	if len(env.campaigns.updates) != 1 || env.campaigns.updates[0] != want {
		t.Errorf("expected %+v, got %v", want, env.campaigns.updates)
	}
}

func TestLoginUpsertsAndOpensSession(t *testing.T) {
	env := newTestEnv()
	env.users.users["u1"] = &models.User{ID: 1, OpenID: "u1", Role: models.RoleUser}

	body := []byte(`{"openId": "u1", "name": "Anna"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(env.users.upserts) != 1 || env.users.upserts[0].OpenID != "u1" {
		t.Fatalf("expected one upsert for u1, got %v", env.users.upserts)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != services.SessionCookieName || cookies[0].Value == "" {
		t.Fatalf("expected a session cookie, got %v", cookies)
	}
	if user, ok := env.sessions.Resolve(cookies[0].Value); !ok || user.ID != 1 {
		t.Error("expected the cookie token to resolve to user 1")
	}
}

func TestLoginRequiresIdentity(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestLoginUnavailableDatabase(t *testing.T) {
	env := newTestEnv()
	// No user resolvable: upsert no-oped because the database is gone.

	body := []byte(`{"openId": "u1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestMeReturnsNullForAnonymous(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var response struct {
		Data interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Data != nil {
		t.Errorf("expected null user, got %v", response.Data)
	}
}

func TestLogoutDestroysSessionAndClearsCookie(t *testing.T) {
	env := newTestEnv()
	user := &models.User{ID: 1, OpenID: "u1"}
	token := env.sessions.Create(user)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(env.sessions.NewCookie(token, 3600))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	if _, ok := env.sessions.Resolve(token); ok {
		t.Error("expected the session to be destroyed")
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected a clearing cookie, got %v", cookies)
	}
	clear := cookies[0]
	if clear.Name != services.SessionCookieName || clear.Path != "/" {
		t.Errorf("clear cookie must match the set options, got %+v", clear)
	}
	if clear.MaxAge >= 0 {
		t.Errorf("clear cookie must expire immediately, got MaxAge %d", clear.MaxAge)
	}
}
