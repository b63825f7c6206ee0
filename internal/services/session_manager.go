package services

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"telegram-admin/internal/models"
)

const SessionCookieName = "tg_admin_session"

// SessionManager keeps authenticated sessions in process memory keyed
// by opaque uuid tokens. State lives only for the process lifetime,
// like the rest of the shared handles.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*models.User
	secure   bool
}

func NewSessionManager(secure bool) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*models.User),
		secure:   secure,
	}
}

func (m *SessionManager) Create(user *models.User) string {
	token := uuid.NewString()
	m.mu.Lock()
	m.sessions[token] = user
	m.mu.Unlock()
	return token
}

func (m *SessionManager) Resolve(token string) (*models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.sessions[token]
	return user, ok
}

func (m *SessionManager) Destroy(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// NewCookie builds the session cookie. Clearing must use the very same
// scoping options or the browser keeps the stale cookie, so both paths
// go through here.
func (m *SessionManager) NewCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *SessionManager) ClearCookie() *http.Cookie {
	return m.NewCookie("", -1)
}
