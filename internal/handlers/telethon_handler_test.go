package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"telegram-admin/internal/services"
)

func newTelethonRouter(upstream string) *mux.Router {
	handler := NewTelethonHandler(services.NewTelethonClient(upstream))
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/telethon/campaigns/send", handler.SendCampaign).Methods("POST")
	router.HandleFunc("/api/v1/telethon/messages/{contactId}", handler.GetMessages).Methods("GET")
	router.HandleFunc("/api/v1/telethon/contacts", handler.GetContacts).Methods("GET")
	return router
}

func TestProxyReportsUpstreamDetail(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"detail": "rate limited"}`))
	}))
	defer upstream.Close()

	router := newTelethonRouter(upstream.URL)
	body := []byte(`{"campaignId": 7, "contactIds": [1, 2]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/telethon/campaigns/send", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", w.Code, w.Body.String())
	}
	var response struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Status != "error" {
		t.Errorf("expected status error, got %q", response.Status)
	}
	if response.Message != "rate limited" {
		t.Errorf("expected the upstream detail, got %q", response.Message)
	}
}

func TestProxyForwardsPathAndPagination(t *testing.T) {
	var seen []string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.String())
		w.Write([]byte(`{"ok": true}`))
	}))
	defer upstream.Close()

	router := newTelethonRouter(upstream.URL)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/telethon/messages/42", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/telethon/contacts?skip=20&limit=10", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	if len(seen) != 2 {
		t.Fatalf("expected two upstream calls, got %v", seen)
	}
	if seen[0] != "/api/messages/42" {
		t.Errorf("unexpected messages path %q", seen[0])
	}
	if seen[1] != "/api/contacts?limit=10&skip=20" {
		t.Errorf("unexpected contacts query %q", seen[1])
	}
}

func TestSendCampaignRequiresCampaignID(t *testing.T) {
	router := newTelethonRouter("http://localhost:0")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/telethon/campaigns/send", bytes.NewReader([]byte(`{"contactIds": [1]}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 before any upstream call, got %d", w.Code)
	}
}
