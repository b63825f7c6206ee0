package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"telegram-admin/internal/models"
)

func TestSendCampaignPostsContactIDs(t *testing.T) {
	var gotPath string
	var gotBody map[string][]int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"queued"}`))
	}))
	defer server.Close()

	client := NewTelethonClient(server.URL)
	data, err := client.SendCampaign(context.Background(), 7, []int{1, 2, 3})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if gotPath != "/api/campaigns/7/send" {
		t.Errorf("expected /api/campaigns/7/send, got %s", gotPath)
	}
	if len(gotBody["contact_ids"]) != 3 || gotBody["contact_ids"][0] != 1 {
		t.Errorf("expected contact_ids [1 2 3], got %v", gotBody["contact_ids"])
	}

	var parsed map[string]string
	if err := json.Unmarshal(data, &parsed); err != nil || parsed["status"] != "queued" {
		t.Errorf("expected upstream body passed through, got %s", data)
	}
}

func TestUpstreamDetailBecomesErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"rate limited"}`))
	}))
	defer server.Close()

	client := NewTelethonClient(server.URL)
	_, err := client.SendCampaign(context.Background(), 7, []int{1, 2, 3})

	var upstreamErr *models.UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstreamErr.Message != "rate limited" {
		t.Errorf("expected upstream detail, got %q", upstreamErr.Message)
	}
}

func TestUpstreamFailureWithoutDetailUsesFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := NewTelethonClient(server.URL)
	_, err := client.Connect(context.Background())

	var upstreamErr *models.UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstreamErr.Message != "failed to connect to Telegram" {
		t.Errorf("expected fallback message, got %q", upstreamErr.Message)
	}
}

func TestTransportErrorUsesFallback(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewTelethonClient(server.URL)
	_, err := client.SyncContacts(context.Background())

	var upstreamErr *models.UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstreamErr.Message != "failed to sync contacts" {
		t.Errorf("expected fallback message, got %q", upstreamErr.Message)
	}
}

func TestGetContactsPagination(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewTelethonClient(server.URL)

	if _, err := client.GetContacts(context.Background(), 5, 10); err != nil {
		t.Fatalf("get contacts failed: %v", err)
	}
	if gotQuery != "limit=10&skip=5" {
		t.Errorf("expected limit=10&skip=5, got %s", gotQuery)
	}

	// Zero limit falls back to the default page size.
	if _, err := client.GetContacts(context.Background(), 0, 0); err != nil {
		t.Fatalf("get contacts failed: %v", err)
	}
	if gotQuery != "limit=100&skip=0" {
		t.Errorf("expected default limit 100, got %s", gotQuery)
	}
}

func TestGetMessagesPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewTelethonClient(server.URL)
	if _, err := client.GetMessages(context.Background(), 42); err != nil {
		t.Fatalf("get messages failed: %v", err)
	}
	if gotPath != "/api/messages/42" {
		t.Errorf("expected /api/messages/42, got %s", gotPath)
	}
}
