package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"telegram-admin/internal/models"
	"telegram-admin/internal/utils"
)

const upstreamTimeout = 30 * time.Second

// TelethonClient forwards calls to the external Telegram-automation
// service. Every operation is exactly one HTTP round trip; there are no
// retries, so a failed send may or may not have taken effect upstream.
type TelethonClient struct {
	baseURL string
	client  *http.Client
}

func NewTelethonClient(baseURL string) *TelethonClient {
	if !utils.IsURL(baseURL) {
		utils.LogWarning("Automation service URL looks invalid: %s", baseURL)
	}
	return &TelethonClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: upstreamTimeout},
	}
}

func (c *TelethonClient) Connect(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, "/api/telethon/connect", nil, nil,
		"failed to connect to Telegram")
}

func (c *TelethonClient) SyncContacts(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, "/api/telethon/sync-contacts", nil, nil,
		"failed to sync contacts")
}

func (c *TelethonClient) GetGroupsAndChannels(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, "/api/telethon/groups-channels", nil, nil,
		"failed to fetch groups and channels")
}

func (c *TelethonClient) GetContacts(ctx context.Context, skip, limit int) (json.RawMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	query := url.Values{}
	query.Set("skip", strconv.Itoa(skip))
	query.Set("limit", strconv.Itoa(limit))
	return c.call(ctx, http.MethodGet, "/api/contacts", query, nil,
		"failed to fetch contacts")
}

func (c *TelethonClient) CreateContact(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, "/api/contacts", nil, body,
		"failed to create contact")
}

func (c *TelethonClient) GetCampaigns(ctx context.Context, skip, limit int) (json.RawMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	query := url.Values{}
	query.Set("skip", strconv.Itoa(skip))
	query.Set("limit", strconv.Itoa(limit))
	return c.call(ctx, http.MethodGet, "/api/campaigns", query, nil,
		"failed to fetch campaigns")
}

func (c *TelethonClient) CreateCampaign(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, "/api/campaigns", nil, body,
		"failed to create campaign")
}

func (c *TelethonClient) SendCampaign(ctx context.Context, campaignID int, contactIDs []int) (json.RawMessage, error) {
	body, _ := json.Marshal(map[string][]int{"contact_ids": contactIDs})
	path := fmt.Sprintf("/api/campaigns/%d/send", campaignID)
	return c.call(ctx, http.MethodPost, path, nil, body,
		"failed to send campaign")
}

func (c *TelethonClient) GetMessages(ctx context.Context, contactID int) (json.RawMessage, error) {
	path := fmt.Sprintf("/api/messages/%d", contactID)
	return c.call(ctx, http.MethodGet, path, nil, nil,
		"failed to fetch messages")
}

func (c *TelethonClient) SendMessage(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, "/api/messages", nil, body,
		"failed to send message")
}

// call performs the single upstream round trip. Any failure, transport
// or HTTP, collapses into an UpstreamError; the upstream's own detail
// message wins over the fallback when the body carries one.
func (c *TelethonClient) call(ctx context.Context, method, path string, query url.Values, body json.RawMessage, fallback string) (json.RawMessage, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &models.UpstreamError{Message: fallback}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		utils.LogError("Automation service call %s %s failed: %v", method, path, err)
		return nil, &models.UpstreamError{Message: fallback}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.UpstreamError{Message: fallback}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		utils.LogError("Automation service call %s %s returned %d", method, path, resp.StatusCode)
		return nil, &models.UpstreamError{Message: upstreamDetail(data, fallback)}
	}

	return data, nil
}

// upstreamDetail extracts the FastAPI-style {"detail": "..."} message.
func upstreamDetail(body []byte, fallback string) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return fallback
}
