package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jehub/points-backend/internal/config"
)

// Membership statuses returned by the Bot API getChatMember call.
const (
	StatusCreator       = "creator"
	StatusAdministrator = "administrator"
	StatusMember        = "member"
	StatusRestricted    = "restricted"
	StatusLeft          = "left"
	StatusKicked        = "kicked"
)

// IsActiveStatus reports whether a status counts as current channel membership.
func IsActiveStatus(status string) bool {
	switch status {
	case StatusCreator, StatusAdministrator, StatusMember, StatusRestricted:
		return true
	}
	return false
}

// Client checks channel membership against the Telegram Bot API
type Client interface {
	GetChatMemberStatus(ctx context.Context, telegramID int64) (string, error)
}

// BotClient is the real Bot API client
type BotClient struct {
	baseURL    string
	botToken   string
	chatID     string
	httpClient *http.Client
}

// MockClient is a mock client for development and tests
type MockClient struct{}

// NewClient creates a Bot API client, or the mock when MockAPI is set
func NewClient(cfg *config.Config) Client {
	if cfg.Telegram.MockAPI {
		return &MockClient{}
	}
	return &BotClient{
		baseURL:  cfg.Telegram.BaseURL,
		botToken: cfg.Telegram.BotToken,
		chatID:   cfg.Telegram.ChatID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetChatMemberStatus fetches the membership status of one Telegram user
func (c *BotClient) GetChatMemberStatus(ctx context.Context, telegramID int64) (string, error) {
	url := fmt.Sprintf("%s/bot%s/getChatMember?chat_id=%s&user_id=%d", c.baseURL, c.botToken, c.chatID, telegramID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		OK     bool `json:"ok"`
		Result struct {
			Status string `json:"status"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if !response.OK {
		return "", fmt.Errorf("bot API rejected getChatMember for user %d", telegramID)
	}

	return response.Result.Status, nil
}

// GetChatMemberStatus always reports an active member
func (c *MockClient) GetChatMemberStatus(ctx context.Context, telegramID int64) (string, error) {
	return StatusMember, nil
}
