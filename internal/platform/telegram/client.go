package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"giveaway-bot-backend/internal/common/logger"
)

const defaultAPIURL = "https://api.telegram.org"

type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Username string `json:"username"`
}

// Response is the common Bot API reply envelope.
type Response struct {
	Ok          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
}

type Client struct {
	httpClient *http.Client
	token      string
	apiURL     string
}

func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		token:  token,
		apiURL: defaultAPIURL,
	}
}

// NewClientWithURL points the client at an alternative API host.
func NewClientWithURL(token, apiURL string) *Client {
	c := NewClient(token)
	c.apiURL = strings.TrimSuffix(apiURL, "/")
	return c
}

func (c *Client) GetChat(ctx context.Context, chatID int64) (*Chat, error) {
	endpoint := fmt.Sprintf("%s/bot%s/getChat", c.apiURL, c.token)
	params := url.Values{
		"chat_id": {fmt.Sprintf("%d", chatID)},
	}

	var response Response
	if err := c.makeRequest(ctx, "GET", endpoint, params, &response); err != nil {
		logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to get chat info")
		return nil, fmt.Errorf("failed to get chat info: %w", err)
	}
	if !response.Ok {
		return nil, fmt.Errorf("telegram API error: %s", response.Description)
	}

	var chat Chat
	if err := json.Unmarshal(response.Result, &chat); err != nil {
		return nil, fmt.Errorf("failed to parse chat info: %w", err)
	}
	return &chat, nil
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, c.token)
	params := url.Values{
		"chat_id": {fmt.Sprintf("%d", chatID)},
		"text":    {text},
	}

	var response Response
	if err := c.makeRequest(ctx, "POST", endpoint, params, &response); err != nil {
		logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
		return err
	}
	if !response.Ok {
		return fmt.Errorf("telegram API error: %s", response.Description)
	}

	logger.Debug().Int64("chat_id", chatID).Msg("Message sent")
	return nil
}

func (c *Client) makeRequest(ctx context.Context, method, endpoint string, data url.Values, result interface{}) error {
	var req *http.Request
	var err error

	if method == "POST" {
		req, err = http.NewRequestWithContext(ctx, method, endpoint, strings.NewReader(data.Encode()))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		if len(data) > 0 {
			endpoint = fmt.Sprintf("%s?%s", endpoint, data.Encode())
		}
		req, err = http.NewRequestWithContext(ctx, method, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
