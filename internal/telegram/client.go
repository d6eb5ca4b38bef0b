// Package telegram Bot API üzerinden kullanıcılara mesaj gönderir.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stickerart/art-ledger/internal/interfaces"
)

// DefaultAPIURL Bot API adresi
const DefaultAPIURL = "https://api.telegram.org"

// Client sendMessage çağrısı yapan Notifier
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ interfaces.Notifier = (*Client)(nil)

// NewClient yeni client. apiURL boşsa DefaultAPIURL kullanılır.
func NewClient(token, apiURL string, timeout time.Duration) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN boş olamaz")
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(apiURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// APIError Bot API'nin ok=false cevabı
type APIError struct {
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram API hatası %d: %s", e.Code, e.Description)
}

// SendMessage kullanıcıya düz metin mesaj gönderir. Özel sohbetlerde chat id, user id'dir.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	payload, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("mesaj encode edilemedi: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("istek oluşturulamadı: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// URL token içerdiği için hata mesajı loglanmaz
		return fmt.Errorf("telegram API'ye ulaşılamadı")
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("telegram cevabı okunamadı (status %d): %w", resp.StatusCode, err)
	}
	if !body.OK {
		code := body.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return &APIError{Code: code, Description: body.Description}
	}

	log.Debug().Int64("chat_id", chatID).Msg("📨 Telegram mesajı gönderildi")
	return nil
}
