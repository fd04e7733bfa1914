// Package notify delivers trade notifications via the Telegram Bot API.
//
// Message rendering is a pure data-to-text step separate from delivery, so
// the decision engine only supplies structured payloads. Delivery failures
// are the caller's to log; they must never block or reverse a transition.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Notifier sends a rendered message to the configured channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// TelegramNotifier delivers messages through the Telegram Bot API.
type TelegramNotifier struct {
	apiBase string
	token   string
	chatID  string
	client  *http.Client
}

var _ Notifier = (*TelegramNotifier)(nil)

// NewTelegramNotifier creates a Telegram notifier for the given bot token and
// chat.
func NewTelegramNotifier(token, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		apiBase: "https://api.telegram.org",
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts the message to the chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)

	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Description string `json:"description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("telegram API status %d: %s", resp.StatusCode, apiErr.Description)
	}
	return nil
}

// LogNotifier is used when notifications are disabled: messages are written
// to the log instead of being delivered.
type LogNotifier struct {
	Logger *logrus.Logger
}

var _ Notifier = (*LogNotifier)(nil)

// Send logs the message body.
func (l *LogNotifier) Send(_ context.Context, text string) error {
	l.Logger.WithField("notification", text).Debug("notifications disabled, message logged")
	return nil
}
