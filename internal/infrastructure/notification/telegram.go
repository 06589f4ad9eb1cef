package notification

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-artifact-cleanup/internal/domain/notification"

	"go.uber.org/zap"
)

const defaultTelegramAPI = "https://api.telegram.org"

type TelegramNotifier struct {
	botToken string
	chatID   string
	apiURL   string
	client   *http.Client
	logger   *zap.Logger
}

// Verify that TelegramNotifier implements Notifier interface
var _ notification.Notifier = (*TelegramNotifier)(nil)

func NewTelegramNotifier(botToken, chatID string, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		apiURL:   defaultTelegramAPI,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

func (n *TelegramNotifier) SendNotification(ctx context.Context, message string) error {
	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", n.apiURL, n.botToken)
	form := url.Values{
		"chat_id": {n.chatID},
		"text":    {message},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned non-OK status: %d", resp.StatusCode)
	}

	n.logger.Info("Successfully sent telegram notification",
		zap.String("chat_id", n.chatID))

	return nil
}

// NoopNotifier is used when no notification channel is configured.
type NoopNotifier struct{}

var _ notification.Notifier = NoopNotifier{}

func (NoopNotifier) SendNotification(context.Context, string) error { return nil }

// NewNotifier returns a TelegramNotifier when both credentials are set, a NoopNotifier otherwise.
func NewNotifier(botToken, chatID string, logger *zap.Logger) notification.Notifier {
	if botToken == "" || chatID == "" {
		logger.Info("Telegram notification disabled")
		return NoopNotifier{}
	}
	return NewTelegramNotifier(botToken, chatID, logger)
}
