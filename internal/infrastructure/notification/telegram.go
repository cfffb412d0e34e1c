package notification

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/notification"
)

// TelegramNotifier sends cleanup summaries to a Telegram chat.
type TelegramNotifier struct {
	botToken string
	chatID   string
	client   *http.Client
	logger   *zap.Logger
}

var _ notification.Notifier = (*TelegramNotifier)(nil)

func NewTelegramNotifier(botToken, chatID string, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

func (n *TelegramNotifier) SendNotification(message string) error {
	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.botToken)

	resp, err := n.client.PostForm(endpoint, url.Values{
		"chat_id":    {n.chatID},
		"text":       {message},
		"parse_mode": {"HTML"},
	})
	if err != nil {
		n.logger.Error("Failed to send Telegram notification", zap.Error(err))
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		n.logger.Error("Telegram API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("response", body))
		return fmt.Errorf("telegram API error: status %d", resp.StatusCode)
	}

	n.logger.Debug("Telegram notification sent successfully")
	return nil
}
