package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-telegram/bot"
	"golang.org/x/time/rate"

	"emergency-alert-service/internal/logging"
	"emergency-alert-service/internal/utils"
)

// TelegramNotifier sends alert messages to Telegram chats, rate limited to
// stay under the Bot API message quota.
type TelegramNotifier struct {
	bot     *bot.Bot
	limiter *rate.Limiter
	logger  *logging.Logger
}

func NewTelegramNotifier(botToken string, ratePerSecond int, logger *logging.Logger) (*TelegramNotifier, error) {
	b, err := bot.New(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	return &TelegramNotifier{
		bot:     b,
		limiter: rate.NewLimiter(rate.Limit(float64(ratePerSecond)), ratePerSecond),
		logger:  logger,
	}, nil
}

func (t *TelegramNotifier) Send(ctx context.Context, chatID, message string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid Telegram chat id %q: %w", chatID, err)
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram rate limit exceeded: %w", err)
	}

	return utils.Retry(t.logger, 3, time.Second, func() error {
		params := &bot.SendMessageParams{
			ChatID: id,
			Text:   message,
		}
		if _, err := t.bot.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("failed to send Telegram message to chat_id %d: %w", id, err)
		}
		return nil
	})
}
