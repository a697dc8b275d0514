package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Telegram sends lifecycle notices to the studio's chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegram connects the bot. Token validation happens here so a bad
// token fails at startup, not on the first publish.
func NewTelegram(token string, chatID int64, logger *zap.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %w", err)
	}
	return &Telegram{
		bot:    bot,
		chatID: chatID,
		logger: logger.With(zap.String("notifier", "telegram")),
	}, nil
}

func (t *Telegram) ContractPublished(ctx context.Context, contractID uuid.UUID, version int64) {
	t.send(ctx, fmt.Sprintf("📄 Contrato %s publicado (versión %d)", contractID, version))
}

func (t *Telegram) ContractSigned(ctx context.Context, contractID uuid.UUID, version int64) {
	t.send(ctx, fmt.Sprintf("✅ Contrato %s firmado (versión %d)", contractID, version))
}

func (t *Telegram) CancellationRequested(ctx context.Context, contractID uuid.UUID, version int64, origin CancellationOrigin) {
	t.send(ctx, fmt.Sprintf("⚠️ Cancelación del contrato %s solicitada por %s (versión %d)", contractID, origin, version))
}

func (t *Telegram) ContractCancelled(ctx context.Context, contractID uuid.UUID, version int64) {
	t.send(ctx, fmt.Sprintf("❌ Contrato %s cancelado (versión %d)", contractID, version))
}

func (t *Telegram) send(ctx context.Context, text string) {
	select {
	case <-ctx.Done():
		return
	default:
	}
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		t.logger.Warn("notification delivery failed", zap.Error(err))
	}
}
