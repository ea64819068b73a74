// Package bot runs the Telegram query surface: users send a card id, the
// bot replies with the card image and the estimated value.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ovoronin/cardvault/internal/query"
)

// Bot polls Telegram for messages and answers card queries.
type Bot struct {
	api    *tgbotapi.BotAPI
	svc    *query.Service
	logger *slog.Logger
}

// New authenticates against the Telegram Bot API. A nil logger falls
// back to slog.Default.
func New(token string, svc *query.Service, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authenticating bot: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{api: api, svc: svc, logger: logger}, nil
}

// Run long-polls for updates until ctx is cancelled. Per-query failures
// are logged and answered; they never stop the loop.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("bot started", "username", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(update.Message)
		}
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.From == nil {
		b.logger.Warn("message without sender, ignoring")
		return
	}

	b.logger.Info("message received",
		"user_id", msg.From.ID, "username", msg.From.UserName, "text", msg.Text)

	if msg.IsCommand() {
		if msg.Command() == "start" {
			b.sendGreeting(msg.Chat.ID)
		}
		return
	}

	id, err := query.ParseID(msg.Text)
	if err != nil {
		b.sendText(msg.Chat.ID, "Please send a card id as a number.")
		return
	}

	answer, err := b.svc.Lookup(id)
	switch {
	case errors.Is(err, query.ErrInvalidID):
		b.sendText(msg.Chat.ID, "Please send a card id as a number.")
		return
	case err != nil:
		// Anything that stopped the lookup reads as "not here" to the
		// user; the log keeps the distinction.
		b.logger.Error("card lookup failed", "card_id", id, "error", err)
		b.sendText(msg.Chat.ID, b.svc.NotFoundMessage(id))
		return
	}

	photo := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileURL(answer.Card.ImageURL))
	photo.Caption = b.svc.Caption(answer)
	photo.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(photo); err != nil {
		b.logger.Error("sending photo failed", "card_id", id, "error", err)
		b.sendText(msg.Chat.ID, b.svc.Caption(answer))
	}
}

func (b *Bot) sendGreeting(chatID int64) {
	max, err := b.svc.MaxCardID()
	if err != nil {
		b.logger.Error("reading max card id failed", "error", err)
		b.sendText(chatID, "Hi! Send a card id and I'll look it up.")
		return
	}
	b.sendText(chatID, fmt.Sprintf(
		"Hi! The database holds cards up to id %d. Send a card id and get its details!", max))
}

func (b *Bot) sendText(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("sending message failed", "error", err)
	}
}
