package bot

import (
	"log/slog"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestHandleMessageWithoutSender(t *testing.T) {
	// Updates without a sender are dropped before any lookup or API
	// call; a Bot with no API client must survive them.
	b := &Bot{logger: slog.New(slog.DiscardHandler)}

	b.handleMessage(&tgbotapi.Message{Text: "42"})
}
