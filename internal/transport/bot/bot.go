package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg_garant/internal/transport/bot/handler"
	"tg_garant/pkg/contextx"
	"tg_garant/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Bot представляет собой Telegram-бота
type Bot struct {
	bot        *telego.Bot
	botHandler *th.BotHandler

	handler *handler.Handler
}

// New подключает обработчики к уже созданному клиенту Telegram.
func New(tgBot *telego.Bot, commandHandler *handler.Handler) (*Bot, error) {
	// Получаем обновления через long polling
	updates, err := tgBot.UpdatesViaLongPolling(context.Background(), &telego.GetUpdatesParams{
		Timeout: 60,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", err)
	}

	botHandler, err := th.NewBotHandler(tgBot, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot handler: %w", err)
	}

	commandHandler.RegisterRoutes(botHandler)

	return &Bot{
		bot:        tgBot,
		botHandler: botHandler,
		handler:    commandHandler,
	}, nil
}

// Run запускает обработку обновлений до отмены контекста.
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		if err := b.botHandler.Start(); err != nil {
			logger(ctx).Error("bot handler start", logx.Error(err))
		}
	}()

	logger(ctx).Info("telegram bot started")

	<-ctx.Done()

	if err := b.botHandler.Stop(); err != nil {
		logger(ctx).Error("bot handler stop", logx.Error(err))
	}

	logger(ctx).Info("telegram bot stopped")

	return ctx.Err()
}
