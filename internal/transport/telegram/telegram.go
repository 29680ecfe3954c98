// Package telegram adapts the Telegram Bot API to the dispatcher boundary:
// it classifies inbound updates as commands or raw text and delivers outbound
// text by chat id.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Dispatcher consumes classified inbound events.
type Dispatcher interface {
	HandleCommand(ctx context.Context, chatID int64, command string)
	HandleMessage(ctx context.Context, chatID int64, text string)
}

// Bot is a long-polling Telegram transport.
type Bot struct {
	api    *tgbotapi.BotAPI
	logger *slog.Logger
}

// New authenticates against the Telegram Bot API.
func New(token string, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &Bot{api: api, logger: logger}, nil
}

// SendMessage implements the dispatcher's Sender.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// Run polls for updates until ctx is cancelled. Updates for the same chat are
// handled in arrival order through a per-chat queue; different chats proceed
// concurrently. The conversation store's per-key lock gives exclusion, not
// ordering, so the queue is what keeps a user's answers landing on the steps
// they were typed for.
func (b *Bot) Run(ctx context.Context, d Dispatcher) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	b.logger.Info("telegram bot started with polling", "username", b.api.Self.UserName)

	queue := newDispatchQueue()
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			msg := update.Message
			if msg == nil || msg.Text == "" {
				continue
			}
			queue.Enqueue(msg.Chat.ID, func() { b.handle(ctx, d, msg) })
		}
	}
}

func (b *Bot) handle(ctx context.Context, d Dispatcher, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		d.HandleCommand(ctx, msg.Chat.ID, msg.Command())
		return
	}
	d.HandleMessage(ctx, msg.Chat.ID, msg.Text)
}
