// Package telegram connects the dialog controller to the Telegram Bot API
// through long polling.
package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sorare-price-bot/server/internal/bot/model"
	logx "github.com/sorare-price-bot/server/pkg/logger"
)

// ErrUpdatesClosed is returned by Run when Telegram stops delivering updates
// before the context is cancelled.
var ErrUpdatesClosed = errors.New("telegram: updates channel closed")

// API is the subset of *tgbotapi.BotAPI the bot uses.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Handler answers one inbound message.
type Handler interface {
	Handle(ctx context.Context, in model.Inbound) model.Reply
}

type Bot struct {
	api         API
	handler     Handler
	pollTimeout int
}

// NewAPI authenticates against Telegram with the bot token.
func NewAPI(cfg Config) (*tgbotapi.BotAPI, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram: token must not be empty")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	api.Debug = cfg.Debug
	logx.Info().Str("username", api.Self.UserName).Msg("authorized on telegram")
	return api, nil
}

func NewBot(api API, handler Handler, pollTimeout int) (*Bot, error) {
	if api == nil || handler == nil {
		return nil, errors.New("telegram: api and handler are required")
	}
	return &Bot{api: api, handler: handler, pollTimeout: pollTimeout}, nil
}

// Run polls updates until ctx is cancelled, then waits for in-flight
// replies before returning.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(u)

	d := newDispatcher(b.respond)
	defer d.wait()

	logx.Info().Int("poll_timeout", b.pollTimeout).Msg("telegram polling started")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			logx.Info().Msg("telegram polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				logx.Error().Msg("telegram updates channel closed")
				return ErrUpdatesClosed
			}
			in, ok := toInbound(update)
			if !ok {
				continue
			}
			d.dispatch(ctx, in)
		}
	}
}

func (b *Bot) respond(ctx context.Context, in model.Inbound) {
	reply := b.handler.Handle(ctx, in)
	if reply.Text == "" {
		return
	}
	if _, err := b.api.Send(toMessage(in.ChatID, reply)); err != nil {
		logx.Error().Err(err).Int64("chat_id", in.ChatID).Str("session", in.SessionID).Msg("failed to send reply")
	}
}

// toInbound keeps text messages only; edits, callbacks and media are ignored.
func toInbound(update tgbotapi.Update) (model.Inbound, bool) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return model.Inbound{}, false
	}

	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
	}
	in := model.Inbound{
		SessionID: model.SessionKey(msg.Chat.ID, userID),
		ChatID:    msg.Chat.ID,
		Text:      msg.Text,
	}
	if msg.IsCommand() {
		in.Command = msg.Command()
	}
	return in, true
}

func toMessage(chatID int64, reply model.Reply) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	switch {
	case len(reply.Options) > 0:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(reply.Options))
		for _, opt := range reply.Options {
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(opt)))
		}
		keyboard := tgbotapi.NewReplyKeyboard(rows...)
		keyboard.OneTimeKeyboard = true
		keyboard.ResizeKeyboard = true
		msg.ReplyMarkup = keyboard
	case reply.RemoveOptions:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	}
	return msg
}
