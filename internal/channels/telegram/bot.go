// Package telegram adapts Telegram updates to flow events and flow outputs
// to Telegram messages.
package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gsantin/spesebot/internal/flow"
)

// Telegram allows roughly 30 messages per second per bot.
const sendRate = rate.Limit(25)

// Config holds Telegram bot configuration.
type Config struct {
	Token string
}

// Bot runs the long-polling loop and bridges the transport to the flow
// engine.
type Bot struct {
	api     *tgbotapi.BotAPI
	engine  *flow.Engine
	logger  *zap.Logger
	limiter *rate.Limiter
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewBot creates a new Telegram bot.
func NewBot(cfg Config, engine *flow.Engine, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = false

	ctx, cancel := context.WithCancel(context.Background())

	logger.Info("authorized on telegram", zap.String("username", api.Self.UserName))

	return &Bot{
		api:     api,
		engine:  engine,
		logger:  logger,
		limiter: rate.NewLimiter(sendRate, 1),
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Start starts the polling loop.
func (b *Bot) Start() {
	b.wg.Add(1)
	go b.run()
}

// Stop stops the polling loop and waits for in-flight updates.
func (b *Bot) Stop() {
	b.cancel()
	b.wg.Wait()
}

func (b *Bot) run() {
	defer b.wg.Done()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-b.ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := b.handleUpdate(update); err != nil {
				b.logger.Error("failed to handle update", zap.Error(err))
			}
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) error {
	// External calls (extraction, sink) are bounded per update; a hung
	// collaborator stalls only this turn.
	ctx, cancel := context.WithTimeout(b.ctx, 120*time.Second)
	defer cancel()

	if update.CallbackQuery != nil {
		return b.handleCallback(ctx, update.CallbackQuery)
	}
	if update.Message != nil {
		return b.handleMessage(ctx, update.Message)
	}
	return nil
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	// Acknowledge the press so the client stops its spinner, even when the
	// engine ends up ignoring the token.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Warn("failed to answer callback", zap.Error(err))
	}

	if cb.Message == nil {
		return nil
	}

	outputs := b.engine.Handle(ctx, flow.ChoiceInput{User: cb.From.ID, Token: cb.Data})
	return b.deliver(cb.Message.Chat.ID, outputs)
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	var event flow.Event
	switch {
	case msg.IsCommand():
		event = flow.CommandInput{User: userID, Name: msg.Command()}

	case len(msg.Photo) > 0:
		// Largest size last; best quality for extraction.
		photo := msg.Photo[len(msg.Photo)-1]
		image, err := b.downloadPhoto(photo.FileID)
		if err != nil {
			b.logger.Error("failed to download photo", zap.Error(err))
			return b.deliver(chatID, []flow.Output{flow.Ack("Could not download the photo, please send it again.")})
		}
		event = flow.AttachmentInput{User: userID, Bytes: image}

	case msg.Text != "":
		event = flow.TextInput{User: userID, Text: msg.Text}

	default:
		return nil
	}

	return b.deliver(chatID, b.engine.Handle(ctx, event))
}

// deliver renders outputs as messages, with choice sets as inline keyboards.
func (b *Bot) deliver(chatID int64, outputs []flow.Output) error {
	for _, out := range outputs {
		msg := tgbotapi.NewMessage(chatID, out.Text)
		if len(out.Choices) > 0 {
			msg.ReplyMarkup = keyboard(out.Choices)
		}

		if err := b.limiter.Wait(b.ctx); err != nil {
			return err
		}
		if _, err := b.api.Send(msg); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}

func keyboard(choices []flow.Choice) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(choices))
	for _, c := range choices {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Label, c.Token),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// downloadPhoto fetches the photo bytes from Telegram's file API.
func (b *Bot) downloadPhoto(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	resp, err := http.Get(file.Link(b.api.Token))
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
