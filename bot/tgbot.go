package bot

import (
	"SmartBus/internal/lib/sl"
	"fmt"
	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"log/slog"
	"strings"
	"time"
)

// TgBot sends presence notifications to parents. A parent links the chat
// by saving the id the bot answers to /start as telegramId on the account.
type TgBot struct {
	log         *slog.Logger
	api         *tgbotapi.Bot
	botUsername string
}

func NewTgBot(botName, apiKey string, log *slog.Logger) (*TgBot, error) {
	tgBot := &TgBot{
		log:         log.With(sl.Module("tgbot")),
		botUsername: botName,
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	tgBot.api = api

	return tgBot, nil
}

// Start polls for updates and blocks until the updater stops.
func (t *TgBot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			t.log.Error("handling update", sl.Err(err))
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	dispatcher.AddHandler(handlers.NewCommand("start", t.handleStart))

	updater := ext.NewUpdater(dispatcher, nil)
	err := updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("start polling: %w", err)
	}
	t.log.Info("bot started", slog.String("username", t.botUsername))

	updater.Idle()
	return nil
}

func (t *TgBot) handleStart(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveChat.Id
	return t.Notify(chatId, startText(chatId))
}

func startText(chatId int64) string {
	return fmt.Sprintf("Hello! Save %d as telegramId in your SmartBus profile to receive bus notifications.", chatId)
}

// Notify sends text as MarkdownV2 and retries as plain text when Telegram
// rejects the markup.
func (t *TgBot) Notify(chatId int64, text string) error {
	sanitized := sanitize(text)
	if sanitized == "" {
		t.log.With(slog.Int64("id", chatId)).Debug("empty message")
		return nil
	}

	_, err := t.api.SendMessage(chatId, sanitized, &tgbotapi.SendMessageOpts{
		ParseMode: "MarkdownV2",
	})
	if err == nil {
		return nil
	}
	t.log.With(slog.Int64("id", chatId)).Warn("sending message", sl.Err(err))

	_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{})
	if err != nil {
		return fmt.Errorf("sending plain message: %w", err)
	}
	return nil
}

// sanitize escapes the characters MarkdownV2 reserves.
func sanitize(input string) string {
	const reservedChars = "\\`_*{}#+-=.!|()[]<>~"

	var b strings.Builder
	for _, char := range input {
		if strings.ContainsRune(reservedChars, char) {
			b.WriteRune('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
