// Package bot wires the Telegram transport to the access gate, resolver,
// relay, and admin console.
package bot

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/botzwala/terasaver/internal/admin"
	"github.com/botzwala/terasaver/internal/gate"
	"github.com/botzwala/terasaver/internal/relay"
	"github.com/botzwala/terasaver/internal/resolver"
	"github.com/botzwala/terasaver/internal/shortener"
	"github.com/botzwala/terasaver/internal/store"
)

// Options carries the per-deployment parameters.
type Options struct {
	// Username is the bot's own username, used in verification deep links.
	Username string
	// Channel is the required channel, with leading @.
	Channel string
	// TutorialURL backs the "How to verify" button.
	TutorialURL string
}

// Bot dispatches incoming updates through a fixed route table.
type Bot struct {
	api       API
	opts      Options
	store     *store.Service
	gate      *gate.Service
	resolver  *resolver.Client
	shortener *shortener.Client
	relay     *relay.Service
	console   *admin.Service
	logger    *slog.Logger
	routes    []route
}

// route pairs a message predicate with its handler. Routes are evaluated in
// registration order; the first match wins.
type route struct {
	name   string
	match  func(msg *tgbotapi.Message) bool
	handle func(ctx context.Context, msg *tgbotapi.Message)
}

// New creates the bot and registers its routes.
func New(log *slog.Logger, api API, opts Options, st *store.Service, g *gate.Service,
	res *resolver.Client, short *shortener.Client, rel *relay.Service, console *admin.Service,
) *Bot {
	if log == nil {
		log = slog.Default()
	}
	b := &Bot{
		api:       api,
		opts:      opts,
		store:     st,
		gate:      g,
		resolver:  res,
		shortener: short,
		relay:     rel,
		console:   console,
		logger:    log.With(slog.String("service", "bot")),
	}
	b.routes = []route{
		{name: "start", match: commandIs("start"), handle: b.handleStart},
		{name: "terabox_link", match: hasTeraboxLink, handle: b.handleLink},
		{name: "stats", match: commandIs("ronok"), handle: b.handleStats},
		{name: "broadcast", match: commandIs("broad"), handle: b.handleBroadcast},
		{name: "api", match: commandIs("api"), handle: b.handleAPI},
		{name: "change", match: commandIs("change"), handle: b.handleChange},
		{name: "reset", match: commandIs("reset"), handle: b.handleReset},
	}
	return b
}

// Run consumes updates until ctx is done. Every matched message is handled
// in its own goroutine, so a slow download never blocks other users.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	b.logger.Info("bot started",
		slog.String("channel", b.opts.Channel),
		slog.String("username", b.opts.Username),
	)
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				b.logger.Info("updates channel closed")
				return
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			msg := update.Message
			go b.Dispatch(ctx, msg)
		}
	}
}

// Dispatch routes one message through the registration-ordered table.
// Messages matching no route are ignored.
func (b *Bot) Dispatch(ctx context.Context, msg *tgbotapi.Message) {
	for _, r := range b.routes {
		if r.match(msg) {
			b.logger.Debug("dispatch",
				slog.String("route", r.name),
				slog.Int64("user_id", msg.From.ID),
			)
			r.handle(ctx, msg)
			return
		}
	}
}

func commandIs(name string) func(*tgbotapi.Message) bool {
	return func(msg *tgbotapi.Message) bool {
		return msg.IsCommand() && msg.Command() == name
	}
}

func hasTeraboxLink(msg *tgbotapi.Message) bool {
	_, ok := resolver.Recognize(msg.Text)
	return ok
}

// send delivers a message, logging transport failures without surfacing
// them; no handler dies on a failed send.
func (b *Bot) send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	sent, err := b.api.Send(c)
	if err != nil {
		b.logger.Warn("send failed", slog.Any("error", err))
	}
	return sent, err
}

func (b *Bot) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) editText(chatID int64, messageID int, text string) {
	b.send(tgbotapi.NewEditMessageText(chatID, messageID, text))
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.logger.Warn("delete message failed", slog.Any("error", err))
	}
}

func (b *Bot) channelLink() string {
	return "https://t.me/" + strings.TrimPrefix(b.opts.Channel, "@")
}

func (b *Bot) subscribePrompt(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(btnSubscribe, b.channelLink()),
		),
	)
	b.send(msg)
}
