package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/botzwala/terasaver/internal/gate"
	"github.com/botzwala/terasaver/internal/resolver"
	"github.com/botzwala/terasaver/internal/store"
)

func userIDOf(msg *tgbotapi.Message) string {
	return strconv.FormatInt(msg.From.ID, 10)
}

// handleStart covers both the plain welcome flow and token redemption. A
// valid token is honored before the subscription gate, matching the original
// flow: verification succeeds even mid-unsubscription.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	userID := userIDOf(msg)

	if args := strings.Fields(msg.Text); len(args) > 1 {
		if b.gate.RedeemToken(ctx, userID, args[1]) {
			b.sendText(msg.Chat.ID, msgVerified)
			return
		}
	}

	if !b.gate.Subscribed(ctx, userID) {
		b.subscribePrompt(msg.Chat.ID, msgSubscribeStart)
		return
	}

	// First contact: make sure a record exists. Unverified records are
	// replaced whole, like the original did.
	rec, ok := b.store.Get(ctx, userID)
	if !ok || rec.VerifyTime == nil {
		b.store.Upsert(ctx, userID, func(r *store.UserRecord) {
			*r = store.UserRecord{}
		})
	}

	b.sendText(msg.Chat.ID, fmt.Sprintf(msgWelcomeFmt, b.opts.Channel))
}

// handleLink runs a qualifying link through the access gate and, on pass,
// the relay flow.
func (b *Bot) handleLink(ctx context.Context, msg *tgbotapi.Message) {
	userID := userIDOf(msg)

	switch b.gate.Check(ctx, userID) {
	case gate.NeedSubscription:
		b.subscribePrompt(msg.Chat.ID, msgSubscribeLink)
	case gate.NeedVerification:
		b.sendVerificationPrompt(ctx, msg, userID)
	case gate.Allow:
		b.processLink(ctx, msg, userID)
	}
}

// sendVerificationPrompt mints a fresh token, wraps it in a bot deep link,
// shortens it, and presents the verify button.
func (b *Bot) sendVerificationPrompt(ctx context.Context, msg *tgbotapi.Message, userID string) {
	token := b.gate.MintToken(userID)
	longURL := "https://telegram.me/" + b.opts.Username + "?start=" + token
	shortURL := b.shortener.Shorten(ctx, longURL)

	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(btnVerify, shortURL)),
	}
	if b.opts.TutorialURL != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(btnTutorial, b.opts.TutorialURL),
		))
	}

	prompt := tgbotapi.NewMessage(msg.Chat.ID, msgTokenExpired)
	prompt.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(prompt)
}

// processLink is the relay flow: resolve, download, upload, clean up. A
// single placeholder message tracks progress and carries the generic failure
// notice on any error.
func (b *Bot) processLink(ctx context.Context, msg *tgbotapi.Message, userID string) {
	link, _ := resolver.Recognize(msg.Text)

	if ok, wait := b.gate.ReserveDownload(userID); !ok {
		b.sendText(msg.Chat.ID, fmt.Sprintf(msgCooldownFmt, int(wait.Seconds())+1))
		return
	}

	progress, err := b.send(tgbotapi.NewMessage(msg.Chat.ID, msgRequesting))
	if err != nil {
		return
	}

	videoURL, err := b.resolver.Resolve(ctx, link)
	if err != nil {
		b.logger.Warn("resolve failed", slog.String("link", link), slog.Any("error", err))
		b.editText(msg.Chat.ID, progress.MessageID, msgFailed)
		return
	}

	b.editText(msg.Chat.ID, progress.MessageID, msgDownloading)
	localPath, err := b.relay.Fetch(ctx, videoURL)
	if err != nil {
		b.logger.Warn("download failed", slog.Any("error", err))
		b.editText(msg.Chat.ID, progress.MessageID, msgFailed)
		return
	}

	b.editText(msg.Chat.ID, progress.MessageID, msgUploading)
	video := tgbotapi.NewVideo(msg.Chat.ID, tgbotapi.FilePath(localPath))
	video.Caption = fmt.Sprintf(msgCaptionFmt, b.opts.Channel)
	if _, err := b.api.Send(video); err != nil {
		b.logger.Warn("upload failed", slog.Any("error", err))
		b.relay.Discard(localPath)
		b.editText(msg.Chat.ID, progress.MessageID, msgFailed)
		return
	}

	b.relay.Discard(localPath)
	b.deleteMessage(msg.Chat.ID, progress.MessageID)

	b.store.Upsert(ctx, userID, func(r *store.UserRecord) {
		r.ProcessedLinks++
	})
}
