package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	if !b.console.Authorized(userIDOf(msg)) {
		b.sendText(msg.Chat.ID, msgDenyStats)
		return
	}
	stats := b.console.Stats(ctx)
	b.sendText(msg.Chat.ID, fmt.Sprintf(msgStatsFmt, stats.TotalUsers, stats.VerifiedUsers, stats.ProcessedLinks))
}

func (b *Bot) handleBroadcast(ctx context.Context, msg *tgbotapi.Message) {
	if !b.console.Authorized(userIDOf(msg)) {
		b.sendText(msg.Chat.ID, msgDenyBroadcast)
		return
	}
	text := strings.TrimSpace(msg.CommandArguments())
	if text == "" {
		return
	}
	b.console.Broadcast(ctx, text, func(userID, text string) error {
		chatID, err := strconv.ParseInt(userID, 10, 64)
		if err != nil {
			return fmt.Errorf("parse user id: %w", err)
		}
		_, err = b.api.Send(tgbotapi.NewMessage(chatID, text))
		return err
	})
}

func (b *Bot) handleAPI(ctx context.Context, msg *tgbotapi.Message) {
	if !b.console.Authorized(userIDOf(msg)) {
		b.sendText(msg.Chat.ID, msgDenyAPI)
		return
	}
	b.sendText(msg.Chat.ID, fmt.Sprintf(msgAPIFmt, b.console.CurrentAPI(ctx)))
}

func (b *Bot) handleChange(ctx context.Context, msg *tgbotapi.Message) {
	if !b.console.Authorized(userIDOf(msg)) {
		b.sendText(msg.Chat.ID, msgDenyChange)
		return
	}
	b.sendText(msg.Chat.ID, fmt.Sprintf(msgChangedFmt, b.console.RotateAPI(ctx)))
}

func (b *Bot) handleReset(ctx context.Context, msg *tgbotapi.Message) {
	if !b.console.Authorized(userIDOf(msg)) {
		b.sendText(msg.Chat.ID, msgDenyReset)
		return
	}
	b.console.ResetVerifications(ctx)
	b.sendText(msg.Chat.ID, msgResetDone)
}
