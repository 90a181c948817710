package bot

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// API is the slice of the Telegram Bot API the bot uses. *tgbotapi.BotAPI
// satisfies it; tests substitute a recorder.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// ChannelChecker answers membership checks against the required channel.
type ChannelChecker struct {
	api     API
	channel string
}

// NewChannelChecker creates a checker for channel (e.g. "@BotzWala").
func NewChannelChecker(api API, channel string) *ChannelChecker {
	return &ChannelChecker{api: api, channel: channel}
}

// IsMember reports whether userID is subscribed to the channel. Only the
// member, administrator, and creator statuses count.
func (c *ChannelChecker) IsMember(ctx context.Context, userID string) (bool, error) {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse user id: %w", err)
	}
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: c.channel,
			UserID:             id,
		},
	})
	if err != nil {
		return false, err
	}
	switch member.Status {
	case "member", "administrator", "creator":
		return true, nil
	default:
		return false, nil
	}
}
