package telegram

import (
	"context"
	"fmt"

	"shardbot/internal/model"
	"shardbot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notify sends a direct message. Best-effort: users who never opened a
// private chat with the bot are unreachable, so failures are logged
// and swallowed.
func (c *Client) Notify(_ context.Context, userID int64, text string) {
	msg := tgbotapi.NewMessage(userID, text)
	if _, err := c.bot.Send(msg); err != nil {
		logger.Logger().Warn("could not send direct message",
			zap.Int64("user_id", userID), zap.Error(err))
	}
}

// AnnouncePassUse broadcasts a pass usage to the announcement channel.
func (c *Client) AnnouncePassUse(_ context.Context, userID int64, pass model.Item, channelUnlocked bool) {
	var text string
	if channelUnlocked {
		text = fmt.Sprintf("📢 %s has used 1 %s! The chat channel is now UNLOCKED!",
			mention(userID), pass.Display())
	} else {
		text = fmt.Sprintf("🎉 %s has used 1 %s! GG!", mention(userID), pass.Display())
	}

	msg := tgbotapi.NewMessage(c.cfg.AnnouncementChannelID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := c.bot.Send(msg); err != nil {
		logger.Logger().Warn("could not send announcement", zap.Error(err))
	}
}

func mention(userID int64) string {
	return fmt.Sprintf("[user](tg://user?id=%d)", userID)
}
