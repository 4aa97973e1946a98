package telegram

import (
	"context"
	"fmt"

	"shardbot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// SetLocked toggles the chat channel's default send permission. Unlike
// the notifier this propagates failures: the caller decides whether
// its own bookkeeping may flip.
func (c *Client) SetLocked(_ context.Context, locked bool) error {
	cfg := tgbotapi.SetChatPermissionsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: c.cfg.ChatChannelID},
		Permissions: &tgbotapi.ChatPermissions{
			CanSendMessages: !locked,
		},
	}

	if _, err := c.bot.Request(cfg); err != nil {
		return fmt.Errorf("failed to set chat permissions: %w", err)
	}

	logger.Logger().Info("chat channel permissions updated", zap.Bool("locked", locked))
	return nil
}
