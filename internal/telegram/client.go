package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Config struct {
	BotToken string `yaml:"botToken"`
	Debug    bool   `yaml:"debug"`

	TaskChannelID         int64 `yaml:"taskChannelId"`
	ShopChannelID         int64 `yaml:"shopChannelId"`
	UseItemsChannelID     int64 `yaml:"useItemsChannelId"`
	ChatChannelID         int64 `yaml:"chatChannelId"`
	AnnouncementChannelID int64 `yaml:"announcementChannelId"`
}

// Client wraps the bot API plus the channel topology every adapter
// needs.
type Client struct {
	bot *tgbotapi.BotAPI
	cfg Config
}

func NewClient(cfg Config) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}
	bot.Debug = cfg.Debug

	return &Client{
		bot: bot,
		cfg: cfg,
	}, nil
}

func (c *Client) Bot() *tgbotapi.BotAPI {
	return c.bot
}
