package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shardbot/internal/model"
	"shardbot/internal/service"
	"shardbot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Bot consumes the update stream and routes commands and inline
// button presses into the service layer.
type Bot struct {
	client    *Client
	svc       *service.Service
	presenter *Presenter
	admins    map[int64]struct{}
}

func NewBot(client *Client, svc *service.Service, presenter *Presenter, adminIDs []int64) *Bot {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Bot{
		client:    client,
		svc:       svc,
		presenter: presenter,
		admins:    admins,
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	_, ok := b.admins[userID]
	return ok
}

// Run blocks on the update channel until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.client.bot.GetUpdatesChan(updateConfig)

	logger.Logger().Info("telegram bot update loop started")
	for {
		select {
		case <-ctx.Done():
			b.client.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	log := logger.Logger()
	log.Debug("command received",
		zap.Int64("user_id", userID), zap.String("command", msg.Command()))

	switch msg.Command() {
	case "start", "help":
		b.reply(msg, helpText(b.isAdmin(userID)))
	case "todo":
		b.reply(msg, renderTodo(b.svc.Todo(ctx, userID)))
	case "myitems":
		b.reply(msg, renderInventory(b.svc.Counts(userID)))
	case "shop":
		b.sendPersonalShop(userID)
	case "resetdaily":
		if !b.requireAdmin(msg) {
			return
		}
		if err := b.svc.ManualReset(ctx); err != nil {
			log.Error("manual reset failed", zap.Error(err))
			b.reply(msg, "Daily state was reset, but publishing the new boards failed. Check the logs.")
			return
		}
		b.reply(msg, "Daily tasks and boards have been reset. No penalties were applied.")
	case "resetall":
		if !b.requireAdmin(msg) {
			return
		}
		b.svc.WipeAll(ctx)
		b.reply(msg, "All user data has been wiped and the chat channel locked.")
	case "adjustitem":
		if !b.requireAdmin(msg) {
			return
		}
		b.reply(msg, b.adjustItem(ctx, msg.CommandArguments()))
	}
}

func (b *Bot) requireAdmin(msg *tgbotapi.Message) bool {
	if b.isAdmin(msg.From.ID) {
		return true
	}
	b.reply(msg, "You do not have permission to use this command.")
	return false
}

// adjustItem parses "<give|take|set> <user_id> <item> <amount>" and
// applies it, returning the reply text.
func (b *Bot) adjustItem(ctx context.Context, args string) string {
	fields := strings.Fields(args)
	if len(fields) != 4 {
		return "Usage: /adjustitem <give|take|set> <user_id> <item> <amount>"
	}

	targetID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return "Invalid user id: " + fields[1]
	}
	item, err := model.ParseItem(fields[2])
	if err != nil {
		return "Unknown item: " + fields[2]
	}
	amount, err := strconv.Atoi(fields[3])
	if err != nil || amount < 0 {
		return "Invalid amount: " + fields[3]
	}

	switch fields[0] {
	case "give":
		err = b.svc.Give(ctx, targetID, item, amount)
	case "take":
		err = b.svc.Take(ctx, targetID, item, amount)
	case "set":
		err = b.svc.SetCount(ctx, targetID, item, amount)
	default:
		return "Unknown action: " + fields[0]
	}
	if errors.Is(err, service.ErrInsufficientItems) {
		return fmt.Sprintf("User %d does not hold %d %s.", targetID, amount, item.Display())
	}
	if err != nil {
		return "Adjustment failed: " + err.Error()
	}
	return fmt.Sprintf("Done. User %d now holds %s.",
		targetID, item.DisplayWithQuantity(b.svc.Count(targetID, item)))
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	action, payload, _ := strings.Cut(query.Data, ":")

	switch action {
	case "task":
		b.handleTaskCallback(ctx, query, payload)
	case "shop":
		b.sendPersonalShop(userID)
		b.answer(query, "Check your private chat with me!")
	case "trade":
		b.handleTradeCallback(ctx, query, payload)
	case "use":
		b.handleUseRequest(ctx, query, payload)
	case "confirmuse":
		b.handleUseConfirm(ctx, query, payload)
	case "canceluse":
		b.handleUseCancel(query, payload)
	case "dismiss":
		b.deleteCallbackMessage(query)
		b.answer(query, "")
	default:
		b.answer(query, "")
	}
}

func (b *Bot) handleTaskCallback(ctx context.Context, query *tgbotapi.CallbackQuery, payload string) {
	idxText, dateText, ok := strings.Cut(payload, ":")
	idx, err := strconv.Atoi(idxText)
	if !ok || err != nil {
		b.answer(query, "")
		return
	}

	result, err := b.svc.Complete(ctx, query.From.ID, idx, model.Date(dateText))
	switch {
	case errors.Is(err, service.ErrTaskAlreadyCompleted):
		b.answer(query, "You already completed this task.")
		return
	case errors.Is(err, service.ErrInvalidDate):
		b.answer(query, "This board has expired and can no longer be completed.")
		return
	case err != nil:
		b.answer(query, "Could not record the task. Try again.")
		return
	}

	text := "Marked " + service.DailyTasks[idx] + " as complete!"
	for _, reward := range result.RewardsGranted {
		text += " You earned 1 " + reward.Display() + "!"
	}
	b.answer(query, text)
	b.presenter.RefreshTaskBoard(ctx, result.Date)
}

func (b *Bot) handleTradeCallback(ctx context.Context, query *tgbotapi.CallbackQuery, offerID string) {
	result, err := b.svc.Execute(ctx, query.From.ID, offerID)
	switch {
	case errors.Is(err, service.ErrInsufficientItems):
		b.answer(query, "You do not have enough items for this trade.")
		return
	case err != nil:
		b.answer(query, "Trade failed. Try again.")
		return
	}

	b.answer(query, fmt.Sprintf("Traded %s for 1 %s!",
		result.Offer.From.DisplayWithQuantity(result.Offer.Cost), result.Offer.To.Display()))
	b.sendPersonalShop(query.From.ID)
}

// handleUseRequest is phase one of pass usage: issue a ticket and ask
// for confirmation over DM. Nothing is spent yet.
func (b *Bot) handleUseRequest(ctx context.Context, query *tgbotapi.CallbackQuery, passText string) {
	pass, err := model.ParseItem(passText)
	if err != nil {
		b.answer(query, "")
		return
	}

	ticket, err := b.svc.Request(ctx, query.From.ID, pass)
	switch {
	case errors.Is(err, service.ErrInsufficientItems):
		b.answer(query, "You do not have a "+pass.Display()+" to use.")
		return
	case err != nil:
		b.answer(query, "Could not start the pass usage. Try again.")
		return
	}

	msg := tgbotapi.NewMessage(query.From.ID,
		fmt.Sprintf("Are you sure you want to use 1 %s? This cannot be undone.", pass.Display()))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm", "confirmuse:"+ticket.ID.String()),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "canceluse:"+ticket.ID.String()),
		),
	)
	if _, err := b.client.bot.Send(msg); err != nil {
		logger.Logger().Warn("could not send confirmation prompt",
			zap.Int64("user_id", query.From.ID), zap.Error(err))
		b.answer(query, "I cannot message you. Open a private chat with me first.")
		return
	}
	b.answer(query, "Check your private chat with me to confirm!")
}

func (b *Bot) handleUseConfirm(ctx context.Context, query *tgbotapi.CallbackQuery, ticketText string) {
	ticketID, parseErr := uuid.Parse(ticketText)
	if parseErr != nil {
		b.answer(query, "")
		return
	}

	b.deleteCallbackMessage(query)

	result, err := b.svc.Confirm(ctx, query.From.ID, ticketID)
	switch {
	case errors.Is(err, service.ErrTicketNotFound), errors.Is(err, service.ErrTicketExpired):
		b.answer(query, "This confirmation has expired. Request the pass usage again.")
	case errors.Is(err, service.ErrPassAlreadyUsedToday):
		b.answer(query, "You already used this pass today.")
	case errors.Is(err, service.ErrChannelAlreadyUnlocked):
		b.answer(query, "The chat channel is already unlocked. Your pass was not consumed.")
	case errors.Is(err, service.ErrInsufficientItems):
		b.answer(query, "You no longer hold this pass.")
	case errors.Is(err, service.ErrChannelGateUnavailable):
		b.answer(query, "Your pass was consumed, but unlocking the channel failed. An admin has been alerted.")
	case err != nil:
		b.answer(query, "Could not use the pass. Try again.")
	case result.ChannelUnlocked:
		b.answer(query, "You used 1 "+result.Pass.Display()+" and unlocked the chat channel!")
	default:
		b.answer(query, "You used 1 "+result.Pass.Display()+"!")
	}
}

func (b *Bot) handleUseCancel(query *tgbotapi.CallbackQuery, ticketText string) {
	if ticketID, err := uuid.Parse(ticketText); err == nil {
		b.svc.Cancel(query.From.ID, ticketID)
	}
	b.deleteCallbackMessage(query)
	b.answer(query, "Cancelled. Nothing was used.")
}

// sendPersonalShop DMs the caller their holdings plus the trade
// buttons. Telegram has no ephemeral messages, so private chat stands
// in for them.
func (b *Bot) sendPersonalShop(userID int64) {
	var sb strings.Builder
	sb.WriteString("Your Personal Shop\n\n")
	sb.WriteString(renderInventory(b.svc.Counts(userID)))
	sb.WriteString("\n\nAvailable trades:")

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, offer := range b.svc.Offers() {
		label := fmt.Sprintf("%s ➜ 1 %s",
			offer.From.DisplayWithQuantity(offer.Cost), offer.To.Display())
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "trade:"+offer.ID)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Close", "dismiss:shop")))

	msg := tgbotapi.NewMessage(userID, sb.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.client.bot.Send(msg); err != nil {
		logger.Logger().Warn("could not send personal shop",
			zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	if _, err := b.client.bot.Send(reply); err != nil {
		logger.Logger().Warn("could not send reply",
			zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
}

func (b *Bot) answer(query *tgbotapi.CallbackQuery, text string) {
	if _, err := b.client.bot.Request(tgbotapi.NewCallback(query.ID, text)); err != nil {
		logger.Logger().Warn("could not answer callback query", zap.Error(err))
	}
}

func (b *Bot) deleteCallbackMessage(query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		return
	}
	del := tgbotapi.NewDeleteMessage(query.Message.Chat.ID, query.Message.MessageID)
	if _, err := b.client.bot.Request(del); err != nil {
		logger.Logger().Warn("could not delete prompt message", zap.Error(err))
	}
}

func helpText(admin bool) string {
	text := `Available commands:
/todo - show your task status for today and yesterday
/myitems - show your inventory
/shop - open your personal shop
/help - show this message`
	if admin {
		text += `

Admin commands:
/resetdaily - reset today's tasks and boards, no penalties
/resetall - wipe ALL user data
/adjustitem <give|take|set> <user_id> <item> <amount>`
	}
	return text
}

func renderTodo(status *service.TodoStatus) string {
	var sb strings.Builder
	sb.WriteString("Your To-Do Status\n")
	for i, day := range status.Days {
		label := "Today"
		if i == 1 {
			label = "Yesterday"
		}
		fmt.Fprintf(&sb, "\n%s (%s):\n", label, day.Date)
		for idx, task := range service.DailyTasks {
			mark := "❌"
			if day.Completed[idx] {
				mark = "✅"
			}
			fmt.Fprintf(&sb, "%s %s\n", mark, task)
		}
	}
	if status.NegativeShards > 0 {
		fmt.Fprintf(&sb, "\nYou carry %s. At %d they cost you a %s!",
			model.NegativeShard.DisplayWithQuantity(status.NegativeShards),
			service.NegativeShardThreshold, model.TalkShard.Display())
	}
	return sb.String()
}

func renderInventory(counts map[model.Item]int) string {
	var sb strings.Builder
	sb.WriteString("Your items:")
	for _, item := range model.AllItems {
		fmt.Fprintf(&sb, "\n%s", item.DisplayWithQuantity(counts[item]))
	}
	return sb.String()
}
