package telegram

import (
	"context"
	"fmt"
	"strings"

	"shardbot/internal/model"
	"shardbot/internal/repository"
	"shardbot/internal/service"
	"shardbot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Presenter renders and tracks the three daily boards: the task list,
// the public shop teaser and the use-items board. Message refs are
// stored in the repository so rollover knows what to delete.
type Presenter struct {
	client *Client
	repo   *repository.Repository
	trade  *service.TradeService
}

func NewPresenter(client *Client, repo *repository.Repository, trade *service.TradeService) *Presenter {
	return &Presenter{
		client: client,
		repo:   repo,
		trade:  trade,
	}
}

func (p *Presenter) PublishTaskBoard(ctx context.Context, date model.Date) error {
	intro := tgbotapi.NewMessage(p.client.cfg.TaskChannelID, "A new day has begun! Here are today's tasks!")
	introMsg, err := p.client.bot.Send(intro)
	if err != nil {
		return fmt.Errorf("failed to send task board intro: %w", err)
	}

	board := tgbotapi.NewMessage(p.client.cfg.TaskChannelID, p.taskBoardText(date))
	board.ReplyMarkup = taskBoardKeyboard(date)
	boardMsg, err := p.client.bot.Send(board)
	if err != nil {
		return fmt.Errorf("failed to send task board: %w", err)
	}

	p.repo.SetTaskBoard(ctx, date, model.TaskBoardRef{
		Intro: &model.MessageRef{ChatID: introMsg.Chat.ID, MessageID: introMsg.MessageID},
		Board: model.MessageRef{ChatID: boardMsg.Chat.ID, MessageID: boardMsg.MessageID},
	})
	logger.Logger().Info("task board published", zap.String("date", date.String()))
	return nil
}

// RefreshTaskBoard re-renders an existing task board in place after a
// completion changed the standings. Missing boards are ignored.
func (p *Presenter) RefreshTaskBoard(ctx context.Context, date model.Date) {
	ref, ok := p.repo.TaskBoard(date)
	if !ok {
		return
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(
		ref.Board.ChatID, ref.Board.MessageID, p.taskBoardText(date), taskBoardKeyboard(date))
	if _, err := p.client.bot.Send(edit); err != nil {
		logger.Logger().Warn("could not refresh task board",
			zap.String("date", date.String()), zap.Error(err))
	}
}

func (p *Presenter) PublishShopBoard(ctx context.Context, date model.Date) error {
	var b strings.Builder
	b.WriteString("Today's Bazaar is Open!\n\nFixed exchange rates:\n")
	for _, offer := range p.trade.Offers() {
		fmt.Fprintf(&b, "- %s for 1 %s\n", offer.From.DisplayWithQuantity(offer.Cost), offer.To.Display())
	}
	b.WriteString("\nTap the button below to trade from your personal inventory.")

	msg := tgbotapi.NewMessage(p.client.cfg.ShopChannelID, b.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Visit My Personal Shop", "shop:open"),
		),
	)

	sent, err := p.client.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send shop board: %w", err)
	}

	p.repo.SetShopBoard(ctx, date, model.MessageRef{ChatID: sent.Chat.ID, MessageID: sent.MessageID})
	return nil
}

func (p *Presenter) PublishUseItemsBoard(ctx context.Context) error {
	text := fmt.Sprintf("Use Your Items Here!\n\n- %s: unlocks the chat channel.\n- %s: logs usage for fun.",
		model.TalkPass.Display(), model.MlbbPass.Display())

	msg := tgbotapi.NewMessage(p.client.cfg.UseItemsChannelID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Use 1 "+model.TalkPass.Display(), "use:"+string(model.TalkPass)),
			tgbotapi.NewInlineKeyboardButtonData("Use 1 "+model.MlbbPass.Display(), "use:"+string(model.MlbbPass)),
		),
	)

	sent, err := p.client.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send use-items board: %w", err)
	}

	p.repo.SetUseItemsBoard(ctx, model.MessageRef{ChatID: sent.Chat.ID, MessageID: sent.MessageID})
	return nil
}

func (p *Presenter) RemoveTaskBoard(ctx context.Context, date model.Date) {
	ref, ok := p.repo.TaskBoard(date)
	if !ok {
		return
	}
	if ref.Intro != nil {
		p.deleteMessage(*ref.Intro, "task board intro")
	}
	p.deleteMessage(ref.Board, "task board")
	p.repo.DeleteTaskBoard(ctx, date)
}

func (p *Presenter) RemoveShopBoard(ctx context.Context, date model.Date) {
	ref, ok := p.repo.ShopBoard(date)
	if !ok {
		return
	}
	p.deleteMessage(ref, "shop board")
	p.repo.DeleteShopBoard(ctx, date)
}

func (p *Presenter) RemoveUseItemsBoard(ctx context.Context) {
	ref, ok := p.repo.UseItemsBoard()
	if !ok {
		return
	}
	p.deleteMessage(ref, "use-items board")
	p.repo.DeleteUseItemsBoard(ctx)
}

func (p *Presenter) deleteMessage(ref model.MessageRef, description string) {
	if _, err := p.client.bot.Request(tgbotapi.NewDeleteMessage(ref.ChatID, ref.MessageID)); err != nil {
		logger.Logger().Warn("could not delete "+description,
			zap.Int("message_id", ref.MessageID), zap.Error(err))
	}
}

func (p *Presenter) taskBoardText(date model.Date) string {
	users := p.repo.AllUsers()

	var b strings.Builder
	fmt.Fprintf(&b, "Daily To-Do List for %s\n\nTap a button to mark a task as complete for yourself!\n\n", date)
	fmt.Fprintf(&b, "Main Tasks (complete all %d for: %s)\n", service.NumMainTasks, service.MainGroupRewardItem.Display())
	for i := 0; i < service.NumMainTasks; i++ {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, service.DailyTasks[i], completersLine(users, date, i))
	}

	fmt.Fprintf(&b, "\nSpecial Task (complete for: %s)\n", service.SpecialTaskRewardItem.Display())
	fmt.Fprintf(&b, "%d. %s: %s\n",
		service.SpecialTaskIndex+1, service.DailyTasks[service.SpecialTaskIndex],
		completersLine(users, date, service.SpecialTaskIndex))

	return b.String()
}

func completersLine(users []*model.UserAccount, date model.Date, taskIndex int) string {
	var names []string
	for _, user := range users {
		if user.HasCompleted(date, taskIndex) {
			names = append(names, mention(user.UserID))
		}
	}
	if len(names) == 0 {
		return "no one yet"
	}
	return "completed by " + strings.Join(names, ", ")
}

func taskBoardKeyboard(date model.Date) tgbotapi.InlineKeyboardMarkup {
	var mainRow, specialRow []tgbotapi.InlineKeyboardButton
	for i, task := range service.DailyTasks {
		button := tgbotapi.NewInlineKeyboardButtonData(task, fmt.Sprintf("task:%d:%s", i, date))
		if i < service.NumMainTasks {
			mainRow = append(mainRow, button)
		} else {
			specialRow = append(specialRow, button)
		}
	}
	return tgbotapi.NewInlineKeyboardMarkup(mainRow, specialRow)
}
