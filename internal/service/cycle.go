package service

import (
	"context"
	"fmt"

	"shardbot/internal/model"
	"shardbot/pkg/logger"

	"go.uber.org/zap"
)

type CycleRepository interface {
	UserIDs() []int64
	ChannelState() model.ChatChannelState
	SetChannelState(ctx context.Context, state model.ChatChannelState)
	PurgeDate(ctx context.Context, date model.Date)
	PurgeTaskRecords(ctx context.Context, date model.Date)
	Wipe(ctx context.Context)
	TaskBoard(date model.Date) (model.TaskBoardRef, bool)
	ShopBoard(date model.Date) (model.MessageRef, bool)
	UseItemsBoard() (model.MessageRef, bool)
}

// CycleService drives the rolling 3-day window: automatic rollover
// with penalties, administrative resets, and the full wipe.
type CycleService struct {
	repo      CycleRepository
	tasks     *TaskService
	dates     *DateProvider
	gate      ChannelGate
	notifier  Notifier
	presenter Presenter
}

func NewCycleService(
	repo CycleRepository,
	tasks *TaskService,
	dates *DateProvider,
	gate ChannelGate,
	notifier Notifier,
	presenter Presenter,
) *CycleService {
	return &CycleService{
		repo:      repo,
		tasks:     tasks,
		dates:     dates,
		gate:      gate,
		notifier:  notifier,
		presenter: presenter,
	}
}

func (s *CycleService) Window() model.CycleWindow {
	return s.dates.Window()
}

// AutoReset is the scheduled rollover. Order matters: penalties and
// relocking commit before the purge, and the purge commits before
// board regeneration. A regeneration failure never rolls the earlier
// steps back.
func (s *CycleService) AutoReset(ctx context.Context) error {
	log := logger.Logger()
	window := s.dates.Window()
	log.Info("running automatic daily reset",
		zap.String("today", window.Today.String()),
		zap.String("penalty_date", window.TwoDaysAgo.String()))

	for _, userID := range s.repo.UserIDs() {
		report := s.tasks.PenalizeMissedTasks(ctx, userID, window.TwoDaysAgo)
		if report == nil {
			continue
		}
		log.Info("applied missed-task penalty",
			zap.Int64("user_id", userID),
			zap.Int("missed", report.MissedTasks),
			zap.Int("talk_shards_deducted", report.TalkShardsDeducted))
		s.notifier.Notify(ctx, userID, report.Message())
	}

	state := s.repo.ChannelState()
	if state.IsUnlocked && state.UnlockedDate != nil && *state.UnlockedDate == window.Yesterday {
		log.Info("relocking chat channel on rollover")
		s.lockChannel(ctx)
	}

	s.repo.PurgeDate(ctx, window.TwoDaysAgo)

	s.presenter.RemoveTaskBoard(ctx, window.TwoDaysAgo)
	s.presenter.RemoveShopBoard(ctx, window.Yesterday)
	s.presenter.RemoveUseItemsBoard(ctx)

	return s.publishBoards(ctx, window.Today)
}

// ManualReset is the administrative "start over": no penalties, a more
// aggressive purge covering today and yesterday, and an unconditional
// relock. Pass-usage records survive so an already-spent pass does not
// become spendable again.
func (s *CycleService) ManualReset(ctx context.Context) error {
	window := s.dates.Window()
	logger.Logger().Info("running manual daily reset",
		zap.String("today", window.Today.String()))

	s.lockChannel(ctx)

	for _, date := range []model.Date{window.Today, window.Yesterday} {
		s.repo.PurgeTaskRecords(ctx, date)
		s.presenter.RemoveTaskBoard(ctx, date)
		s.presenter.RemoveShopBoard(ctx, date)
	}
	s.presenter.RemoveUseItemsBoard(ctx)

	return s.publishBoards(ctx, window.Today)
}

// WipeAll irreversibly discards every account and per-date record and
// resets the channel state to its initial value.
func (s *CycleService) WipeAll(ctx context.Context) {
	logger.Logger().Warn("wiping all data")
	s.lockChannel(ctx)
	s.repo.Wipe(ctx)
}

// EnsureBoards regenerates today's boards when any of them is missing,
// e.g. after a restart that skipped the scheduled reset.
func (s *CycleService) EnsureBoards(ctx context.Context) error {
	today := s.dates.Today()
	_, haveTasks := s.repo.TaskBoard(today)
	_, haveShop := s.repo.ShopBoard(today)
	_, haveUseItems := s.repo.UseItemsBoard()
	if haveTasks && haveShop && haveUseItems {
		return nil
	}
	logger.Logger().Info("daily boards missing on startup, regenerating")
	return s.ManualReset(ctx)
}

// lockChannel forces the internal state to locked even when the
// external gate call fails; the next rollover reconciles.
func (s *CycleService) lockChannel(ctx context.Context) {
	if err := s.gate.SetLocked(ctx, true); err != nil {
		logger.Logger().Error("failed to lock chat channel", zap.Error(err))
	}
	s.repo.SetChannelState(ctx, model.ChatChannelState{})
}

func (s *CycleService) publishBoards(ctx context.Context, today model.Date) error {
	var firstErr error
	if err := s.presenter.PublishTaskBoard(ctx, today); err != nil {
		logger.Logger().Error("failed to publish task board", zap.Error(err))
		firstErr = fmt.Errorf("task board: %w", err)
	}
	if err := s.presenter.PublishShopBoard(ctx, today); err != nil {
		logger.Logger().Error("failed to publish shop board", zap.Error(err))
		if firstErr == nil {
			firstErr = fmt.Errorf("shop board: %w", err)
		}
	}
	if err := s.presenter.PublishUseItemsBoard(ctx); err != nil {
		logger.Logger().Error("failed to publish use-items board", zap.Error(err))
		if firstErr == nil {
			firstErr = fmt.Errorf("use-items board: %w", err)
		}
	}
	return firstErr
}
