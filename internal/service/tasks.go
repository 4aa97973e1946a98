package service

import (
	"context"
	"fmt"

	"shardbot/internal/model"
)

type TaskRepository interface {
	GetOrCreateUser(ctx context.Context, userID int64) *model.UserAccount
	MarkTaskCompleted(ctx context.Context, userID int64, date model.Date, taskIndex int) bool
	CompletedTasks(userID int64, date model.Date) []int
	RewardClaims(userID int64, date model.Date) model.RewardClaims
	SetRewardClaims(ctx context.Context, userID int64, date model.Date, claims model.RewardClaims)
	AddItem(ctx context.Context, userID int64, item model.Item, quantity int)
	SetItems(ctx context.Context, userID int64, item model.Item, quantity int)
	DeductUpTo(ctx context.Context, userID int64, item model.Item, quantity int) int
	CountItem(userID int64, item model.Item) int
}

// TaskService applies the reward rules on task completion and the
// penalty rules on rollover.
type TaskService struct {
	repo  TaskRepository
	dates *DateProvider
}

func NewTaskService(repo TaskRepository, dates *DateProvider) *TaskService {
	return &TaskService{
		repo:  repo,
		dates: dates,
	}
}

type TaskCompletionResult struct {
	UserID         int64
	Date           model.Date
	TaskIndex      int
	RewardsGranted []model.Item
}

// Complete marks a task slot done for the given date. Only today and
// yesterday are completable: those are the dates with a live board, and
// anything older or newer would either escape the rolling purge or
// pre-empt a future penalty check. Rewards are only evaluated when the
// date is the live "today": historical backfill never pays out.
func (s *TaskService) Complete(ctx context.Context, userID int64, taskIndex int, date model.Date) (*TaskCompletionResult, error) {
	if taskIndex < 0 || taskIndex >= NumTasks {
		return nil, ErrInvalidTaskIndex
	}
	if _, err := model.ParseDate(date.String()); err != nil {
		return nil, ErrInvalidDate
	}
	window := s.dates.Window()
	if date != window.Today && date != window.Yesterday {
		return nil, ErrInvalidDate
	}

	s.repo.GetOrCreateUser(ctx, userID)
	if !s.repo.MarkTaskCompleted(ctx, userID, date, taskIndex) {
		return nil, ErrTaskAlreadyCompleted
	}

	result := &TaskCompletionResult{
		UserID:    userID,
		Date:      date,
		TaskIndex: taskIndex,
	}

	if date != window.Today {
		return result, nil
	}

	claims := s.repo.RewardClaims(userID, date)
	completed := s.repo.CompletedTasks(userID, date)

	if !claims.MainGroup && mainGroupDone(completed) {
		s.repo.AddItem(ctx, userID, MainGroupRewardItem, 1)
		claims.MainGroup = true
		result.RewardsGranted = append(result.RewardsGranted, MainGroupRewardItem)
	}
	if !claims.SpecialTask && contains(completed, SpecialTaskIndex) {
		s.repo.AddItem(ctx, userID, SpecialTaskRewardItem, 1)
		claims.SpecialTask = true
		result.RewardsGranted = append(result.RewardsGranted, SpecialTaskRewardItem)
	}
	if len(result.RewardsGranted) > 0 {
		s.repo.SetRewardClaims(ctx, userID, date, claims)
	}

	return result, nil
}

type TodoDay struct {
	Date      model.Date
	Completed [NumTasks]bool
}

type TodoStatus struct {
	UserID         int64
	Days           []TodoDay
	NegativeShards int
}

// Todo reports the personal completion state for today and yesterday.
func (s *TaskService) Todo(ctx context.Context, userID int64) *TodoStatus {
	s.repo.GetOrCreateUser(ctx, userID)
	window := s.dates.Window()

	status := &TodoStatus{UserID: userID}
	for _, date := range []model.Date{window.Today, window.Yesterday} {
		day := TodoDay{Date: date}
		for _, idx := range s.repo.CompletedTasks(userID, date) {
			if idx >= 0 && idx < NumTasks {
				day.Completed[idx] = true
			}
		}
		status.Days = append(status.Days, day)
	}
	status.NegativeShards = s.repo.CountItem(userID, model.NegativeShard)
	return status
}

type PenaltyReport struct {
	UserID             int64
	Date               model.Date
	MissedTasks        int
	NegativeAdded      int
	TalkShardsDeducted int
	NegativeBalance    int
	TalkShardBalance   int
}

// Message builds the notification payload delivered to the penalized
// user; delivery itself is the notifier's problem.
func (r *PenaltyReport) Message() string {
	text := fmt.Sprintf("⚠️ Daily Task Penalty! You missed %d main task(s) from %s and received %d %s.",
		r.MissedTasks, r.Date, r.NegativeAdded, model.NegativeShard.Display())
	if r.TalkShardsDeducted > 0 {
		text += fmt.Sprintf("\n🚨 Your %s count triggered a penalty! %d %s deducted.",
			model.NegativeShard.Display(), r.TalkShardsDeducted, model.TalkShard.Display())
	}
	text += fmt.Sprintf("\nYour totals are now: %d %s and %d %s.",
		r.TalkShardBalance, model.TalkShard.Display(),
		r.NegativeBalance, model.NegativeShard.Display())
	return text
}

// PenalizeMissedTasks accrues one negative shard per missed main task
// for the given date, then applies the threshold conversion: every
// full group of five negative shards deducts one talk shard (clamped
// at the held quantity) and only the remainder is kept. Returns nil
// when nothing was missed.
func (s *TaskService) PenalizeMissedTasks(ctx context.Context, userID int64, date model.Date) *PenaltyReport {
	completedMain := 0
	for _, idx := range s.repo.CompletedTasks(userID, date) {
		if idx < NumMainTasks {
			completedMain++
		}
	}
	missed := NumMainTasks - completedMain
	if missed <= 0 {
		return nil
	}

	s.repo.AddItem(ctx, userID, model.NegativeShard, missed)
	report := &PenaltyReport{
		UserID:        userID,
		Date:          date,
		MissedTasks:   missed,
		NegativeAdded: missed,
	}

	balance := s.repo.CountItem(userID, model.NegativeShard)
	if balance >= NegativeShardThreshold {
		owed := balance / NegativeShardThreshold
		s.repo.SetItems(ctx, userID, model.NegativeShard, balance%NegativeShardThreshold)
		report.TalkShardsDeducted = s.repo.DeductUpTo(ctx, userID, model.TalkShard, owed)
	}

	report.NegativeBalance = s.repo.CountItem(userID, model.NegativeShard)
	report.TalkShardBalance = s.repo.CountItem(userID, model.TalkShard)
	return report
}

func mainGroupDone(completed []int) bool {
	var done [NumMainTasks]bool
	for _, idx := range completed {
		if idx >= 0 && idx < NumMainTasks {
			done[idx] = true
		}
	}
	for _, d := range done {
		if !d {
			return false
		}
	}
	return true
}

func contains(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
