package service

import (
	"context"
	"errors"
	"time"

	"shardbot/internal/model"
)

var (
	ErrInsufficientItems      = errors.New("insufficient items")
	ErrTaskAlreadyCompleted   = errors.New("task already completed")
	ErrInvalidTaskIndex       = errors.New("invalid task index")
	ErrInvalidDate            = errors.New("date outside the completable window")
	ErrUnknownItem            = errors.New("unknown item")
	ErrUnknownOffer           = errors.New("unknown trade offer")
	ErrPassNotUsable          = errors.New("item is not a usable pass")
	ErrPassAlreadyUsedToday   = errors.New("pass already used today")
	ErrChannelAlreadyUnlocked = errors.New("chat channel already unlocked")
	ErrTicketNotFound         = errors.New("confirmation not found")
	ErrTicketExpired          = errors.New("confirmation expired")
	ErrChannelGateUnavailable = errors.New("chat channel gate unavailable")
)

const (
	NumTasks               = 6
	NumMainTasks           = 5
	SpecialTaskIndex       = 5
	NegativeShardThreshold = 5
)

// DailyTasks are the six fixed task slots, indices 0-4 forming the
// main group and index 5 the special task.
var DailyTasks = [NumTasks]string{"Fajr", "Zuhr", "Asr", "Maghrib", "Ish'a", "Qur'an"}

const (
	MainGroupRewardItem   = model.TalkShard
	SpecialTaskRewardItem = model.MlbbShard
	ChannelUnlockPass     = model.TalkPass
)

// Clock supplies the current instant so cycle arithmetic is
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func RealClock() Clock { return realClock{} }

// DateProvider turns the clock into calendar days in the community's
// timezone.
type DateProvider struct {
	clock Clock
	loc   *time.Location
}

func NewDateProvider(clock Clock, timezone string) (*DateProvider, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &DateProvider{clock: clock, loc: loc}, nil
}

func (d *DateProvider) Today() model.Date {
	return model.DateOf(d.clock.Now().In(d.loc))
}

func (d *DateProvider) Window() model.CycleWindow {
	return model.WindowAt(d.clock.Now().In(d.loc))
}

// Notifier delivers a best-effort direct message; implementations log
// and swallow failures.
type Notifier interface {
	Notify(ctx context.Context, userID int64, text string)
}

// Announcer broadcasts pass-usage announcements to the shared
// announcement channel, best-effort.
type Announcer interface {
	AnnouncePassUse(ctx context.Context, userID int64, pass model.Item, channelUnlocked bool)
}

// ChannelGate toggles the external chat channel's send permission.
type ChannelGate interface {
	SetLocked(ctx context.Context, locked bool) error
}

// Presenter owns the daily boards. Publish calls may fail; Remove
// calls are best-effort cleanup.
type Presenter interface {
	PublishTaskBoard(ctx context.Context, date model.Date) error
	PublishShopBoard(ctx context.Context, date model.Date) error
	PublishUseItemsBoard(ctx context.Context) error
	RefreshTaskBoard(ctx context.Context, date model.Date)
	RemoveTaskBoard(ctx context.Context, date model.Date)
	RemoveShopBoard(ctx context.Context, date model.Date)
	RemoveUseItemsBoard(ctx context.Context)
}

// CombineNotifiers fans a notification out to several sinks.
func CombineNotifiers(notifiers ...Notifier) Notifier {
	return multiNotifier(notifiers)
}

type multiNotifier []Notifier

func (m multiNotifier) Notify(ctx context.Context, userID int64, text string) {
	for _, n := range m {
		n.Notify(ctx, userID, text)
	}
}

type Service struct {
	*InventoryService
	*TaskService
	*TradeService
	*PassService
	*CycleService
}

func NewService(
	inventory *InventoryService,
	tasks *TaskService,
	trade *TradeService,
	passes *PassService,
	cycle *CycleService,
) *Service {
	return &Service{
		InventoryService: inventory,
		TaskService:      tasks,
		TradeService:     trade,
		PassService:      passes,
		CycleService:     cycle,
	}
}
