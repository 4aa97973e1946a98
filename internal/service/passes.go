package service

import (
	"context"
	"sync"
	"time"

	"shardbot/internal/model"
	"shardbot/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TicketTTL bounds how long a pending confirmation stays valid.
const TicketTTL = 5 * time.Minute

type PassRepository interface {
	GetOrCreateUser(ctx context.Context, userID int64) *model.UserAccount
	CountItem(userID int64, item model.Item) int
	RemoveItems(ctx context.Context, userID int64, item model.Item, quantity int) bool
	PassUsedOn(userID int64, pass model.Item) (model.Date, bool)
	RecordPassUse(ctx context.Context, userID int64, pass model.Item, date model.Date)
	ChannelState() model.ChatChannelState
	SetChannelState(ctx context.Context, state model.ChatChannelState)
}

// UseTicket is a pending confirmation issued by Request. Nothing is
// consumed until the ticket is confirmed.
type UseTicket struct {
	ID       uuid.UUID
	UserID   int64
	Pass     model.Item
	IssuedAt time.Time
}

// PassService runs the two-phase pass consumption flow. Tickets live
// only in memory: an abandoned confirmation costs nothing.
type PassService struct {
	repo      PassRepository
	dates     *DateProvider
	clock     Clock
	gate      ChannelGate
	announcer Announcer

	mu      sync.Mutex
	pending map[uuid.UUID]*UseTicket
}

func NewPassService(repo PassRepository, dates *DateProvider, clock Clock, gate ChannelGate, announcer Announcer) *PassService {
	return &PassService{
		repo:      repo,
		dates:     dates,
		clock:     clock,
		gate:      gate,
		announcer: announcer,
		pending:   make(map[uuid.UUID]*UseTicket),
	}
}

func usablePass(item model.Item) bool {
	return item == model.TalkPass || item == model.MlbbPass
}

// Request is phase one: verify the user holds the pass and hand back a
// confirmation ticket. No state changes yet. A newer request for the
// same user and pass kind supersedes any pending one.
func (s *PassService) Request(ctx context.Context, userID int64, pass model.Item) (*UseTicket, error) {
	if !usablePass(pass) {
		return nil, ErrPassNotUsable
	}

	s.repo.GetOrCreateUser(ctx, userID)
	if s.repo.CountItem(userID, pass) < 1 {
		return nil, ErrInsufficientItems
	}

	ticket := &UseTicket{
		ID:       uuid.New(),
		UserID:   userID,
		Pass:     pass,
		IssuedAt: s.clock.Now(),
	}

	s.mu.Lock()
	for id, pending := range s.pending {
		if pending.UserID == userID && pending.Pass == pass {
			delete(s.pending, id)
		}
	}
	s.pending[ticket.ID] = ticket
	s.mu.Unlock()

	return ticket, nil
}

type UseResult struct {
	UserID          int64
	Pass            model.Item
	ChannelUnlocked bool
}

// Confirm is phase two. Both guards are re-validated here because
// state may have changed since the request: the per-day usage limit
// and, for the channel-unlocking pass, the gate being locked. The
// ticket is consumed whatever the outcome.
func (s *PassService) Confirm(ctx context.Context, userID int64, ticketID uuid.UUID) (*UseResult, error) {
	s.mu.Lock()
	ticket, ok := s.pending[ticketID]
	if ok {
		delete(s.pending, ticketID)
	}
	s.mu.Unlock()

	if !ok || ticket.UserID != userID {
		return nil, ErrTicketNotFound
	}
	if s.clock.Now().Sub(ticket.IssuedAt) > TicketTTL {
		return nil, ErrTicketExpired
	}

	pass := ticket.Pass
	today := s.dates.Today()

	if usedOn, used := s.repo.PassUsedOn(userID, pass); used && usedOn == today {
		return nil, ErrPassAlreadyUsedToday
	}
	if pass == ChannelUnlockPass && s.repo.ChannelState().IsUnlocked {
		return nil, ErrChannelAlreadyUnlocked
	}

	// The holding may have drained between the phases.
	if !s.repo.RemoveItems(ctx, userID, pass, 1) {
		return nil, ErrInsufficientItems
	}
	s.repo.RecordPassUse(ctx, userID, pass, today)

	result := &UseResult{UserID: userID, Pass: pass}

	if pass == ChannelUnlockPass {
		if err := s.gate.SetLocked(ctx, false); err != nil {
			// The pass is spent; committed ledger mutations are never
			// rolled back. The channel stays locked until an admin or
			// the next rollover reconciles.
			logger.Logger().Error("failed to unlock chat channel",
				zap.Int64("user_id", userID), zap.Error(err))
			return result, ErrChannelGateUnavailable
		}
		s.repo.SetChannelState(ctx, model.ChatChannelState{
			IsUnlocked:   true,
			UnlockedBy:   &userID,
			UnlockedDate: &today,
		})
		result.ChannelUnlocked = true
	}

	if s.announcer != nil {
		s.announcer.AnnouncePassUse(ctx, userID, pass, result.ChannelUnlocked)
	}
	return result, nil
}

// Cancel abandons a pending confirmation. Unknown tickets are a no-op:
// cancellation is terminal either way.
func (s *PassService) Cancel(userID int64, ticketID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket, ok := s.pending[ticketID]; ok && ticket.UserID == userID {
		delete(s.pending, ticketID)
	}
}
