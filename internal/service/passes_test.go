package service

import (
	"context"
	"testing"
	"time"

	"shardbot/internal/model"
	"shardbot/internal/repository"
	"shardbot/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type passFixture struct {
	svc       *PassService
	repo      *repository.Repository
	clock     *fakeClock
	gate      *mocks.MockChannelGate
	announcer *mocks.MockAnnouncer
}

func newPassFixture(t *testing.T) *passFixture {
	t.Helper()
	clock := newFakeClock()
	repo := repository.NewInMemory()
	gate := &mocks.MockChannelGate{}
	announcer := &mocks.MockAnnouncer{}
	svc := NewPassService(repo, newTestDates(t, clock), clock, gate, announcer)
	return &passFixture{svc: svc, repo: repo, clock: clock, gate: gate, announcer: announcer}
}

func (f *passFixture) today() model.Date {
	return model.DateOf(f.clock.now)
}

func TestPassService_RequestRequiresHolding(t *testing.T) {
	ctx := context.Background()
	f := newPassFixture(t)

	_, err := f.svc.Request(ctx, 1, model.TalkPass)
	assert.ErrorIs(t, err, ErrInsufficientItems)

	_, err = f.svc.Request(ctx, 1, model.TalkShard)
	assert.ErrorIs(t, err, ErrPassNotUsable)

	f.repo.SetItems(ctx, 1, model.TalkPass, 1)
	ticket, err := f.svc.Request(ctx, 1, model.TalkPass)
	require.NoError(t, err)
	assert.Equal(t, model.TalkPass, ticket.Pass)

	// Phase one must not consume anything.
	assert.Equal(t, 1, f.repo.CountItem(1, model.TalkPass))
}

func TestPassService_ConfirmUnlocksChannel(t *testing.T) {
	ctx := context.Background()
	f := newPassFixture(t)
	f.repo.SetItems(ctx, 1, model.TalkPass, 2)

	f.gate.On("SetLocked", mock.Anything, false).Return(nil)
	f.announcer.On("AnnouncePassUse", mock.Anything, int64(1), model.TalkPass, true)

	ticket, err := f.svc.Request(ctx, 1, model.TalkPass)
	require.NoError(t, err)

	result, err := f.svc.Confirm(ctx, 1, ticket.ID)
	require.NoError(t, err)
	assert.True(t, result.ChannelUnlocked)
	assert.Equal(t, 1, f.repo.CountItem(1, model.TalkPass))

	state := f.repo.ChannelState()
	require.True(t, state.IsUnlocked)
	require.NotNil(t, state.UnlockedBy)
	assert.Equal(t, int64(1), *state.UnlockedBy)
	require.NotNil(t, state.UnlockedDate)
	assert.Equal(t, f.today(), *state.UnlockedDate)

	f.gate.AssertExpectations(t)
	f.announcer.AssertExpectations(t)
}

func TestPassService_ConfirmRejectedWhenChannelUnlocked(t *testing.T) {
	ctx := context.Background()
	f := newPassFixture(t)
	f.repo.SetItems(ctx, 1, model.TalkPass, 3)

	owner := int64(99)
	date := f.today()
	f.repo.SetChannelState(ctx, model.ChatChannelState{
		IsUnlocked: true, UnlockedBy: &owner, UnlockedDate: &date,
	})

	ticket, err := f.svc.Request(ctx, 1, model.TalkPass)
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, 1, ticket.ID)
	assert.ErrorIs(t, err, ErrChannelAlreadyUnlocked)
	assert.Equal(t, 3, f.repo.CountItem(1, model.TalkPass), "conflict must not consume the pass")
}

func TestPassService_ConfirmRejectedWhenUsedToday(t *testing.T) {
	ctx := context.Background()
	f := newPassFixture(t)
	f.repo.SetItems(ctx, 1, model.MlbbPass, 2)
	f.repo.RecordPassUse(ctx, 1, model.MlbbPass, f.today())

	ticket, err := f.svc.Request(ctx, 1, model.MlbbPass)
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, 1, ticket.ID)
	assert.ErrorIs(t, err, ErrPassAlreadyUsedToday)
	assert.Equal(t, 2, f.repo.CountItem(1, model.MlbbPass))
}

func TestPassService_ConfirmAllowedWhenUsedYesterday(t *testing.T) {
	ctx := context.Background()
	f := newPassFixture(t)
	f.repo.SetItems(ctx, 1, model.MlbbPass, 2)
	f.repo.RecordPassUse(ctx, 1, model.MlbbPass, model.DateOf(f.clock.now.AddDate(0, 0, -1)))

	f.announcer.On("AnnouncePassUse", mock.Anything, int64(1), model.MlbbPass, false)

	ticket, err := f.svc.Request(ctx, 1, model.MlbbPass)
	require.NoError(t, err)

	result, err := f.svc.Confirm(ctx, 1, ticket.ID)
	require.NoError(t, err)
	assert.False(t, result.ChannelUnlocked)
	assert.Equal(t, 1, f.repo.CountItem(1, model.MlbbPass))
	f.announcer.AssertExpectations(t)
}

func TestPassService_ConfirmRaceOnDrainedHolding(t *testing.T) {
	ctx := context.Background()
	f := newPassFixture(t)
	f.repo.SetItems(ctx, 1, model.MlbbPass, 1)

	ticket, err := f.svc.Request(ctx, 1, model.MlbbPass)
	require.NoError(t, err)

	// The holding drains between the phases.
	require.True(t, f.repo.RemoveItems(ctx, 1, model.MlbbPass, 1))

	_, err = f.svc.Confirm(ctx, 1, ticket.ID)
	assert.ErrorIs(t, err, ErrInsufficientItems)
	if _, used := f.repo.PassUsedOn(1, model.MlbbPass); used {
		t.Fatal("failed confirm must not record a pass use")
	}
}

func TestPassService_TicketLifetime(t *testing.T) {
	ctx := context.Background()
	f := newPassFixture(t)
	f.repo.SetItems(ctx, 1, model.MlbbPass, 1)

	ticket, err := f.svc.Request(ctx, 1, model.MlbbPass)
	require.NoError(t, err)

	t.Run("unknown ticket", func(t *testing.T) {
		_, err := f.svc.Confirm(ctx, 1, uuid.New())
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})

	t.Run("wrong user", func(t *testing.T) {
		_, err := f.svc.Confirm(ctx, 2, ticket.ID)
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})

	t.Run("expired", func(t *testing.T) {
		ticket, err := f.svc.Request(ctx, 1, model.MlbbPass)
		require.NoError(t, err)

		f.clock.advance(TicketTTL + time.Minute)
		_, err = f.svc.Confirm(ctx, 1, ticket.ID)
		assert.ErrorIs(t, err, ErrTicketExpired)
	})

	t.Run("superseded by newer request", func(t *testing.T) {
		first, err := f.svc.Request(ctx, 1, model.MlbbPass)
		require.NoError(t, err)
		_, err = f.svc.Request(ctx, 1, model.MlbbPass)
		require.NoError(t, err)

		_, err = f.svc.Confirm(ctx, 1, first.ID)
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})
}

func TestPassService_Cancel(t *testing.T) {
	ctx := context.Background()
	f := newPassFixture(t)
	f.repo.SetItems(ctx, 1, model.MlbbPass, 1)

	ticket, err := f.svc.Request(ctx, 1, model.MlbbPass)
	require.NoError(t, err)

	f.svc.Cancel(1, ticket.ID)

	_, err = f.svc.Confirm(ctx, 1, ticket.ID)
	assert.ErrorIs(t, err, ErrTicketNotFound)
	assert.Equal(t, 1, f.repo.CountItem(1, model.MlbbPass), "cancel has no side effects")
}

func TestPassService_GateFailureKeepsChannelLocked(t *testing.T) {
	ctx := context.Background()
	f := newPassFixture(t)
	f.repo.SetItems(ctx, 1, model.TalkPass, 1)

	f.gate.On("SetLocked", mock.Anything, false).Return(assert.AnError)

	ticket, err := f.svc.Request(ctx, 1, model.TalkPass)
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, 1, ticket.ID)
	assert.ErrorIs(t, err, ErrChannelGateUnavailable)

	// The pass is spent (committed mutations stand) but the channel
	// state never flipped.
	assert.Equal(t, 0, f.repo.CountItem(1, model.TalkPass))
	assert.False(t, f.repo.ChannelState().IsUnlocked)
	f.gate.AssertExpectations(t)
}
