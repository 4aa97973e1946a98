package service

import (
	"context"
	"testing"

	"shardbot/internal/model"
	"shardbot/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryService_GiveTakeCount(t *testing.T) {
	ctx := context.Background()
	svc := NewInventoryService(repository.NewInMemory())

	assert.Equal(t, 0, svc.Count(42, model.TalkShard), "unknown user counts as zero")

	require.NoError(t, svc.Give(ctx, 42, model.TalkShard, 3))
	assert.Equal(t, 3, svc.Count(42, model.TalkShard))

	require.NoError(t, svc.Take(ctx, 42, model.TalkShard, 2))
	assert.Equal(t, 1, svc.Count(42, model.TalkShard))

	err := svc.Take(ctx, 42, model.TalkShard, 2)
	assert.ErrorIs(t, err, ErrInsufficientItems)
	assert.Equal(t, 1, svc.Count(42, model.TalkShard), "failed removal must not mutate")

	require.NoError(t, svc.SetCount(ctx, 42, model.MlbbPass, 9))
	assert.Equal(t, 9, svc.Count(42, model.MlbbPass))
}

func TestInventoryService_RemoveAddRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewInventoryService(repository.NewInMemory())

	for _, item := range []model.Item{model.TalkShard, model.MlbbShard, model.TalkPass, model.MlbbPass} {
		require.NoError(t, svc.Give(ctx, 1, item, 5))
		require.NoError(t, svc.Take(ctx, 1, item, 4))
		require.NoError(t, svc.Give(ctx, 1, item, 4))
		assert.Equal(t, 5, svc.Count(1, item), "remove then add must restore %s", item)
	}
}

func TestInventoryService_NegativeShardClampsAtZero(t *testing.T) {
	ctx := context.Background()
	svc := NewInventoryService(repository.NewInMemory())

	require.NoError(t, svc.Give(ctx, 7, model.NegativeShard, 3))

	// Removing more than held succeeds and clamps, so the round-trip
	// property deliberately does not hold here.
	require.NoError(t, svc.Take(ctx, 7, model.NegativeShard, 10))
	assert.Equal(t, 0, svc.Count(7, model.NegativeShard))

	require.NoError(t, svc.Give(ctx, 7, model.NegativeShard, 10))
	assert.Equal(t, 10, svc.Count(7, model.NegativeShard))
}

func TestInventoryService_UnknownItem(t *testing.T) {
	ctx := context.Background()
	svc := NewInventoryService(repository.NewInMemory())

	assert.ErrorIs(t, svc.Give(ctx, 1, model.Item("gold_bar"), 1), ErrUnknownItem)
	assert.ErrorIs(t, svc.Take(ctx, 1, model.Item("gold_bar"), 1), ErrUnknownItem)
	assert.ErrorIs(t, svc.SetCount(ctx, 1, model.Item("gold_bar"), 1), ErrUnknownItem)
}

func TestInventoryService_Counts(t *testing.T) {
	ctx := context.Background()
	svc := NewInventoryService(repository.NewInMemory())

	require.NoError(t, svc.Give(ctx, 5, model.TalkPass, 2))

	counts := svc.Counts(5)
	assert.Len(t, counts, len(model.AllItems))
	assert.Equal(t, 2, counts[model.TalkPass])
	assert.Equal(t, 0, counts[model.NegativeShard])
}
