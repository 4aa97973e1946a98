package repository

import (
	"context"
	"path/filepath"
	"testing"

	"shardbot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetOrCreatePersistsNewAccounts(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshot.json")

	repo, err := New(ctx, NewFileStore(path))
	require.NoError(t, err)

	repo.GetOrCreateUser(ctx, 7)
	repo.AddItem(ctx, 7, model.TalkShard, 2)

	// A fresh repository over the same file sees the mutation.
	reopened, err := New(ctx, NewFileStore(path))
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.CountItem(7, model.TalkShard))
}

func TestRepository_UserCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemory()

	repo.AddItem(ctx, 7, model.TalkShard, 2)

	user := repo.GetOrCreateUser(ctx, 7)
	user.ItemCounts[model.TalkShard] = 99
	user.MarkCompleted("2025-06-12", 0)

	assert.Equal(t, 2, repo.CountItem(7, model.TalkShard))
	assert.Empty(t, repo.CompletedTasks(7, "2025-06-12"))
}

func TestRepository_UserDoesNotCreate(t *testing.T) {
	repo := NewInMemory()

	_, err := repo.User(7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, repo.CountItem(7, model.TalkShard))
	assert.Empty(t, repo.UserIDs())
}

func TestRepository_MarkTaskCompletedSetSemantics(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemory()

	assert.True(t, repo.MarkTaskCompleted(ctx, 7, "2025-06-12", 4))
	assert.False(t, repo.MarkTaskCompleted(ctx, 7, "2025-06-12", 4))
	assert.True(t, repo.MarkTaskCompleted(ctx, 7, "2025-06-12", 1))

	assert.Equal(t, []int{1, 4}, repo.CompletedTasks(7, "2025-06-12"))
}

func TestRepository_DeductUpTo(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemory()

	repo.SetItems(ctx, 7, model.TalkShard, 3)
	assert.Equal(t, 3, repo.DeductUpTo(ctx, 7, model.TalkShard, 5))
	assert.Equal(t, 0, repo.CountItem(7, model.TalkShard))

	repo.SetItems(ctx, 7, model.TalkShard, 5)
	assert.Equal(t, 2, repo.DeductUpTo(ctx, 7, model.TalkShard, 2))
	assert.Equal(t, 3, repo.CountItem(7, model.TalkShard))
}

func TestRepository_PurgeDate(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemory()

	repo.MarkTaskCompleted(ctx, 7, "2025-06-10", 0)
	repo.MarkTaskCompleted(ctx, 7, "2025-06-11", 0)
	repo.SetRewardClaims(ctx, 7, "2025-06-10", model.RewardClaims{MainGroup: true})
	repo.RecordPassUse(ctx, 7, model.TalkPass, "2025-06-10")
	repo.RecordPassUse(ctx, 7, model.MlbbPass, "2025-06-11")

	repo.PurgeDate(ctx, "2025-06-10")

	assert.Empty(t, repo.CompletedTasks(7, "2025-06-10"))
	assert.Equal(t, model.RewardClaims{}, repo.RewardClaims(7, "2025-06-10"))
	if _, used := repo.PassUsedOn(7, model.TalkPass); used {
		t.Fatal("pass usage keyed to the purged date must go")
	}

	assert.Equal(t, []int{0}, repo.CompletedTasks(7, "2025-06-11"))
	if _, used := repo.PassUsedOn(7, model.MlbbPass); !used {
		t.Fatal("pass usage keyed to another date must survive")
	}
}

func TestRepository_BoardRefs(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemory()

	taskRef := model.TaskBoardRef{
		Intro: &model.MessageRef{ChatID: 1, MessageID: 5},
		Board: model.MessageRef{ChatID: 1, MessageID: 6},
	}
	repo.SetTaskBoard(ctx, "2025-06-12", taskRef)
	repo.SetShopBoard(ctx, "2025-06-12", model.MessageRef{ChatID: 2, MessageID: 7})
	repo.SetUseItemsBoard(ctx, model.MessageRef{ChatID: 3, MessageID: 8})

	got, ok := repo.TaskBoard("2025-06-12")
	require.True(t, ok)
	assert.Equal(t, taskRef, got)

	repo.DeleteTaskBoard(ctx, "2025-06-12")
	repo.DeleteShopBoard(ctx, "2025-06-12")
	repo.DeleteUseItemsBoard(ctx)

	_, ok = repo.TaskBoard("2025-06-12")
	assert.False(t, ok)
	_, ok = repo.ShopBoard("2025-06-12")
	assert.False(t, ok)
	_, ok = repo.UseItemsBoard()
	assert.False(t, ok)
}

func TestRepository_Wipe(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemory()

	repo.AddItem(ctx, 7, model.TalkShard, 2)
	owner := int64(7)
	repo.SetChannelState(ctx, model.ChatChannelState{IsUnlocked: true, UnlockedBy: &owner})

	repo.Wipe(ctx)

	assert.Empty(t, repo.UserIDs())
	assert.Equal(t, model.ChatChannelState{}, repo.ChannelState())
}
