package repository

import (
	"context"

	"shardbot/internal/model"
)

// AddItem increases the stored quantity unconditionally and persists.
func (r *Repository) AddItem(ctx context.Context, userID int64, item model.Item, quantity int) {
	r.Lock()
	defer r.Unlock()

	user, _ := r.getOrCreateLocked(ctx, userID)
	user.ItemCounts[item] += quantity
	r.persist(ctx)
}

// RemoveItems deducts the requested quantity. Ordinary items are
// rejected (no mutation) when the holding is insufficient; the
// negative-shard counter instead clamps at zero and always succeeds.
func (r *Repository) RemoveItems(ctx context.Context, userID int64, item model.Item, quantity int) bool {
	r.Lock()
	defer r.Unlock()

	user, _ := r.getOrCreateLocked(ctx, userID)
	held := user.ItemCounts[item]

	if item == model.NegativeShard {
		if held < quantity {
			user.ItemCounts[item] = 0
		} else {
			user.ItemCounts[item] = held - quantity
		}
		r.persist(ctx)
		return true
	}

	if held < quantity {
		return false
	}
	user.ItemCounts[item] = held - quantity
	r.persist(ctx)
	return true
}

// DeductUpTo removes at most the requested quantity, clamping at zero,
// and reports how many units were actually removed. Used by the
// penalty path, which must never fail and never create debt.
func (r *Repository) DeductUpTo(ctx context.Context, userID int64, item model.Item, quantity int) int {
	r.Lock()
	defer r.Unlock()

	user, _ := r.getOrCreateLocked(ctx, userID)
	deducted := quantity
	if held := user.ItemCounts[item]; held < deducted {
		deducted = held
	}
	user.ItemCounts[item] -= deducted
	r.persist(ctx)
	return deducted
}

// SetItems overwrites the absolute quantity.
func (r *Repository) SetItems(ctx context.Context, userID int64, item model.Item, quantity int) {
	r.Lock()
	defer r.Unlock()

	user, _ := r.getOrCreateLocked(ctx, userID)
	user.ItemCounts[item] = quantity
	r.persist(ctx)
}

// CountItem is a pure read: unknown users and items count as zero and
// no account is created.
func (r *Repository) CountItem(userID int64, item model.Item) int {
	r.Lock()
	defer r.Unlock()

	user, ok := r.snap.Users[userID]
	if !ok {
		return 0
	}
	return user.ItemCounts[item]
}

// MarkTaskCompleted inserts a task index with set semantics, returning
// false on a duplicate completion.
func (r *Repository) MarkTaskCompleted(ctx context.Context, userID int64, date model.Date, taskIndex int) bool {
	r.Lock()
	defer r.Unlock()

	user, _ := r.getOrCreateLocked(ctx, userID)
	if !user.MarkCompleted(date, taskIndex) {
		return false
	}
	r.persist(ctx)
	return true
}

func (r *Repository) CompletedTasks(userID int64, date model.Date) []int {
	r.Lock()
	defer r.Unlock()

	user, ok := r.snap.Users[userID]
	if !ok {
		return nil
	}
	return append([]int(nil), user.CompletedTasksByDate[date]...)
}

func (r *Repository) RewardClaims(userID int64, date model.Date) model.RewardClaims {
	r.Lock()
	defer r.Unlock()

	user, ok := r.snap.Users[userID]
	if !ok {
		return model.RewardClaims{}
	}
	return user.RewardsClaimed[date]
}

func (r *Repository) SetRewardClaims(ctx context.Context, userID int64, date model.Date, claims model.RewardClaims) {
	r.Lock()
	defer r.Unlock()

	user, _ := r.getOrCreateLocked(ctx, userID)
	user.RewardsClaimed[date] = claims
	r.persist(ctx)
}

func (r *Repository) PassUsedOn(userID int64, pass model.Item) (model.Date, bool) {
	r.Lock()
	defer r.Unlock()

	user, ok := r.snap.Users[userID]
	if !ok {
		return "", false
	}
	date, ok := user.PassUsageByDate[pass]
	return date, ok
}

func (r *Repository) RecordPassUse(ctx context.Context, userID int64, pass model.Item, date model.Date) {
	r.Lock()
	defer r.Unlock()

	user, _ := r.getOrCreateLocked(ctx, userID)
	user.PassUsageByDate[pass] = date
	r.persist(ctx)
}
