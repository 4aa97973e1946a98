package model

import "sort"

// RewardClaims are the one-way idempotency flags preventing a reward
// from being issued twice for the same date.
type RewardClaims struct {
	MainGroup   bool `json:"main_group"`
	SpecialTask bool `json:"special_task"`
}

// UserAccount is the per-participant ledger record. Created lazily on
// first interaction and never deleted except by a full wipe.
type UserAccount struct {
	UserID               int64                 `json:"user_id"`
	CompletedTasksByDate map[Date][]int        `json:"completed_tasks_by_date"`
	ItemCounts           map[Item]int          `json:"item_counts"`
	RewardsClaimed       map[Date]RewardClaims `json:"rewards_claimed"`
	PassUsageByDate      map[Item]Date         `json:"pass_usage_by_date"`
}

func NewUserAccount(userID int64) *UserAccount {
	return &UserAccount{
		UserID:               userID,
		CompletedTasksByDate: make(map[Date][]int),
		ItemCounts:           make(map[Item]int),
		RewardsClaimed:       make(map[Date]RewardClaims),
		PassUsageByDate:      make(map[Item]Date),
	}
}

func (u *UserAccount) HasCompleted(date Date, taskIndex int) bool {
	for _, idx := range u.CompletedTasksByDate[date] {
		if idx == taskIndex {
			return true
		}
	}
	return false
}

// MarkCompleted inserts the task index with set semantics. Returns
// false when the index was already present.
func (u *UserAccount) MarkCompleted(date Date, taskIndex int) bool {
	if u.HasCompleted(date, taskIndex) {
		return false
	}
	completed := append(u.CompletedTasksByDate[date], taskIndex)
	sort.Ints(completed)
	u.CompletedTasksByDate[date] = completed
	return true
}

func (u *UserAccount) Clone() *UserAccount {
	clone := NewUserAccount(u.UserID)
	for date, tasks := range u.CompletedTasksByDate {
		clone.CompletedTasksByDate[date] = append([]int(nil), tasks...)
	}
	for item, count := range u.ItemCounts {
		clone.ItemCounts[item] = count
	}
	for date, claims := range u.RewardsClaimed {
		clone.RewardsClaimed[date] = claims
	}
	for item, date := range u.PassUsageByDate {
		clone.PassUsageByDate[item] = date
	}
	return clone
}

// PurgeTaskRecords drops the completion set and reward flags for the
// given date, leaving pass usage untouched. Used by the manual reset,
// which must not make an already-used pass spendable again.
func (u *UserAccount) PurgeTaskRecords(date Date) {
	delete(u.CompletedTasksByDate, date)
	delete(u.RewardsClaimed, date)
}

// PurgeDate drops every per-date record keyed to the given date,
// including pass-usage entries recorded on it.
func (u *UserAccount) PurgeDate(date Date) {
	u.PurgeTaskRecords(date)
	for item, usedOn := range u.PassUsageByDate {
		if usedOn == date {
			delete(u.PassUsageByDate, item)
		}
	}
}
