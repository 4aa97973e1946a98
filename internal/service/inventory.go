package service

import (
	"context"

	"shardbot/internal/model"
)

type InventoryRepository interface {
	GetOrCreateUser(ctx context.Context, userID int64) *model.UserAccount
	AddItem(ctx context.Context, userID int64, item model.Item, quantity int)
	RemoveItems(ctx context.Context, userID int64, item model.Item, quantity int) bool
	SetItems(ctx context.Context, userID int64, item model.Item, quantity int)
	CountItem(userID int64, item model.Item) int
}

// InventoryService exposes the ledger primitives consumed by the admin
// surface and the other services.
type InventoryService struct {
	repo InventoryRepository
}

func NewInventoryService(repo InventoryRepository) *InventoryService {
	return &InventoryService{
		repo: repo,
	}
}

func (s *InventoryService) GetOrCreate(ctx context.Context, userID int64) *model.UserAccount {
	return s.repo.GetOrCreateUser(ctx, userID)
}

func (s *InventoryService) Give(ctx context.Context, userID int64, item model.Item, quantity int) error {
	if !item.Valid() {
		return ErrUnknownItem
	}
	s.repo.AddItem(ctx, userID, item, quantity)
	return nil
}

func (s *InventoryService) Take(ctx context.Context, userID int64, item model.Item, quantity int) error {
	if !item.Valid() {
		return ErrUnknownItem
	}
	if !s.repo.RemoveItems(ctx, userID, item, quantity) {
		return ErrInsufficientItems
	}
	return nil
}

func (s *InventoryService) SetCount(ctx context.Context, userID int64, item model.Item, quantity int) error {
	if !item.Valid() {
		return ErrUnknownItem
	}
	s.repo.SetItems(ctx, userID, item, quantity)
	return nil
}

func (s *InventoryService) Count(userID int64, item model.Item) int {
	return s.repo.CountItem(userID, item)
}

// Counts reports the holding for every item kind, zero-filled.
func (s *InventoryService) Counts(userID int64) map[model.Item]int {
	counts := make(map[model.Item]int, len(model.AllItems))
	for _, item := range model.AllItems {
		counts[item] = s.repo.CountItem(userID, item)
	}
	return counts
}
