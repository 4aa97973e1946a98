package repository

import (
	"context"

	"shardbot/internal/model"
)

func (r *Repository) TaskBoard(date model.Date) (model.TaskBoardRef, bool) {
	r.Lock()
	defer r.Unlock()

	ref, ok := r.snap.TaskBoards[date]
	return ref, ok
}

func (r *Repository) SetTaskBoard(ctx context.Context, date model.Date, ref model.TaskBoardRef) {
	r.Lock()
	defer r.Unlock()

	r.snap.TaskBoards[date] = ref
	r.persist(ctx)
}

func (r *Repository) DeleteTaskBoard(ctx context.Context, date model.Date) {
	r.Lock()
	defer r.Unlock()

	if _, ok := r.snap.TaskBoards[date]; !ok {
		return
	}
	delete(r.snap.TaskBoards, date)
	r.persist(ctx)
}

func (r *Repository) ShopBoard(date model.Date) (model.MessageRef, bool) {
	r.Lock()
	defer r.Unlock()

	ref, ok := r.snap.ShopBoards[date]
	return ref, ok
}

func (r *Repository) SetShopBoard(ctx context.Context, date model.Date, ref model.MessageRef) {
	r.Lock()
	defer r.Unlock()

	r.snap.ShopBoards[date] = ref
	r.persist(ctx)
}

func (r *Repository) DeleteShopBoard(ctx context.Context, date model.Date) {
	r.Lock()
	defer r.Unlock()

	if _, ok := r.snap.ShopBoards[date]; !ok {
		return
	}
	delete(r.snap.ShopBoards, date)
	r.persist(ctx)
}

func (r *Repository) UseItemsBoard() (model.MessageRef, bool) {
	r.Lock()
	defer r.Unlock()

	if r.snap.UseItemsBoard == nil {
		return model.MessageRef{}, false
	}
	return *r.snap.UseItemsBoard, true
}

func (r *Repository) SetUseItemsBoard(ctx context.Context, ref model.MessageRef) {
	r.Lock()
	defer r.Unlock()

	r.snap.UseItemsBoard = &ref
	r.persist(ctx)
}

func (r *Repository) DeleteUseItemsBoard(ctx context.Context) {
	r.Lock()
	defer r.Unlock()

	if r.snap.UseItemsBoard == nil {
		return
	}
	r.snap.UseItemsBoard = nil
	r.persist(ctx)
}
