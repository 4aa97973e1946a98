package mocks

import (
	"context"

	"shardbot/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID int64, text string) {
	m.Called(ctx, userID, text)
}

type MockAnnouncer struct {
	mock.Mock
}

func (m *MockAnnouncer) AnnouncePassUse(ctx context.Context, userID int64, pass model.Item, channelUnlocked bool) {
	m.Called(ctx, userID, pass, channelUnlocked)
}

type MockChannelGate struct {
	mock.Mock
}

func (m *MockChannelGate) SetLocked(ctx context.Context, locked bool) error {
	args := m.Called(ctx, locked)
	return args.Error(0)
}

type MockPresenter struct {
	mock.Mock
}

func (m *MockPresenter) PublishTaskBoard(ctx context.Context, date model.Date) error {
	args := m.Called(ctx, date)
	return args.Error(0)
}

func (m *MockPresenter) PublishShopBoard(ctx context.Context, date model.Date) error {
	args := m.Called(ctx, date)
	return args.Error(0)
}

func (m *MockPresenter) PublishUseItemsBoard(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPresenter) RefreshTaskBoard(ctx context.Context, date model.Date) {
	m.Called(ctx, date)
}

func (m *MockPresenter) RemoveTaskBoard(ctx context.Context, date model.Date) {
	m.Called(ctx, date)
}

func (m *MockPresenter) RemoveShopBoard(ctx context.Context, date model.Date) {
	m.Called(ctx, date)
}

func (m *MockPresenter) RemoveUseItemsBoard(ctx context.Context) {
	m.Called(ctx)
}
