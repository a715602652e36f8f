package service

import (
	"context"

	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockCardStore mocks the store.CardStore interface
type MockCardStore struct {
	mock.Mock
}

func (m *MockCardStore) LoadCards(ctx context.Context) (map[string]domain.Card, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Card), args.Error(1)
}

func (m *MockCardStore) SaveCards(ctx context.Context, cards map[string]domain.Card) error {
	args := m.Called(ctx, cards)
	return args.Error(0)
}

// MockSettingsStore mocks the store.SettingsStore interface
type MockSettingsStore struct {
	mock.Mock
}

func (m *MockSettingsStore) LoadSettings(ctx context.Context) (domain.AppSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.AppSettings), args.Error(1)
}

func (m *MockSettingsStore) SaveSettings(ctx context.Context, settings domain.AppSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}
