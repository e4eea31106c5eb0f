package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/kevin07696/checkout-bridge/internal/adapters/ports"
	"github.com/kevin07696/checkout-bridge/internal/domain"
)

// MockOrderRepository implements ports.OrderRepository for testing
type MockOrderRepository struct {
	mock.Mock
}

var _ ports.OrderRepository = (*MockOrderRepository)(nil)

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByCartID(ctx context.Context, cartID string) (*domain.Order, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByGatewayReference(ctx context.Context, ref string) ([]*domain.Order, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) TransitionStatus(ctx context.Context, orderID uuid.UUID, statusID, source string) (bool, error) {
	args := m.Called(ctx, orderID, statusID, source)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) RefreshAttempt(ctx context.Context, orderID uuid.UUID, gatewayCode, currency string, amountCents int64) error {
	args := m.Called(ctx, orderID, gatewayCode, currency, amountCents)
	return args.Error(0)
}

func (m *MockOrderRepository) AttachTransaction(ctx context.Context, orderID uuid.UUID, transactionID, paymentMethod string) error {
	args := m.Called(ctx, orderID, transactionID, paymentMethod)
	return args.Error(0)
}

func (m *MockOrderRepository) History(ctx context.Context, orderID uuid.UUID) ([]domain.StatusHistoryEntry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusHistoryEntry), args.Error(1)
}
