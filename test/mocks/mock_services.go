package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	adapterports "github.com/kevin07696/checkout-bridge/internal/adapters/ports"
	"github.com/kevin07696/checkout-bridge/internal/services/ports"
)

// MockCheckoutService implements ports.CheckoutService for testing
type MockCheckoutService struct {
	mock.Mock
}

var _ ports.CheckoutService = (*MockCheckoutService)(nil)

func (m *MockCheckoutService) Initiate(ctx context.Context, req *ports.InitiateRequest) (*ports.InitiateResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.InitiateResult), args.Error(1)
}

func (m *MockCheckoutService) OrderExists(ctx context.Context, orderKey string) (*ports.OrderState, error) {
	args := m.Called(ctx, orderKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.OrderState), args.Error(1)
}

func (m *MockCheckoutService) ComponentToken(ctx context.Context) (*adapterports.APIToken, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*adapterports.APIToken), args.Error(1)
}

func (m *MockCheckoutService) WalletSession(ctx context.Context, req *adapterports.WalletSessionRequest) (*adapterports.WalletSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*adapterports.WalletSession), args.Error(1)
}

// MockNotificationService implements ports.NotificationService for testing
type MockNotificationService struct {
	mock.Mock
}

var _ ports.NotificationService = (*MockNotificationService)(nil)

func (m *MockNotificationService) Handle(ctx context.Context, ref string) ports.NotificationOutcome {
	args := m.Called(ctx, ref)
	return args.Get(0).(ports.NotificationOutcome)
}

// MockOrderUpdateService implements ports.OrderUpdateService for testing
type MockOrderUpdateService struct {
	mock.Mock
}

var _ ports.OrderUpdateService = (*MockOrderUpdateService)(nil)

func (m *MockOrderUpdateService) OnInvoiced(ctx context.Context, ev ports.InvoiceEvent) ports.UpdateResult {
	args := m.Called(ctx, ev)
	return args.Get(0).(ports.UpdateResult)
}

func (m *MockOrderUpdateService) OnStatusChanged(ctx context.Context, ev ports.StatusChangeEvent) ports.UpdateResult {
	args := m.Called(ctx, ev)
	return args.Get(0).(ports.UpdateResult)
}

func (m *MockOrderUpdateService) OnRefund(ctx context.Context, ev ports.RefundEvent) ports.UpdateResult {
	args := m.Called(ctx, ev)
	return args.Get(0).(ports.UpdateResult)
}
