package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kevin07696/checkout-bridge/internal/adapters/ports"
	"github.com/kevin07696/checkout-bridge/internal/orderrequest"
)

// MockGateway implements ports.GatewayAdapter for testing
type MockGateway struct {
	mock.Mock
}

var _ ports.GatewayAdapter = (*MockGateway)(nil)

func (m *MockGateway) CreateOrder(ctx context.Context, req *orderrequest.OrderRequest) (*ports.TransactionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.TransactionResponse), args.Error(1)
}

func (m *MockGateway) GetOrder(ctx context.Context, orderID string) (*ports.Transaction, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.Transaction), args.Error(1)
}

func (m *MockGateway) UpdateOrder(ctx context.Context, orderID string, req *ports.UpdateRequest) error {
	args := m.Called(ctx, orderID, req)
	return args.Error(0)
}

func (m *MockGateway) Refund(ctx context.Context, orderID string, req *ports.RefundRequest) (*ports.RefundResponse, error) {
	args := m.Called(ctx, orderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.RefundResponse), args.Error(1)
}

func (m *MockGateway) CreateWalletSession(ctx context.Context, req *ports.WalletSessionRequest) (*ports.WalletSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.WalletSession), args.Error(1)
}

func (m *MockGateway) GetAPIToken(ctx context.Context) (*ports.APIToken, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.APIToken), args.Error(1)
}
