package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kevin07696/checkout-bridge/internal/adapters/memory"
	adapterports "github.com/kevin07696/checkout-bridge/internal/adapters/ports"
	"github.com/kevin07696/checkout-bridge/internal/config"
	"github.com/kevin07696/checkout-bridge/internal/domain"
	"github.com/kevin07696/checkout-bridge/internal/services/ports"
	"github.com/kevin07696/checkout-bridge/test/mocks"
)

const testModule = "checkoutbridge"

func testMapper() *StatusMapper {
	return NewStatusMapper(config.StatusConfig{Mapping: config.DefaultStatusMapping(), ErrorStatus: "payment_error"})
}

func completedTx(orderID string) *adapterports.Transaction {
	return &adapterports.Transaction{
		OrderID:        orderID,
		TransactionID:  json.Number("4051823"),
		Status:         "completed",
		Amount:         2420,
		Currency:       "EUR",
		PaymentDetails: adapterports.PaymentDetails{Type: "IDEAL"},
	}
}

func TestStatusMapper_Map(t *testing.T) {
	m := testMapper()

	tests := []struct {
		raw  string
		want string
	}{
		{"completed", "payment_accepted"},
		{"COMPLETED", "payment_accepted"},
		{"initialized", "awaiting_payment"},
		{"uncleared", "payment_uncleared"},
		{"chargedback", "chargeback"},
		{"refunded", "refunded"},
		{"something_new", "payment_error"},
		{"", "payment_error"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Map(tt.raw))
		})
	}
}

func TestStatusMapper_EmptyMappingFallsBack(t *testing.T) {
	m := NewStatusMapper(config.StatusConfig{
		Mapping:     map[domain.TransactionStatus]string{domain.TransactionStatusCompleted: ""},
		ErrorStatus: "payment_error",
	})
	assert.Equal(t, "payment_error", m.Map("completed"))
}

func TestHandle_UnknownReferenceWritesNothing(t *testing.T) {
	ctx := context.Background()
	gateway := new(mocks.MockGateway)
	orders := new(mocks.MockOrderRepository)
	orders.On("FindByGatewayReference", ctx, "9999").Return([]*domain.Order{}, nil)

	svc := NewService(gateway, orders, testMapper(), testModule, zaptest.NewLogger(t))

	assert.Equal(t, ports.NotificationUnknownReference, svc.Handle(ctx, "9999"))
	gateway.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
	orders.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	orders.AssertExpectations(t)
}

func TestHandle_ForeignModuleWritesNothing(t *testing.T) {
	ctx := context.Background()
	gateway := new(mocks.MockGateway)
	orders := new(mocks.MockOrderRepository)
	orders.On("FindByGatewayReference", ctx, "1042").Return([]*domain.Order{
		{ID: uuid.New(), CartID: "1042", PaymentModule: "otherpsp"},
	}, nil)

	svc := NewService(gateway, orders, testMapper(), testModule, zaptest.NewLogger(t))

	assert.Equal(t, ports.NotificationForeignModule, svc.Handle(ctx, "1042"))
	gateway.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
	orders.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandle_Failures(t *testing.T) {
	ctx := context.Background()
	order := &domain.Order{ID: uuid.New(), CartID: "1042", PaymentModule: testModule, StatusID: "awaiting_payment"}

	t.Run("empty reference", func(t *testing.T) {
		svc := NewService(new(mocks.MockGateway), new(mocks.MockOrderRepository), testMapper(), testModule, zaptest.NewLogger(t))
		assert.Equal(t, ports.NotificationInvalid, svc.Handle(ctx, ""))
	})

	t.Run("store lookup fails", func(t *testing.T) {
		orders := new(mocks.MockOrderRepository)
		orders.On("FindByGatewayReference", ctx, "1042").Return(nil, errors.New("connection refused"))
		svc := NewService(new(mocks.MockGateway), orders, testMapper(), testModule, zaptest.NewLogger(t))

		assert.Equal(t, ports.NotificationStoreError, svc.Handle(ctx, "1042"))
	})

	t.Run("gateway fails", func(t *testing.T) {
		gateway := new(mocks.MockGateway)
		orders := new(mocks.MockOrderRepository)
		orders.On("FindByGatewayReference", ctx, "1042").Return([]*domain.Order{order}, nil)
		gateway.On("GetOrder", ctx, "1042").Return(nil, domain.NewDomainError(domain.ErrorCodeGatewayUnavailable, "circuit open"))
		svc := NewService(gateway, orders, testMapper(), testModule, zaptest.NewLogger(t))

		assert.Equal(t, ports.NotificationGatewayError, svc.Handle(ctx, "1042"))
		orders.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("status write fails", func(t *testing.T) {
		gateway := new(mocks.MockGateway)
		orders := new(mocks.MockOrderRepository)
		orders.On("FindByGatewayReference", ctx, "1042").Return([]*domain.Order{order}, nil)
		gateway.On("GetOrder", ctx, "1042").Return(completedTx("1042"), nil)
		orders.On("AttachTransaction", ctx, order.ID, "4051823", "IDEAL").Return(nil)
		orders.On("TransitionStatus", ctx, order.ID, "payment_accepted", "notification").Return(false, errors.New("deadlock"))
		svc := NewService(gateway, orders, testMapper(), testModule, zaptest.NewLogger(t))

		assert.Equal(t, ports.NotificationStoreError, svc.Handle(ctx, "1042"))
	})
}

func TestHandle_OnlyOwnOrdersAreUpdated(t *testing.T) {
	ctx := context.Background()
	own := &domain.Order{ID: uuid.New(), CartID: "1042", PaymentModule: testModule}
	other := &domain.Order{ID: uuid.New(), CartID: "1042", PaymentModule: "otherpsp"}

	gateway := new(mocks.MockGateway)
	orders := new(mocks.MockOrderRepository)
	orders.On("FindByGatewayReference", ctx, "1042").Return([]*domain.Order{other, own}, nil)
	gateway.On("GetOrder", ctx, "1042").Return(completedTx("1042"), nil)
	orders.On("AttachTransaction", ctx, own.ID, "4051823", "IDEAL").Return(nil)
	orders.On("TransitionStatus", ctx, own.ID, "payment_accepted", "notification").Return(true, nil)

	svc := NewService(gateway, orders, testMapper(), testModule, zaptest.NewLogger(t))

	assert.Equal(t, ports.NotificationProcessed, svc.Handle(ctx, "1042"))
	orders.AssertNotCalled(t, "TransitionStatus", mock.Anything, other.ID, mock.Anything, mock.Anything)
	orders.AssertExpectations(t)
}

func TestHandle_OnlyNewestOrderOfCartIsUpdated(t *testing.T) {
	ctx := context.Background()
	abandoned := &domain.Order{ID: uuid.New(), CartID: "1042", PaymentModule: testModule, StatusID: "canceled"}
	current := &domain.Order{ID: uuid.New(), CartID: "1042", PaymentModule: testModule, StatusID: "awaiting_payment"}

	gateway := new(mocks.MockGateway)
	orders := new(mocks.MockOrderRepository)
	orders.On("FindByGatewayReference", ctx, "1042").Return([]*domain.Order{abandoned, current}, nil)
	gateway.On("GetOrder", ctx, "1042").Return(completedTx("1042"), nil)
	orders.On("AttachTransaction", ctx, current.ID, "4051823", "IDEAL").Return(nil)
	orders.On("TransitionStatus", ctx, current.ID, "payment_accepted", "notification").Return(true, nil)

	svc := NewService(gateway, orders, testMapper(), testModule, zaptest.NewLogger(t))

	assert.Equal(t, ports.NotificationProcessed, svc.Handle(ctx, "1042"))
	orders.AssertNotCalled(t, "AttachTransaction", mock.Anything, abandoned.ID, mock.Anything, mock.Anything)
	orders.AssertNotCalled(t, "TransitionStatus", mock.Anything, abandoned.ID, mock.Anything, mock.Anything)
	orders.AssertExpectations(t)
}

func TestHandle_ReplayDoesNotDuplicateHistory(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	order := &domain.Order{CartID: "1042", PaymentModule: testModule, StatusID: "awaiting_payment", Currency: "EUR", AmountCents: 2420}
	require.NoError(t, repo.Create(ctx, order))

	gateway := new(mocks.MockGateway)
	gateway.On("GetOrder", ctx, "1042").Return(completedTx("1042"), nil)

	svc := NewService(gateway, repo, testMapper(), testModule, zaptest.NewLogger(t))

	assert.Equal(t, ports.NotificationProcessed, svc.Handle(ctx, "1042"))
	assert.Equal(t, ports.NotificationDuplicate, svc.Handle(ctx, "1042"))

	history, err := repo.History(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "awaiting_payment", history[0].StatusID)
	assert.Equal(t, "payment_accepted", history[1].StatusID)
	assert.Equal(t, "notification", history[1].Source)

	stored, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "payment_accepted", stored.StatusID)
	assert.Equal(t, "4051823", stored.TransactionID)
	assert.Equal(t, "IDEAL", stored.PaymentMethod)
}

func TestHandle_UnknownGatewayStatusMovesToErrorStatus(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	order := &domain.Order{CartID: "1042", PaymentModule: testModule, StatusID: "awaiting_payment"}
	require.NoError(t, repo.Create(ctx, order))

	tx := completedTx("1042")
	tx.Status = "reserved"
	gateway := new(mocks.MockGateway)
	gateway.On("GetOrder", ctx, "1042").Return(tx, nil)

	svc := NewService(gateway, repo, testMapper(), testModule, zaptest.NewLogger(t))
	svc.Handle(ctx, "1042")

	stored, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "payment_error", stored.StatusID)
}
