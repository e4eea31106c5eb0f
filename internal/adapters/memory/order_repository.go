// Package memory is an in-process order store for development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/kevin07696/checkout-bridge/internal/adapters/ports"
	"github.com/kevin07696/checkout-bridge/internal/domain"
)

// OrderRepository is a mutex-guarded ports.OrderRepository. Returned orders
// are copies.
type OrderRepository struct {
	mu      sync.RWMutex
	orders  map[uuid.UUID]*domain.Order
	history map[uuid.UUID][]domain.StatusHistoryEntry
	seq     map[uuid.UUID]uint64 // insertion order, breaks CreatedAt ties
	nextSeq uint64
	now     func() time.Time
}

var _ ports.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository creates an empty store
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders:  make(map[uuid.UUID]*domain.Order),
		history: make(map[uuid.UUID][]domain.StatusHistoryEntry),
		seq:     make(map[uuid.UUID]uint64),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.Reference != "" {
		for _, o := range r.orders {
			if o.Reference == order.Reference {
				return fmt.Errorf("insert order %q: %w", order.Reference, domain.ErrOrderAlreadyExists)
			}
		}
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := r.now()
	order.CreatedAt, order.UpdatedAt = now, now

	stored := *order
	r.orders[order.ID] = &stored
	r.nextSeq++
	r.seq[order.ID] = r.nextSeq
	r.appendHistory(order.ID, order.StatusID, "create", now)
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("get order by id: %w", domain.ErrOrderNotFound)
	}
	out := *o
	return &out, nil
}

func (r *OrderRepository) GetByCartID(ctx context.Context, cartID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.sorted(func(o *domain.Order) bool { return o.CartID == cartID })
	if len(matches) == 0 {
		return nil, fmt.Errorf("get order by cart id: %w", domain.ErrOrderNotFound)
	}
	return matches[len(matches)-1], nil
}

func (r *OrderRepository) FindByGatewayReference(ctx context.Context, ref string) ([]*domain.Order, error) {
	if ref == "" {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sorted(func(o *domain.Order) bool {
		return o.Reference == ref || o.CartID == ref
	}), nil
}

func (r *OrderRepository) TransitionStatus(ctx context.Context, orderID uuid.UUID, statusID, source string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return false, fmt.Errorf("transition status: %w", domain.ErrOrderNotFound)
	}
	if o.StatusID == statusID {
		return false, nil
	}

	now := r.now()
	o.StatusID = statusID
	o.UpdatedAt = now
	r.appendHistory(orderID, statusID, source, now)
	return true, nil
}

func (r *OrderRepository) RefreshAttempt(ctx context.Context, orderID uuid.UUID, gatewayCode, currency string, amountCents int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("refresh attempt: %w", domain.ErrOrderNotFound)
	}
	o.GatewayCode = gatewayCode
	o.Currency = currency
	o.AmountCents = amountCents
	o.UpdatedAt = r.now()
	return nil
}

func (r *OrderRepository) AttachTransaction(ctx context.Context, orderID uuid.UUID, transactionID, paymentMethod string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("attach transaction: %w", domain.ErrOrderNotFound)
	}
	o.TransactionID = lo.CoalesceOrEmpty(transactionID, o.TransactionID)
	o.PaymentMethod = lo.CoalesceOrEmpty(paymentMethod, o.PaymentMethod)
	o.UpdatedAt = r.now()
	return nil
}

func (r *OrderRepository) History(ctx context.Context, orderID uuid.UUID) ([]domain.StatusHistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]domain.StatusHistoryEntry(nil), r.history[orderID]...), nil
}

func (r *OrderRepository) appendHistory(orderID uuid.UUID, statusID, source string, at time.Time) {
	r.history[orderID] = append(r.history[orderID], domain.StatusHistoryEntry{
		ID:        uuid.New(),
		OrderID:   orderID,
		StatusID:  statusID,
		Source:    source,
		CreatedAt: at,
	})
}

// sorted returns copies of matching orders, oldest first
func (r *OrderRepository) sorted(match func(*domain.Order) bool) []*domain.Order {
	var out []*domain.Order
	for _, o := range r.orders {
		if match(o) {
			c := *o
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] < r.seq[out[j].ID]
	})
	return out
}
