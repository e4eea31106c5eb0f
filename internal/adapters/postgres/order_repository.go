package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/kevin07696/checkout-bridge/internal/adapters/ports"
	"github.com/kevin07696/checkout-bridge/internal/domain"
)

const orderColumns = `id, reference, cart_id, payment_module, gateway_code, status_id, currency,
	amount_cents, COALESCE(transaction_id, ''), COALESCE(payment_method, ''), created_at, updated_at`

// OrderRepository implements ports.OrderRepository on PostgreSQL
type OrderRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

var _ ports.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository creates a new order repository
func NewOrderRepository(pool *pgxpool.Pool, logger *zap.Logger) *OrderRepository {
	return &OrderRepository{pool: pool, logger: logger}
}

// Create inserts the order together with its initial history entry.
// A zero ID is replaced by a new UUID.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := time.Now().UTC()
	order.CreatedAt, order.UpdatedAt = now, now

	_, err := withTx(ctx, r.pool, func(tx pgx.Tx) (struct{}, error) {
		_, err := tx.Exec(ctx, `
			INSERT INTO orders (id, reference, cart_id, payment_module, gateway_code, status_id,
				currency, amount_cents, transaction_id, payment_method, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
			order.ID, order.Reference, order.CartID, order.PaymentModule, order.GatewayCode,
			order.StatusID, order.Currency, order.AmountCents,
			nullText(order.TransactionID), nullText(order.PaymentMethod), now,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return struct{}{}, fmt.Errorf("insert order %q: %w", order.Reference, domain.ErrOrderAlreadyExists)
			}
			return struct{}{}, fmt.Errorf("insert order: %w", err)
		}

		if err := insertHistory(ctx, tx, order.ID, order.StatusID, "create"); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	if err != nil {
		return err
	}

	r.logger.Debug("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("reference", order.Reference),
		zap.String("cart_id", order.CartID),
	)
	return nil
}

// GetByID retrieves an order by its ID
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return order, nil
}

// GetByCartID returns the most recent order for a cart
func (r *OrderRepository) GetByCartID(ctx context.Context, cartID string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE cart_id = $1 ORDER BY created_at DESC, seq DESC LIMIT 1`, cartID)
	order, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("get order by cart id: %w", err)
	}
	return order, nil
}

// FindByGatewayReference returns every order the gateway may know by ref
func (r *OrderRepository) FindByGatewayReference(ctx context.Context, ref string) ([]*domain.Order, error) {
	if ref == "" {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE reference = $1 OR cart_id = $1 ORDER BY created_at, seq`, ref)
	if err != nil {
		return nil, fmt.Errorf("find orders by reference: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("find orders by reference: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find orders by reference: %w", err)
	}
	return orders, nil
}

// TransitionStatus locks the order row and appends a history entry only when
// the status changes
func (r *OrderRepository) TransitionStatus(ctx context.Context, orderID uuid.UUID, statusID, source string) (bool, error) {
	applied, err := withTx(ctx, r.pool, func(tx pgx.Tx) (bool, error) {
		var current string
		err := tx.QueryRow(ctx, `SELECT status_id FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return false, domain.ErrOrderNotFound
			}
			return false, fmt.Errorf("lock order: %w", err)
		}

		if current == statusID {
			return false, nil
		}

		if _, err := tx.Exec(ctx,
			`UPDATE orders SET status_id = $2, updated_at = now() WHERE id = $1`, orderID, statusID); err != nil {
			return false, fmt.Errorf("update order status: %w", err)
		}
		if err := insertHistory(ctx, tx, orderID, statusID, source); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return false, fmt.Errorf("transition status: %w", err)
	}
	return applied, nil
}

// RefreshAttempt updates the payment details of an order that is paid again
func (r *OrderRepository) RefreshAttempt(ctx context.Context, orderID uuid.UUID, gatewayCode, currency string, amountCents int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET gateway_code = $2, currency = $3, amount_cents = $4, updated_at = now()
		WHERE id = $1`,
		orderID, gatewayCode, currency, amountCents,
	)
	if err != nil {
		return fmt.Errorf("refresh attempt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("refresh attempt: %w", domain.ErrOrderNotFound)
	}
	return nil
}

// AttachTransaction stores the gateway transaction id and payment method
func (r *OrderRepository) AttachTransaction(ctx context.Context, orderID uuid.UUID, transactionID, paymentMethod string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET transaction_id = COALESCE($2, transaction_id),
		    payment_method = COALESCE($3, payment_method),
		    updated_at = now()
		WHERE id = $1`,
		orderID, nullText(transactionID), nullText(paymentMethod),
	)
	if err != nil {
		return fmt.Errorf("attach transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attach transaction: %w", domain.ErrOrderNotFound)
	}
	return nil
}

// History returns the status history, oldest first
func (r *OrderRepository) History(ctx context.Context, orderID uuid.UUID) ([]domain.StatusHistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, status_id, source, created_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StatusHistoryEntry, error) {
		var e domain.StatusHistoryEntry
		err := row.Scan(&e.ID, &e.OrderID, &e.StatusID, &e.Source, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}
	return entries, nil
}

func insertHistory(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, statusID, source string) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO order_status_history (id, order_id, status_id, source) VALUES ($1, $2, $3, $4)`,
		uuid.New(), orderID, statusID, source,
	)
	if err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.Reference, &o.CartID, &o.PaymentModule, &o.GatewayCode, &o.StatusID,
		&o.Currency, &o.AmountCents, &o.TransactionID, &o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}
