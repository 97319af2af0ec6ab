package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aurelia-labs/jewelstore/internal/order"
	ordererrors "github.com/aurelia-labs/jewelstore/internal/order/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore implements OrderStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of OrderStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

const insertOrderSQL = `
INSERT INTO orders (
    id, session_id, status,
    subtotal_cents, shipping_cents, tax_cents, total_cents, currency,
    ship_name, ship_line1, ship_line2, ship_city, ship_postal_code, ship_country,
    created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`

const insertOrderItemSQL = `
INSERT INTO order_items (order_id, product_id, name, price_cents, quantity)
VALUES ($1,$2,$3,$4,$5)`

const selectOrderSQL = `
SELECT id, session_id, status,
       subtotal_cents, shipping_cents, tax_cents, total_cents, currency,
       ship_name, ship_line1, ship_line2, ship_city, ship_postal_code, ship_country,
       created_at, updated_at
FROM orders`

const selectOrderItemsSQL = `
SELECT product_id, name, price_cents, quantity
FROM order_items WHERE order_id = $1 ORDER BY id`

// Create persists a new order and its item snapshot in one transaction.
func (p *PgStore) Create(ctx context.Context, o *order.Order) error {
	return p.withTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertOrderSQL,
			o.ID, o.SessionID, string(o.Status),
			o.SubtotalCents, o.ShippingCents, o.TaxCents, o.TotalCents, o.Currency,
			o.ShippingAddress.Name, o.ShippingAddress.Line1, o.ShippingAddress.Line2,
			o.ShippingAddress.City, o.ShippingAddress.PostalCode, o.ShippingAddress.Country,
			o.CreatedAt, o.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("%w: %w", ordererrors.ErrCreateOrder, err)
		}
		for _, item := range o.Items {
			if _, err := tx.Exec(ctx, insertOrderItemSQL,
				o.ID, item.ProductID, item.Name, item.PriceCents, item.Quantity,
			); err != nil {
				return fmt.Errorf("%w: %w", ordererrors.ErrCreateOrder, err)
			}
		}
		return nil
	})
}

// FindByID retrieves an order of the session by its ID.
func (p *PgStore) FindByID(ctx context.Context, sessionID, id uuid.UUID) (*order.Order, error) {
	row := p.db.QueryRow(ctx, selectOrderSQL+" WHERE id = $1 AND session_id = $2", id, sessionID)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ordererrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	items, err := p.findItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// FindBySession returns the session's orders, newest first.
func (p *PgStore) FindBySession(ctx context.Context, sessionID uuid.UUID, offset, limit int32) ([]order.Order, error) {
	rows, err := p.db.Query(ctx,
		selectOrderSQL+" WHERE session_id = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3",
		sessionID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find session orders: %w", err)
	}
	defer rows.Close()

	orders := make([]order.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read session orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus advances an order's fulfillment status. The transition rules
// are enforced here, inside the row lock, so concurrent fulfillment events
// cannot race past the delivered freeze.
func (p *PgStore) UpdateStatus(ctx context.Context, id uuid.UUID, next order.Status) (*order.Order, error) {
	var updated *order.Order
	txErr := p.withTransaction(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, selectOrderSQL+" WHERE id = $1 FOR UPDATE", id)
		o, err := scanOrder(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ordererrors.ErrOrderNotFound
			}
			return fmt.Errorf("failed to find order for status update: %w", err)
		}
		if o.Status == order.StatusDelivered {
			return ordererrors.ErrOrderDelivered
		}
		if !o.Status.CanAdvanceTo(next) {
			return ordererrors.ErrInvalidTransition
		}

		o.Status = next
		o.UpdatedAt = time.Now().UTC()
		if _, err := tx.Exec(ctx,
			"UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3",
			string(o.Status), o.UpdatedAt, o.ID); err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		updated = o
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	items, err := p.findItems(ctx, updated.ID)
	if err != nil {
		return nil, err
	}
	updated.Items = items
	return updated, nil
}

func (p *PgStore) findItems(ctx context.Context, orderID uuid.UUID) ([]order.Item, error) {
	rows, err := p.db.Query(ctx, selectOrderItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find order items: %w", err)
	}
	defer rows.Close()

	items := make([]order.Item, 0)
	for rows.Next() {
		var item order.Item
		if err := rows.Scan(&item.ProductID, &item.Name, &item.PriceCents, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order items: %w", err)
	}
	return items, nil
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var o order.Order
	var status string
	err := row.Scan(
		&o.ID, &o.SessionID, &status,
		&o.SubtotalCents, &o.ShippingCents, &o.TaxCents, &o.TotalCents, &o.Currency,
		&o.ShippingAddress.Name, &o.ShippingAddress.Line1, &o.ShippingAddress.Line2,
		&o.ShippingAddress.City, &o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = order.Status(status)
	return &o, nil
}

func (p *PgStore) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return ordererrors.ErrTransactionBegin
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return ordererrors.ErrTransactionRollback
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return ordererrors.ErrTransactionCommit
	}
	return nil
}
