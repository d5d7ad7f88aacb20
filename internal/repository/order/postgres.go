package order

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, cartID int64, userID *int64) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var existingOrder *int64
	err = tx.QueryRow(ctx, `
SELECT order_id
FROM carts
WHERE id = $1
FOR UPDATE
`, cartID).Scan(&existingOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if existingOrder != nil {
		return nil, domain.ErrOrderExists
	}

	// Join current catalog prices; these are the prices frozen into the
	// order items, never re-read after this point.
	rows, err := tx.Query(ctx, `
SELECT ci.product_id, ci.quantity, p.price_cents
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1
ORDER BY ci.product_id ASC
`, cartID)
	if err != nil {
		return nil, err
	}

	var items []domain.OrderItem
	var total int64
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.PriceCents); err != nil {
			rows.Close()
			return nil, err
		}
		total += item.PriceCents * int64(item.Quantity)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	var order domain.Order
	if err := tx.QueryRow(ctx, `
INSERT INTO orders (user_id, total_cents, status)
VALUES ($1, $2, 'pending')
RETURNING id, user_id, total_cents, status, created_at
`, userID, total).Scan(
		&order.ID,
		&order.UserID,
		&order.TotalCents,
		&order.Status,
		&order.CreatedAt,
	); err != nil {
		return nil, err
	}

	for i := range items {
		items[i].OrderID = order.ID
		if err := tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, quantity, price_cents)
VALUES ($1, $2, $3, $4)
RETURNING id
`, order.ID, items[i].ProductID, items[i].Quantity, items[i].PriceCents).Scan(&items[i].ID); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `
UPDATE carts
SET order_id = $2
WHERE id = $1
`, cartID, order.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	order.Items = items
	return &order, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := r.pool.QueryRow(ctx, `
SELECT id, user_id, total_cents, status, created_at
FROM orders
WHERE id = $1
`, id).Scan(
		&order.ID,
		&order.UserID,
		&order.TotalCents,
		&order.Status,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price_cents, p.name
FROM order_items oi
JOIN products p ON p.id = oi.product_id
WHERE oi.order_id = $1
ORDER BY oi.id ASC
`, order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.PriceCents,
			&item.Name,
		); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *postgresRepo) Cancel(ctx context.Context, orderID int64) (*int64, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var exists int64
	err = tx.QueryRow(ctx, `SELECT id FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	// Detached orders have no cart to unlock; that is not an error.
	var cartID *int64
	err = tx.QueryRow(ctx, `
UPDATE carts
SET order_id = NULL
WHERE order_id = $1
RETURNING id
`, orderID).Scan(&cartID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return cartID, nil
}
