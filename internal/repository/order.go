package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/retailmart/retailmart/internal/models"
	"github.com/retailmart/retailmart/internal/repository/postgres"
	"github.com/shopspring/decimal"
)

const (
	insertOrderQuery = `
						INSERT INTO orders (user_id, status)
						VALUES ($1, $2)
						RETURNING id, user_id, status, total_amount, created_at, updated_at
`
	selectOrderByIDQuery = `
						SELECT id, user_id, status, total_amount, created_at, updated_at FROM orders
						WHERE id = $1
`
	selectOrdersByUserIDQuery = `
						SELECT id, user_id, status, total_amount, created_at, updated_at FROM orders
						WHERE user_id = $1
						ORDER BY created_at DESC
`
	selectItemsByOrderIDQuery = `
						SELECT id, order_id, product_id, quantity, total_cost FROM order_items
						WHERE order_id = $1
						ORDER BY id
`
	// lockOrderForItemsQuery serializes concurrent item mutations on the
	// same order: the row lock is held until the transaction commits.
	lockOrderForItemsQuery = `
						SELECT status FROM orders
						WHERE id = $1
						FOR UPDATE
`
	insertItemQuery = `
						INSERT INTO order_items (order_id, product_id, quantity, total_cost)
						VALUES ($1, $2, $3, $4)
						RETURNING id, order_id, product_id, quantity, total_cost
`
	updateItemQuery = `
						UPDATE order_items
						SET product_id = $1, quantity = $2, total_cost = $3
						WHERE id = $4 AND order_id = $5
						RETURNING id, order_id, product_id, quantity, total_cost
`
	deleteItemQuery = `
						DELETE FROM order_items
						WHERE id = $1 AND order_id = $2
`
	refreshOrderTotalQuery = `
						UPDATE orders
						SET total_amount = COALESCE((SELECT SUM(total_cost) FROM order_items WHERE order_id = $1), 0),
							updated_at = now()
						WHERE id = $1
						RETURNING total_amount
`
	updateOrderStatusQuery = `
						UPDATE orders
						SET status = $1, updated_at = now()
						WHERE id = $2 AND status = $3
`
	selectDriftedOrderIDsQuery = `
						SELECT id FROM orders
						WHERE total_amount <> COALESCE((SELECT SUM(total_cost) FROM order_items WHERE order_id = orders.id), 0)
`
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row pgx.Row, order *models.Order) error {
	return row.Scan(&order.ID, &order.UserID, &order.Status, &order.TotalAmount,
		&order.CreatedAt, &order.UpdatedAt)
}

func scanItem(row pgx.Row, item *models.OrderItem) error {
	return row.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.TotalCost)
}

// CreateOrder inserts new order to database
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := scanOrder(or.db.QueryRow(ctx, insertOrderQuery, order.UserID, order.Status), order); err != nil {
		return nil, err
	}

	order.Items = []models.OrderItem{}

	return order, nil
}

// GetOrderByID returns order with its items
func (or *OrderRepository) GetOrderByID(ctx context.Context, id uint64) (*models.Order, error) {
	order := models.Order{}
	if err := scanOrder(or.db.QueryRow(ctx, selectOrderByIDQuery, id), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	items, err := or.getOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

// GetOrdersByUserID gets user orders with items
func (or *OrderRepository) GetOrdersByUserID(ctx context.Context, userID uint64) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectOrdersByUserIDQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		if err := scanOrder(rows, &order); err != nil {
			continue
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := or.getOrderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

// CreateItem inserts order item and refreshes the order total in one
// transaction. The order row is locked first, so concurrent item writes on
// the same order are serialized and the stored total never goes stale.
func (or *OrderRepository) CreateItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	err := or.withLockedOrder(ctx, item.OrderID, func(tx pgx.Tx) error {
		return scanItem(tx.QueryRow(ctx, insertItemQuery, item.OrderID, item.ProductID, item.Quantity, item.TotalCost), item)
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// UpdateItem rewrites order item and refreshes the order total in one
// transaction
func (or *OrderRepository) UpdateItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	err := or.withLockedOrder(ctx, item.OrderID, func(tx pgx.Tx) error {
		err := scanItem(tx.QueryRow(ctx, updateItemQuery, item.ProductID, item.Quantity, item.TotalCost, item.ID, item.OrderID), item)
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrDataNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// DeleteItem removes order item and refreshes the order total in one
// transaction
func (or *OrderRepository) DeleteItem(ctx context.Context, orderID, itemID uint64) error {
	return or.withLockedOrder(ctx, orderID, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, deleteItemQuery, itemID, orderID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return models.ErrDataNotFound
		}
		return nil
	})
}

// UpdateOrderStatus moves order from one status to another. The update is
// conditional on the current status, so a concurrent transition loses and
// surfaces as a conflict.
func (or *OrderRepository) UpdateOrderStatus(ctx context.Context, orderID uint64, from, to models.OrderStatus) error {
	cmd, err := or.db.Exec(ctx, updateOrderStatusQuery, to, orderID, from)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		if _, err := or.GetOrderByID(ctx, orderID); err != nil {
			return err
		}
		return models.ErrConflictData
	}

	return nil
}

// GetDriftedOrderIDs returns ids of orders whose stored total does not
// match the sum of their items
func (or *OrderRepository) GetDriftedOrderIDs(ctx context.Context) ([]uint64, error) {
	rows, err := or.db.Query(ctx, selectDriftedOrderIDsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uint64{}

	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

// RepairOrderTotal recomputes the stored order total from its items under
// the order row lock and returns the repaired value
func (or *OrderRepository) RepairOrderTotal(ctx context.Context, orderID uint64) (decimal.Decimal, error) {
	total := decimal.Zero

	tx, err := or.db.Begin(ctx)
	if err != nil {
		return total, err
	}
	defer tx.Rollback(ctx)

	var status models.OrderStatus
	if err := tx.QueryRow(ctx, lockOrderForItemsQuery, orderID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return total, models.ErrDataNotFound
		}
		return total, err
	}

	if err := tx.QueryRow(ctx, refreshOrderTotalQuery, orderID).Scan(&total); err != nil {
		return total, err
	}

	return total, tx.Commit(ctx)
}

// withLockedOrder runs fn inside a transaction holding the order row lock,
// then refreshes the stored order total before committing. Item writes on
// non-editable orders are rejected.
func (or *OrderRepository) withLockedOrder(ctx context.Context, orderID uint64, fn func(tx pgx.Tx) error) error {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var status models.OrderStatus
	if err := tx.QueryRow(ctx, lockOrderForItemsQuery, orderID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrDataNotFound
		}
		return err
	}

	if status != models.OrderStatusNew {
		return models.ErrOrderNotEditable
	}

	if err := fn(tx); err != nil {
		return err
	}

	var total decimal.Decimal
	if err := tx.QueryRow(ctx, refreshOrderTotalQuery, orderID).Scan(&total); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (or *OrderRepository) getOrderItems(ctx context.Context, orderID uint64) ([]models.OrderItem, error) {
	rows, err := or.db.Query(ctx, selectItemsByOrderIDQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}

	for rows.Next() {
		item := models.OrderItem{}
		if err := scanItem(rows, &item); err != nil {
			continue
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
