package service

import (
	"context"

	"github.com/retailmart/retailmart/internal/models"
	"github.com/shopspring/decimal"
)

// OrderRepository is interface for interacting with order-related data.
// Item writes refresh the stored order total inside the same transaction
// under the order row lock.
type OrderRepository interface {
	// CreateOrder inserts new order to database
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrderByID returns order with its items
	GetOrderByID(ctx context.Context, id uint64) (*models.Order, error)
	// GetOrdersByUserID gets user orders with items
	GetOrdersByUserID(ctx context.Context, userID uint64) ([]models.Order, error)
	// CreateItem inserts order item and refreshes the order total
	CreateItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error)
	// UpdateItem rewrites order item and refreshes the order total
	UpdateItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error)
	// DeleteItem removes order item and refreshes the order total
	DeleteItem(ctx context.Context, orderID, itemID uint64) error
	// UpdateOrderStatus moves order from one status to another
	UpdateOrderStatus(ctx context.Context, orderID uint64, from, to models.OrderStatus) error
	// GetDriftedOrderIDs returns ids of orders with stale totals
	GetDriftedOrderIDs(ctx context.Context) ([]uint64, error)
	// RepairOrderTotal recomputes the stored order total from its items
	RepairOrderTotal(ctx context.Context, orderID uint64) (decimal.Decimal, error)
}

// ProductGetter resolves products referenced by order items
type ProductGetter interface {
	// GetProductByID returns product with its properties
	GetProductByID(ctx context.Context, id uint64) (*models.Product, error)
}

// OrderService implements OrderService interface
type OrderService struct {
	repo     OrderRepository
	products ProductGetter
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, products ProductGetter) *OrderService {
	return &OrderService{
		repo:     repo,
		products: products,
	}
}

// Create creates empty order for the caller. The initial status is always
// "new"; a client-supplied status is ignored.
func (os *OrderService) Create(ctx context.Context, actor *models.TokenPayload) (*models.Order, error) {
	order := models.Order{
		UserID: actor.UserID,
		Status: models.OrderStatusNew,
	}

	return os.repo.CreateOrder(ctx, &order)
}

// Get returns order by id. Buyers see only their own orders.
func (os *OrderService) Get(ctx context.Context, actor *models.TokenPayload, orderID uint64) (*models.Order, error) {
	order, err := os.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != actor.UserID && !actorManagesOrders(actor) {
		return nil, models.ErrDataNotFound
	}

	return order, nil
}

// ListUserOrders returns list of user orders
func (os *OrderService) ListUserOrders(ctx context.Context, userID uint64) ([]models.Order, error) {
	return os.repo.GetOrdersByUserID(ctx, userID)
}

// AddItem attaches a product to an order. The item cost is computed from
// the current product price and frozen; the order total is refreshed in
// the same transaction.
func (os *OrderService) AddItem(ctx context.Context, actor *models.TokenPayload, orderID, productID uint64, quantity uint32) (*models.OrderItem, error) {
	if _, err := os.ownOrder(ctx, actor, orderID); err != nil {
		return nil, err
	}

	cost, err := os.costFor(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}

	item := models.OrderItem{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
		TotalCost: cost,
	}

	return os.repo.CreateItem(ctx, &item)
}

// UpdateItem rewrites an order item. The frozen cost is recomputed from
// the product price current at this write.
func (os *OrderService) UpdateItem(ctx context.Context, actor *models.TokenPayload, orderID, itemID, productID uint64, quantity uint32) (*models.OrderItem, error) {
	if _, err := os.ownOrder(ctx, actor, orderID); err != nil {
		return nil, err
	}

	cost, err := os.costFor(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}

	item := models.OrderItem{
		ID:        itemID,
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
		TotalCost: cost,
	}

	return os.repo.UpdateItem(ctx, &item)
}

// DeleteItem removes an order item and refreshes the order total
func (os *OrderService) DeleteItem(ctx context.Context, actor *models.TokenPayload, orderID, itemID uint64) error {
	if _, err := os.ownOrder(ctx, actor, orderID); err != nil {
		return err
	}

	return os.repo.DeleteItem(ctx, orderID, itemID)
}

// AdvanceStatus moves order to the requested status. Only one forward step
// at a time is legal; skips, backward moves and transitions out of a
// terminal status are rejected. Supplier or staff only.
func (os *OrderService) AdvanceStatus(ctx context.Context, actor *models.TokenPayload, orderID uint64, to models.OrderStatus) (*models.Order, error) {
	if !actorManagesOrders(actor) {
		return nil, models.ErrPermissionDenied
	}

	if !to.IsValid() || to == models.OrderStatusCanceled {
		return nil, models.ErrInvalidTransition
	}

	order, err := os.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status.IsTerminal() {
		return nil, models.ErrOrderFinalized
	}

	if !order.Status.CanTransition(to) {
		return nil, models.ErrInvalidTransition
	}

	if err := os.repo.UpdateOrderStatus(ctx, orderID, order.Status, to); err != nil {
		return nil, err
	}

	return os.repo.GetOrderByID(ctx, orderID)
}

// Cancel cancels order from any status before delivery. Allowed to the
// order owner, suppliers and staff.
func (os *OrderService) Cancel(ctx context.Context, actor *models.TokenPayload, orderID uint64) (*models.Order, error) {
	order, err := os.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != actor.UserID && !actorManagesOrders(actor) {
		return nil, models.ErrDataNotFound
	}

	if order.Status.IsTerminal() {
		return nil, models.ErrOrderFinalized
	}

	if !order.Status.CanTransition(models.OrderStatusCanceled) {
		return nil, models.ErrInvalidTransition
	}

	if err := os.repo.UpdateOrderStatus(ctx, orderID, order.Status, models.OrderStatusCanceled); err != nil {
		return nil, err
	}

	return os.repo.GetOrderByID(ctx, orderID)
}

// ReconcileTotals repairs orders whose stored total drifted from the item
// sum, returns ids of repaired orders
func (os *OrderService) ReconcileTotals(ctx context.Context) ([]uint64, error) {
	ids, err := os.repo.GetDriftedOrderIDs(ctx)
	if err != nil {
		return nil, err
	}

	repaired := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, err := os.repo.RepairOrderTotal(ctx, id); err != nil {
			return repaired, err
		}
		repaired = append(repaired, id)
	}

	return repaired, nil
}

// costFor computes the frozen item cost from the current product price
func (os *OrderService) costFor(ctx context.Context, productID uint64, quantity uint32) (decimal.Decimal, error) {
	product, err := os.products.GetProductByID(ctx, productID)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return models.ComputeTotalCost(product.Price, quantity)
}

// ownOrder loads the order and verifies the actor owns it
func (os *OrderService) ownOrder(ctx context.Context, actor *models.TokenPayload, orderID uint64) (*models.Order, error) {
	order, err := os.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != actor.UserID {
		return nil, models.ErrDataNotFound
	}

	return order, nil
}

func actorManagesOrders(actor *models.TokenPayload) bool {
	return actor.Role == models.RoleSupplier || actor.IsStaff
}
