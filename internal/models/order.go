package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is a value from the order fulfillment lifecycle.
type OrderStatus string

// order status
const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusAssembled OrderStatus = "assembled"
	OrderStatusSent      OrderStatus = "sent"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusClosed    OrderStatus = "closed"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// statusRank orders the forward progression. Terminal statuses carry no rank.
var statusRank = map[OrderStatus]int{
	OrderStatusNew:       0,
	OrderStatusConfirmed: 1,
	OrderStatusAssembled: 2,
	OrderStatusSent:      3,
	OrderStatusDelivered: 4,
	OrderStatusClosed:    5,
}

// IsValid reports whether s is a known status value.
func (s OrderStatus) IsValid() bool {
	if s == OrderStatusCanceled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// IsTerminal reports whether no further transitions are permitted from s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusClosed || s == OrderStatusCanceled
}

// Next returns the status directly after s in the forward progression.
// ok is false for terminal and unknown statuses.
func (s OrderStatus) Next() (OrderStatus, bool) {
	rank, known := statusRank[s]
	if !known || s == OrderStatusClosed {
		return "", false
	}
	for st, r := range statusRank {
		if r == rank+1 {
			return st, true
		}
	}
	return "", false
}

// CanTransition reports whether s may move to next: exactly one step
// forward, or to canceled from any status before delivery.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCanceled {
		rank, ok := statusRank[s]
		return ok && rank < statusRank[OrderStatusDelivered]
	}
	want, ok := s.Next()
	return ok && next == want
}

// Order is order entity
type Order struct {
	ID          uint64
	UserID      uint64
	Status      OrderStatus
	TotalAmount decimal.Decimal
	Items       []OrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem is one product/quantity pairing within an order. TotalCost is
// frozen at write time from the product price current at that moment.
type OrderItem struct {
	ID        uint64
	OrderID   uint64
	ProductID uint64
	Quantity  uint32
	TotalCost decimal.Decimal
}

// ComputeTotalCost returns price × quantity as an exact fixed-point decimal
// with two fraction digits. Quantity must be positive.
func ComputeTotalCost(price uint64, quantity uint32) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Decimal{}, ErrInvalidQuantity
	}
	cost := decimal.NewFromUint64(price).Mul(decimal.NewFromInt(int64(quantity)))
	return cost.Round(2), nil
}

// SumItems returns the sum of the frozen item costs.
func (o *Order) SumItems() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range o.Items {
		sum = sum.Add(item.TotalCost)
	}
	return sum
}
