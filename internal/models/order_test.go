package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotalCost(t *testing.T) {
	tests := []struct {
		name     string
		price    uint64
		quantity uint32
		want     string
		wantErr  error
	}{
		{
			name:     "price_150_quantity_3",
			price:    150,
			quantity: 3,
			want:     "450.00",
		},
		{
			name:     "price_1_quantity_1",
			price:    1,
			quantity: 1,
			want:     "1.00",
		},
		{
			name:     "large_price_and_quantity",
			price:    99999999,
			quantity: 1000,
			want:     "99999999000.00",
		},
		{
			name:     "zero_quantity_rejected",
			price:    150,
			quantity: 0,
			wantErr:  ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTotalCost(tt.price, tt.quantity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestComputeTotalCostExact(t *testing.T) {
	// result must equal price*quantity exactly for any positive inputs
	for price := uint64(1); price <= 50; price += 7 {
		for quantity := uint32(1); quantity <= 40; quantity += 3 {
			got, err := ComputeTotalCost(price, quantity)
			require.NoError(t, err)

			want := decimal.NewFromUint64(price * uint64(quantity))
			assert.True(t, got.Equal(want), "price=%d quantity=%d got=%s", price, quantity, got)
		}
	}
}

func TestOrderStatusCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"new_to_confirmed", OrderStatusNew, OrderStatusConfirmed, true},
		{"confirmed_to_assembled", OrderStatusConfirmed, OrderStatusAssembled, true},
		{"assembled_to_sent", OrderStatusAssembled, OrderStatusSent, true},
		{"sent_to_delivered", OrderStatusSent, OrderStatusDelivered, true},
		{"delivered_to_closed", OrderStatusDelivered, OrderStatusClosed, true},

		{"skip_new_to_sent", OrderStatusNew, OrderStatusSent, false},
		{"skip_new_to_closed", OrderStatusNew, OrderStatusClosed, false},
		{"skip_confirmed_to_delivered", OrderStatusConfirmed, OrderStatusDelivered, false},
		{"backward_assembled_to_new", OrderStatusAssembled, OrderStatusNew, false},
		{"backward_delivered_to_sent", OrderStatusDelivered, OrderStatusSent, false},
		{"self_new_to_new", OrderStatusNew, OrderStatusNew, false},

		{"cancel_from_new", OrderStatusNew, OrderStatusCanceled, true},
		{"cancel_from_confirmed", OrderStatusConfirmed, OrderStatusCanceled, true},
		{"cancel_from_assembled", OrderStatusAssembled, OrderStatusCanceled, true},
		{"cancel_from_sent", OrderStatusSent, OrderStatusCanceled, true},

		{"cancel_from_delivered", OrderStatusDelivered, OrderStatusCanceled, false},
		{"cancel_from_closed", OrderStatusClosed, OrderStatusCanceled, false},
		{"cancel_from_canceled", OrderStatusCanceled, OrderStatusCanceled, false},
		{"closed_to_confirmed", OrderStatusClosed, OrderStatusConfirmed, false},
		{"canceled_to_new", OrderStatusCanceled, OrderStatusNew, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestOrderStatusNext(t *testing.T) {
	// the full forward progression must be reachable step by step
	want := []OrderStatus{
		OrderStatusConfirmed,
		OrderStatusAssembled,
		OrderStatusSent,
		OrderStatusDelivered,
		OrderStatusClosed,
	}

	status := OrderStatusNew
	for _, next := range want {
		got, ok := status.Next()
		require.True(t, ok, "no next status after %s", status)
		assert.Equal(t, next, got)
		status = got
	}

	_, ok := status.Next()
	assert.False(t, ok, "terminal status %s must have no next", status)

	_, ok = OrderStatusCanceled.Next()
	assert.False(t, ok)
}

func TestOrderStatusIsTerminal(t *testing.T) {
	assert.True(t, OrderStatusClosed.IsTerminal())
	assert.True(t, OrderStatusCanceled.IsTerminal())
	assert.False(t, OrderStatusNew.IsTerminal())
	assert.False(t, OrderStatusDelivered.IsTerminal())
}

func TestOrderSumItems(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{TotalCost: decimal.RequireFromString("450.00")},
			{TotalCost: decimal.RequireFromString("120.50")},
		},
	}

	assert.Equal(t, "570.50", order.SumItems().StringFixed(2))

	order.Items = order.Items[1:]
	assert.Equal(t, "120.50", order.SumItems().StringFixed(2))

	order.Items = nil
	assert.True(t, order.SumItems().IsZero())
}
