package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/retailmart/retailmart/internal/middleware"
	"github.com/retailmart/retailmart/internal/models"
)

type OrderService interface {
	// Create creates empty order for the caller
	Create(ctx context.Context, actor *models.TokenPayload) (*models.Order, error)
	// Get returns order by id
	Get(ctx context.Context, actor *models.TokenPayload, orderID uint64) (*models.Order, error)
	// ListUserOrders returns list of user orders
	ListUserOrders(ctx context.Context, userID uint64) ([]models.Order, error)
	// AddItem attaches a product to an order with a frozen cost
	AddItem(ctx context.Context, actor *models.TokenPayload, orderID, productID uint64, quantity uint32) (*models.OrderItem, error)
	// UpdateItem rewrites an order item with a recomputed frozen cost
	UpdateItem(ctx context.Context, actor *models.TokenPayload, orderID, itemID, productID uint64, quantity uint32) (*models.OrderItem, error)
	// DeleteItem removes an order item
	DeleteItem(ctx context.Context, actor *models.TokenPayload, orderID, itemID uint64) error
	// AdvanceStatus moves order to the requested status
	AdvanceStatus(ctx context.Context, actor *models.TokenPayload, orderID uint64, to models.OrderStatus) (*models.Order, error)
	// Cancel cancels order from any non-terminal status
	Cancel(ctx context.Context, actor *models.TokenPayload, orderID uint64) (*models.Order, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type orderItemResponse struct {
	ID        uint64 `json:"id"`
	ProductID uint64 `json:"product_id"`
	Quantity  uint32 `json:"quantity"`
	TotalCost string `json:"total_cost"`
}

type orderResponse struct {
	ID          uint64              `json:"id"`
	Status      string              `json:"status"`
	TotalAmount string              `json:"total_amount"`
	Items       []orderItemResponse `json:"items"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

func newOrderItemResponse(item *models.OrderItem) orderItemResponse {
	return orderItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		TotalCost: item.TotalCost.StringFixed(2),
	}
}

func newOrderResponse(order *models.Order) orderResponse {
	resp := orderResponse{
		ID:          order.ID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount.StringFixed(2),
		Items:       []orderItemResponse{},
		CreatedAt:   order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   order.UpdatedAt.Format(time.RFC3339),
	}
	for i := range order.Items {
		resp.Items = append(resp.Items, newOrderItemResponse(&order.Items[i]))
	}
	return resp
}

// CreateOrder creates a new empty order with status "new"
// 201 — заказ создан;
// 401 — пользователь не авторизован;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		order, err := oh.svc.Create(r.Context(), payload)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, newOrderResponse(order))
	}
}

// ListUserOrders returns orders of the authenticated user
// 200 — успешная обработка запроса;
// 401 — пользователь не авторизован;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) ListUserOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := oh.svc.ListUserOrders(r.Context(), payload.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]orderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, newOrderResponse(&orders[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// GetOrder returns one order with its items
// 200 — успешная обработка запроса;
// 400 — неверный формат запроса;
// 401 — пользователь не авторизован;
// 404 — заказ не найден;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orderID, err := strconv.ParseUint(chi.URLParam(r, "orderID"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		order, err := oh.svc.Get(r.Context(), payload, orderID)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, newOrderResponse(order))
	}
}

type orderItemRequest struct {
	ProductID uint64 `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0,lte=4294967295"`
}

// AddOrderItem attaches a product to the order; the line cost is frozen at
// this write
// 201 — позиция добавлена;
// 400 — неверный формат запроса;
// 401 — пользователь не авторизован;
// 404 — заказ или продукт не найден;
// 409 — заказ уже нельзя изменять;
// 422 — количество не является положительным целым;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) AddOrderItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orderID, err := strconv.ParseUint(chi.URLParam(r, "orderID"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		var req orderItemRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, formatValidationError(err))
			return
		}

		item, err := oh.svc.AddItem(r.Context(), payload, orderID, req.ProductID, uint32(req.Quantity))
		if err != nil {
			oh.writeItemError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newOrderItemResponse(item))
	}
}

// UpdateOrderItem rewrites an order item; the line cost is recomputed from
// the current product price
// 200 — позиция обновлена;
// 400 — неверный формат запроса;
// 401 — пользователь не авторизован;
// 404 — заказ, позиция или продукт не найдены;
// 409 — заказ уже нельзя изменять;
// 422 — количество не является положительным целым;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) UpdateOrderItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orderID, err := strconv.ParseUint(chi.URLParam(r, "orderID"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		itemID, err := strconv.ParseUint(chi.URLParam(r, "itemID"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		var req orderItemRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, formatValidationError(err))
			return
		}

		item, err := oh.svc.UpdateItem(r.Context(), payload, orderID, itemID, req.ProductID, uint32(req.Quantity))
		if err != nil {
			oh.writeItemError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newOrderItemResponse(item))
	}
}

// DeleteOrderItem removes an order item; the order total is refreshed in
// the same transaction
// 204 — позиция удалена;
// 400 — неверный формат запроса;
// 401 — пользователь не авторизован;
// 404 — заказ или позиция не найдены;
// 409 — заказ уже нельзя изменять;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) DeleteOrderItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orderID, err := strconv.ParseUint(chi.URLParam(r, "orderID"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		itemID, err := strconv.ParseUint(chi.URLParam(r, "itemID"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		if err := oh.svc.DeleteItem(r.Context(), payload, orderID, itemID); err != nil {
			oh.writeItemError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderStatus moves the order one step forward in the fulfillment
// lifecycle
// 200 — статус обновлен;
// 400 — неверный формат запроса;
// 401 — пользователь не авторизован;
// 403 — пользователь не является поставщиком;
// 404 — заказ не найден;
// 409 — конкурентное изменение статуса;
// 422 — недопустимый переход статуса;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orderID, err := strconv.ParseUint(chi.URLParam(r, "orderID"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		var req orderStatusRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, formatValidationError(err))
			return
		}

		order, err := oh.svc.AdvanceStatus(r.Context(), payload, orderID, models.OrderStatus(req.Status))
		if err != nil {
			switch {
			case errors.Is(err, models.ErrPermissionDenied):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, models.ErrConflictData):
				http.Error(w, "order status has changed concurrently", http.StatusConflict)
			case errors.Is(err, models.ErrInvalidTransition), errors.Is(err, models.ErrOrderFinalized):
				http.Error(w, "invalid status transition", http.StatusUnprocessableEntity)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, newOrderResponse(order))
	}
}

// CancelOrder cancels the order from any status before delivery
// 200 — заказ отменен;
// 400 — неверный формат запроса;
// 401 — пользователь не авторизован;
// 404 — заказ не найден;
// 409 — конкурентное изменение статуса;
// 422 — заказ уже доставлен или в конечном статусе;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) CancelOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orderID, err := strconv.ParseUint(chi.URLParam(r, "orderID"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		order, err := oh.svc.Cancel(r.Context(), payload, orderID)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, models.ErrConflictData):
				http.Error(w, "order status has changed concurrently", http.StatusConflict)
			case errors.Is(err, models.ErrOrderFinalized), errors.Is(err, models.ErrInvalidTransition):
				http.Error(w, "order can no longer be canceled", http.StatusUnprocessableEntity)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, newOrderResponse(order))
	}
}

func (oh *OrderHandler) writeItemError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrDataNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, models.ErrOrderNotEditable):
		http.Error(w, "order items can no longer be changed", http.StatusConflict)
	case errors.Is(err, models.ErrInvalidQuantity):
		http.Error(w, "quantity must be a positive integer", http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
