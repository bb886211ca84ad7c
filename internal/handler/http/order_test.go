package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/retailmart/retailmart/internal/handler/http/mocks"
	"github.com/retailmart/retailmart/internal/middleware"
	"github.com/retailmart/retailmart/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderHandler_AddOrderItem(t *testing.T) {
	tests := []struct {
		name           string
		token          *models.TokenPayload
		target         string
		body           string
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
	}{
		{
			name:   "valid_request_return_201",
			token:  &models.TokenPayload{UserID: 1, Role: models.RoleBuyer},
			target: "/api/orders/10/items",
			body:   `{"product_id":1,"quantity":3}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AddItem(gomock.Any(), gomock.Any(), uint64(10), uint64(1), uint32(3)).
					Return(&models.OrderItem{
						ID:        5,
						OrderID:   10,
						ProductID: 1,
						Quantity:  3,
						TotalCost: decimal.RequireFromString("450.00"),
					}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:   "unauthorized_request_return_401",
			target: "/api/orders/10/items",
			body:   `{"product_id":1,"quantity":3}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AddItem(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:   "bad_body_return_400",
			token:  &models.TokenPayload{UserID: 1, Role: models.RoleBuyer},
			target: "/api/orders/10/items",
			body:   `{`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AddItem(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:   "zero_quantity_return_422",
			token:  &models.TokenPayload{UserID: 1, Role: models.RoleBuyer},
			target: "/api/orders/10/items",
			body:   `{"product_id":1,"quantity":0}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AddItem(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:   "negative_quantity_return_422",
			token:  &models.TokenPayload{UserID: 1, Role: models.RoleBuyer},
			target: "/api/orders/10/items",
			body:   `{"product_id":1,"quantity":-1}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AddItem(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:   "quantity_over_uint32_return_422",
			token:  &models.TokenPayload{UserID: 1, Role: models.RoleBuyer},
			target: "/api/orders/10/items",
			body:   `{"product_id":1,"quantity":4294967297}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AddItem(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:   "missing_product_return_404",
			token:  &models.TokenPayload{UserID: 1, Role: models.RoleBuyer},
			target: "/api/orders/10/items",
			body:   `{"product_id":777,"quantity":3}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AddItem(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, models.ErrDataNotFound).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:   "confirmed_order_return_409",
			token:  &models.TokenPayload{UserID: 1, Role: models.RoleBuyer},
			target: "/api/orders/10/items",
			body:   `{"product_id":1,"quantity":3}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AddItem(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, models.ErrOrderNotEditable).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:   "internal_error_return_500",
			token:  &models.TokenPayload{UserID: 1, Role: models.RoleBuyer},
			target: "/api/orders/10/items",
			body:   `{"product_id":1,"quantity":3}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AddItem(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("db is down")).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.body))
			require.NoError(t, err)

			if tt.token != nil {
				req = req.WithContext(middleware.WithAuthPayload(req.Context(), tt.token))
			}

			w := httptest.NewRecorder()

			router := chi.NewRouter()
			router.Post("/api/orders/{orderID}/items", NewOrderHandler(tt.setup(t)).AddOrderItem())
			router.ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}

func TestOrderHandler_UpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name           string
		token          *models.TokenPayload
		body           string
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
	}{
		{
			name:  "valid_request_return_200",
			token: &models.TokenPayload{UserID: 3, Role: models.RoleSupplier},
			body:  `{"status":"confirmed"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AdvanceStatus(gomock.Any(), gomock.Any(), uint64(10), models.OrderStatusConfirmed).
					Return(&models.Order{ID: 10, Status: models.OrderStatusConfirmed}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "unauthorized_request_return_401",
			body: `{"status":"confirmed"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AdvanceStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:  "buyer_request_return_403",
			token: &models.TokenPayload{UserID: 1, Role: models.RoleBuyer},
			body:  `{"status":"confirmed"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AdvanceStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, models.ErrPermissionDenied).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:  "skip_transition_return_422",
			token: &models.TokenPayload{UserID: 3, Role: models.RoleSupplier},
			body:  `{"status":"sent"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AdvanceStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, models.ErrInvalidTransition).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:  "terminal_order_return_422",
			token: &models.TokenPayload{UserID: 3, Role: models.RoleSupplier},
			body:  `{"status":"confirmed"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AdvanceStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, models.ErrOrderFinalized).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:  "concurrent_change_return_409",
			token: &models.TokenPayload{UserID: 3, Role: models.RoleSupplier},
			body:  `{"status":"confirmed"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AdvanceStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, models.ErrConflictData).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:  "missing_order_return_404",
			token: &models.TokenPayload{UserID: 3, Role: models.RoleSupplier},
			body:  `{"status":"confirmed"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AdvanceStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, models.ErrDataNotFound).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/api/orders/10/status", strings.NewReader(tt.body))
			require.NoError(t, err)

			if tt.token != nil {
				req = req.WithContext(middleware.WithAuthPayload(req.Context(), tt.token))
			}

			w := httptest.NewRecorder()

			router := chi.NewRouter()
			router.Post("/api/orders/{orderID}/status", NewOrderHandler(tt.setup(t)).UpdateOrderStatus())
			router.ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}

func TestOrderHandler_GetOrder(t *testing.T) {
	createdAt := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svcMock := mocks.NewMockOrderService(ctrl)
	svcMock.EXPECT().Get(gomock.Any(), gomock.Any(), uint64(10)).
		Return(&models.Order{
			ID:          10,
			UserID:      1,
			Status:      models.OrderStatusNew,
			TotalAmount: decimal.RequireFromString("570.50"),
			Items: []models.OrderItem{
				{ID: 1, OrderID: 10, ProductID: 1, Quantity: 3, TotalCost: decimal.RequireFromString("450.00")},
				{ID: 2, OrderID: 10, ProductID: 2, Quantity: 1, TotalCost: decimal.RequireFromString("120.50")},
			},
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}, nil)

	req, err := http.NewRequest(http.MethodGet, "/api/orders/10", nil)
	require.NoError(t, err)
	req = req.WithContext(middleware.WithAuthPayload(req.Context(), &models.TokenPayload{UserID: 1, Role: models.RoleBuyer}))

	w := httptest.NewRecorder()

	router := chi.NewRouter()
	router.Get("/api/orders/{orderID}", NewOrderHandler(svcMock).GetOrder())
	router.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var got orderResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))

	want := orderResponse{
		ID:          10,
		Status:      "new",
		TotalAmount: "570.50",
		Items: []orderItemResponse{
			{ID: 1, ProductID: 1, Quantity: 3, TotalCost: "450.00"},
			{ID: 2, ProductID: 2, Quantity: 1, TotalCost: "120.50"},
		},
		CreatedAt: createdAt.Format(time.RFC3339),
		UpdatedAt: createdAt.Format(time.RFC3339),
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected response (-want +got):\n%s", diff)
	}
}
