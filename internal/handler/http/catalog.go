package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/retailmart/retailmart/internal/middleware"
	"github.com/retailmart/retailmart/internal/models"
)

type CatalogService interface {
	// CreateCompany registers a company for a supplier account
	CreateCompany(ctx context.Context, actor *models.TokenPayload, company *models.Company) (*models.Company, error)
	// ListCompanies returns all companies
	ListCompanies(ctx context.Context) ([]models.Company, error)
	// CreateCategory creates new product category
	CreateCategory(ctx context.Context, actor *models.TokenPayload, category *models.Category) (*models.Category, error)
	// ListCategories returns all categories
	ListCategories(ctx context.Context) ([]models.Category, error)
	// CreateProduct creates new catalog product for a supplier
	CreateProduct(ctx context.Context, actor *models.TokenPayload, product *models.Product) (*models.Product, error)
	// UpdateProduct updates catalog product for a supplier
	UpdateProduct(ctx context.Context, actor *models.TokenPayload, product *models.Product) (*models.Product, error)
	// GetProduct returns product by id with its properties
	GetProduct(ctx context.Context, id uint64) (*models.Product, error)
	// ListProducts returns products filtered by category and company
	ListProducts(ctx context.Context, categoryID, companyID uint64) ([]models.Product, error)
}

// CatalogHandler represents HTTP handler for catalog-related requests
type CatalogHandler struct {
	svc CatalogService
}

// NewCatalogHandler creates new CatalogHandler instance
func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

type companyRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	URL         string `json:"url" validate:"omitempty,url"`
	StateOrders *bool  `json:"state_orders"`
}

type companyResponse struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url,omitempty"`
	StateOrders bool   `json:"state_orders"`
}

// CreateCompany registers a trading company for the authenticated supplier
// 201 — компания создана;
// 400 — неверный формат запроса;
// 401 — пользователь не авторизован;
// 403 — пользователь не является поставщиком;
// 500 — внутренняя ошибка сервера.
func (ch *CatalogHandler) CreateCompany() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req companyRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, formatValidationError(err))
			return
		}

		company := models.Company{
			Name:        req.Name,
			URL:         req.URL,
			StateOrders: true,
		}
		if req.StateOrders != nil {
			company.StateOrders = *req.StateOrders
		}

		created, err := ch.svc.CreateCompany(r.Context(), payload, &company)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrPermissionDenied):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, companyResponse{
			ID:          created.ID,
			Name:        created.Name,
			URL:         created.URL,
			StateOrders: created.StateOrders,
		})
	}
}

// ListCompanies returns all registered companies
func (ch *CatalogHandler) ListCompanies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companies, err := ch.svc.ListCompanies(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]companyResponse, 0, len(companies))
		for _, company := range companies {
			resp = append(resp, companyResponse{
				ID:          company.ID,
				Name:        company.Name,
				URL:         company.URL,
				StateOrders: company.StateOrders,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

type categoryResponse struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// CreateCategory creates a product category
// 201 — категория создана;
// 400 — неверный формат запроса;
// 401 — пользователь не авторизован;
// 403 — пользователь не является поставщиком;
// 409 — категория уже существует;
// 500 — внутренняя ошибка сервера.
func (ch *CatalogHandler) CreateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req categoryRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, formatValidationError(err))
			return
		}

		created, err := ch.svc.CreateCategory(r.Context(), payload, &models.Category{Name: req.Name})
		if err != nil {
			switch {
			case errors.Is(err, models.ErrPermissionDenied):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, models.ErrConflictData):
				http.Error(w, "category already exists", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, categoryResponse{ID: created.ID, Name: created.Name})
	}
}

// ListCategories returns all categories
func (ch *CatalogHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := ch.svc.ListCategories(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]categoryResponse, 0, len(categories))
		for _, category := range categories {
			resp = append(resp, categoryResponse{ID: category.ID, Name: category.Name})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type productRequest struct {
	Name        string `json:"name" validate:"required,max=80"`
	Description string `json:"description" validate:"omitempty,max=150"`
	Article     uint64 `json:"article" validate:"required"`
	Quantity    uint32 `json:"quantity"`
	Price       uint64 `json:"price" validate:"required,gt=0"`
	CategoryID  uint64 `json:"category_id" validate:"required"`
	CompanyID   uint64 `json:"company_id" validate:"required"`
}

type productPropertyResponse struct {
	Name  string `json:"name"`
	Unit  string `json:"unit,omitempty"`
	Value string `json:"value"`
}

type productResponse struct {
	ID          uint64                    `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Article     uint64                    `json:"article"`
	Quantity    uint32                    `json:"quantity"`
	Price       uint64                    `json:"price"`
	CategoryID  uint64                    `json:"category_id"`
	CompanyID   uint64                    `json:"company_id"`
	Properties  []productPropertyResponse `json:"properties,omitempty"`
}

func newProductResponse(product *models.Product) productResponse {
	resp := productResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Article:     product.Article,
		Quantity:    product.Quantity,
		Price:       product.Price,
		CategoryID:  product.CategoryID,
		CompanyID:   product.CompanyID,
	}
	for _, prop := range product.Properties {
		resp.Properties = append(resp.Properties, productPropertyResponse{
			Name:  prop.Name,
			Unit:  prop.Unit,
			Value: prop.Value,
		})
	}
	return resp
}

// CreateProduct creates a catalog product
// 201 — продукт создан;
// 400 — неверный формат запроса;
// 401 — пользователь не авторизован;
// 403 — пользователь не является поставщиком;
// 409 — артикул уже занят;
// 500 — внутренняя ошибка сервера.
func (ch *CatalogHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req productRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, formatValidationError(err))
			return
		}

		product := models.Product{
			Name:        req.Name,
			Description: req.Description,
			Article:     req.Article,
			Quantity:    req.Quantity,
			Price:       req.Price,
			CategoryID:  req.CategoryID,
			CompanyID:   req.CompanyID,
		}

		created, err := ch.svc.CreateProduct(r.Context(), payload, &product)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrPermissionDenied):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, models.ErrConflictData):
				http.Error(w, "article already exists", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, newProductResponse(created))
	}
}

// UpdateProduct updates a catalog product of the supplier company
// 200 — продукт обновлен;
// 400 — неверный формат запроса;
// 401 — пользователь не авторизован;
// 403 — пользователь не является поставщиком;
// 404 — продукт не найден;
// 500 — внутренняя ошибка сервера.
func (ch *CatalogHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.ParseUint(chi.URLParam(r, "productID"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		var req productRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, formatValidationError(err))
			return
		}

		product := models.Product{
			ID:          id,
			Name:        req.Name,
			Description: req.Description,
			Article:     req.Article,
			Quantity:    req.Quantity,
			Price:       req.Price,
			CategoryID:  req.CategoryID,
			CompanyID:   req.CompanyID,
		}

		updated, err := ch.svc.UpdateProduct(r.Context(), payload, &product)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrPermissionDenied):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "product not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, newProductResponse(updated))
	}
}

// GetProduct returns one product with its properties
// 200 — успешная обработка запроса;
// 400 — неверный формат запроса;
// 404 — продукт не найден;
// 500 — внутренняя ошибка сервера.
func (ch *CatalogHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "productID"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		product, err := ch.svc.GetProduct(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "product not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, newProductResponse(product))
	}
}

// ListProducts returns products, optionally filtered by category and company
// query parameters
func (ch *CatalogHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var categoryID, companyID uint64

		if v := r.URL.Query().Get("category"); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			categoryID = id
		}
		if v := r.URL.Query().Get("company"); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			companyID = id
		}

		products, err := ch.svc.ListProducts(r.Context(), categoryID, companyID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]productResponse, 0, len(products))
		for i := range products {
			resp = append(resp, newProductResponse(&products[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
