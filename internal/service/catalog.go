package service

import (
	"context"

	"github.com/retailmart/retailmart/internal/models"
)

// CatalogRepository is interface for interacting with catalog-related data
type CatalogRepository interface {
	// CreateCompany inserts new company to database
	CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error)
	// GetCompanies returns all companies
	GetCompanies(ctx context.Context) ([]models.Company, error)
	// CreateCategory inserts new category to database
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	// GetCategories returns all categories
	GetCategories(ctx context.Context) ([]models.Category, error)
	// CreateProduct inserts new product to database
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	// UpdateProduct updates product owned by company
	UpdateProduct(ctx context.Context, product *models.Product) error
	// GetProductByID returns product with its properties
	GetProductByID(ctx context.Context, id uint64) (*models.Product, error)
	// GetProducts returns products filtered by category and company
	GetProducts(ctx context.Context, categoryID, companyID uint64) ([]models.Product, error)
}

// CatalogService implements CatalogService interface
type CatalogService struct {
	repo CatalogRepository
}

// NewCatalogService creates new CatalogService instance
func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// CreateCompany registers a company for a supplier account
func (cs *CatalogService) CreateCompany(ctx context.Context, actor *models.TokenPayload, company *models.Company) (*models.Company, error) {
	if actor.Role != models.RoleSupplier && !actor.IsStaff {
		return nil, models.ErrPermissionDenied
	}

	company.OwnerID = actor.UserID

	return cs.repo.CreateCompany(ctx, company)
}

// ListCompanies returns all companies
func (cs *CatalogService) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return cs.repo.GetCompanies(ctx)
}

// CreateCategory creates new product category
func (cs *CatalogService) CreateCategory(ctx context.Context, actor *models.TokenPayload, category *models.Category) (*models.Category, error) {
	if actor.Role != models.RoleSupplier && !actor.IsStaff {
		return nil, models.ErrPermissionDenied
	}

	return cs.repo.CreateCategory(ctx, category)
}

// ListCategories returns all categories
func (cs *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return cs.repo.GetCategories(ctx)
}

// CreateProduct creates new catalog product for a supplier
func (cs *CatalogService) CreateProduct(ctx context.Context, actor *models.TokenPayload, product *models.Product) (*models.Product, error) {
	if actor.Role != models.RoleSupplier && !actor.IsStaff {
		return nil, models.ErrPermissionDenied
	}

	return cs.repo.CreateProduct(ctx, product)
}

// UpdateProduct updates catalog product for a supplier
func (cs *CatalogService) UpdateProduct(ctx context.Context, actor *models.TokenPayload, product *models.Product) (*models.Product, error) {
	if actor.Role != models.RoleSupplier && !actor.IsStaff {
		return nil, models.ErrPermissionDenied
	}

	if err := cs.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	return cs.repo.GetProductByID(ctx, product.ID)
}

// GetProduct returns product by id with its properties
func (cs *CatalogService) GetProduct(ctx context.Context, id uint64) (*models.Product, error) {
	return cs.repo.GetProductByID(ctx, id)
}

// ListProducts returns products filtered by category and company
func (cs *CatalogService) ListProducts(ctx context.Context, categoryID, companyID uint64) ([]models.Product, error) {
	return cs.repo.GetProducts(ctx, categoryID, companyID)
}
