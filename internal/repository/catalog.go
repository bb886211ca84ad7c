package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/retailmart/retailmart/internal/models"
	"github.com/retailmart/retailmart/internal/repository/postgres"
)

const (
	insertCompanyQuery = `
						INSERT INTO companies (name, url, state_orders, owner_id)
						VALUES ($1, $2, $3, $4)
						RETURNING id, name, url, state_orders, owner_id
`
	selectCompaniesQuery = `
						SELECT id, name, url, state_orders, owner_id FROM companies
						ORDER BY name DESC
`
	selectCategoriesQuery = `
						SELECT id, name FROM categories
						ORDER BY name DESC
`
	insertCategoryQuery = `
						INSERT INTO categories (name)
						VALUES ($1)
						RETURNING id, name
`
	insertProductQuery = `
						INSERT INTO products (name, description, article, quantity, price, category_id, company_id)
						VALUES ($1, $2, $3, $4, $5, $6, $7)
						RETURNING id, name, description, article, quantity, price, category_id, company_id
`
	updateProductQuery = `
						UPDATE products
						SET name = $1, description = $2, quantity = $3, price = $4
						WHERE id = $5 AND company_id = $6
`
	selectProductByIDQuery = `
						SELECT id, name, description, article, quantity, price, category_id, company_id FROM products
						WHERE id = $1
`
	selectProductsQuery = `
						SELECT id, name, description, article, quantity, price, category_id, company_id FROM products
						WHERE ($1 = 0 OR category_id = $1) AND ($2 = 0 OR company_id = $2)
						ORDER BY name DESC
`
	selectProductPropertiesQuery = `
						SELECT p.name, p.unit, pp.value
						FROM product_properties pp
						JOIN properties p ON p.id = pp.property_id
						WHERE pp.product_id = $1
						ORDER BY p.name
`
)

// CatalogRepository implements CatalogRepository interface
type CatalogRepository struct {
	db *postgres.DB
}

// NewCatalogRepository creates new CatalogRepository instance
func NewCatalogRepository(db *postgres.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// CreateCompany inserts new company to database
func (cr *CatalogRepository) CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error) {
	err := cr.db.QueryRow(ctx, insertCompanyQuery, company.Name, company.URL, company.StateOrders, company.OwnerID).
		Scan(&company.ID, &company.Name, &company.URL, &company.StateOrders, &company.OwnerID)
	if err != nil {
		return nil, err
	}

	return company, nil
}

// GetCompanies returns all companies
func (cr *CatalogRepository) GetCompanies(ctx context.Context) ([]models.Company, error) {
	rows, err := cr.db.Query(ctx, selectCompaniesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := []models.Company{}

	for rows.Next() {
		company := models.Company{}
		if err := rows.Scan(&company.ID, &company.Name, &company.URL, &company.StateOrders, &company.OwnerID); err != nil {
			continue
		}
		companies = append(companies, company)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return companies, nil
}

// CreateCategory inserts new category to database
func (cr *CatalogRepository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	err := cr.db.QueryRow(ctx, insertCategoryQuery, category.Name).Scan(&category.ID, &category.Name)
	if err != nil {
		if errCode := cr.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return category, nil
}

// GetCategories returns all categories
func (cr *CatalogRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := cr.db.Query(ctx, selectCategoriesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}

	for rows.Next() {
		category := models.Category{}
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			continue
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

// CreateProduct inserts new product to database
func (cr *CatalogRepository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	err := cr.db.QueryRow(ctx, insertProductQuery, product.Name, product.Description, product.Article,
		product.Quantity, product.Price, product.CategoryID, product.CompanyID).
		Scan(&product.ID, &product.Name, &product.Description, &product.Article,
			&product.Quantity, &product.Price, &product.CategoryID, &product.CompanyID)
	if err != nil {
		if errCode := cr.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return product, nil
}

// UpdateProduct updates product owned by company
func (cr *CatalogRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	cmd, err := cr.db.Exec(ctx, updateProductQuery, product.Name, product.Description,
		product.Quantity, product.Price, product.ID, product.CompanyID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// GetProductByID returns product with its properties
func (cr *CatalogRepository) GetProductByID(ctx context.Context, id uint64) (*models.Product, error) {
	product := models.Product{}
	err := cr.db.QueryRow(ctx, selectProductByIDQuery, id).
		Scan(&product.ID, &product.Name, &product.Description, &product.Article,
			&product.Quantity, &product.Price, &product.CategoryID, &product.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	props, err := cr.getProductProperties(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Properties = props

	return &product, nil
}

// GetProducts returns products filtered by category and company; zero
// means no filtering on that field.
func (cr *CatalogRepository) GetProducts(ctx context.Context, categoryID, companyID uint64) ([]models.Product, error) {
	rows, err := cr.db.Query(ctx, selectProductsQuery, categoryID, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}

	for rows.Next() {
		product := models.Product{}
		err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Article,
			&product.Quantity, &product.Price, &product.CategoryID, &product.CompanyID)
		if err != nil {
			continue
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (cr *CatalogRepository) getProductProperties(ctx context.Context, productID uint64) ([]models.ProductProperty, error) {
	rows, err := cr.db.Query(ctx, selectProductPropertiesQuery, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	props := []models.ProductProperty{}

	for rows.Next() {
		prop := models.ProductProperty{}
		if err := rows.Scan(&prop.Name, &prop.Unit, &prop.Value); err != nil {
			continue
		}
		props = append(props, prop)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return props, nil
}
