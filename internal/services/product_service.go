package services

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/saiinfotech/catalog-be/internal/models"
)

// ProductFilter narrows a product listing. Filters compose with AND; zero
// values are ignored.
type ProductFilter struct {
	Search   string // case-insensitive substring match on name/description
	Category string // exact match
	Status   string // exact match
}

// ProductInput carries the fields for creating a product.
type ProductInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
	Status      string   `json:"status"`
	Featured    bool     `json:"featured"`
}

// ProductPatch carries a partial update; only non-nil fields are applied.
type ProductPatch struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *string   `json:"price"`
	Category    *string   `json:"category"`
	Images      *[]string `json:"images"`
	Status      *string   `json:"status"`
	Featured    *bool     `json:"featured"`
}

// ProductServiceProvider defines the interface for product services.
type ProductServiceProvider interface {
	GetAllProducts(filter ProductFilter) ([]models.Product, error)
	GetFeaturedProducts() ([]models.Product, error)
	GetProductByID(id int64) (models.Product, error)
	CreateProduct(input ProductInput) (models.Product, error)
	UpdateProduct(id int64, patch ProductPatch) (models.Product, error)
	DeleteProduct(id int64) (bool, error)
	GetProductStats() (models.ProductStats, error)
}

// ProductService provides business logic for catalog management.
type ProductService struct {
	db *sql.DB
}

// NewProductService creates a new ProductService.
func NewProductService(db *sql.DB) *ProductService {
	return &ProductService{db: db}
}

const productColumns = "id, name, description, price, category, images_json, status, featured, created_at, updated_at"

// scanProduct is a helper to scan a product from a row or rows object.
func scanProduct(scanner interface{ Scan(...interface{}) error }) (models.Product, error) {
	var p models.Product
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.ImagesJSON, &p.Status, &p.Featured, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return p, err
	}
	p.PrepareForAPI()
	return p, nil
}

// GetAllProducts retrieves products matching the filter, in insertion order.
func (s *ProductService) GetAllProducts(filter ProductFilter) ([]models.Product, error) {
	query := "SELECT " + productColumns + " FROM products"
	var conds []string
	var args []interface{}

	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		conds = append(conds, "(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)")
		args = append(args, needle, needle)
	}
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	return s.queryProducts(query, args...)
}

// GetFeaturedProducts retrieves the products flagged for the storefront's
// featured section, in insertion order.
func (s *ProductService) GetFeaturedProducts() ([]models.Product, error) {
	return s.queryProducts("SELECT " + productColumns + " FROM products WHERE featured = 1 ORDER BY id")
}

func (s *ProductService) queryProducts(query string, args ...interface{}) ([]models.Product, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id int64) (models.Product, error) {
	row := s.db.QueryRow("SELECT "+productColumns+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return models.Product{}, err
	}
	return p, nil
}

// CreateProduct validates the input and adds a new product to the catalog.
// The ID and timestamps are generated here, never supplied by the caller.
func (s *ProductService) CreateProduct(input ProductInput) (models.Product, error) {
	if input.Status == "" {
		input.Status = models.StatusInStock
	}
	if err := validateProductFields(input.Name, input.Price, input.Status); err != nil {
		return models.Product{}, err
	}

	now := time.Now().UTC()
	product := models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Images:      input.Images,
		Status:      input.Status,
		Featured:    input.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	product.PrepareForSave()

	stmt, err := s.db.Prepare(`
		INSERT INTO products(name, description, price, category, images_json, status, featured, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(
		product.Name, product.Description, product.Price, product.Category,
		product.ImagesJSON, product.Status, product.Featured, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to execute statement: %w", err)
	}

	product.ID, err = res.LastInsertId()
	if err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// UpdateProduct merges only the supplied fields into an existing product and
// refreshes its updated timestamp. Concurrent updates are last-write-wins,
// which is acceptable for a single admin operator.
func (s *ProductService) UpdateProduct(id int64, patch ProductPatch) (models.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return models.Product{}, err
	}

	if patch.Name != nil {
		product.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Images != nil {
		product.Images = *patch.Images
	}
	if patch.Status != nil {
		product.Status = *patch.Status
	}
	if patch.Featured != nil {
		product.Featured = *patch.Featured
	}

	if err := validateProductFields(product.Name, product.Price, product.Status); err != nil {
		return models.Product{}, err
	}

	product.UpdatedAt = time.Now().UTC()
	product.PrepareForSave()

	stmt, err := s.db.Prepare(`
		UPDATE products SET name = ?, description = ?, price = ?, category = ?,
		                    images_json = ?, status = ?, featured = ?, updated_at = ?
		WHERE id = ?`)
	if err != nil {
		return models.Product{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		product.Name, product.Description, product.Price, product.Category,
		product.ImagesJSON, product.Status, product.Featured, product.UpdatedAt, id,
	)
	if err != nil {
		return models.Product{}, err
	}

	return s.GetProductByID(id)
}

// DeleteProduct removes a product, reporting whether a record existed.
func (s *ProductService) DeleteProduct(id int64) (bool, error) {
	res, err := s.db.Exec("DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// GetProductStats computes the aggregate stock counts, fresh on every call.
func (s *ProductService) GetProductStats() (models.ProductStats, error) {
	var stats models.ProductStats
	row := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = 'in_stock' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'low_stock' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'out_of_stock' THEN 1 ELSE 0 END), 0)
		FROM products`)
	err := row.Scan(&stats.TotalProducts, &stats.InStock, &stats.LowStock, &stats.OutOfStock)
	if err != nil {
		return models.ProductStats{}, err
	}
	return stats, nil
}

// validateProductFields checks the fields every stored product must satisfy.
func validateProductFields(name, price, status string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required: %w", ErrValidation)
	}
	if price == "" {
		return fmt.Errorf("price is required: %w", ErrValidation)
	}
	value, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return fmt.Errorf("price %q is not numeric: %w", price, ErrValidation)
	}
	if value < 0 {
		return fmt.Errorf("price must not be negative: %w", ErrValidation)
	}
	if !models.ValidStatus(status) {
		return fmt.Errorf("unknown status %q: %w", status, ErrValidation)
	}
	return nil
}
