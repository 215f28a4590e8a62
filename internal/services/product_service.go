package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gasflow/internal/models"
	"gasflow/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type ProductInput struct {
	Name        string
	Description string
	Weight      string
	NewPrice    decimal.Decimal
	SwapPrice   decimal.Decimal
	Stock       int
	ImageURL    string
}

// ProductUpdate carries the fields an admin wants to change; nil fields are
// left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Weight      *string
	NewPrice    *decimal.Decimal
	SwapPrice   *decimal.Decimal
	Stock       *int
	ImageURL    *string
	IsActive    *bool
}

type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Skipped []ImportRowError `json:"skipped"`
}

type ProductService interface {
	ListProducts(ctx context.Context, includeInactive bool) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, input ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ImportProducts(ctx context.Context, r io.Reader) (*ImportResult, error)
}

type productService struct {
	repos *repository.Repositories
	cache Cache
}

func NewProductService(repos *repository.Repositories, cache Cache) ProductService {
	return &productService{repos: repos, cache: cache}
}

func (s *productService) ListProducts(ctx context.Context, includeInactive bool) ([]models.Product, error) {
	return s.repos.Products.GetAll(ctx, !includeInactive)
}

func (s *productService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookup(err, "product")
	}
	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Weight:      strings.TrimSpace(input.Weight),
		NewPrice:    input.NewPrice,
		SwapPrice:   input.SwapPrice,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		IsActive:    true,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.repos.Products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	invalidateDashboard(ctx, s.cache)
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, input ProductUpdate) (*models.Product, error) {
	product, err := s.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookup(err, "product")
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Weight != nil {
		product.Weight = strings.TrimSpace(*input.Weight)
	}
	if input.NewPrice != nil {
		product.NewPrice = *input.NewPrice
	}
	if input.SwapPrice != nil {
		product.SwapPrice = *input.SwapPrice
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.repos.Products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	invalidateDashboard(ctx, s.cache)
	return product, nil
}

// DeleteProduct hides the product from the catalog. Past orders keep
// referencing it.
func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repos.Products.Deactivate(ctx, id); err != nil {
		return wrapLookup(err, "product")
	}
	invalidateDashboard(ctx, s.cache)
	return nil
}

// ImportProducts upserts products from the first sheet of an xlsx workbook.
// The first row is a header; columns are name, weight, newPrice, swapPrice
// and stock. Products are matched on name and weight. Rows that cannot be
// parsed are reported and skipped.
func (s *productService) ImportProducts(ctx context.Context, r io.Reader) (*ImportResult, error) {
	xlsx, err := excelize.OpenReader(r)
	if err != nil {
		return nil, validationError("invalid excel file")
	}
	defer xlsx.Close()

	sheets := xlsx.GetSheetList()
	if len(sheets) == 0 {
		return nil, validationError("workbook has no sheets")
	}
	rows, err := xlsx.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	result := &ImportResult{Skipped: []ImportRowError{}}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		for i, row := range rows {
			if i == 0 || isBlankRow(row) {
				continue
			}
			line := i + 1

			parsed, reason := parseProductRow(row)
			if reason != "" {
				result.Skipped = append(result.Skipped, ImportRowError{Row: line, Reason: reason})
				continue
			}

			existing, err := tx.Products.GetByName(ctx, parsed.Name, parsed.Weight)
			switch {
			case err == nil:
				existing.NewPrice = parsed.NewPrice
				existing.SwapPrice = parsed.SwapPrice
				existing.Stock = parsed.Stock
				existing.IsActive = true
				if err := tx.Products.Update(ctx, existing); err != nil {
					return fmt.Errorf("row %d: %w", line, err)
				}
				result.Updated++
			case repository.IsNotFound(err):
				parsed.IsActive = true
				if err := tx.Products.Create(ctx, parsed); err != nil {
					return fmt.Errorf("row %d: %w", line, err)
				}
				result.Created++
			default:
				return fmt.Errorf("row %d: %w", line, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import products: %w", err)
	}

	if result.Created+result.Updated > 0 {
		invalidateDashboard(ctx, s.cache)
	}
	return result, nil
}

func parseProductRow(row []string) (*models.Product, string) {
	if len(row) < 5 {
		return nil, "expected 5 columns: name, weight, newPrice, swapPrice, stock"
	}
	name := strings.TrimSpace(row[0])
	weight := strings.TrimSpace(row[1])
	if name == "" || weight == "" {
		return nil, "name and weight are required"
	}
	newPrice, err := decimal.NewFromString(strings.TrimSpace(row[2]))
	if err != nil {
		return nil, "invalid newPrice"
	}
	swapPrice, err := decimal.NewFromString(strings.TrimSpace(row[3]))
	if err != nil {
		return nil, "invalid swapPrice"
	}
	stock, err := strconv.Atoi(strings.TrimSpace(row[4]))
	if err != nil {
		return nil, "invalid stock"
	}

	product := &models.Product{
		Name:      name,
		Weight:    weight,
		NewPrice:  newPrice,
		SwapPrice: swapPrice,
		Stock:     stock,
	}
	if err := validateProduct(product); err != nil {
		return nil, strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
	}
	return product, ""
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func validateProduct(p *models.Product) error {
	if p.Name == "" || p.Weight == "" {
		return validationError("name and weight are required")
	}
	if p.NewPrice.IsNegative() || p.SwapPrice.IsNegative() {
		return validationError("prices cannot be negative")
	}
	if p.Stock < 0 {
		return validationError("stock cannot be negative")
	}
	return nil
}
