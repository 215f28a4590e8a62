package services

import (
	"context"
	"fmt"

	"gasflow/internal/models"
	"gasflow/internal/repository"
)

type CartService interface {
	GetCart(ctx context.Context, userID string) ([]models.CartItem, error)
	AddItem(ctx context.Context, userID, productID string, orderType models.OrderType, quantity int) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
}

type cartService struct {
	repos *repository.Repositories
}

func NewCartService(repos *repository.Repositories) CartService {
	return &cartService{repos: repos}
}

func (s *cartService) GetCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	return s.repos.Cart.GetByUserID(ctx, userID)
}

// AddItem puts a product in the cart. Adding the same product and order type
// again increases the quantity of the existing line.
func (s *cartService) AddItem(ctx context.Context, userID, productID string, orderType models.OrderType, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, validationError("quantity must be at least 1")
	}
	if !orderType.Valid() {
		return nil, validationError("type must be new or swap")
	}

	product, err := s.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, wrapLookup(err, "product")
	}
	if !product.IsActive {
		return nil, notFound("product")
	}

	var item *models.CartItem
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		existing, err := tx.Cart.Find(ctx, userID, productID, orderType)
		switch {
		case err == nil:
			existing.Quantity += quantity
			if err := tx.Cart.UpdateQuantity(ctx, existing.ID, existing.Quantity); err != nil {
				return err
			}
			item = existing
			return nil
		case repository.IsNotFound(err):
			item = &models.CartItem{
				UserID:    userID,
				ProductID: productID,
				Type:      orderType,
				Quantity:  quantity,
			}
			return tx.Cart.Create(ctx, item)
		default:
			return err
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	item.Product = product
	return item, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, validationError("quantity must be at least 1")
	}
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Cart.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	item.Quantity = quantity
	return item, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.repos.Cart.Delete(ctx, item.ID)
}

func (s *cartService) Clear(ctx context.Context, userID string) error {
	return s.repos.Cart.ClearByUserID(ctx, userID)
}

func (s *cartService) ownedItem(ctx context.Context, userID, itemID string) (*models.CartItem, error) {
	item, err := s.repos.Cart.GetByID(ctx, itemID)
	if err != nil {
		return nil, wrapLookup(err, "cart item")
	}
	if item.UserID != userID {
		return nil, notFound("cart item")
	}
	return item, nil
}
