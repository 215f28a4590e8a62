package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gasflow/internal/config"
	"gasflow/internal/models"
	"gasflow/internal/realtime"
	"gasflow/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type CreateOrderInput struct {
	ProductID     string
	AddressID     string
	Quantity      int
	Type          models.OrderType
	PaymentMethod models.PaymentMethod
	Notes         string
}

type POSItem struct {
	ProductID string
	Quantity  int
	Type      models.OrderType
}

type POSSaleInput struct {
	CustomerID    string
	Items         []POSItem
	PaymentMethod models.PaymentMethod
	Notes         string
}

type POSSaleResult struct {
	Orders      []models.Order  `json:"orders"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type Receipt struct {
	Order    *models.Order   `json:"order"`
	Store    config.SiteInfo `json:"store"`
	IssuedAt time.Time       `json:"issuedAt"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, customerID string, input CreateOrderInput) (*models.Order, error)
	CreatePOSSale(ctx context.Context, staff *models.User, input POSSaleInput) (*POSSaleResult, error)
	UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error)
	GetOrder(ctx context.Context, requester *models.User, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, requester *models.User, status models.OrderStatus) ([]models.Order, error)
	ListTracking(ctx context.Context) ([]models.Order, error)
	GetReceipt(ctx context.Context, requester *models.User, orderID string) (*Receipt, error)
}

type orderService struct {
	repos   *repository.Repositories
	pusher  Pusher
	cache   Cache
	site    config.SiteInfo
	numbers *orderNumbers
}

func NewOrderService(repos *repository.Repositories, pusher Pusher, cache Cache, site config.SiteInfo) OrderService {
	return &orderService{
		repos:   repos,
		pusher:  pusher,
		cache:   cache,
		site:    site,
		numbers: newOrderNumbers(),
	}
}

// CreateOrder places a customer order. Stock reservation, the order row,
// clearing the cart and the notification commit or roll back together.
func (s *orderService) CreateOrder(ctx context.Context, customerID string, input CreateOrderInput) (*models.Order, error) {
	if input.Quantity < 1 {
		return nil, validationError("quantity must be at least 1")
	}
	if !input.Type.Valid() {
		return nil, validationError("type must be new or swap")
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = models.PaymentCOD
	}
	if !input.PaymentMethod.Valid() {
		return nil, validationError("unsupported payment method %q", input.PaymentMethod)
	}
	if input.ProductID == "" || input.AddressID == "" {
		return nil, validationError("productId and addressId are required")
	}

	var order *models.Order
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		product, err := tx.Products.GetByID(ctx, input.ProductID)
		if err != nil {
			return wrapLookup(err, "product")
		}
		if !product.IsActive {
			return notFound("product")
		}
		address, err := tx.Addresses.GetByID(ctx, input.AddressID)
		if err != nil {
			return wrapLookup(err, "address")
		}
		if address.UserID != customerID {
			return notFound("address")
		}

		if err := tx.Products.DecrementStock(ctx, product.ID, input.Quantity); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return fmt.Errorf("%w: only %d of %s left", ErrInsufficientStock, product.Stock, product.Name)
			}
			return err
		}

		number, err := s.numbers.unique(ctx, tx.Orders)
		if err != nil {
			return err
		}
		unitPrice := product.PriceFor(input.Type)
		addressID := address.ID
		order = &models.Order{
			OrderNumber:   number,
			CustomerID:    customerID,
			ProductID:     product.ID,
			AddressID:     &addressID,
			Quantity:      input.Quantity,
			Type:          input.Type,
			UnitPrice:     unitPrice,
			TotalAmount:   unitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))),
			Status:        models.OrderPending,
			PaymentMethod: input.PaymentMethod,
			PaymentStatus: models.PaymentPending,
			Notes:         strings.TrimSpace(input.Notes),
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if err := tx.Cart.ClearByUserID(ctx, customerID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return tx.Notifications.Create(ctx, orderNotification(order, "Order Placed",
			fmt.Sprintf("Your order %s has been placed and is awaiting confirmation.", order.OrderNumber)))
	})
	if err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.cache)
	return s.reload(ctx, order)
}

// CreatePOSSale records an in-store sale. Every line becomes a delivered,
// paid order; a line without stock fails the whole sale.
func (s *orderService) CreatePOSSale(ctx context.Context, staff *models.User, input POSSaleInput) (*POSSaleResult, error) {
	if len(input.Items) == 0 {
		return nil, validationError("at least one item is required")
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = models.PaymentCash
	}
	if !input.PaymentMethod.Valid() {
		return nil, validationError("unsupported payment method %q", input.PaymentMethod)
	}
	for i, item := range input.Items {
		if item.Quantity < 1 {
			return nil, validationError("item %d: quantity must be at least 1", i+1)
		}
		if !item.Type.Valid() {
			return nil, validationError("item %d: type must be new or swap", i+1)
		}
	}

	customerID := input.CustomerID
	if customerID == "" {
		customerID = staff.ID
	}

	result := &POSSaleResult{TotalAmount: decimal.Zero}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if customerID != staff.ID {
			if _, err := tx.Users.GetByID(ctx, customerID); err != nil {
				return wrapLookup(err, "customer")
			}
		}

		now := time.Now()
		for _, item := range input.Items {
			product, err := tx.Products.GetByID(ctx, item.ProductID)
			if err != nil {
				return wrapLookup(err, "product")
			}
			if err := tx.Products.DecrementStock(ctx, product.ID, item.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return fmt.Errorf("%w: only %d of %s left", ErrInsufficientStock, product.Stock, product.Name)
				}
				return err
			}

			number, err := s.numbers.unique(ctx, tx.Orders)
			if err != nil {
				return err
			}
			unitPrice := product.PriceFor(item.Type)
			deliveredAt := now
			order := models.Order{
				OrderNumber:   number,
				CustomerID:    customerID,
				ProductID:     product.ID,
				Quantity:      item.Quantity,
				Type:          item.Type,
				UnitPrice:     unitPrice,
				TotalAmount:   unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
				Status:        models.OrderDelivered,
				PaymentMethod: input.PaymentMethod,
				PaymentStatus: models.PaymentPaid,
				Notes:         strings.TrimSpace(input.Notes),
				IsPOS:         true,
				DeliveredAt:   &deliveredAt,
			}
			if err := tx.Orders.Create(ctx, &order); err != nil {
				return fmt.Errorf("failed to create order: %w", err)
			}
			if customerID != staff.ID {
				err := tx.Notifications.Create(ctx, orderNotification(&order, "Order Placed",
					fmt.Sprintf("Your purchase %s has been recorded. Thank you!", order.OrderNumber)))
				if err != nil {
					return err
				}
			}
			result.Orders = append(result.Orders, order)
			result.TotalAmount = result.TotalAmount.Add(order.TotalAmount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.cache)
	for i := range result.Orders {
		if reloaded, err := s.reload(ctx, &result.Orders[i]); err == nil {
			result.Orders[i] = *reloaded
		}
	}
	return result, nil
}

// UpdateStatus advances an order along the delivery pipeline. Illegal jumps
// are rejected; the customer is notified and, when connected, pushed the
// updated order after the change commits.
func (s *orderService) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, validationError("unknown status %q", status)
	}

	var order *models.Order
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		current, err := tx.Orders.GetByID(ctx, orderID)
		if err != nil {
			return wrapLookup(err, "order")
		}
		if !current.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: cannot move order from %s to %s", ErrInvalidTransition, current.Status, status)
		}

		current.Status = status
		switch status {
		case models.OrderDelivered:
			now := time.Now()
			current.DeliveredAt = &now
			if current.PaymentMethod == models.PaymentCOD {
				current.PaymentStatus = models.PaymentPaid
			}
		case models.OrderCancelled:
			if err := tx.Products.IncrementStock(ctx, current.ProductID, current.Quantity); err != nil {
				return fmt.Errorf("failed to restock product: %w", err)
			}
			if current.PaymentStatus == models.PaymentPaid {
				current.PaymentStatus = models.PaymentRefunded
			}
		}

		if err := tx.Orders.UpdateStatus(ctx, current); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		order = current
		return tx.Notifications.Create(ctx, orderNotification(current, "Order Update",
			fmt.Sprintf("Your order %s is now %s.", current.OrderNumber, statusLabel(status))))
	})
	if err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.cache)
	updated, err := s.reload(ctx, order)
	if err != nil {
		return nil, err
	}
	if s.pusher != nil && !s.pusher.Send(updated.CustomerID, realtime.OrderStatusUpdate(updated)) {
		slog.Debug("customer not connected, status push skipped", "order_id", updated.ID)
	}
	return updated, nil
}

func (s *orderService) GetOrder(ctx context.Context, requester *models.User, orderID string) (*models.Order, error) {
	order, err := s.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, wrapLookup(err, "order")
	}
	if !requester.IsAdmin() && order.CustomerID != requester.ID {
		return nil, notFound("order")
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, requester *models.User, status models.OrderStatus) ([]models.Order, error) {
	filter := repository.OrderFilter{Status: status}
	if !requester.IsAdmin() {
		filter.CustomerID = requester.ID
	}
	return s.repos.Orders.List(ctx, filter)
}

func (s *orderService) ListTracking(ctx context.Context) ([]models.Order, error) {
	return s.repos.Orders.ListTracking(ctx)
}

func (s *orderService) GetReceipt(ctx context.Context, requester *models.User, orderID string) (*Receipt, error) {
	order, err := s.GetOrder(ctx, requester, orderID)
	if err != nil {
		return nil, err
	}
	return &Receipt{Order: order, Store: s.site, IssuedAt: time.Now()}, nil
}

func (s *orderService) reload(ctx context.Context, order *models.Order) (*models.Order, error) {
	loaded, err := s.repos.Orders.GetByID(ctx, order.ID)
	if err != nil {
		return nil, wrapLookup(err, "order")
	}
	return loaded, nil
}

func orderNotification(order *models.Order, title, message string) *models.Notification {
	data, _ := json.Marshal(map[string]interface{}{
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
		"status":      order.Status,
	})
	return &models.Notification{
		UserID:  order.CustomerID,
		Title:   title,
		Message: message,
		Type:    models.NotificationOrderUpdate,
		Data:    datatypes.JSON(data),
	}
}

func statusLabel(status models.OrderStatus) string {
	switch status {
	case models.OrderOutForDelivery:
		return "out for delivery"
	default:
		return string(status)
	}
}
