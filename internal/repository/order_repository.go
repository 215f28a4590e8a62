package repository

import (
	"context"
	"time"

	"gasflow/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderFilter struct {
	CustomerID string
	Status     models.OrderStatus
	Limit      int
}

type StatusCount struct {
	Status models.OrderStatus `json:"status"`
	Count  int64              `json:"count"`
}

type DashboardStats struct {
	TotalOrders    int64            `json:"totalOrders"`
	PendingOrders  int64            `json:"pendingOrders"`
	TodayOrders    int64            `json:"todayOrders"`
	TotalRevenue   decimal.Decimal  `json:"totalRevenue"`
	TodayRevenue   decimal.Decimal  `json:"todayRevenue"`
	TotalCustomers int64            `json:"totalCustomers"`
	ActiveProducts int64            `json:"activeProducts"`
	OrdersByStatus []StatusCount    `json:"ordersByStatus"`
	LowStock       []models.Product `json:"lowStockProducts"`
	RecentOrders   []models.Order   `json:"recentOrders"`
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	OrderNumberExists(ctx context.Context, orderNumber string) (bool, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	ListTracking(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, order *models.Order) error
	DashboardStats(ctx context.Context, lowStockThreshold int) (*DashboardStats, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Product").Preload("Address", includeDeleted).Preload("Customer")
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Customer", "Product", "Address").Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.withRelations(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("order_number = ?", orderNumber).Count(&count).Error
	return count > 0, err
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	query := r.withRelations(ctx).Order("created_at desc")
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	err := query.Find(&orders).Error
	return orders, err
}

// ListTracking returns orders still on their way, with address coordinates
// and customer details for the delivery map.
func (r *orderRepository) ListTracking(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.withRelations(ctx).
		Where("status IN ?", []models.OrderStatus{models.OrderProcessing, models.OrderOutForDelivery}).
		Where("address_id IS NOT NULL").
		Order("created_at asc").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
		"delivered_at":   order.DeliveredAt,
		"updated_at":     time.Now(),
	}).Error
}

func (r *orderRepository) DashboardStats(ctx context.Context, lowStockThreshold int) (*DashboardStats, error) {
	db := r.db.WithContext(ctx)
	stats := &DashboardStats{}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Where("status = ?", models.OrderPending).Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Where("created_at >= ?", startOfDay).Count(&stats.TodayOrders).Error; err != nil {
		return nil, err
	}

	var revenue struct {
		Total decimal.Decimal
		Today decimal.Decimal
	}
	err := db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS total, COALESCE(SUM(CASE WHEN delivered_at >= ? THEN total_amount ELSE 0 END), 0) AS today", startOfDay).
		Where("status = ?", models.OrderDelivered).
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = revenue.Total
	stats.TodayRevenue = revenue.Today

	if err := db.Model(&models.User{}).Where("role = ?", models.RoleCustomer).Count(&stats.TotalCustomers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Product{}).Where("is_active = ?", true).Count(&stats.ActiveProducts).Error; err != nil {
		return nil, err
	}

	err = db.Model(&models.Order{}).Select("status, COUNT(*) AS count").Group("status").Scan(&stats.OrdersByStatus).Error
	if err != nil {
		return nil, err
	}

	err = db.Where("is_active = ? AND stock <= ?", true, lowStockThreshold).Order("stock asc").Find(&stats.LowStock).Error
	if err != nil {
		return nil, err
	}

	err = r.withRelations(ctx).Order("created_at desc").Limit(10).Find(&stats.RecentOrders).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
