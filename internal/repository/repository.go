package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// Repositories bundles every repository over one *gorm.DB handle so that a
// multi-step write can run all of its statements inside a single transaction.
type Repositories struct {
	db *gorm.DB

	Users         UserRepository
	Addresses     AddressRepository
	Products      ProductRepository
	Orders        OrderRepository
	Cart          CartRepository
	Chat          ChatRepository
	Notifications NotificationRepository
	Schedules     ScheduleRepository
}

// includeDeleted lets a preload reach soft-deleted rows.
func includeDeleted(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:            db,
		Users:         NewUserRepository(db),
		Addresses:     NewAddressRepository(db),
		Products:      NewProductRepository(db),
		Orders:        NewOrderRepository(db),
		Cart:          NewCartRepository(db),
		Chat:          NewChatRepository(db),
		Notifications: NewNotificationRepository(db),
		Schedules:     NewScheduleRepository(db),
	}
}

// Transaction runs fn with repositories bound to a transaction. Returning an
// error from fn rolls back every statement fn issued.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
