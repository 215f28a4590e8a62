package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"gasflow/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.Order{},
		&models.CartItem{},
		&models.ChatMessage{},
		&models.Notification{},
		&models.DeliverySchedule{},
	))
	return New(db)
}

func createProduct(t *testing.T, repos *Repositories, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:      "LPG Cylinder",
		Weight:    "11kg",
		NewPrice:  decimal.NewFromInt(2650),
		SwapPrice: decimal.NewFromInt(1050),
		Stock:     stock,
		IsActive:  true,
	}
	require.NoError(t, repos.Products.Create(context.Background(), product))
	return product
}

func createUser(t *testing.T, repos *Repositories, email string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "x", Role: string(role)}
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}

func TestDecrementStockNeverGoesNegative(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	product := createProduct(t, repos, 3)

	require.NoError(t, repos.Products.DecrementStock(ctx, product.ID, 2))
	assert.ErrorIs(t, repos.Products.DecrementStock(ctx, product.ID, 2), ErrInsufficientStock)

	got, err := repos.Products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)

	require.NoError(t, repos.Products.IncrementStock(ctx, product.ID, 4))
	got, err = repos.Products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestConcurrentSalesOfLastUnit(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	product := createProduct(t, repos, 1)

	var wg sync.WaitGroup
	var sold, rejected int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repos.Products.DecrementStock(ctx, product.ID, 1)
			switch {
			case err == nil:
				atomic.AddInt32(&sold, 1)
			case assert.ErrorIs(t, err, ErrInsufficientStock):
				atomic.AddInt32(&rejected, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), sold)
	assert.Equal(t, int32(7), rejected)

	got, err := repos.Products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestTransactionRollsBack(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	product := createProduct(t, repos, 5)

	err := repos.Transaction(ctx, func(tx *Repositories) error {
		if err := tx.Products.DecrementStock(ctx, product.ID, 2); err != nil {
			return err
		}
		return tx.Products.DecrementStock(ctx, product.ID, 10)
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	got, err := repos.Products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestNotificationsAreOwnerScoped(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	owner := createUser(t, repos, "owner@example.com", models.RoleCustomer)
	other := createUser(t, repos, "other@example.com", models.RoleCustomer)

	n := &models.Notification{UserID: owner.ID, Title: "Order Placed", Message: "ok", Type: models.NotificationOrderUpdate}
	require.NoError(t, repos.Notifications.Create(ctx, n))

	assert.True(t, IsNotFound(repos.Notifications.MarkAsRead(ctx, n.ID, other.ID)))
	assert.True(t, IsNotFound(repos.Notifications.Delete(ctx, n.ID, other.ID)))

	require.NoError(t, repos.Notifications.MarkAsRead(ctx, n.ID, owner.ID))
	list, err := repos.Notifications.GetByUserID(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRead)

	count, err := repos.Notifications.CountByUserAndType(ctx, owner.ID, models.NotificationOrderUpdate)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestChatCustomersSummary(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	admin := createUser(t, repos, "admin@example.com", models.RoleAdmin)
	alice := createUser(t, repos, "alice@example.com", models.RoleCustomer)
	bob := createUser(t, repos, "bob@example.com", models.RoleCustomer)

	for _, m := range []*models.ChatMessage{
		{SenderID: alice.ID, ReceiverID: admin.ID, Message: "hello"},
		{SenderID: alice.ID, ReceiverID: admin.ID, Message: "anyone?"},
		{SenderID: admin.ID, ReceiverID: bob.ID, Message: "your order is on the way"},
	} {
		require.NoError(t, repos.Chat.Create(ctx, m))
	}

	customers, err := repos.Chat.ListCustomers(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, customers, 2)

	unread := map[string]int64{}
	for _, c := range customers {
		unread[c.Customer.ID] = c.UnreadCount
		assert.NotNil(t, c.LastMessage)
	}
	assert.Equal(t, int64(2), unread[alice.ID])
	assert.Equal(t, int64(0), unread[bob.ID])

	marked, err := repos.Chat.MarkRead(ctx, admin.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)
}
