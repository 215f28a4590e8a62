package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"gasflow/internal/config"
	"gasflow/internal/models"
	"gasflow/internal/realtime"
	"gasflow/internal/redis"
	"gasflow/internal/repository"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderNumberPattern = regexp.MustCompile(`^GF-\d{4}-\d{6}$`)

type orderFixture struct {
	repos    *repository.Repositories
	svc      OrderService
	pusher   *fakePusher
	customer *models.User
	admin    *models.User
	product  *models.Product
	address  *models.Address
}

func newOrderFixture(t *testing.T, stock int) *orderFixture {
	t.Helper()
	repos := newTestRepos(t)
	customer := seedUser(t, repos, "juan@example.com", models.RoleCustomer)
	f := &orderFixture{
		repos:    repos,
		customer: customer,
		admin:    seedUser(t, repos, "admin@example.com", models.RoleAdmin),
		product:  seedProduct(t, repos, "11kg", stock),
		address:  seedAddress(t, repos, customer.ID),
		pusher:   newFakePusher(customer.ID),
	}
	f.svc = NewOrderService(repos, f.pusher, nil, config.SiteInfo{Name: "GasFlow"})
	return f
}

func (f *orderFixture) placeOrder(t *testing.T, quantity int) *models.Order {
	t.Helper()
	order, err := f.svc.CreateOrder(context.Background(), f.customer.ID, CreateOrderInput{
		ProductID:     f.product.ID,
		AddressID:     f.address.ID,
		Quantity:      quantity,
		Type:          models.OrderTypeNew,
		PaymentMethod: models.PaymentCOD,
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrderClearsCartAndNotifiesOnce(t *testing.T) {
	f := newOrderFixture(t, 10)
	ctx := context.Background()

	cart := NewCartService(f.repos)
	_, err := cart.AddItem(ctx, f.customer.ID, f.product.ID, models.OrderTypeNew, 2)
	require.NoError(t, err)

	order := f.placeOrder(t, 2)

	assert.Regexp(t, orderNumberPattern, order.OrderNumber)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(5300)), "total %s", order.TotalAmount)
	require.NotNil(t, order.Product)

	items, err := cart.GetCart(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	count, err := f.repos.Notifications.CountByUserAndType(ctx, f.customer.ID, models.NotificationOrderUpdate)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	product, err := f.repos.Products.GetByID(ctx, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, product.Stock)
}

func TestCreateOrderWithoutStockChangesNothing(t *testing.T) {
	f := newOrderFixture(t, 1)
	ctx := context.Background()

	cart := NewCartService(f.repos)
	_, err := cart.AddItem(ctx, f.customer.ID, f.product.ID, models.OrderTypeSwap, 3)
	require.NoError(t, err)

	_, err = f.svc.CreateOrder(ctx, f.customer.ID, CreateOrderInput{
		ProductID: f.product.ID,
		AddressID: f.address.ID,
		Quantity:  3,
		Type:      models.OrderTypeSwap,
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	items, err := cart.GetCart(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	count, err := f.repos.Notifications.CountByUserAndType(ctx, f.customer.ID, models.NotificationOrderUpdate)
	require.NoError(t, err)
	assert.Zero(t, count)

	orders, err := f.svc.ListOrders(ctx, f.customer, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCreateOrderRejectsForeignAddress(t *testing.T) {
	f := newOrderFixture(t, 5)
	stranger := seedUser(t, f.repos, "stranger@example.com", models.RoleCustomer)

	_, err := f.svc.CreateOrder(context.Background(), stranger.ID, CreateOrderInput{
		ProductID: f.product.ID,
		AddressID: f.address.ID,
		Quantity:  1,
		Type:      models.OrderTypeNew,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newOrderFixture(t, 5)
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, f.customer.ID, CreateOrderInput{ProductID: f.product.ID, AddressID: f.address.ID, Quantity: 0, Type: models.OrderTypeNew})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CreateOrder(ctx, f.customer.ID, CreateOrderInput{ProductID: f.product.ID, AddressID: f.address.ID, Quantity: 1, Type: "refill"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CreateOrder(ctx, f.customer.ID, CreateOrderInput{ProductID: f.product.ID, AddressID: f.address.ID, Quantity: 1, Type: models.OrderTypeNew, PaymentMethod: "barter"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateStatusFollowsPipeline(t *testing.T) {
	f := newOrderFixture(t, 5)
	ctx := context.Background()
	order := f.placeOrder(t, 1)

	_, err := f.svc.UpdateStatus(ctx, order.ID, models.OrderDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	for _, status := range []models.OrderStatus{models.OrderProcessing, models.OrderOutForDelivery, models.OrderDelivered} {
		updated, err := f.svc.UpdateStatus(ctx, order.ID, status)
		require.NoError(t, err, "moving to %s", status)
		assert.Equal(t, status, updated.Status)

		if status == models.OrderProcessing {
			_, err = f.svc.UpdateStatus(ctx, order.ID, models.OrderCancelled)
			assert.ErrorIs(t, err, ErrInvalidTransition, "processing orders cannot be cancelled")
		}
	}

	delivered, err := f.svc.GetOrder(ctx, f.customer, order.ID)
	require.NoError(t, err)
	require.NotNil(t, delivered.DeliveredAt)
	assert.Equal(t, models.PaymentPaid, delivered.PaymentStatus)

	_, err = f.svc.UpdateStatus(ctx, order.ID, models.OrderCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	count, err := f.repos.Notifications.CountByUserAndType(ctx, f.customer.ID, models.NotificationOrderUpdate)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	require.Len(t, f.pusher.events, 3)
	for _, p := range f.pusher.events {
		assert.Equal(t, f.customer.ID, p.userID)
		assert.Equal(t, realtime.EventOrderStatusUpdate, p.event.Type)
		assert.Equal(t, order.ID, p.event.Order.ID)
	}
	assert.Equal(t, models.OrderDelivered, f.pusher.events[2].event.Order.Status)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	f := newOrderFixture(t, 5)
	_, err := f.svc.UpdateStatus(context.Background(), "missing", models.OrderProcessing)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.UpdateStatus(context.Background(), "missing", "shipped")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCancelRestocks(t *testing.T) {
	f := newOrderFixture(t, 5)
	ctx := context.Background()
	order := f.placeOrder(t, 3)

	_, err := f.svc.UpdateStatus(ctx, order.ID, models.OrderCancelled)
	require.NoError(t, err)

	product, err := f.repos.Products.GetByID(ctx, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)
}

func TestPOSSaleIsDeliveredAndPaid(t *testing.T) {
	f := newOrderFixture(t, 5)
	ctx := context.Background()
	small := seedProduct(t, f.repos, "2.7kg", 2)

	result, err := f.svc.CreatePOSSale(ctx, f.admin, POSSaleInput{
		CustomerID: f.customer.ID,
		Items: []POSItem{
			{ProductID: f.product.ID, Quantity: 2, Type: models.OrderTypeSwap},
			{ProductID: small.ID, Quantity: 1, Type: models.OrderTypeNew},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Orders, 2)
	assert.True(t, result.TotalAmount.Equal(decimal.NewFromInt(2*1050+2650)), "total %s", result.TotalAmount)

	for _, o := range result.Orders {
		assert.Equal(t, models.OrderDelivered, o.Status)
		assert.Equal(t, models.PaymentPaid, o.PaymentStatus)
		assert.True(t, o.IsPOS)
		assert.NotNil(t, o.DeliveredAt)
		assert.Nil(t, o.AddressID)
	}

	product, err := f.repos.Products.GetByID(ctx, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, product.Stock)
}

func TestPOSSaleRollsBackWhenALineIsShort(t *testing.T) {
	f := newOrderFixture(t, 5)
	ctx := context.Background()
	small := seedProduct(t, f.repos, "2.7kg", 0)

	_, err := f.svc.CreatePOSSale(ctx, f.admin, POSSaleInput{
		Items: []POSItem{
			{ProductID: f.product.ID, Quantity: 2, Type: models.OrderTypeNew},
			{ProductID: small.ID, Quantity: 1, Type: models.OrderTypeNew},
		},
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	product, err := f.repos.Products.GetByID(ctx, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)

	orders, err := f.svc.ListOrders(ctx, f.admin, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrdersAreScopedToCustomer(t *testing.T) {
	f := newOrderFixture(t, 5)
	ctx := context.Background()
	order := f.placeOrder(t, 1)
	stranger := seedUser(t, f.repos, "stranger@example.com", models.RoleCustomer)

	_, err := f.svc.GetOrder(ctx, stranger, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	orders, err := f.svc.ListOrders(ctx, stranger, "")
	require.NoError(t, err)
	assert.Empty(t, orders)

	orders, err = f.svc.ListOrders(ctx, f.admin, models.OrderPending)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	receipt, err := f.svc.GetReceipt(ctx, f.customer, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "GasFlow", receipt.Store.Name)
	assert.Equal(t, order.OrderNumber, receipt.Order.OrderNumber)
}

func TestTrackingListsActiveDeliveries(t *testing.T) {
	f := newOrderFixture(t, 5)
	ctx := context.Background()
	first := f.placeOrder(t, 1)
	f.placeOrder(t, 1)

	_, err := f.svc.UpdateStatus(ctx, first.ID, models.OrderProcessing)
	require.NoError(t, err)

	tracking, err := f.svc.ListTracking(ctx)
	require.NoError(t, err)
	require.Len(t, tracking, 1)
	assert.Equal(t, first.ID, tracking[0].ID)
}

func TestOrderMutationsInvalidateDashboard(t *testing.T) {
	f := newOrderFixture(t, 5)
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cache := redis.NewFromClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	analytics := NewAnalyticsService(f.repos, cache, time.Minute, 10)
	orders := NewOrderService(f.repos, nil, cache, config.SiteInfo{})

	stats, err := analytics.Dashboard(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalOrders)
	assert.True(t, mr.Exists("cache:"+dashboardCacheKey))

	_, err = orders.CreateOrder(ctx, f.customer.ID, CreateOrderInput{
		ProductID: f.product.ID,
		AddressID: f.address.ID,
		Quantity:  1,
		Type:      models.OrderTypeNew,
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("cache:"+dashboardCacheKey))

	stats, err = analytics.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.Equal(t, int64(1), stats.TotalCustomers)
	assert.Len(t, stats.LowStock, 1)
}

func TestOrderNumbersIncrease(t *testing.T) {
	fixed := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)
	g := &orderNumbers{now: func() time.Time { return fixed }}

	first := g.next()
	second := g.next()
	assert.Regexp(t, orderNumberPattern, first)
	assert.Regexp(t, orderNumberPattern, second)
	assert.NotEqual(t, first, second)
	assert.Contains(t, first, "GF-2025-")
}
