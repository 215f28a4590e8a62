package services

import (
	"context"
	"sync"
	"testing"

	"gasflow/internal/models"
	"gasflow/internal/realtime"
	"gasflow/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	return openTestRepos(t, "file::memory:")
}

// newTestReposWithForeignKeys enforces foreign keys the way postgres does.
func newTestReposWithForeignKeys(t *testing.T) *repository.Repositories {
	t.Helper()
	return openTestRepos(t, "file::memory:?_pragma=foreign_keys(1)")
}

func openTestRepos(t *testing.T, dsn string) *repository.Repositories {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
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
	return repository.New(db)
}

func seedUser(t *testing.T, repos *repository.Repositories, email string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "x", Role: string(role), FirstName: "Test"}
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}

func seedProduct(t *testing.T, repos *repository.Repositories, weight string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:      "LPG Cylinder",
		Weight:    weight,
		NewPrice:  decimal.NewFromInt(2650),
		SwapPrice: decimal.NewFromInt(1050),
		Stock:     stock,
		IsActive:  true,
	}
	require.NoError(t, repos.Products.Create(context.Background(), product))
	return product
}

func seedAddress(t *testing.T, repos *repository.Repositories, userID string) *models.Address {
	t.Helper()
	address := &models.Address{UserID: userID, Street: "12 Rizal St", City: "Makati", Province: "Metro Manila", IsDefault: true}
	require.NoError(t, repos.Addresses.Create(context.Background(), address))
	return address
}

type pushed struct {
	userID string
	event  realtime.Event
}

type fakePusher struct {
	mu        sync.Mutex
	connected map[string]bool
	events    []pushed
}

func newFakePusher(connected ...string) *fakePusher {
	p := &fakePusher{connected: map[string]bool{}}
	for _, id := range connected {
		p.connected[id] = true
	}
	return p
}

func (p *fakePusher) Send(userID string, event realtime.Event) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected[userID] {
		return false
	}
	p.events = append(p.events, pushed{userID: userID, event: event})
	return true
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}
