package migrations

import (
	"context"
	"fmt"
	"log/slog"

	"gasflow/internal/models"
	"gasflow/internal/repository"
	"gasflow/internal/services"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Seed holds the accounts created on an empty database.
type Seed struct {
	AdminEmail    string
	AdminPassword string
}

// RunMigrations brings the schema up to date and creates default data.
func RunMigrations(db *gorm.DB, seed Seed) error {
	slog.Info("running database migrations")

	err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.Order{},
		&models.CartItem{},
		&models.ChatMessage{},
		&models.Notification{},
		&models.DeliverySchedule{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	if err := createDefaultData(context.Background(), db, seed); err != nil {
		slog.Warn("failed to create default data", "error", err)
	}

	slog.Info("database migrations completed")
	return nil
}

// createDefaultData seeds the admin account and the standard cylinder sizes.
// Existing rows are left alone.
func createDefaultData(ctx context.Context, db *gorm.DB, seed Seed) error {
	repos := repository.New(db)

	users := services.NewUserService(repos, seed.AdminEmail, seed.AdminPassword)
	if _, err := users.EnsureAdmin(ctx); err != nil {
		return err
	}

	products, err := repos.Products.GetAll(ctx, false)
	if err != nil {
		return err
	}
	if len(products) > 0 {
		return nil
	}

	for _, p := range defaultProducts() {
		product := p
		if err := repos.Products.Create(ctx, &product); err != nil {
			return fmt.Errorf("failed to create product %s %s: %w", p.Name, p.Weight, err)
		}
	}
	slog.Info("default products created", "count", len(defaultProducts()))
	return nil
}

func defaultProducts() []models.Product {
	return []models.Product{
		{Name: "LPG Cylinder", Weight: "2.7kg", Description: "Compact cylinder for small stoves", NewPrice: decimal.NewFromInt(850), SwapPrice: decimal.NewFromInt(350), Stock: 50, IsActive: true},
		{Name: "LPG Cylinder", Weight: "11kg", Description: "Standard household cylinder", NewPrice: decimal.NewFromInt(2650), SwapPrice: decimal.NewFromInt(1050), Stock: 100, IsActive: true},
		{Name: "LPG Cylinder", Weight: "22kg", Description: "For restaurants and heavy use", NewPrice: decimal.NewFromInt(4800), SwapPrice: decimal.NewFromInt(2100), Stock: 40, IsActive: true},
		{Name: "LPG Cylinder", Weight: "50kg", Description: "Commercial and industrial cylinder", NewPrice: decimal.NewFromInt(9500), SwapPrice: decimal.NewFromInt(4750), Stock: 20, IsActive: true},
	}
}
