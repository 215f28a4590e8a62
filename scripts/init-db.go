package main

import (
	"log/slog"
	"os"

	"gasflow/internal/config"
	"gasflow/internal/database"
	"gasflow/internal/migrations"
)

func main() {
	slog.Info("initializing database")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	err = migrations.RunMigrations(db, migrations.Seed{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	slog.Info("database initialization completed", "admin_email", cfg.AdminEmail)
}
