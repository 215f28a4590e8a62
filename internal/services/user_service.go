package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gasflow/internal/models"
	"gasflow/internal/repository"
	"gasflow/internal/utils"
)

type ProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

type AddressInput struct {
	Label       string
	Street      string
	City        string
	Province    string
	ZipCode     string
	Coordinates *models.Coordinates
	IsDefault   bool
}

type UserService interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, input ProfileInput) (*models.User, error)
	ListCustomers(ctx context.Context) ([]models.User, error)
	EnsureAdmin(ctx context.Context) (*models.User, error)

	ListAddresses(ctx context.Context, userID string) ([]models.Address, error)
	ListAllAddresses(ctx context.Context) ([]models.Address, error)
	CreateAddress(ctx context.Context, userID string, input AddressInput) (*models.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID string, input AddressInput) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID string) error
}

type userService struct {
	repos         *repository.Repositories
	adminEmail    string
	adminPassword string
}

func NewUserService(repos *repository.Repositories, adminEmail, adminPassword string) UserService {
	return &userService{repos: repos, adminEmail: adminEmail, adminPassword: adminPassword}
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookup(err, "user")
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, input ProfileInput) (*models.User, error) {
	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookup(err, "user")
	}
	if input.FirstName != nil {
		name := strings.TrimSpace(*input.FirstName)
		if name == "" {
			return nil, validationError("first name cannot be empty")
		}
		user.FirstName = name
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *userService) ListCustomers(ctx context.Context) ([]models.User, error) {
	return s.repos.Users.GetByRole(ctx, models.RoleCustomer)
}

// EnsureAdmin returns the support admin account identified by the configured
// email, creating it if it does not exist yet.
func (s *userService) EnsureAdmin(ctx context.Context) (*models.User, error) {
	admin, err := s.repos.Users.GetByEmail(ctx, s.adminEmail)
	if err == nil {
		return admin, nil
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	hash, err := utils.HashPassword(s.adminPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin = &models.User{
		Email:           s.adminEmail,
		PasswordHash:    hash,
		Role:            string(models.RoleAdmin),
		FirstName:       "GasFlow",
		LastName:        "Admin",
		IsEmailVerified: true,
	}
	if err := s.repos.Users.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	slog.Info("admin account created", "email", s.adminEmail)
	return admin, nil
}

func (s *userService) ListAddresses(ctx context.Context, userID string) ([]models.Address, error) {
	return s.repos.Addresses.GetByUserID(ctx, userID)
}

func (s *userService) ListAllAddresses(ctx context.Context) ([]models.Address, error) {
	return s.repos.Addresses.GetAllWithUsers(ctx)
}

func (s *userService) CreateAddress(ctx context.Context, userID string, input AddressInput) (*models.Address, error) {
	if err := validateAddress(input); err != nil {
		return nil, err
	}

	address := &models.Address{UserID: userID}
	applyAddress(address, input)

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		existing, err := tx.Addresses.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			address.IsDefault = true
		}
		if address.IsDefault {
			if err := tx.Addresses.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return tx.Addresses.Create(ctx, address)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return address, nil
}

func (s *userService) UpdateAddress(ctx context.Context, userID, addressID string, input AddressInput) (*models.Address, error) {
	if err := validateAddress(input); err != nil {
		return nil, err
	}
	address, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	applyAddress(address, input)

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if address.IsDefault {
			if err := tx.Addresses.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return tx.Addresses.Update(ctx, address)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}
	return address, nil
}

func (s *userService) DeleteAddress(ctx context.Context, userID, addressID string) error {
	if _, err := s.ownedAddress(ctx, userID, addressID); err != nil {
		return err
	}
	return s.repos.Addresses.Delete(ctx, addressID)
}

func (s *userService) ownedAddress(ctx context.Context, userID, addressID string) (*models.Address, error) {
	address, err := s.repos.Addresses.GetByID(ctx, addressID)
	if err != nil {
		return nil, wrapLookup(err, "address")
	}
	if address.UserID != userID {
		return nil, notFound("address")
	}
	return address, nil
}

func validateAddress(input AddressInput) error {
	if strings.TrimSpace(input.Street) == "" || strings.TrimSpace(input.City) == "" || strings.TrimSpace(input.Province) == "" {
		return validationError("street, city and province are required")
	}
	if c := input.Coordinates; c != nil {
		if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
			return validationError("coordinates out of range")
		}
	}
	return nil
}

func applyAddress(address *models.Address, input AddressInput) {
	address.Label = strings.TrimSpace(input.Label)
	address.Street = strings.TrimSpace(input.Street)
	address.City = strings.TrimSpace(input.City)
	address.Province = strings.TrimSpace(input.Province)
	address.ZipCode = strings.TrimSpace(input.ZipCode)
	address.IsDefault = input.IsDefault
	address.SetCoordinates(input.Coordinates)
}
