package services

import (
	"context"
	"fmt"
	"time"

	"gasflow/internal/models"
	"gasflow/internal/repository"
)

type ScheduleInput struct {
	ProductID  string
	AddressID  string
	Quantity   int
	Type       models.OrderType
	Frequency  models.ScheduleFrequency
	DayOfWeek  *int
	DayOfMonth *int
}

type ScheduleUpdate struct {
	ScheduleInput
	IsActive *bool
}

type ScheduleService interface {
	List(ctx context.Context, userID string) ([]models.DeliverySchedule, error)
	ListAll(ctx context.Context) ([]models.DeliverySchedule, error)
	Create(ctx context.Context, userID string, input ScheduleInput) (*models.DeliverySchedule, error)
	Update(ctx context.Context, userID, id string, input ScheduleUpdate) (*models.DeliverySchedule, error)
	Delete(ctx context.Context, userID, id string) error
}

type scheduleService struct {
	repos *repository.Repositories
	now   func() time.Time
}

func NewScheduleService(repos *repository.Repositories) ScheduleService {
	return &scheduleService{repos: repos, now: time.Now}
}

func (s *scheduleService) List(ctx context.Context, userID string) ([]models.DeliverySchedule, error) {
	return s.repos.Schedules.GetByUserID(ctx, userID)
}

func (s *scheduleService) ListAll(ctx context.Context) ([]models.DeliverySchedule, error) {
	return s.repos.Schedules.GetAll(ctx)
}

func (s *scheduleService) Create(ctx context.Context, userID string, input ScheduleInput) (*models.DeliverySchedule, error) {
	if err := s.checkReferences(ctx, userID, input, true); err != nil {
		return nil, err
	}
	schedule := &models.DeliverySchedule{UserID: userID, IsActive: true}
	if err := s.apply(schedule, input); err != nil {
		return nil, err
	}
	if err := s.repos.Schedules.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	return schedule, nil
}

// Update replaces the schedule's settings and recomputes the next delivery.
func (s *scheduleService) Update(ctx context.Context, userID, id string, input ScheduleUpdate) (*models.DeliverySchedule, error) {
	schedule, err := s.repos.Schedules.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookup(err, "schedule")
	}
	if schedule.UserID != userID {
		return nil, notFound("schedule")
	}

	merged := input.ScheduleInput
	// A schedule keeps working after its address is deleted until the owner picks
	// a new one.
	addressChanged := merged.AddressID != "" && merged.AddressID != schedule.AddressID
	if merged.ProductID == "" {
		merged.ProductID = schedule.ProductID
	}
	if merged.AddressID == "" {
		merged.AddressID = schedule.AddressID
	}
	if merged.Quantity == 0 {
		merged.Quantity = schedule.Quantity
	}
	if merged.Type == "" {
		merged.Type = schedule.Type
	}
	if merged.Frequency == "" {
		merged.Frequency = schedule.Frequency
		if merged.DayOfWeek == nil {
			merged.DayOfWeek = schedule.DayOfWeek
		}
		if merged.DayOfMonth == nil {
			merged.DayOfMonth = schedule.DayOfMonth
		}
	}
	if err := s.checkReferences(ctx, userID, merged, addressChanged); err != nil {
		return nil, err
	}
	if err := s.apply(schedule, merged); err != nil {
		return nil, err
	}
	if input.IsActive != nil {
		schedule.IsActive = *input.IsActive
	}

	schedule.User, schedule.Product, schedule.Address = nil, nil, nil
	if err := s.repos.Schedules.Update(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}
	return schedule, nil
}

func (s *scheduleService) Delete(ctx context.Context, userID, id string) error {
	schedule, err := s.repos.Schedules.GetByID(ctx, id)
	if err != nil {
		return wrapLookup(err, "schedule")
	}
	if schedule.UserID != userID {
		return notFound("schedule")
	}
	return s.repos.Schedules.Delete(ctx, schedule.ID)
}

func (s *scheduleService) checkReferences(ctx context.Context, userID string, input ScheduleInput, checkAddress bool) error {
	if _, err := s.repos.Products.GetByID(ctx, input.ProductID); err != nil {
		return wrapLookup(err, "product")
	}
	if !checkAddress {
		return nil
	}
	address, err := s.repos.Addresses.GetByID(ctx, input.AddressID)
	if err != nil {
		return wrapLookup(err, "address")
	}
	if address.UserID != userID {
		return notFound("address")
	}
	return nil
}

func (s *scheduleService) apply(schedule *models.DeliverySchedule, input ScheduleInput) error {
	if input.Quantity < 1 {
		return validationError("quantity must be at least 1")
	}
	if !input.Type.Valid() {
		return validationError("type must be new or swap")
	}

	// only the day field matching the frequency is kept
	dayOfWeek, dayOfMonth := input.DayOfWeek, input.DayOfMonth
	if input.Frequency == models.FrequencyMonthly {
		dayOfWeek = nil
	} else {
		dayOfMonth = nil
	}
	next, ok := input.Frequency.NextOccurrence(s.now(), dayOfWeek, dayOfMonth)
	if !ok {
		return validationError("weekly and biweekly schedules need dayOfWeek 0-6, monthly ones dayOfMonth 1-28")
	}

	schedule.ProductID = input.ProductID
	schedule.AddressID = input.AddressID
	schedule.Quantity = input.Quantity
	schedule.Type = input.Type
	schedule.Frequency = input.Frequency
	schedule.DayOfWeek = dayOfWeek
	schedule.DayOfMonth = dayOfMonth
	schedule.NextDelivery = next
	return nil
}
