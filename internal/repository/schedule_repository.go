package repository

import (
	"context"

	"gasflow/internal/models"

	"gorm.io/gorm"
)

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *models.DeliverySchedule) error
	GetByID(ctx context.Context, id string) (*models.DeliverySchedule, error)
	GetByUserID(ctx context.Context, userID string) ([]models.DeliverySchedule, error)
	GetAll(ctx context.Context) ([]models.DeliverySchedule, error)
	Update(ctx context.Context, schedule *models.DeliverySchedule) error
	Delete(ctx context.Context, id string) error
}

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *models.DeliverySchedule) error {
	return r.db.WithContext(ctx).Omit("User", "Product", "Address").Create(schedule).Error
}

func (r *scheduleRepository) GetByID(ctx context.Context, id string) (*models.DeliverySchedule, error) {
	var schedule models.DeliverySchedule
	err := r.db.WithContext(ctx).Preload("Product").Preload("Address", includeDeleted).First(&schedule, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepository) GetByUserID(ctx context.Context, userID string) ([]models.DeliverySchedule, error) {
	var schedules []models.DeliverySchedule
	err := r.db.WithContext(ctx).Preload("Product").Preload("Address", includeDeleted).
		Where("user_id = ?", userID).Order("next_delivery asc").Find(&schedules).Error
	return schedules, err
}

func (r *scheduleRepository) GetAll(ctx context.Context) ([]models.DeliverySchedule, error) {
	var schedules []models.DeliverySchedule
	err := r.db.WithContext(ctx).Preload("User").Preload("Product").Preload("Address", includeDeleted).
		Order("next_delivery asc").Find(&schedules).Error
	return schedules, err
}

func (r *scheduleRepository) Update(ctx context.Context, schedule *models.DeliverySchedule) error {
	return r.db.WithContext(ctx).Omit("User", "Product", "Address").Save(schedule).Error
}

func (r *scheduleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.DeliverySchedule{}, "id = ?", id).Error
}
