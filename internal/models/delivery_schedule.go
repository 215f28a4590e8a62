package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeliverySchedule struct {
	ID           string            `json:"id" gorm:"primaryKey;size:36"`
	UserID       string            `json:"userId" gorm:"size:36;not null;index"`
	ProductID    string            `json:"productId" gorm:"size:36;not null"`
	AddressID    string            `json:"addressId" gorm:"size:36;not null"`
	Quantity     int               `json:"quantity" gorm:"not null;default:1"`
	Type         OrderType         `json:"type" gorm:"not null"`
	Frequency    ScheduleFrequency `json:"frequency" gorm:"not null"`
	DayOfWeek    *int              `json:"dayOfWeek"`
	DayOfMonth   *int              `json:"dayOfMonth"`
	NextDelivery time.Time         `json:"nextDelivery"`
	IsActive     bool              `json:"isActive" gorm:"default:true"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`

	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Address *Address `json:"address,omitempty" gorm:"foreignKey:AddressID"`
}

func (d *DeliverySchedule) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

type ScheduleFrequency string

const (
	FrequencyWeekly   ScheduleFrequency = "weekly"
	FrequencyBiweekly ScheduleFrequency = "biweekly"
	FrequencyMonthly  ScheduleFrequency = "monthly"
)

// NextOccurrence returns the first delivery time strictly after from.
// Weekly and biweekly schedules need dayOfWeek, monthly ones dayOfMonth.
func (f ScheduleFrequency) NextOccurrence(from time.Time, dayOfWeek, dayOfMonth *int) (time.Time, bool) {
	base := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	switch f {
	case FrequencyWeekly, FrequencyBiweekly:
		if dayOfWeek == nil || *dayOfWeek < 0 || *dayOfWeek > 6 {
			return time.Time{}, false
		}
		diff := (*dayOfWeek - int(base.Weekday()) + 7) % 7
		if diff == 0 {
			diff = 7
		}
		next := base.AddDate(0, 0, diff)
		if f == FrequencyBiweekly {
			next = next.AddDate(0, 0, 7)
		}
		return next, true
	case FrequencyMonthly:
		if dayOfMonth == nil || *dayOfMonth < 1 || *dayOfMonth > 28 {
			return time.Time{}, false
		}
		next := time.Date(base.Year(), base.Month(), *dayOfMonth, 0, 0, 0, 0, base.Location())
		if !next.After(base) {
			next = next.AddDate(0, 1, 0)
		}
		return next, true
	}
	return time.Time{}, false
}
