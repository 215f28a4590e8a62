package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                      string     `json:"id" gorm:"primaryKey;size:36"`
	Email                   string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash            string     `json:"-" gorm:"not null"`
	Role                    string     `json:"role" gorm:"default:'customer';not null"` // customer, admin
	FirstName               string     `json:"firstName"`
	LastName                string     `json:"lastName"`
	Phone                   string     `json:"phone"`
	IsEmailVerified         bool       `json:"isEmailVerified" gorm:"default:false"`
	EmailVerificationToken  *string    `json:"-" gorm:"index"`
	EmailVerificationExpiry *time.Time `json:"-"`
	PasswordResetToken      *string    `json:"-" gorm:"index"`
	PasswordResetExpiry     *time.Time `json:"-"`
	CreatedAt               time.Time  `json:"createdAt"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = string(RoleCustomer)
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == string(RoleAdmin)
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)
