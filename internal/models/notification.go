package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Notification struct {
	ID        string           `json:"id" gorm:"primaryKey;size:36"`
	UserID    string           `json:"userId" gorm:"size:36;not null;index"`
	Title     string           `json:"title" gorm:"not null"`
	Message   string           `json:"message" gorm:"not null"`
	Type      NotificationType `json:"type" gorm:"not null"`
	Data      datatypes.JSON   `json:"data"`
	IsRead    bool             `json:"isRead" gorm:"default:false"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

type NotificationType string

const (
	NotificationOrderUpdate NotificationType = "order_update"
	NotificationChat        NotificationType = "chat"
	NotificationSystem      NotificationType = "system"
)
