package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessage struct {
	ID         string     `json:"id" gorm:"primaryKey;size:36"`
	SenderID   string     `json:"senderId" gorm:"size:36;not null;index"`
	ReceiverID string     `json:"receiverId" gorm:"size:36;not null;index"`
	OrderID    *string    `json:"orderId" gorm:"size:36"`
	Message    string     `json:"message" gorm:"type:text;not null"`
	IsRead     bool       `json:"isRead" gorm:"default:false"`
	IsEdited   bool       `json:"isEdited" gorm:"default:false"`
	EditedAt   *time.Time `json:"editedAt"`
	IsDeleted  bool       `json:"isDeleted" gorm:"default:false"`
	DeletedAt  *time.Time `json:"deletedAt"`
	CreatedAt  time.Time  `json:"createdAt"`

	Sender *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
