package repository

import (
	"context"
	"time"

	"gasflow/internal/models"

	"gorm.io/gorm"
)

// ChatCustomer summarises one customer's conversation with the admin.
type ChatCustomer struct {
	Customer      models.User         `json:"customer"`
	LastMessage   *models.ChatMessage `json:"lastMessage"`
	UnreadCount   int64               `json:"unreadCount"`
	LastMessageAt time.Time           `json:"lastMessageAt"`
}

type ChatRepository interface {
	Create(ctx context.Context, message *models.ChatMessage) error
	GetByID(ctx context.Context, id string) (*models.ChatMessage, error)
	GetConversation(ctx context.Context, userA, userB string) ([]models.ChatMessage, error)
	ListCustomers(ctx context.Context, adminID string) ([]ChatCustomer, error)
	MarkRead(ctx context.Context, receiverID, senderID string) (int64, error)
	UpdateMessage(ctx context.Context, id, text string, editedAt time.Time) error
	SoftDelete(ctx context.Context, id string, deletedAt time.Time) error
	HardDelete(ctx context.Context, id string) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, message *models.ChatMessage) error {
	return r.db.WithContext(ctx).Omit("Sender").Create(message).Error
}

func (r *chatRepository) GetByID(ctx context.Context, id string) (*models.ChatMessage, error) {
	var message models.ChatMessage
	err := r.db.WithContext(ctx).Preload("Sender").First(&message, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *chatRepository) GetConversation(ctx context.Context, userA, userB string) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.WithContext(ctx).Preload("Sender").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userA, userB, userB, userA).
		Order("created_at asc").
		Find(&messages).Error
	return messages, err
}

func (r *chatRepository) ListCustomers(ctx context.Context, adminID string) ([]ChatCustomer, error) {
	db := r.db.WithContext(ctx)

	var customerIDs []string
	err := db.Raw(`
		SELECT DISTINCT CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS customer_id
		FROM chat_messages
		WHERE sender_id = ? OR receiver_id = ?
	`, adminID, adminID, adminID).Scan(&customerIDs).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]ChatCustomer, 0, len(customerIDs))
	for _, id := range customerIDs {
		var customer models.User
		if err := db.First(&customer, "id = ?", id).Error; err != nil {
			if IsNotFound(err) {
				continue
			}
			return nil, err
		}

		var last models.ChatMessage
		err := db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", id, adminID, adminID, id).
			Order("created_at desc").First(&last).Error
		if err != nil && !IsNotFound(err) {
			return nil, err
		}

		var unread int64
		err = db.Model(&models.ChatMessage{}).
			Where("sender_id = ? AND receiver_id = ? AND is_read = ?", id, adminID, false).
			Count(&unread).Error
		if err != nil {
			return nil, err
		}

		summary := ChatCustomer{Customer: customer, UnreadCount: unread}
		if last.ID != "" {
			summary.LastMessage = &last
			summary.LastMessageAt = last.CreatedAt
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// MarkRead flags every unread message addressed to receiverID as read. An
// empty senderID marks messages from all senders.
func (r *chatRepository) MarkRead(ctx context.Context, receiverID, senderID string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ChatMessage{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false)
	if senderID != "" {
		query = query.Where("sender_id = ?", senderID)
	}
	result := query.Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *chatRepository) UpdateMessage(ctx context.Context, id, text string, editedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.ChatMessage{}).Where("id = ?", id).Updates(map[string]interface{}{
		"message":   text,
		"is_edited": true,
		"edited_at": editedAt,
	}).Error
}

func (r *chatRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.ChatMessage{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_deleted": true,
		"deleted_at": deletedAt,
	}).Error
}

func (r *chatRepository) HardDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.ChatMessage{}, "id = ?", id).Error
}
