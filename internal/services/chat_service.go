package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gasflow/internal/models"
	"gasflow/internal/realtime"
	"gasflow/internal/repository"
)

// AdminResolver returns the account customers talk to.
type AdminResolver interface {
	EnsureAdmin(ctx context.Context) (*models.User, error)
}

type SendMessageInput struct {
	ReceiverID string
	OrderID    string
	Message    string
}

type ChatService interface {
	Send(ctx context.Context, sender *models.User, input SendMessageInput) (*models.ChatMessage, error)
	Messages(ctx context.Context, requester *models.User, customerID string) ([]models.ChatMessage, error)
	Customers(ctx context.Context, admin *models.User) ([]repository.ChatCustomer, error)
	MarkRead(ctx context.Context, requester *models.User, senderID string) (int64, error)
	Edit(ctx context.Context, requester *models.User, messageID, text string) (*models.ChatMessage, error)
	Delete(ctx context.Context, requester *models.User, messageID string) (*models.ChatMessage, error)
	Unsend(ctx context.Context, requester *models.User, messageID string) error
}

type chatService struct {
	repos        *repository.Repositories
	admins       AdminResolver
	pusher       Pusher
	unsendWindow time.Duration
	now          func() time.Time
}

func NewChatService(repos *repository.Repositories, admins AdminResolver, pusher Pusher, unsendWindow time.Duration) ChatService {
	return &chatService{
		repos:        repos,
		admins:       admins,
		pusher:       pusher,
		unsendWindow: unsendWindow,
		now:          time.Now,
	}
}

// Send stores a message and pushes it to the receiver's live session.
// Customers always write to the admin account; admins must name a receiver.
func (s *chatService) Send(ctx context.Context, sender *models.User, input SendMessageInput) (*models.ChatMessage, error) {
	text := strings.TrimSpace(input.Message)
	if text == "" {
		return nil, validationError("message is required")
	}

	senderID, err := s.mailbox(ctx, sender)
	if err != nil {
		return nil, err
	}

	var receiverID string
	if sender.IsAdmin() {
		if input.ReceiverID == "" {
			return nil, validationError("receiverId is required")
		}
		if _, err := s.repos.Users.GetByID(ctx, input.ReceiverID); err != nil {
			return nil, wrapLookup(err, "receiver")
		}
		receiverID = input.ReceiverID
	} else {
		admin, err := s.admins.EnsureAdmin(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve admin: %w", err)
		}
		receiverID = admin.ID
	}

	message := &models.ChatMessage{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    text,
	}
	if input.OrderID != "" {
		orderID := input.OrderID
		message.OrderID = &orderID
	}
	if err := s.repos.Chat.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	stored, err := s.repos.Chat.GetByID(ctx, message.ID)
	if err != nil {
		return nil, wrapLookup(err, "message")
	}
	if s.pusher != nil && !s.pusher.Send(receiverID, realtime.NewMessage(stored)) {
		slog.Debug("receiver not connected, message push skipped", "message_id", stored.ID)
	}
	return stored, nil
}

// mailbox is the account a user chats as. Every admin shares the support
// account customers write to.
func (s *chatService) mailbox(ctx context.Context, user *models.User) (string, error) {
	if !user.IsAdmin() {
		return user.ID, nil
	}
	admin, err := s.admins.EnsureAdmin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve admin: %w", err)
	}
	return admin.ID, nil
}

// Messages returns a conversation in send order. Customers get their thread
// with the admin; admins pick the customer.
func (s *chatService) Messages(ctx context.Context, requester *models.User, customerID string) ([]models.ChatMessage, error) {
	if requester.IsAdmin() && customerID == "" {
		return nil, validationError("customerId is required")
	}
	support, err := s.admins.EnsureAdmin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve admin: %w", err)
	}
	if requester.IsAdmin() {
		return s.repos.Chat.GetConversation(ctx, support.ID, customerID)
	}
	return s.repos.Chat.GetConversation(ctx, requester.ID, support.ID)
}

func (s *chatService) Customers(ctx context.Context, admin *models.User) ([]repository.ChatCustomer, error) {
	supportID, err := s.mailbox(ctx, admin)
	if err != nil {
		return nil, err
	}
	return s.repos.Chat.ListCustomers(ctx, supportID)
}

func (s *chatService) MarkRead(ctx context.Context, requester *models.User, senderID string) (int64, error) {
	receiverID, err := s.mailbox(ctx, requester)
	if err != nil {
		return 0, err
	}
	return s.repos.Chat.MarkRead(ctx, receiverID, senderID)
}

func (s *chatService) Edit(ctx context.Context, requester *models.User, messageID, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validationError("message is required")
	}
	message, err := s.repos.Chat.GetByID(ctx, messageID)
	if err != nil {
		return nil, wrapLookup(err, "message")
	}
	senderID, err := s.mailbox(ctx, requester)
	if err != nil {
		return nil, err
	}
	if message.SenderID != senderID {
		return nil, fmt.Errorf("%w: only the sender can edit a message", ErrForbidden)
	}
	if message.IsDeleted {
		return nil, validationError("deleted messages cannot be edited")
	}

	editedAt := s.now()
	if err := s.repos.Chat.UpdateMessage(ctx, message.ID, text, editedAt); err != nil {
		return nil, fmt.Errorf("failed to edit message: %w", err)
	}
	message.Message = text
	message.IsEdited = true
	message.EditedAt = &editedAt
	return message, nil
}

// Delete flags a message as deleted. The row stays for audit and clients
// render a placeholder in its place.
func (s *chatService) Delete(ctx context.Context, requester *models.User, messageID string) (*models.ChatMessage, error) {
	message, err := s.repos.Chat.GetByID(ctx, messageID)
	if err != nil {
		return nil, wrapLookup(err, "message")
	}
	if message.SenderID != requester.ID && !requester.IsAdmin() {
		return nil, fmt.Errorf("%w: only the sender can delete a message", ErrForbidden)
	}
	if message.IsDeleted {
		return message, nil
	}

	deletedAt := s.now()
	if err := s.repos.Chat.SoftDelete(ctx, message.ID, deletedAt); err != nil {
		return nil, fmt.Errorf("failed to delete message: %w", err)
	}
	message.IsDeleted = true
	message.DeletedAt = &deletedAt
	return message, nil
}

// Unsend removes a message entirely. Only the sender may do it, and only
// within the unsend window after sending.
func (s *chatService) Unsend(ctx context.Context, requester *models.User, messageID string) error {
	message, err := s.repos.Chat.GetByID(ctx, messageID)
	if err != nil {
		return wrapLookup(err, "message")
	}
	senderID, err := s.mailbox(ctx, requester)
	if err != nil {
		return err
	}
	if message.SenderID != senderID {
		return fmt.Errorf("%w: only the sender can unsend a message", ErrForbidden)
	}
	if s.now().Sub(message.CreatedAt) > s.unsendWindow {
		return fmt.Errorf("%w: messages can only be unsent within %s", ErrForbidden, s.unsendWindow)
	}
	if err := s.repos.Chat.HardDelete(ctx, message.ID); err != nil {
		return fmt.Errorf("failed to unsend message: %w", err)
	}
	return nil
}
