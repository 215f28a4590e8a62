package handlers

import (
	"net/http"

	"gasflow/internal/services"

	"github.com/gin-gonic/gin"
)

// GetMessages returns the requester's thread with the admin. Admins pass
// ?customerId= to read a customer's thread.
func (h *APIHandler) GetMessages(c *gin.Context) {
	messages, err := h.chat.Messages(c.Request.Context(), currentUser(c), c.Query("customerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *APIHandler) GetConversation(c *gin.Context) {
	messages, err := h.chat.Messages(c.Request.Context(), currentUser(c), c.Param("customerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *APIHandler) ListChatCustomers(c *gin.Context) {
	customers, err := h.chat.Customers(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *APIHandler) SendMessage(c *gin.Context) {
	var req struct {
		ReceiverID string `json:"receiverId"`
		OrderID    string `json:"orderId"`
		Message    string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	message, err := h.chat.Send(c.Request.Context(), currentUser(c), services.SendMessageInput{
		ReceiverID: req.ReceiverID,
		OrderID:    req.OrderID,
		Message:    req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *APIHandler) MarkMessagesRead(c *gin.Context) {
	var req struct {
		SenderID string `json:"senderId"`
	}
	// the body is optional
	_ = c.ShouldBindJSON(&req)

	updated, err := h.chat.MarkRead(c.Request.Context(), currentUser(c), req.SenderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *APIHandler) EditMessage(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	message, err := h.chat.Edit(c.Request.Context(), currentUser(c), c.Param("id"), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

func (h *APIHandler) DeleteMessage(c *gin.Context) {
	message, err := h.chat.Delete(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

func (h *APIHandler) UnsendMessage(c *gin.Context) {
	if err := h.chat.Unsend(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message unsent"})
}
