package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendlog/internal/errors"
	"spendlog/internal/services"
)

// MessageHandler handles free-form chat messages.
type MessageHandler struct {
	messageService services.MessageServicer
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService services.MessageServicer) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// MessageRequest represents an inbound chat message
type MessageRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// Handle routes a chat message to expense extraction or a spending report
// @Summary     Send a message
// @Description Treat the message as an expense when it looks like one, otherwise as a question
// @Tags        messages
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body MessageRequest true "Message"
// @Success     200 {object} services.Reply "Routed reply"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /messages [post]
func (h *MessageHandler) Handle(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	reply, err := h.messageService.Handle(c.Request.Context(), req.Text)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}
