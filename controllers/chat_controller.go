package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathacharan30/nutricompare-atme/apperrors"
	"github.com/mathacharan30/nutricompare-atme/middlewares"
	"github.com/mathacharan30/nutricompare-atme/services"
)

type ChatController struct {
	Svc *services.ChatService
}

func NewChatController(svc *services.ChatService) *ChatController {
	return &ChatController{Svc: svc}
}

// POST /api/chat/sessions
func (h *ChatController) StartSession(c *gin.Context) {
	out, err := h.Svc.StartSession(c.Request.Context(), localeTag(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

type sendRequest struct {
	Message string `json:"message" binding:"required"`
}

// POST /api/chat/messages
func (h *ChatController) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ParseValidationErrors(err))
		return
	}

	reply, err := h.Svc.Send(c.Request.Context(), c.GetString(middlewares.SessionIDKey), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// GET /api/chat/messages
func (h *ChatController) History(c *gin.Context) {
	msgs, err := h.Svc.History(c.Request.Context(), c.GetString(middlewares.SessionIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// DELETE /api/chat/sessions
func (h *ChatController) EndSession(c *gin.Context) {
	if err := h.Svc.EndSession(c.Request.Context(), c.GetString(middlewares.SessionIDKey)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
