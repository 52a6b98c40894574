package controllers

import (
	"market/dto"
	"market/response"
	"market/services"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{chat: chat}
}

func (ctrl *ChatController) Send(c *gin.Context) {
	var req dto.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := ctrl.chat.Send(c.Request.Context(), actor(c).ID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, msg)
}

func (ctrl *ChatController) Conversations(c *gin.Context) {
	list, err := ctrl.chat.Conversations(c.Request.Context(), actor(c).ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, list)
}

// Messages là tin nhắn với một user, ?afterId= để poll tin mới
func (ctrl *ChatController) Messages(c *gin.Context) {
	partnerID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	var q dto.MessageQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := ctrl.chat.ListMessages(c.Request.Context(), actor(c).ID, partnerID, q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, list)
}

func (ctrl *ChatController) MarkRead(c *gin.Context) {
	partnerID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	n, err := ctrl.chat.MarkRead(c.Request.Context(), actor(c).ID, partnerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"updated": n})
}
