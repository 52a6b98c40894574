package dto

import (
	"time"

	"market/models"
)

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required,max=4000"`
}

// MessageQuery polls a conversation; AfterID returns only newer messages.
type MessageQuery struct {
	AfterID uint `form:"afterId"`
	Limit   int  `form:"limit"`
}

type Conversation struct {
	Partner     *models.User    `json:"partner"`
	LastMessage *models.Message `json:"lastMessage"`
	Unread      int             `json:"unread"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
