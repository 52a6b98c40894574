package controllers

import (
	"market/response"
	"market/services/logger"
	"market/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

type WSController struct {
	melody *melody.Melody
	logger logger.Logger
}

// NewWSController registers the connect/disconnect hooks on m.
func NewWSController(m *melody.Melody, log logger.Logger) *WSController {
	m.HandleConnect(func(s *melody.Session) {
		id, _ := s.Get(notification.SessionUserKey)
		log.Debug("🔌 ws connected user %v", id)
	})
	m.HandleDisconnect(func(s *melody.Session) {
		id, _ := s.Get(notification.SessionUserKey)
		log.Debug("🔌 ws disconnected user %v", id)
	})
	return &WSController{melody: m, logger: log}
}

// Connect upgrades the request; the session is tagged with the user id so
// pushes reach only that user.
func (ctrl *WSController) Connect(c *gin.Context) {
	keys := map[string]interface{}{notification.SessionUserKey: actor(c).ID}
	if err := ctrl.melody.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		ctrl.logger.Warn("⚠️ ws upgrade: %v", err)
		if !c.Writer.Written() {
			response.BadRequest(c, "websocket upgrade failed")
		}
	}
}
