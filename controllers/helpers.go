package controllers

import (
	"strconv"

	apperrors "market/errors"
	"market/middleware"
	"market/response"
	"market/services"
	"market/validator"

	"github.com/gin-gonic/gin"
)

// actor lấy user hiện tại từ context do AuthMiddleware set. Public routes get
// the zero Actor.
func actor(c *gin.Context) services.Actor {
	var a services.Actor
	if id, ok := c.Get(middleware.ContextUserID); ok {
		a.ID, _ = id.(uint)
	}
	if role, ok := c.Get(middleware.ContextUserRole); ok {
		a.Role, _ = role.(int)
	}
	return a
}

// paramID đọc :name là số dương, answering 400 otherwise.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.FromError(c, apperrors.NewValidationError(map[string]string{name: "must be a positive integer"}))
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.FromError(c, validator.BindingError(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.FromError(c, validator.BindingError(err))
		return false
	}
	return true
}
