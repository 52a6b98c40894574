package controllers

import (
	"errors"
	"net/http"

	"market/commands"
	"market/dto"
	"market/response"
	"market/services"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	users *services.UserService
	jobs  *commands.Registry
}

func NewAdminController(users *services.UserService, jobs *commands.Registry) *AdminController {
	return &AdminController{users: users, jobs: jobs}
}

func (ctrl *AdminController) ListUsers(c *gin.Context) {
	var filter dto.UserFilter
	if !bindQuery(c, &filter) {
		return
	}
	list, total, err := ctrl.users.ListUsers(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	filter.Normalize()
	response.SuccessWithPagination(c, list, filter.Page, filter.Limit, int(total))
}

// ChangeUserStatus khóa hoặc mở khóa user
func (ctrl *AdminController) ChangeUserStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ChangeUserStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := ctrl.users.ChangeUserStatus(c.Request.Context(), actor(c), id, *req.Status); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}

// RunJob chạy thủ công một job theo tên
func (ctrl *AdminController) RunJob(c *gin.Context) {
	result, err := ctrl.jobs.Run(c.Request.Context(), c.Param("name"))
	switch {
	case errors.Is(err, commands.ErrUnknownJob):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, commands.ErrJobRunning):
		response.Conflict(c, err.Error())
	case err != nil:
		response.FromError(c, err)
	default:
		response.Success(c, result)
	}
}
