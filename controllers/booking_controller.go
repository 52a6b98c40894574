package controllers

import (
	"market/dto"
	"market/response"
	"market/services"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{bookings: bookings}
}

func (ctrl *BookingController) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := ctrl.bookings.Create(c.Request.Context(), actor(c).ID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, b)
}

// List trả về booking theo vai trò của user hiện tại
func (ctrl *BookingController) List(c *gin.Context) {
	var filter dto.BookingFilter
	if !bindQuery(c, &filter) {
		return
	}
	list, total, err := ctrl.bookings.List(c.Request.Context(), actor(c), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	filter.Normalize()
	response.SuccessWithPagination(c, list, filter.Page, filter.Limit, int(total))
}

func (ctrl *BookingController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b, err := ctrl.bookings.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, b)
}

func (ctrl *BookingController) ChangeStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.BookingStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := ctrl.bookings.ChangeStatus(c.Request.Context(), actor(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, b)
}

func (ctrl *BookingController) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b, err := ctrl.bookings.Cancel(c.Request.Context(), actor(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, b)
}
