package controllers

import (
	"market/dto"
	"market/response"
	"market/services"

	"github.com/gin-gonic/gin"
)

type DiscountController struct {
	discounts *services.DiscountService
	interests *services.InterestService
	promos    *services.PromoCodeService
}

func NewDiscountController(discounts *services.DiscountService, interests *services.InterestService, promos *services.PromoCodeService) *DiscountController {
	return &DiscountController{discounts: discounts, interests: interests, promos: promos}
}

func (ctrl *DiscountController) List(c *gin.Context) {
	var filter dto.DiscountFilter
	if !bindQuery(c, &filter) {
		return
	}
	list, total, err := ctrl.discounts.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	filter.Normalize()
	response.SuccessWithPagination(c, list, filter.Page, filter.Limit, int(total))
}

func (ctrl *DiscountController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	d, err := ctrl.discounts.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, d)
}

func (ctrl *DiscountController) Create(c *gin.Context) {
	var req dto.CreateDiscountRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := ctrl.discounts.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, d)
}

func (ctrl *DiscountController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateDiscountRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := ctrl.discounts.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, d)
}

func (ctrl *DiscountController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.discounts.Delete(c.Request.Context(), actor(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}

// AddInterest đăng ký quan tâm discount
func (ctrl *DiscountController) AddInterest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	interest, err := ctrl.interests.AddInterest(c.Request.Context(), actor(c).ID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, interest)
}

func (ctrl *DiscountController) RemoveInterest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.interests.RemoveInterest(c.Request.Context(), actor(c).ID, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}

func (ctrl *DiscountController) ListMyInterests(c *gin.Context) {
	list, err := ctrl.interests.ListMyInterests(c.Request.Context(), actor(c).ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, list)
}

func (ctrl *DiscountController) ListDiscountInterests(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	list, err := ctrl.interests.ListDiscountInterests(c.Request.Context(), actor(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, list)
}

func (ctrl *DiscountController) RequestBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.InterestBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	interest, err := ctrl.interests.RequestBooking(c.Request.Context(), actor(c).ID, id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, interest)
}

func (ctrl *DiscountController) UpdateBookingStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.InterestBookingDecision
	if !bindJSON(c, &req) {
		return
	}
	interest, err := ctrl.interests.UpdateBookingStatus(c.Request.Context(), actor(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, interest)
}

func (ctrl *DiscountController) ListMyPromoCodes(c *gin.Context) {
	codes, err := ctrl.promos.ListMine(c.Request.Context(), actor(c).ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, codes)
}
