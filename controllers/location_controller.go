package controllers

import (
	"market/response"
	"market/services"

	"github.com/gin-gonic/gin"
)

type LocationController struct {
	locations *services.LocationService
}

func NewLocationController(locations *services.LocationService) *LocationController {
	return &LocationController{locations: locations}
}

func (ctrl *LocationController) Provinces(c *gin.Context) {
	list, err := ctrl.locations.Provinces(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, list)
}

func (ctrl *LocationController) Districts(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	list, err := ctrl.locations.Districts(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, list)
}

func (ctrl *LocationController) Wards(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	list, err := ctrl.locations.Wards(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, list)
}
