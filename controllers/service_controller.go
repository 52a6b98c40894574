package controllers

import (
	"market/dto"
	"market/response"
	"market/services"

	"github.com/gin-gonic/gin"
)

type ServiceController struct {
	catalog *services.CatalogService
	reviews *services.ReviewService
}

func NewServiceController(catalog *services.CatalogService, reviews *services.ReviewService) *ServiceController {
	return &ServiceController{catalog: catalog, reviews: reviews}
}

func (ctrl *ServiceController) List(c *gin.Context) {
	var filter dto.ServiceFilter
	if !bindQuery(c, &filter) {
		return
	}
	list, total, err := ctrl.catalog.List(c.Request.Context(), actor(c), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	filter.Normalize()
	response.SuccessWithPagination(c, list, filter.Page, filter.Limit, int(total))
}

func (ctrl *ServiceController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	svc, err := ctrl.catalog.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, svc)
}

func (ctrl *ServiceController) Create(c *gin.Context) {
	var req dto.CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	svc, err := ctrl.catalog.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, svc)
}

func (ctrl *ServiceController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	svc, err := ctrl.catalog.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, svc)
}

func (ctrl *ServiceController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.catalog.Delete(c.Request.Context(), actor(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}

func (ctrl *ServiceController) ListReviews(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var page dto.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	list, total, err := ctrl.reviews.ListByService(c.Request.Context(), id, page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	page.Normalize()
	response.SuccessWithPagination(c, list, page.Page, page.Limit, int(total))
}

func (ctrl *ServiceController) CreateReview(c *gin.Context) {
	var req dto.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := ctrl.reviews.Create(c.Request.Context(), actor(c).ID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, review)
}

func (ctrl *ServiceController) UpdateReview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := ctrl.reviews.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, review)
}

func (ctrl *ServiceController) DeleteReview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.reviews.Delete(c.Request.Context(), actor(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}
